package archive

import (
	"context"
	"testing"
)

func TestNopArchiver(t *testing.T) {
	uri, err := NopArchiver{}.StoreAudio(context.Background(), "umkm-1/a.webm", []byte("audio"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if uri != "" {
		t.Fatalf("expected empty location, got %q", uri)
	}
}

func TestGCSURI(t *testing.T) {
	if got := gcsURI("voice-bucket", "umkm-1/2026/01/02/abc.webm"); got != "gs://voice-bucket/umkm-1/2026/01/02/abc.webm" {
		t.Fatalf("unexpected uri: %s", got)
	}
}
