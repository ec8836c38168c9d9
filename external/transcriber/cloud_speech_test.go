package transcriber

import (
	"context"
	"errors"
	"testing"

	speechpb "cloud.google.com/go/speech/apiv2/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type mockRecognizer struct {
	resp    *speechpb.RecognizeResponse
	err     error
	lastReq *speechpb.RecognizeRequest
}

func (m *mockRecognizer) Recognize(_ context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
	m.lastReq = req
	return m.resp, m.err
}

func result(texts ...string) *speechpb.SpeechRecognitionResult {
	alts := make([]*speechpb.SpeechRecognitionAlternative, 0, len(texts))
	for _, text := range texts {
		alts = append(alts, &speechpb.SpeechRecognitionAlternative{Transcript: text})
	}
	return &speechpb.SpeechRecognitionResult{Alternatives: alts}
}

func TestTranscribe_JoinsFirstAlternatives(t *testing.T) {
	rec := &mockRecognizer{resp: &speechpb.RecognizeResponse{Results: []*speechpb.SpeechRecognitionResult{
		result("beli kopi dua", "beli kopi duo"),
		{},
		result(" sama teh satu "),
	}}}
	tr := newCloudSpeechTranscriber(rec.Recognize, nil, "project-1", "global", "id-ID", "long")

	got, err := tr.Transcribe(context.Background(), []byte("audio"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "beli kopi dua sama teh satu" {
		t.Fatalf("unexpected transcript: %q", got)
	}

	req := rec.lastReq
	if req.GetRecognizer() != "projects/project-1/locations/global/recognizers/_" {
		t.Fatalf("unexpected recognizer: %s", req.GetRecognizer())
	}
	if langs := req.GetConfig().GetLanguageCodes(); len(langs) != 1 || langs[0] != "id-ID" {
		t.Fatalf("unexpected language codes: %v", langs)
	}
	if req.GetConfig().GetAutoDecodingConfig() == nil {
		t.Fatal("expected auto decoding config")
	}
	if string(req.GetContent()) != "audio" {
		t.Fatalf("unexpected audio content: %q", req.GetContent())
	}
}

func TestTranscribe_NoResults(t *testing.T) {
	tr := newCloudSpeechTranscriber((&mockRecognizer{resp: &speechpb.RecognizeResponse{}}).Recognize, nil, "p", "global", "id-ID", "long")

	got, err := tr.Transcribe(context.Background(), []byte("audio"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty transcript, got %q", got)
	}
}

func TestTranscribe_Error(t *testing.T) {
	rpcErr := status.Error(codes.InvalidArgument, "audio too long")
	tr := newCloudSpeechTranscriber((&mockRecognizer{err: rpcErr}).Recognize, nil, "p", "global", "id-ID", "long")

	if _, err := tr.Transcribe(context.Background(), []byte("audio")); !errors.Is(err, rpcErr) {
		t.Fatalf("expected wrapped rpc error, got %v", err)
	}
}
