package transcriber

import "context"

// Transcriber converts one encoded audio clip into text. A failure is
// fatal to the request; no partial transcript is returned.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
