package archive

import "context"

type AudioArchiver interface {
	// StoreAudio persists an uploaded clip and returns its location.
	// An empty location means archiving is disabled.
	StoreAudio(ctx context.Context, key string, audio []byte) (string, error)
}
