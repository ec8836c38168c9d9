package archive

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/auth/credentials"
	"cloud.google.com/go/storage"
	"github.com/foxseedlab/kasirsuara/internal/archive"
	"github.com/foxseedlab/kasirsuara/internal/config"
	"github.com/samber/do/v2"
	"google.golang.org/api/option"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (archive.AudioArchiver, error) {
		c := do.MustInvoke[*config.Config](i)
		if c.AudioArchiveBucket == "" {
			slog.Info("audio archive disabled")
			return NopArchiver{}, nil
		}
		creds, err := credentials.DetectDefault(&credentials.DetectOptions{
			CredentialsJSON: []byte(c.GoogleCloudCredentialsJSON),
			Scopes:          []string{"https://www.googleapis.com/auth/devstorage.read_write"},
		})
		if err != nil {
			return nil, fmt.Errorf("detect credentials: %w", err)
		}
		client, err := storage.NewClient(context.Background(), option.WithAuthCredentials(creds))
		if err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		return NewGCSArchiver(client, c.AudioArchiveBucket), nil
	})
}
