package transcriber

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/auth/credentials"
	speech "cloud.google.com/go/speech/apiv2"
	speechpb "cloud.google.com/go/speech/apiv2/speechpb"
	"github.com/foxseedlab/kasirsuara/internal/transcriber"
	"google.golang.org/api/option"
	"google.golang.org/grpc/status"
)

const speechAPIEndpointPort = 443

type CloudSpeechConfig struct {
	ProjectID       string
	CredentialsJSON string
	Language        string
	Location        string
	Model           string
}

type recognizeFunc func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)

type CloudSpeechTranscriber struct {
	recognize  recognizeFunc
	closeFn    func() error
	recognizer string
	language   string
	model      string
}

func NewCloudSpeechTranscriber(ctx context.Context, cfg CloudSpeechConfig) (*CloudSpeechTranscriber, error) {
	location := strings.TrimSpace(cfg.Location)
	if location == "" {
		location = "global"
	}

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: []byte(cfg.CredentialsJSON),
		Scopes:          []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	if err != nil {
		return nil, fmt.Errorf("detect credentials: %w", err)
	}

	opts := []option.ClientOption{
		option.WithAuthCredentials(creds),
	}
	if location != "global" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-speech.googleapis.com:%d", location, speechAPIEndpointPort)))
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	recognize := func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		return client.Recognize(ctx, req)
	}
	return newCloudSpeechTranscriber(recognize, client.Close, cfg.ProjectID, location, cfg.Language, strings.TrimSpace(cfg.Model)), nil
}

func newCloudSpeechTranscriber(recognize recognizeFunc, closeFn func() error, projectID, location, language, model string) *CloudSpeechTranscriber {
	return &CloudSpeechTranscriber{
		recognize:  recognize,
		closeFn:    closeFn,
		recognizer: fmt.Sprintf("projects/%s/locations/%s/recognizers/_", projectID, location),
		language:   language,
		model:      model,
	}
}

// Transcribe sends one clip for synchronous recognition. The encoding
// (WebM/Opus from browsers, WAV, FLAC, ...) is auto-detected.
func (t *CloudSpeechTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	slog.Debug("cloud speech recognize", "audio_bytes", len(audio), "language", t.language, "model", t.model)
	resp, err := t.recognize(ctx, &speechpb.RecognizeRequest{
		Recognizer: t.recognizer,
		Config: &speechpb.RecognitionConfig{
			Model:         t.model,
			LanguageCodes: []string{t.language},
			DecodingConfig: &speechpb.RecognitionConfig_AutoDecodingConfig{
				AutoDecodingConfig: &speechpb.AutoDetectDecodingConfig{},
			},
			Features: &speechpb.RecognitionFeatures{EnableAutomaticPunctuation: false},
		},
		AudioSource: &speechpb.RecognizeRequest_Content{Content: audio},
	})
	if err != nil {
		if st, ok := status.FromError(err); ok {
			slog.Warn("cloud speech recognize failed", "code", st.Code().String(), "message", st.Message())
		}
		return "", fmt.Errorf("recognize: %w", err)
	}
	transcript := joinTranscript(resp)
	slog.Info("cloud speech transcript", "audio_bytes", len(audio), "chars", len(transcript))
	return transcript, nil
}

func (t *CloudSpeechTranscriber) Close() error {
	if t.closeFn == nil {
		return nil
	}
	return t.closeFn()
}

func joinTranscript(resp *speechpb.RecognizeResponse) string {
	parts := make([]string, 0, len(resp.GetResults()))
	for _, result := range resp.GetResults() {
		if len(result.GetAlternatives()) == 0 {
			continue
		}
		text := strings.TrimSpace(result.GetAlternatives()[0].GetTranscript())
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

var _ transcriber.Transcriber = (*CloudSpeechTranscriber)(nil)
