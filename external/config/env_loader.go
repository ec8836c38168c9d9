package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/kasirsuara/internal/config"
)

type envConfig struct {
	Env                         string        `env:"ENV" envDefault:"production"`
	HTTPAddr                    string        `env:"HTTP_ADDR" envDefault:":8080"`
	HTTPShutdownTimeout         time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	DatabaseURL                 string        `env:"DATABASE_URL,required"`
	GoogleCloudProjectID        string        `env:"GOOGLE_CLOUD_PROJECT_ID,required"`
	GoogleCloudCredentialsJSON  string        `env:"GOOGLE_CLOUD_CREDENTIALS_JSON,required"`
	GoogleCloudSpeechLocation   string        `env:"GOOGLE_CLOUD_SPEECH_LOCATION" envDefault:"global"`
	GoogleCloudSpeechModel      string        `env:"GOOGLE_CLOUD_SPEECH_MODEL" envDefault:"long"`
	DefaultTranscribeLanguage   string        `env:"DEFAULT_TRANSCRIBE_LANGUAGE" envDefault:"id-ID"`
	GeminiAPIKey                string        `env:"GEMINI_API_KEY,required"`
	GeminiModel                 string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	ExtractionAllowPurchase     bool          `env:"EXTRACTION_ALLOW_PURCHASE" envDefault:"false"`
	MaxAudioBytes               int64         `env:"MAX_AUDIO_BYTES" envDefault:"10485760"`
	AudioArchiveBucket          string        `env:"AUDIO_ARCHIVE_BUCKET"`
	ReportTimezone              string        `env:"REPORT_TIMEZONE" envDefault:"Asia/Jakarta"`
	ReportLastTransactionsLimit int           `env:"REPORT_LAST_TRANSACTIONS_LIMIT" envDefault:"5"`
	TransactionWebhookURL       string        `env:"TRANSACTION_WEBHOOK_URL"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                         raw.Env,
		HTTPAddr:                    raw.HTTPAddr,
		HTTPShutdownTimeout:         raw.HTTPShutdownTimeout,
		DatabaseURL:                 raw.DatabaseURL,
		GoogleCloudProjectID:        raw.GoogleCloudProjectID,
		GoogleCloudCredentialsJSON:  raw.GoogleCloudCredentialsJSON,
		GoogleCloudSpeechLocation:   raw.GoogleCloudSpeechLocation,
		GoogleCloudSpeechModel:      raw.GoogleCloudSpeechModel,
		DefaultTranscribeLanguage:   raw.DefaultTranscribeLanguage,
		GeminiAPIKey:                raw.GeminiAPIKey,
		GeminiModel:                 raw.GeminiModel,
		ExtractionAllowPurchase:     raw.ExtractionAllowPurchase,
		MaxAudioBytes:               raw.MaxAudioBytes,
		AudioArchiveBucket:          raw.AudioArchiveBucket,
		ReportTimezone:              raw.ReportTimezone,
		ReportLastTransactionsLimit: raw.ReportLastTransactionsLimit,
		TransactionWebhookURL:       raw.TransactionWebhookURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
