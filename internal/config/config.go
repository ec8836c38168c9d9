package config

import (
	"fmt"
	"time"
)

const maxReportLastTransactionsLimit = 100

type Config struct {
	Env                         string
	HTTPAddr                    string
	HTTPShutdownTimeout         time.Duration
	DatabaseURL                 string
	GoogleCloudProjectID        string
	GoogleCloudCredentialsJSON  string
	GoogleCloudSpeechLocation   string
	GoogleCloudSpeechModel      string
	DefaultTranscribeLanguage   string
	GeminiAPIKey                string
	GeminiModel                 string
	ExtractionAllowPurchase     bool
	MaxAudioBytes               int64
	AudioArchiveBucket          string
	ReportTimezone              string
	ReportLastTransactionsLimit int
	TransactionWebhookURL       string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.MaxAudioBytes <= 0 {
		return fmt.Errorf("MAX_AUDIO_BYTES must be positive, got %d", c.MaxAudioBytes)
	}
	if c.HTTPShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive, got %s", c.HTTPShutdownTimeout)
	}
	if c.ReportLastTransactionsLimit <= 0 || c.ReportLastTransactionsLimit > maxReportLastTransactionsLimit {
		return fmt.Errorf("REPORT_LAST_TRANSACTIONS_LIMIT must be between 1 and %d, got %d", maxReportLastTransactionsLimit, c.ReportLastTransactionsLimit)
	}
	if _, err := time.LoadLocation(c.ReportTimezone); err != nil {
		return fmt.Errorf("REPORT_TIMEZONE is invalid: %w", err)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "HTTP_ADDR", value: c.HTTPAddr},
		{name: "DATABASE_URL", value: c.DatabaseURL},
		{name: "GOOGLE_CLOUD_PROJECT_ID", value: c.GoogleCloudProjectID},
		{name: "GOOGLE_CLOUD_CREDENTIALS_JSON", value: c.GoogleCloudCredentialsJSON},
		{name: "DEFAULT_TRANSCRIBE_LANGUAGE", value: c.DefaultTranscribeLanguage},
		{name: "GEMINI_API_KEY", value: c.GeminiAPIKey},
		{name: "GEMINI_MODEL", value: c.GeminiModel},
		{name: "REPORT_TIMEZONE", value: c.ReportTimezone},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ReportLocation returns the location reports bucket their days in.
// Validate has already rejected unknown zones, so failure falls back to UTC.
func (c *Config) ReportLocation() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
