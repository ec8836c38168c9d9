package extractor

import (
	"context"

	"github.com/foxseedlab/kasirsuara/internal/config"
	"github.com/foxseedlab/kasirsuara/internal/extractor"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (extractor.Extractor, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewGeminiExtractor(context.Background(), GeminiConfig{
			APIKey:        c.GeminiAPIKey,
			Model:         c.GeminiModel,
			AllowPurchase: c.ExtractionAllowPurchase,
		})
	})
}
