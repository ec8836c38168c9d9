package pipeline

import (
	"github.com/foxseedlab/kasirsuara/internal/archive"
	"github.com/foxseedlab/kasirsuara/internal/config"
	"github.com/foxseedlab/kasirsuara/internal/extractor"
	"github.com/foxseedlab/kasirsuara/internal/metrics"
	"github.com/foxseedlab/kasirsuara/internal/repository"
	"github.com/foxseedlab/kasirsuara/internal/transcriber"
	"github.com/foxseedlab/kasirsuara/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Orchestrator, error) {
		cfg := do.MustInvoke[*config.Config](i)
		catalogRepo := do.MustInvoke[repository.CatalogRepository](i)
		uow := do.MustInvoke[repository.UnitOfWork](i)
		stt := do.MustInvoke[transcriber.Transcriber](i)
		ex := do.MustInvoke[extractor.Extractor](i)
		archiver := do.MustInvoke[archive.AudioArchiver](i)
		wh := do.MustInvoke[webhook.Sender](i)
		m := do.MustInvoke[*metrics.Metrics](i)
		return NewOrchestrator(OrchestratorDeps{
			Transcriber: stt,
			Catalog:     NewCatalogResolver(catalogRepo),
			Extractor:   NewDraftExtractor(ex, DraftExtractorConfig{AllowPurchase: cfg.ExtractionAllowPurchase}),
			Committer:   NewTransactionCommitter(uow),
			Archiver:    archiver,
			Webhook:     wh,
			Metrics:     m,
		}), nil
	})
}
