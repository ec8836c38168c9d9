package httpapi

import (
	"github.com/foxseedlab/kasirsuara/internal/config"
	"github.com/foxseedlab/kasirsuara/internal/metrics"
	"github.com/foxseedlab/kasirsuara/internal/pipeline"
	"github.com/foxseedlab/kasirsuara/internal/report"
	"github.com/foxseedlab/kasirsuara/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewServer(ServerDeps{
			Drafts:        do.MustInvoke[*pipeline.Orchestrator](i),
			Reports:       do.MustInvoke[*report.Service](i),
			Health:        do.MustInvoke[repository.HealthChecker](i),
			Metrics:       do.MustInvoke[*metrics.Metrics](i),
			Gatherer:      do.MustInvoke[*prometheus.Registry](i),
			MaxAudioBytes: cfg.MaxAudioBytes,
		}), nil
	})
}
