package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/foxseedlab/kasirsuara/internal/archive"
	"github.com/foxseedlab/kasirsuara/internal/domain"
	"github.com/foxseedlab/kasirsuara/internal/metrics"
	"github.com/foxseedlab/kasirsuara/internal/transcriber"
	"github.com/foxseedlab/kasirsuara/internal/webhook"
	"github.com/google/uuid"
)

const webhookTimeout = 5 * time.Second

// AudioDraft is a draft generated from a recorded utterance.
type AudioDraft struct {
	Draft      *domain.Draft
	Transcript string
	AudioURI   string
}

// Orchestrator sequences the pipeline stages. It holds no per-request
// state and is safe for concurrent use.
type Orchestrator struct {
	transcriber transcriber.Transcriber
	catalog     *CatalogResolver
	extractor   *DraftExtractor
	committer   *TransactionCommitter
	archiver    archive.AudioArchiver
	webhook     webhook.Sender
	metrics     *metrics.Metrics
	now         func() time.Time
	newID       func() string
}

type OrchestratorDeps struct {
	Transcriber transcriber.Transcriber
	Catalog     *CatalogResolver
	Extractor   *DraftExtractor
	Committer   *TransactionCommitter
	Archiver    archive.AudioArchiver
	Webhook     webhook.Sender
	Metrics     *metrics.Metrics
}

func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	return &Orchestrator{
		transcriber: deps.Transcriber,
		catalog:     deps.Catalog,
		extractor:   deps.Extractor,
		committer:   deps.Committer,
		archiver:    deps.Archiver,
		webhook:     deps.Webhook,
		metrics:     deps.Metrics,
		now:         time.Now,
		newID:       func() string { return uuid.NewString() },
	}
}

// Transcribe runs only the speech stage.
func (o *Orchestrator) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", stageErr(StageTranscribe, invalidInput("audio is empty"))
	}
	started := o.now()
	transcript, err := o.transcriber.Transcribe(ctx, audio)
	if err != nil {
		err = externalCapability("speech to text", err)
	}
	o.metrics.ObserveStage(string(StageTranscribe), started, err)
	if err != nil {
		return "", stageErr(StageTranscribe, err)
	}
	return strings.TrimSpace(transcript), nil
}

// GenerateDraftFromAudio transcribes audio and builds a draft from it.
// Nothing is persisted apart from the optional audio archive copy.
func (o *Orchestrator) GenerateDraftFromAudio(ctx context.Context, merchantID int64, audio []byte) (*AudioDraft, error) {
	if merchantID <= 0 {
		return nil, stageErr(StagePrepare, invalidInput("umkm_id must be positive"))
	}
	transcript, err := o.Transcribe(ctx, audio)
	if err != nil {
		return nil, err
	}
	draftID := o.newID()
	audioURI := o.archiveAudio(ctx, merchantID, draftID, audio)

	draft, err := o.generateDraft(ctx, draftID, merchantID, transcript)
	if err != nil {
		return nil, err
	}
	return &AudioDraft{Draft: draft, Transcript: transcript, AudioURI: audioURI}, nil
}

// GenerateDraft resolves the catalog, prepares the request and extracts
// a validated draft. The draft is a preview and is never persisted.
func (o *Orchestrator) GenerateDraft(ctx context.Context, merchantID int64, transcript string) (*domain.Draft, error) {
	return o.generateDraft(ctx, o.newID(), merchantID, transcript)
}

func (o *Orchestrator) generateDraft(ctx context.Context, draftID string, merchantID int64, transcript string) (*domain.Draft, error) {
	if merchantID <= 0 {
		return nil, stageErr(StagePrepare, invalidInput("umkm_id must be positive"))
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, stageErr(StagePrepare, invalidInput("transcript is empty"))
	}
	log := slog.With("draft_id", draftID, "merchant_id", merchantID)

	started := o.now()
	catalog, err := o.catalog.Resolve(ctx, merchantID)
	o.metrics.ObserveStage(string(StageResolveCatalog), started, err)
	if err != nil {
		log.Error("failed to resolve catalog", "error", err)
		return nil, stageErr(StageResolveCatalog, err)
	}
	log.Debug("catalog resolved", "products", len(catalog))

	req, err := PrepareTranscript(merchantID, transcript, catalog)
	if err != nil {
		return nil, stageErr(StagePrepare, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, stageErr(StagePrepare, fmt.Errorf("request abandoned: %w", err))
	}

	started = o.now()
	draft, err := o.extractor.Extract(ctx, req)
	o.metrics.ObserveStage(string(StageExtract), started, err)
	if err != nil {
		log.Warn("draft extraction failed", "error", err)
		return nil, stageErr(StageExtract, err)
	}
	draft.DraftID = draftID
	log.Info("draft generated", "transaction_type", draft.TransactionType, "items", len(draft.Items))
	return draft, nil
}

// Confirm commits a confirmed draft. On failure nothing is persisted.
func (o *Orchestrator) Confirm(ctx context.Context, req domain.ConfirmRequest) (domain.CommitResult, error) {
	started := o.now()
	result, err := o.committer.Commit(ctx, req)
	o.metrics.ObserveStage(string(StageCommit), started, err)
	o.metrics.CountCommit(string(req.TransactionType), err)
	if err != nil {
		return domain.CommitResult{}, stageErr(StageCommit, err)
	}
	o.notifyCommitted(ctx, req, result)
	return result, nil
}

func (o *Orchestrator) archiveAudio(ctx context.Context, merchantID int64, draftID string, audio []byte) string {
	if o.archiver == nil {
		return ""
	}
	key := fmt.Sprintf("umkm-%d/%s/%s.webm", merchantID, o.now().UTC().Format("2006/01/02"), draftID)
	uri, err := o.archiver.StoreAudio(ctx, key, audio)
	if err != nil {
		slog.Error("failed to archive audio", "error", err, "draft_id", draftID, "merchant_id", merchantID)
		return ""
	}
	return uri
}

func (o *Orchestrator) notifyCommitted(ctx context.Context, req domain.ConfirmRequest, result domain.CommitResult) {
	if o.webhook == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), webhookTimeout)
	defer cancel()
	if err := o.webhook.SendTransactionCommitted(ctx, webhook.TransactionCommittedPayload{
		Event:           "transaction.committed",
		TransactionID:   result.TransactionID,
		MerchantID:      req.MerchantID,
		TransactionType: result.TransactionType,
		TotalAmount:     result.TotalAmount,
		Transcript:      result.Transcript,
		Items:           req.Items,
		CommittedAt:     o.now().UTC(),
	}); err != nil {
		slog.Error("failed to send transaction webhook", "error", err, "transaction_id", result.TransactionID)
	}
}
