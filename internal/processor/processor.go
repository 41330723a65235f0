// Package processor orchestrates the call pipeline: transcript in, customer
// record updated, next call's script pushed out.
package processor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/launchline/concierge/internal/checklist"
	"github.com/launchline/concierge/internal/config"
	"github.com/launchline/concierge/internal/events"
	"github.com/launchline/concierge/internal/extract"
	"github.com/launchline/concierge/internal/gaps"
	"github.com/launchline/concierge/internal/identity"
	"github.com/launchline/concierge/internal/metrics"
	"github.com/launchline/concierge/internal/prompt"
	"github.com/launchline/concierge/internal/stage"
	"github.com/launchline/concierge/internal/store"
	"github.com/launchline/concierge/internal/transcript"
	"github.com/launchline/concierge/internal/voice"
)

type Processor struct {
	store      *store.Store
	extractor  *extract.Extractor
	generator  *prompt.Generator
	voice      *voice.Client
	events     *events.Client
	resolver   *identity.Resolver
	catalog    *checklist.Catalog
	priorities *gaps.Table
	cfg        config.Config
	logger     *slog.Logger

	locks keyedMutex
}

// Result is the per-event processing summary echoed back in the webhook
// response. Success false still yields HTTP 200: the call already happened
// and a redelivery would not help.
type Result struct {
	Success         bool   `json:"success"`
	Action          string `json:"action,omitempty"`
	Stage           int    `json:"stage,omitempty"`
	FieldsExtracted int    `json:"fields_extracted,omitempty"`
	Error           string `json:"error,omitempty"`
}

func New(s *store.Store, ext *extract.Extractor, gen *prompt.Generator, vc *voice.Client, ev *events.Client, res *identity.Resolver, catalog *checklist.Catalog, priorities *gaps.Table, cfg config.Config, logger *slog.Logger) *Processor {
	return &Processor{
		store:      s,
		extractor:  ext,
		generator:  gen,
		voice:      vc,
		events:     ev,
		resolver:   res,
		catalog:    catalog,
		priorities: priorities,
		cfg:        cfg,
		logger:     logger,
	}
}

// HandleCallStart pre-computes and pushes a personalized script before the
// call gets going. Any failure degrades to the generic stage-1 script: a call
// may run with a stale or generic script, but never without one.
func (p *Processor) HandleCallStart(ctx context.Context, evt transcript.Event) Result {
	unlock := p.locks.lock(evt.Phone)
	defer unlock()

	st, targetStage := p.customerState(ctx, evt.Phone, evt.Email)
	script := p.generator.Build(st, targetStage)

	p.pushScript(ctx, evt.Phone, targetStage, script)
	if st.Found {
		if err := p.store.TouchPromptRefresh(ctx, evt.Phone); err != nil {
			p.logger.Warn("failed to stamp prompt refresh", "phone", evt.Phone, "error", err)
		}
	}

	return Result{Success: true, Action: "prompt_pushed", Stage: targetStage}
}

// HandleCallEnd runs the full pipeline for a completed call: extract fields,
// merge them into the record, advance the stage flag, store the raw
// transcript, and stage the next call's script.
func (p *Processor) HandleCallEnd(ctx context.Context, evt transcript.Event) Result {
	unlock := p.locks.lock(evt.Phone)
	defer unlock()

	cust, isNew, err := p.resolver.Resolve(ctx, evt.Phone, evt.Email)
	if err != nil {
		p.logger.Error("customer resolution failed", "phone", evt.Phone, "error", err)
		p.events.PublishError("resolve", evt.Phone, err)
		return Result{Success: false, Error: "customer resolution failed"}
	}

	callStage := p.cfg.StageForAssistant(evt.AssistantID)
	if callStage == 0 {
		callStage = stage.Resolve(cust.Completed)
	}

	extracted := p.extractor.Extract(ctx, evt.Transcript, callStage)

	// The model can invent field names; only catalog attributes are columns.
	fields := make(map[string]string, len(extracted))
	for k, v := range extracted {
		if p.catalog.HasField(k) {
			fields[k] = v
		} else {
			p.logger.Debug("dropping unknown extracted field", "field", k)
		}
	}

	if len(fields) > 0 {
		if err := p.store.UpsertFields(ctx, evt.Phone, evt.Email, fields); err != nil {
			// The call already happened; log loudly for reconciliation and move on.
			p.logger.Error("failed to persist extracted fields", "phone", evt.Phone, "error", err)
			metrics.PersistenceFailures.Inc()
			p.events.PublishError("persist", evt.Phone, err)
		}
	}

	if err := p.store.MarkCallCompleted(ctx, evt.Phone, callStage); err != nil {
		p.logger.Error("failed to mark call completed", "phone", evt.Phone, "stage", callStage, "error", err)
		metrics.PersistenceFailures.Inc()
		p.events.PublishError("persist", evt.Phone, err)
	}

	if _, err := p.store.WriteTranscript(ctx, cust.ID, evt.Phone, callStage, evt.Transcript); err != nil {
		p.logger.Warn("failed to store transcript", "phone", evt.Phone, "error", err)
	}

	// Re-read so the next script sees this call's writes.
	st, targetStage := p.customerState(ctx, evt.Phone, evt.Email)
	script := p.generator.Build(st, targetStage)
	p.pushScript(ctx, evt.Phone, targetStage, script)
	if err := p.store.TouchPromptRefresh(ctx, evt.Phone); err != nil {
		p.logger.Warn("failed to stamp prompt refresh", "phone", evt.Phone, "error", err)
	}

	if err := p.events.Publish(events.SubjectCallProcessed, map[string]any{
		"phone":            evt.Phone,
		"call_stage":       callStage,
		"next_stage":       targetStage,
		"fields_extracted": len(fields),
		"new_customer":     isNew,
		"completion":       st.Report.CompletionPercentage,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		p.logger.Warn("failed to publish call processed", "error", err)
	}

	p.logger.Info("call processed",
		"phone", evt.Phone,
		"stage", callStage,
		"fields_extracted", len(fields),
		"completion", st.Report.CompletionPercentage,
	)
	return Result{Success: true, Action: "call_processed", Stage: callStage, FieldsExtracted: len(fields)}
}

// RefreshPrompt rebuilds and pushes the customer's next-call script. Used by
// the background sweep and the ops refresh endpoint.
func (p *Processor) RefreshPrompt(ctx context.Context, phone string) error {
	unlock := p.locks.lock(phone)
	defer unlock()

	st, targetStage := p.customerState(ctx, phone, "")
	script := p.generator.Build(st, targetStage)
	p.pushScript(ctx, phone, targetStage, script)

	if st.Found {
		if err := p.store.TouchPromptRefresh(ctx, phone); err != nil {
			return err
		}
	}
	return nil
}

// Report computes the completion report and readiness gates for a customer.
// A lookup miss yields a zero-valued report; any other store failure is
// surfaced so the ops endpoints report an outage instead of fake 0% records.
func (p *Processor) Report(ctx context.Context, phone string) (checklist.CompletionReport, checklist.Readiness, error) {
	cust, err := p.store.GetByPhone(ctx, phone)
	if errors.Is(err, store.ErrNotFound) {
		report := p.catalog.Report(nil)
		return report, checklist.Evaluate(report), nil
	}
	if err != nil {
		return checklist.CompletionReport{}, checklist.Readiness{}, err
	}
	report := p.catalog.Report(cust.Fields)
	return report, checklist.Evaluate(report), nil
}

// Gaps returns the prioritized missing-field analysis and action items.
// Lookup misses analyze an empty record; other store failures are surfaced.
func (p *Processor) Gaps(ctx context.Context, phone string) (gaps.Analysis, []gaps.ActionItem, error) {
	cust, err := p.store.GetByPhone(ctx, phone)
	if errors.Is(err, store.ErrNotFound) {
		a := gaps.Analyze(p.catalog, p.priorities, nil, 1)
		return a, gaps.ActionItems(p.catalog, p.priorities, nil), nil
	}
	if err != nil {
		return gaps.Analysis{}, nil, err
	}
	a := gaps.Analyze(p.catalog, p.priorities, cust.Fields, stage.Resolve(cust.Completed))
	return a, gaps.ActionItems(p.catalog, p.priorities, cust.Fields), nil
}

// customerState assembles everything the prompt generator needs. Any failure
// collapses to the not-found state, which renders the generic stage-1 script.
func (p *Processor) customerState(ctx context.Context, phone, email string) (prompt.CustomerState, int) {
	cust, _, err := p.resolver.Resolve(ctx, phone, email)
	if err != nil {
		p.logger.Warn("customer analysis unavailable, using generic script", "phone", phone, "error", err)
		return prompt.CustomerState{}, 1
	}

	targetStage := stage.Resolve(cust.Completed)
	report := p.catalog.Report(cust.Fields)
	st := prompt.CustomerState{
		Found:     true,
		Phone:     cust.Phone,
		Fields:    cust.Fields,
		Completed: cust.Completed,
		Report:    report,
		Readiness: checklist.Evaluate(report),
		Gaps:      gaps.Analyze(p.catalog, p.priorities, cust.Fields, targetStage),
	}
	return st, targetStage
}

// pushScript updates the target assistant's prompt and routes the phone
// number to it. Both are best-effort: a failed push means the call runs with
// whatever script the assistant already has.
func (p *Processor) pushScript(ctx context.Context, phone string, targetStage int, script string) {
	if p.voice == nil {
		return
	}
	assistantID := p.cfg.AssistantForStage(targetStage)
	if assistantID == "" {
		p.logger.Warn("no assistant configured for stage", "stage", targetStage)
		return
	}

	if err := p.voice.UpdateAssistantPrompt(ctx, assistantID, script); err != nil {
		metrics.PromptPushes.WithLabelValues("error").Inc()
		p.logger.Error("failed to push assistant prompt", "phone", phone, "stage", targetStage, "error", err)
		p.events.PublishError("prompt_push", phone, err)
		return
	}
	metrics.PromptPushes.WithLabelValues("ok").Inc()

	if p.cfg.VoicePhoneNumberID != "" {
		if err := p.voice.AssignPhoneAssistant(ctx, p.cfg.VoicePhoneNumberID, assistantID); err != nil {
			p.logger.Error("failed to route phone number", "phone", phone, "stage", targetStage, "error", err)
			p.events.PublishError("phone_routing", phone, err)
		}
	}

	if err := p.events.Publish(events.SubjectPromptUpdated, map[string]any{
		"phone":     phone,
		"stage":     targetStage,
		"assistant": assistantID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		p.logger.Warn("failed to publish prompt updated", "error", err)
	}
}
