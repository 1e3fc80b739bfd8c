// Package service orchestrates the retrieval-and-answer pipeline: one
// linear pass per request, no state carried between calls.
package service

import (
	"context"
	"log"
	"time"

	"github.com/lexwatch/lexwatch/internal/corpus"
	"github.com/lexwatch/lexwatch/internal/domain"
	"github.com/lexwatch/lexwatch/internal/retrieval"
	"github.com/lexwatch/lexwatch/internal/telemetry"
)

// DefaultSystemPrompt is the directive sent ahead of every completion.
const DefaultSystemPrompt = "You are an analyst answering questions about EU legal and policy documents. " +
	"Answer only from the numbered sources provided and cite them inline as [1], [2]. " +
	"If the sources do not cover the question, say so. Be concise and neutral."

// CorpusLoader fetches a fresh corpus snapshot.
type CorpusLoader interface {
	Load(ctx context.Context) (*corpus.Snapshot, error)
}

// Enricher fetches page extracts for ranked items.
type Enricher interface {
	Enrich(ctx context.Context, items []domain.Item) map[string]string
}

// CompletionClient produces an answer from the assembled conversation.
type CompletionClient interface {
	Answer(ctx context.Context, systemPrompt string, history []domain.Message, question, contextBlock string) (string, error)
}

// AskInput carries one request through the pipeline.
type AskInput struct {
	Messages    []domain.Message
	Filters     domain.FilterCriteria
	TopK        int
	Remote      bool
	Attachments []domain.Attachment
}

// AskOutput is the pipeline result. Answer is nil whenever no provider is
// configured or the provider call failed; Results are valid either way.
type AskOutput struct {
	Answer  *string
	Results []domain.Item

	// ContextBlock is the assembled prompt fragment, retained for
	// inspection and the one-shot CLI.
	ContextBlock string
}

// AskServiceConfig holds pipeline tunables.
type AskServiceConfig struct {
	DefaultTopK  int
	Limits       retrieval.AssemblyLimits
	SystemPrompt string
}

func DefaultAskServiceConfig() AskServiceConfig {
	return AskServiceConfig{
		DefaultTopK:  8,
		Limits:       retrieval.DefaultAssemblyLimits(),
		SystemPrompt: DefaultSystemPrompt,
	}
}

// AskService runs the pipeline: load, filter, score, rank, optionally
// enrich, assemble, and optionally complete.
type AskService struct {
	loader     CorpusLoader
	enricher   Enricher
	completion CompletionClient
	cfg        AskServiceConfig
	now        func() time.Time
}

// NewAskService wires the pipeline. completion may be nil: retrieval then
// works normally and every answer is null.
func NewAskService(loader CorpusLoader, enricher Enricher, completion CompletionClient) *AskService {
	return NewAskServiceWithConfig(loader, enricher, completion, DefaultAskServiceConfig())
}

func NewAskServiceWithConfig(loader CorpusLoader, enricher Enricher, completion CompletionClient, cfg AskServiceConfig) *AskService {
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = 8
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	return &AskService{
		loader:     loader,
		enricher:   enricher,
		completion: completion,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Ask runs one request through the pipeline.
func (s *AskService) Ask(ctx context.Context, input AskInput) (*AskOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ask", telemetry.SpanAttributes{Operation: "ask"})
	defer span.End()

	query := domain.LatestUserQuery(input.Messages)
	if query == "" {
		return &AskOutput{Results: []domain.Item{}}, nil
	}

	snapshot, err := s.loader.Load(ctx)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to load corpus", err)
	}

	topK := input.TopK
	if topK <= 0 {
		topK = s.cfg.DefaultTopK
	}

	results := retrieval.SearchItems(snapshot.Items, query, input.Filters, topK, s.now())

	var extracts map[string]string
	if input.Remote && s.enricher != nil {
		extracts = s.enricher.Enrich(ctx, results)
	}

	contextBlock := retrieval.AssembleContext(results, extracts, input.Attachments, s.cfg.Limits)

	out := &AskOutput{Results: results, ContextBlock: contextBlock}

	if s.completion != nil {
		answer, err := s.completion.Answer(ctx, s.cfg.SystemPrompt, historyBefore(input.Messages), query, contextBlock)
		if err != nil {
			// Provider failure is absorbed: results stay valid, answer
			// stays null.
			log.Printf("completion failed, returning results without answer: %v", err)
			telemetry.CaptureError(ctx, err)
		} else if answer != "" {
			out.Answer = &answer
		}
	}

	return out, nil
}

// ListItems returns the filtered corpus view in corpus order, for clients
// that browse rather than ask.
func (s *AskService) ListItems(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Item, error) {
	snapshot, err := s.loader.Load(ctx)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to load corpus", err)
	}

	now := s.now()
	items := make([]domain.Item, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		if retrieval.Passes(&item, criteria, now) {
			items = append(items, item)
		}
	}
	return items, nil
}

// historyBefore returns the turns preceding the latest user message, which
// becomes the final turn of the completion conversation instead.
func historyBefore(messages []domain.Message) []domain.Message {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			return messages[:i]
		}
	}
	return nil
}
