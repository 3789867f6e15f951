// Package translator turns batches of catalog units into translation
// results via an LLM backend, retrying failed attempts with backoff.
package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/oukeidos/locstr/internal/apperrors"
	"github.com/oukeidos/locstr/internal/catalog"
	"github.com/oukeidos/locstr/internal/chunker"
	"github.com/oukeidos/locstr/internal/language"
	"github.com/oukeidos/locstr/internal/logger"
	"github.com/rivo/uniseg"
)

// Usage counts tokens consumed by completions.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completion is one backend response: raw text plus token accounting.
type Completion struct {
	Text  string
	Usage Usage
}

// Backend is a chat-completion provider. Implementations send one blocking
// request per call with JSON output mode and low temperature.
type Backend interface {
	Name() string
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*Completion, error)
}

// DefaultMaxAttempts bounds retries per batch.
const DefaultMaxAttempts = 3

// Translator translates batches through a backend, accumulating token usage
// and a cost estimate for the whole run.
type Translator struct {
	backend     Backend
	maxAttempts int
	pricePer1K  float64
	appContext  string

	usageMu sync.Mutex
	usage   Usage
	cost    float64

	// translateFn is the single-attempt call; replaceable in tests.
	translateFn func(ctx context.Context, batch chunker.Batch) ([]catalog.TranslationResult, error)
}

func New(backend Backend, maxAttempts int, pricePer1K float64) *Translator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	t := &Translator{
		backend:     backend,
		maxAttempts: maxAttempts,
		pricePer1K:  pricePer1K,
	}
	t.translateFn = t.translateOnce
	return t
}

// SetAppContext appends application background text to the system prompt of
// every request.
func (t *Translator) SetAppContext(text string) {
	t.appContext = text
}

// Stats returns the accumulated token usage and cost estimate.
func (t *Translator) Stats() (Usage, float64) {
	t.usageMu.Lock()
	defer t.usageMu.Unlock()
	return t.usage, t.cost
}

const systemPrompt = "You are a professional translator."

type promptUnit struct {
	Value   string `json:"value"`
	Comment string `json:"comment"`
}

func buildUserPrompt(batch chunker.Batch) (string, error) {
	units := make([]promptUnit, len(batch.Units))
	for i, u := range batch.Units {
		units[i] = promptUnit{Value: u.Value, Comment: u.Comment}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(units); err != nil {
		return "", fmt.Errorf("failed to serialize batch units: %w", err)
	}

	targetName := language.Name(batch.TargetLang)
	return fmt.Sprintf(`Translate the following iOS localization strings to %s.
Each string is provided with its value and optional comment for context.
Maintain any format specifiers (like %%@, %%d) and HTML tags exactly as they appear.
Preserve any whitespace at the start or end of strings.
Return a JSON object with a 'translations' array containing the translated strings.

Input strings:
%s
Respond with translations in this exact format:
{
  "translations": [
    "translation1",
    "translation2",
    ...
  ]
}`, targetName, buf.String()), nil
}

// translateOnce performs a single completion call for a batch and maps the
// response onto the batch's paths positionally.
func (t *Translator) translateOnce(ctx context.Context, batch chunker.Batch) ([]catalog.TranslationResult, error) {
	userPrompt, err := buildUserPrompt(batch)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}
	system := systemPrompt
	if t.appContext != "" {
		system += "\n\nApplication context:\n" + t.appContext
	}

	comp, err := t.backend.Complete(ctx, system, userPrompt)
	if err != nil {
		return nil, err
	}

	t.recordUsage(comp, system+userPrompt)

	translations, err := parseTranslations(comp.Text)
	if err != nil {
		return nil, apperrors.Validation(err)
	}
	if len(translations) != len(batch.Units) {
		// Order alignment is the only channel mapping results to paths, so
		// a count mismatch is unrecoverable ambiguity, not a partial result.
		return nil, apperrors.Validation(fmt.Errorf(
			"translation count mismatch: expected %d, got %d", len(batch.Units), len(translations)))
	}

	results := make([]catalog.TranslationResult, len(batch.Units))
	for i, u := range batch.Units {
		results[i] = catalog.TranslationResult{
			Original:   u.Value,
			Translated: translations[i],
			Path:       batch.Paths[i],
			State:      catalog.StateTranslated,
		}
	}
	return results, nil
}

func (t *Translator) recordUsage(comp *Completion, prompts string) {
	usage := comp.Usage
	if usage.TotalTokens == 0 {
		// Backend gave no accounting; estimate roughly four graphemes per
		// token so the cost summary stays populated.
		usage.TotalTokens = (uniseg.GraphemeClusterCount(prompts) + uniseg.GraphemeClusterCount(comp.Text)) / 4
	}
	t.usageMu.Lock()
	t.usage.PromptTokens += usage.PromptTokens
	t.usage.CompletionTokens += usage.CompletionTokens
	t.usage.TotalTokens += usage.TotalTokens
	t.cost += float64(usage.TotalTokens) / 1000.0 * t.pricePer1K
	t.usageMu.Unlock()
}

// TranslateBatch translates one batch, retrying with backoff. A raised error
// retries the whole outstanding set; results that come back in the error
// state are narrowed into a smaller batch and resubmitted, their earlier
// results discarded. Returns the index-aligned results for the full batch
// and the number of attempts used.
func (t *Translator) TranslateBatch(ctx context.Context, batch chunker.Batch) ([]catalog.TranslationResult, int, error) {
	final := make([]catalog.TranslationResult, len(batch.Units))
	pending := make([]int, len(batch.Units))
	for i := range pending {
		pending[i] = i
	}
	haveResults := false

	attempt := 0
	for attempt < t.maxAttempts && len(pending) > 0 {
		attempt++

		sub := narrowBatch(batch, pending)
		results, err := t.translateFn(ctx, sub)
		if err != nil {
			retry, backoff := retryDecision(ctx, err, attempt, t.maxAttempts)
			if !retry {
				if haveResults {
					// Keep the successful results; leave the rest in their
					// last error state.
					markPendingFailed(final, batch, pending, err)
					return final, attempt, nil
				}
				return nil, attempt, err
			}
			logger.Warn("Batch attempt failed, retrying",
				"batch", batch.Index, "attempt", attempt, "backoff", backoff, "error", err)
			select {
			case <-ctx.Done():
				return nil, attempt, ctx.Err()
			case <-time.After(backoff):
			}
			continue
		}

		haveResults = true
		var stillFailed []int
		for i, r := range results {
			orig := pending[i]
			final[orig] = r
			if r.State == catalog.StateError {
				stillFailed = append(stillFailed, orig)
			}
		}
		pending = stillFailed
		if len(pending) > 0 && attempt < t.maxAttempts {
			logger.Warn("Retrying units that came back in error state",
				"batch", batch.Index, "count", len(pending), "attempt", attempt)
		}
	}

	return final, attempt, nil
}

// narrowBatch builds a reduced batch containing only the given unit indices.
func narrowBatch(batch chunker.Batch, indices []int) chunker.Batch {
	if len(indices) == len(batch.Units) {
		return batch
	}
	sub := chunker.Batch{
		SourceLang: batch.SourceLang,
		TargetLang: batch.TargetLang,
		Index:      batch.Index,
		Total:      batch.Total,
	}
	for _, i := range indices {
		sub.Units = append(sub.Units, batch.Units[i])
		sub.Paths = append(sub.Paths, batch.Paths[i])
	}
	return sub
}

func markPendingFailed(final []catalog.TranslationResult, batch chunker.Batch, pending []int, err error) {
	for _, i := range pending {
		if final[i].State == "" {
			final[i] = catalog.TranslationResult{
				Original: batch.Units[i].Value,
				Path:     batch.Paths[i],
				State:    catalog.StateError,
				Err:      apperrors.PublicMessage(err),
			}
		}
	}
}

// parseTranslations extracts the translations array from a model response.
// Markdown fences and prose around the JSON object are tolerated.
func parseTranslations(text string) ([]string, error) {
	start := bytes.IndexByte([]byte(text), '{')
	end := bytes.LastIndexByte([]byte(text), '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("response contains no JSON object")
	}

	var payload struct {
		Translations *[]string `json:"translations"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}
	if payload.Translations == nil {
		return nil, fmt.Errorf("response has no 'translations' array")
	}
	return *payload.Translations, nil
}

func retryDecision(ctx context.Context, err error, attempt, maxAttempts int) (bool, time.Duration) {
	if err == nil {
		return false, 0
	}
	if attempt >= maxAttempts {
		return false, 0
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false, 0
	}
	if !apperrors.IsRetryable(err) {
		return false, 0
	}
	base := 1 * time.Second
	maxBackoff := 20 * time.Second
	jitterMax := 1 * time.Second

	backoff := base << (attempt - 1)
	if apperrors.IsRateLimit(err) {
		backoff = backoff * 2
	}
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	jitter := time.Duration(rand.Int63n(int64(jitterMax)))
	return true, backoff + jitter
}
