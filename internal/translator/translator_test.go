package translator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/oukeidos/locstr/internal/apperrors"
	"github.com/oukeidos/locstr/internal/catalog"
	"github.com/oukeidos/locstr/internal/chunker"
)

func testBatch(values ...string) chunker.Batch {
	b := chunker.Batch{SourceLang: "en", TargetLang: "de", Total: 1}
	for _, v := range values {
		b.Units = append(b.Units, catalog.Unit{Value: v})
		b.Paths = append(b.Paths, catalog.Path{Key: v, Language: "de"})
	}
	return b
}

func TestTranslateBatchSuccess(t *testing.T) {
	mock := NewMockBackend()
	tr := New(mock, 3, 0.01)

	results, attempts, err := tr.TranslateBatch(context.Background(), testBatch("Hello", "World"))
	if err != nil {
		t.Fatalf("TranslateBatch failed: %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Translated != "[mock] Hello" || results[0].Path.Key != "Hello" {
		t.Errorf("result misaligned: %+v", results[0])
	}
	if results[1].State != catalog.StateTranslated {
		t.Errorf("state = %q", results[1].State)
	}

	usage, cost := tr.Stats()
	if usage.TotalTokens != 20 {
		t.Errorf("TotalTokens = %d, want 20", usage.TotalTokens)
	}
	if cost != 20.0/1000.0*0.01 {
		t.Errorf("cost = %v", cost)
	}
}

func TestTranslateBatchRetriesThenSucceeds(t *testing.T) {
	mock := NewMockBackend()
	mock.FailFirst(1, apperrors.Transient(errors.New("upstream 503")))
	tr := New(mock, 3, 0)

	results, attempts, err := tr.TranslateBatch(context.Background(), testBatch("a", "b", "c"))
	if err != nil {
		t.Fatalf("TranslateBatch failed: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	seen := map[string]bool{}
	for _, r := range results {
		if seen[r.Path.String()] {
			t.Errorf("duplicate path %s in results", r.Path)
		}
		seen[r.Path.String()] = true
		if r.State != catalog.StateTranslated {
			t.Errorf("path %s state = %q", r.Path, r.State)
		}
	}
}

func TestTranslateBatchExhaustsRetries(t *testing.T) {
	mock := NewMockBackend()
	wantErr := apperrors.Transient(errors.New("always down"))
	mock.FailFirst(100, wantErr)
	tr := New(mock, 2, 0)

	_, attempts, err := tr.TranslateBatch(context.Background(), testBatch("a"))
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if mock.Calls() != 2 {
		t.Errorf("backend called %d times, want 2", mock.Calls())
	}
}

func TestTranslateBatchDoesNotRetryAuthErrors(t *testing.T) {
	mock := NewMockBackend()
	mock.FailFirst(100, apperrors.Auth(errors.New("bad key")))
	tr := New(mock, 3, 0)

	_, attempts, err := tr.TranslateBatch(context.Background(), testBatch("a"))
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (auth errors are not retryable)", attempts)
	}
}

func TestTranslateBatchCountMismatch(t *testing.T) {
	mock := NewMockBackend()
	mock.Enqueue(`{"translations": ["only one"]}`)
	mock.Enqueue(`{"translations": ["only one"]}`)
	mock.Enqueue(`{"translations": ["only one"]}`)
	tr := New(mock, 3, 0)

	_, _, err := tr.TranslateBatch(context.Background(), testBatch("a", "b"))
	if err == nil {
		t.Fatal("expected error for count mismatch")
	}
	if kind, _ := apperrors.KindOf(err); kind != apperrors.KindValidation {
		t.Errorf("kind = %q, want validation", kind)
	}
}

func TestTranslateBatchNarrowsErrorResults(t *testing.T) {
	mock := NewMockBackend()
	tr := New(mock, 3, 0)

	// First attempt marks the middle unit failed; the narrowed retry
	// must resubmit only that unit and splice the result back in place.
	callCount := 0
	realFn := tr.translateFn
	tr.translateFn = func(ctx context.Context, batch chunker.Batch) ([]catalog.TranslationResult, error) {
		callCount++
		results, err := realFn(ctx, batch)
		if err != nil {
			return nil, err
		}
		if callCount == 1 {
			results[1].State = catalog.StateError
			results[1].Err = "model returned source text"
		}
		return results, nil
	}

	results, attempts, err := tr.TranslateBatch(context.Background(), testBatch("a", "b", "c"))
	if err != nil {
		t.Fatalf("TranslateBatch failed: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	for i, r := range results {
		if r.State != catalog.StateTranslated {
			t.Errorf("result %d state = %q, want translated", i, r.State)
		}
	}
	if results[1].Path.Key != "b" {
		t.Errorf("narrowed result landed on wrong path: %s", results[1].Path)
	}
}

func TestParseTranslations(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    int
		wantErr string
	}{
		{"plain object", `{"translations": ["a", "b"]}`, 2, ""},
		{"fenced response", "```json\n{\"translations\": [\"x\"]}\n```", 1, ""},
		{"prose around object", `Sure! Here you go: {"translations": []} Hope that helps.`, 0, ""},
		{"no json", "sorry, I cannot do that", 0, "no JSON object"},
		{"missing array", `{"result": ["a"]}`, 0, "no 'translations' array"},
		{"malformed json", `{"translations": ["a",}`, 0, "not valid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTranslations(tt.text)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want contains %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d translations, want %d", len(got), tt.want)
			}
		})
	}
}

func TestBuildUserPromptEmbedsUnitsAndLanguage(t *testing.T) {
	batch := testBatch("Hello %@")
	batch.Units[0].Comment = "greeting [Variation for ipad]"
	prompt, err := buildUserPrompt(batch)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(prompt, "German") {
		t.Errorf("prompt missing target language name:\n%s", prompt)
	}
	if !strings.Contains(prompt, `"value": "Hello %@"`) {
		t.Errorf("prompt missing unit value:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Variation for ipad") {
		t.Errorf("prompt missing unit comment:\n%s", prompt)
	}
	if !strings.Contains(prompt, "'translations' array") {
		t.Errorf("prompt missing response contract:\n%s", prompt)
	}
}
