package pipeline

import (
	"fmt"

	"github.com/oukeidos/locstr/internal/chunker"
	"github.com/oukeidos/locstr/internal/metadata"
	"github.com/oukeidos/locstr/internal/translator"
)

// Config holds everything a translation run needs.
type Config struct {
	// IO
	InputPath string
	LogPath   string

	// API
	Provider string
	Model    string
	APIKey   string

	// Languages
	SourceLang string
	TargetLang string

	// Processing
	ChunkWords int
	MaxRetries int
	AppContext string

	// Flags
	DryRun    bool
	Overwrite bool

	// Backend overrides provider/model/key construction; used by tests.
	Backend translator.Backend

	// OnConfirmOverwrite is asked before the catalog is modified in place.
	// Nil means the Overwrite flag alone decides.
	OnConfirmOverwrite func(path string) bool
}

const (
	MaxChunkWords = 500
	MaxRetryCap   = 10
)

// Normalize applies defaults and safe bounds, returning any adjustments.
func (c Config) Normalize() (Config, []string) {
	var notes []string
	if c.Provider == "" {
		c.Provider = metadata.ProviderOpenAI
	}
	if c.Model == "" {
		c.Model = metadata.DefaultModel(c.Provider)
	}
	if c.ChunkWords <= 0 {
		c.ChunkWords = chunker.DefaultWordBudget
	}
	if c.ChunkWords > MaxChunkWords {
		notes = append(notes, fmt.Sprintf("chunk-words clamped from %d to %d (max %d)", c.ChunkWords, MaxChunkWords, MaxChunkWords))
		c.ChunkWords = MaxChunkWords
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = translator.DefaultMaxAttempts
	}
	if c.MaxRetries > MaxRetryCap {
		notes = append(notes, fmt.Sprintf("max-retries clamped from %d to %d (max %d)", c.MaxRetries, MaxRetryCap, MaxRetryCap))
		c.MaxRetries = MaxRetryCap
	}
	return c, notes
}

// Validate checks that the configuration can start a run.
func (c Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input file is required")
	}
	if c.SourceLang == "" || c.TargetLang == "" {
		return fmt.Errorf("source and target languages are required")
	}
	if c.SourceLang == c.TargetLang {
		return fmt.Errorf("source and target languages must be different (%s)", c.SourceLang)
	}
	if c.Provider != metadata.ProviderOpenAI && c.Provider != metadata.ProviderGemini {
		return fmt.Errorf("unknown provider %q (expected %q or %q)", c.Provider, metadata.ProviderOpenAI, metadata.ProviderGemini)
	}
	if c.Backend == nil && !c.DryRun && c.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	return nil
}
