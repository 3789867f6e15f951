// Package pipeline wires the catalog, extractor, chunker, translator, and
// validators into the end-to-end translation run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/oukeidos/locstr/internal/apperrors"
	"github.com/oukeidos/locstr/internal/catalog"
	"github.com/oukeidos/locstr/internal/chunker"
	"github.com/oukeidos/locstr/internal/extract"
	"github.com/oukeidos/locstr/internal/files"
	"github.com/oukeidos/locstr/internal/gemini"
	"github.com/oukeidos/locstr/internal/language"
	"github.com/oukeidos/locstr/internal/logger"
	"github.com/oukeidos/locstr/internal/metadata"
	"github.com/oukeidos/locstr/internal/openai"
	"github.com/oukeidos/locstr/internal/progress"
	"github.com/oukeidos/locstr/internal/report"
	"github.com/oukeidos/locstr/internal/translator"
	"github.com/oukeidos/locstr/internal/validate"
)

// Run executes the full translation pipeline against one catalog file,
// mutating it in place. Batch failures are isolated: one batch exhausting
// its retries is logged and the loop moves on, so a completed run with
// failures still returns a Result, not an error.
func Run(ctx context.Context, cfg Config) (Result, error) {
	var notes []string
	cfg, notes = cfg.Normalize()
	for _, note := range notes {
		logger.Warn("Config normalized", "detail", note)
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid configuration: %w", err)
	}

	runID := report.NewRunID()
	result := Result{RunID: runID, OutputPath: cfg.InputPath}

	srcLang, err := language.Resolve(cfg.SourceLang)
	if err != nil {
		return Result{}, err
	}
	tgtLang, err := language.Resolve(cfg.TargetLang)
	if err != nil {
		return Result{}, err
	}

	if err := files.RejectSymlinkPath(cfg.InputPath); err != nil {
		return Result{}, err
	}

	rawInput, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return Result{}, apperrors.Format(fmt.Errorf("failed to read catalog %s: %w", cfg.InputPath, err))
	}
	inputHash := report.HashInput(rawInput)

	// Schema problems are advisory on load; only unparseable JSON is fatal.
	if ok, violations := validate.Schema(rawInput); !ok {
		for _, v := range violations {
			logger.Warn("Catalog schema violation", "detail", v)
		}
	}

	doc, err := catalog.Parse(rawInput)
	if err != nil {
		return Result{}, err
	}
	logger.Info("Loaded catalog", "path", cfg.InputPath, "entries", len(doc.Strings), "run_id", runID)

	items, synthesized := extract.Extract(doc, srcLang.Code, tgtLang.Code)
	if synthesized && !cfg.DryRun {
		if err := doc.Save(cfg.InputPath); err != nil {
			return Result{}, fmt.Errorf("failed to persist synthesized source localizations: %w", err)
		}
		logger.Info("Synthesized missing source localizations", "path", cfg.InputPath)
	}

	if len(items) == 0 {
		logger.Info("Nothing to translate", "source", srcLang.Name, "target", tgtLang.Name)
		result.Status = StatusSuccess
		return result, nil
	}

	batches := chunker.Split(items, cfg.ChunkWords, srcLang.Code, tgtLang.Code)
	totalUnits := chunker.TotalUnits(batches)
	logger.Info("Prepared batches",
		"strings", totalUnits, "batches", len(batches),
		"source", srcLang.Name, "target", tgtLang.Name)

	if cfg.DryRun {
		for _, b := range batches {
			logger.Info("Planned batch", "batch", b.Index+1, "of", b.Total, "strings", len(b.Units))
		}
		result.Status = StatusDryRun
		return result, nil
	}

	confirmed := cfg.Overwrite
	if cfg.OnConfirmOverwrite != nil {
		confirmed = cfg.OnConfirmOverwrite(cfg.InputPath)
	}
	if !confirmed {
		logger.Info("Run aborted before modifying catalog", "path", cfg.InputPath)
		result.Status = StatusSkipped
		return result, nil
	}

	backend := cfg.Backend
	if backend == nil {
		backend, err = newBackend(ctx, cfg)
		if err != nil {
			return Result{}, err
		}
	}
	if closer, ok := backend.(io.Closer); ok {
		defer closer.Close()
	}

	pricing, known := metadata.Pricing(cfg.Model)
	if !known {
		logger.Debug("Model not in pricing table, using default estimate", "model", cfg.Model)
	}
	tr := translator.New(backend, cfg.MaxRetries, pricing.PricePer1K)
	if cfg.AppContext != "" {
		tr.SetAppContext(cfg.AppContext)
	}

	tracker := progress.New(len(batches), totalUnits)
	logger.Info("Starting translation", "backend", backend.Name())

	for _, batch := range batches {
		results, attempts, err := tr.TranslateBatch(ctx, batch)
		if err != nil {
			// One batch's failure does not stop the run, unless the context
			// itself is gone.
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			logger.Error("Batch failed, continuing with next",
				"batch", batch.Index+1, "of", batch.Total, "attempts", attempts,
				"error", apperrors.PublicMessage(err))
			tracker.RecordBatchFailure(batch.Paths)
			continue
		}

		applied := doc.Apply(results)
		if err := doc.Save(cfg.InputPath); err != nil {
			return result, fmt.Errorf("failed to save catalog after batch %d: %w", batch.Index+1, err)
		}

		for _, r := range results {
			if r.State == catalog.StateError {
				continue
			}
			if ok, problems := validate.Translation(r.Original, r.Translated); !ok {
				for _, p := range problems {
					logger.Warn("Translation check failed", "path", r.Path.String(), "detail", p)
				}
			}
		}

		tracker.Record(results)
		logger.Info("Batch translated",
			"batch", batch.Index+1, "of", batch.Total,
			"strings", applied, "attempts", attempts)
	}

	result.Usage, result.Cost = tr.Stats()
	result.Summary = tracker.Summary()
	result.Status = statusFor(result.Summary)

	if len(result.Summary.FailedPaths) > 0 {
		rep := report.New(runID, cfg.InputPath, inputHash, srcLang.Code, tgtLang.Code, result.Summary.FailedPaths)
		if path, err := rep.Write(cfg.InputPath); err != nil {
			logger.Error("Failed to write failure report", "error", err)
		} else {
			result.ReportPath = path
			logger.Warn("Failure report saved", "path", path, "failed", len(result.Summary.FailedPaths))
		}
	}

	// Final sanity check of what was written to disk.
	if written, err := os.ReadFile(cfg.InputPath); err == nil {
		if ok, violations := validate.Schema(written); !ok {
			for _, v := range violations {
				logger.Warn("Written catalog schema violation", "detail", v)
			}
		}
		if writtenDoc, err := catalog.Parse(written); err == nil {
			if ok, problems := validate.Shape(doc, writtenDoc); !ok {
				for _, p := range problems {
					logger.Warn("Written catalog lost structure", "detail", p)
				}
			}
		}
	}

	logger.Info("Translation finished",
		"status", string(result.Status),
		"strings", result.Summary.CompletedStrings, "of", result.Summary.TotalStrings,
		"tokens", result.Usage.TotalTokens, "estimated_cost_usd", fmt.Sprintf("%.4f", result.Cost))

	return result, nil
}

func newBackend(ctx context.Context, cfg Config) (translator.Backend, error) {
	switch cfg.Provider {
	case metadata.ProviderGemini:
		backend, err := gemini.NewClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return backend, nil
	default:
		return openai.NewClient(cfg.APIKey, cfg.Model), nil
	}
}
