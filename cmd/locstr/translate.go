package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oukeidos/locstr/internal/cleanup"
	"github.com/oukeidos/locstr/internal/files"
	"github.com/oukeidos/locstr/internal/logger"
	"github.com/oukeidos/locstr/internal/metadata"
	"github.com/oukeidos/locstr/internal/pipeline"
	"github.com/oukeidos/locstr/internal/prompt"
	"github.com/spf13/cobra"
)

type translateOptions struct {
	provider       string
	modelName      string
	sourceLangCode string
	targetLangCode string
	chunkWords     int
	maxRetries     int
	appContextPath string
	logFilePath    string
	dryRun         bool
	yes            bool
	envOnly        bool
	debug          bool
}

func newTranslateCmd() *cobra.Command {
	opts := translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate <catalog.xcstrings>",
		Short: "Translate a String Catalog in place using an LLM",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				_ = cmd.Usage()
				return fmt.Errorf("an .xcstrings catalog file is required")
			}
			return runTranslate(cmd, args, &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addTranslateFlags(cmd, &opts)
	return cmd
}

func addTranslateFlags(cmd *cobra.Command, opts *translateOptions) {
	cmd.Flags().StringVar(&opts.provider, "provider", "openai", "LLM provider (openai or gemini)")
	cmd.Flags().StringVar(&opts.modelName, "model", "", "Model name (default depends on provider)")
	cmd.Flags().StringVar(&opts.sourceLangCode, "source", "en", "Source language code")
	cmd.Flags().StringVar(&opts.targetLangCode, "target", "", "Target language code")
	cmd.Flags().IntVar(&opts.chunkWords, "chunk-words", 0, "Soft word budget per request batch")
	cmd.Flags().IntVar(&opts.maxRetries, "max-retries", 0, "Attempts per batch before giving up")
	cmd.Flags().StringVar(&opts.appContextPath, "app-context", "", "Path to a text file describing the app, added to the prompt")
	cmd.Flags().StringVar(&opts.logFilePath, "log-file", "", "Path to save machine-readable JSONL logs")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Plan batches without calling the API or modifying the catalog")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Modify the catalog in place without asking")
	cmd.Flags().BoolVar(&opts.envOnly, "env-only", false, "Read API keys from environment variables only")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
}

func runTranslate(cmd *cobra.Command, args []string, opts *translateOptions) error {
	if len(args) < 1 {
		return fmt.Errorf("an .xcstrings catalog file is required")
	}
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "Warning: expected 1 argument but got %d. Did you forget quotes around the file path?\n", len(args))
		fmt.Fprintf(os.Stderr, "  Using catalog: %s\n", args[0])
	}
	if err := validateCatalogExtension(args[0]); err != nil {
		return err
	}
	if opts.targetLangCode == "" {
		_ = cmd.Usage()
		return fmt.Errorf("--target language is required")
	}

	logLevel := logger.LevelInfo
	if opts.debug {
		logLevel = logger.LevelDebug
	}
	var logFileW io.Writer
	if opts.logFilePath != "" {
		if err := files.RejectSymlinkPath(opts.logFilePath); err != nil {
			return err
		}
		f, err := os.OpenFile(opts.logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register(f.Close)
		logFileW = f
	}
	logger.Init(logLevel, logFileW)

	startTime := time.Now()

	var apiKey string
	if !opts.dryRun {
		key, source, err := resolveAPIKey(opts.provider, opts.envOnly)
		if err != nil {
			return err
		}
		apiKey = key
		logger.Info("Using API Key", "service", opts.provider, "source", source)
	}

	var appContext string
	if opts.appContextPath != "" {
		data, err := os.ReadFile(opts.appContextPath)
		if err != nil {
			return fmt.Errorf("failed to read app context file %s: %w", opts.appContextPath, err)
		}
		appContext = strings.TrimSpace(string(data))
	}

	cfg := pipeline.Config{
		InputPath:  args[0],
		LogPath:    opts.logFilePath,
		Provider:   opts.provider,
		Model:      opts.modelName,
		APIKey:     apiKey,
		SourceLang: opts.sourceLangCode,
		TargetLang: opts.targetLangCode,
		ChunkWords: opts.chunkWords,
		MaxRetries: opts.maxRetries,
		AppContext: appContext,
		DryRun:     opts.dryRun,
		Overwrite:  opts.yes,
		OnConfirmOverwrite: func(path string) bool {
			confirmed, err := prompt.DefaultConfirmer().ConfirmOverwrite(path, opts.yes)
			if err != nil {
				logger.Error("Overwrite confirmation failed", "error", err)
				return false
			}
			return confirmed
		},
	}

	ctx, stop := signalContext()
	defer stop()
	result, err := pipeline.Run(ctx, cfg)

	model := opts.modelName
	if model == "" {
		model = metadata.DefaultModel(opts.provider)
	}
	printRunStats(result, time.Since(startTime), model)

	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("Translation canceled", "error", err)
			return nil
		}
		return err
	}

	// A completed run exits zero even when some batches failed; the
	// failure report and catalog state carry what is left to redo.
	if result.Status == pipeline.StatusPartialSuccess || result.Status == pipeline.StatusFailure {
		logger.Warn("Some strings were not translated",
			"status", string(result.Status), "failed", len(result.Summary.FailedPaths))
	}
	return nil
}

func validateCatalogExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xcstrings" {
		return nil
	}
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Errorf("unsupported catalog extension %q (expected .xcstrings)", ext)
}
