package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/oukeidos/locstr/internal/auth"
	"github.com/oukeidos/locstr/internal/logger"
	"github.com/oukeidos/locstr/internal/pipeline"
	"golang.org/x/term"
)

var (
	isTerminal     = term.IsTerminal
	resolveKey     = auth.ResolveKey
	hasKeychainKey = auth.HasKeychainKey
	promptForKey   = auth.PromptForAPIKey
)

func providerLabel(service string) string {
	if service == "gemini" {
		return "Gemini"
	}
	return "OpenAI"
}

// resolveAPIKey handles the logic for finding the API key.
func resolveAPIKey(service string, envOnly bool) (string, string, error) {
	if key, source := resolveKey(service, envOnly); key != "" {
		return key, source, nil
	}

	envVar := auth.OpenAIEnvVar
	if service == "gemini" {
		envVar = auth.GeminiEnvVar
	}
	if envOnly {
		return "", "", fmt.Errorf("env-only set but %s is not set", envVar)
	}

	if isTerminal(int(os.Stdin.Fd())) {
		key, err := promptForKey(fmt.Sprintf("%s API Key (press Enter to skip): ", providerLabel(service)))
		if err != nil {
			return "", "", fmt.Errorf("error reading API key: %w", err)
		}
		if strings.TrimSpace(key) != "" {
			return strings.TrimSpace(key), "terminal prompt", nil
		}
		return "", "", fmt.Errorf("API key is required; not found in %s, keychain, or .env", envVar)
	}

	return "", "", fmt.Errorf("no API key available (non-interactive shell); set %s or run 'locstr env setup'", envVar)
}

func printRunStats(result pipeline.Result, duration time.Duration, model string) {
	fmt.Println("\n--- Execution Stats ---")
	fmt.Printf("Status: %s\n", result.Status)
	fmt.Printf("Time: %s\n", duration.Round(time.Millisecond))
	fmt.Printf("Model: %s\n", model)
	if result.Summary.TotalStrings > 0 {
		fmt.Printf("Strings: %d/%d translated (%d batches)\n",
			result.Summary.CompletedStrings, result.Summary.TotalStrings, result.Summary.TotalBatches)
	}
	if result.Usage.TotalTokens > 0 {
		fmt.Printf("Tokens: In=%d, Out=%d, Total=%d\n",
			result.Usage.PromptTokens, result.Usage.CompletionTokens, result.Usage.TotalTokens)
		fmt.Printf("Estimated Cost: $%.4f\n", result.Cost)
	}
	if result.ReportPath != "" {
		fmt.Printf("Failure report: %s\n", result.ReportPath)
	}
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("Cancellation requested")
		cancel()
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
