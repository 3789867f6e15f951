package auth

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const (
	serviceName   = "locstr"
	geminiAccount = "gemini-api-key"
	openaiAccount = "openai-api-key"
	GeminiEnvVar  = "GEMINI_API_KEY"
	OpenAIEnvVar  = "OPENAI_API_KEY"
)

func accountFor(service string) (account, envVar string) {
	if service == "gemini" {
		return geminiAccount, GeminiEnvVar
	}
	return openaiAccount, OpenAIEnvVar
}

// ResolveKey finds the API key for a provider ("openai" or "gemini").
// Lookup order: process environment, OS keychain, then .env files next to
// the working directory and the executable. envOnly restricts the search to
// the environment. The second return names the source for log output.
func ResolveKey(service string, envOnly bool) (string, string) {
	_, envVar := accountFor(service)

	if key := strings.TrimSpace(os.Getenv(envVar)); key != "" {
		return key, "environment"
	}
	if envOnly {
		return "", ""
	}

	account, _ := accountFor(service)
	if key, err := keyring.Get(serviceName, account); err == nil && strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key), "keychain"
	}

	if key, path := lookupDotEnv(envVar); key != "" {
		return key, path
	}

	return "", ""
}

// SaveKey stores the key for a provider in the OS keychain.
func SaveKey(service, key string) error {
	account, _ := accountFor(service)
	return keyring.Set(serviceName, account, strings.TrimSpace(key))
}

// DeleteKey removes the key for a provider from the OS keychain.
func DeleteKey(service string) error {
	account, _ := accountFor(service)
	return keyring.Delete(serviceName, account)
}

// HasKeychainKey reports whether the keychain holds a key for a provider.
func HasKeychainKey(service string) bool {
	account, _ := accountFor(service)
	key, err := keyring.Get(serviceName, account)
	return err == nil && strings.TrimSpace(key) != ""
}

// PromptForAPIKey reads an API key from the terminal without echo.
func PromptForAPIKey(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(raw)), nil
}
