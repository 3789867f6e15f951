// Package report writes the end-of-run failure report used to target
// re-runs after partial failures.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/oukeidos/locstr/internal/catalog"
	"github.com/oukeidos/locstr/internal/files"
)

// Suffix is appended to the catalog path to form the report path.
const Suffix = ".locstr-failed.json"

type FailedPath struct {
	Key      string `json:"key"`
	Language string `json:"language"`
	Variant  string `json:"variant,omitempty"`
	Device   string `json:"device,omitempty"`
}

// Report records which paths failed in a run, tied to the input document by
// hash so a re-run against a changed catalog is detectable.
type Report struct {
	RunID       string       `json:"runId"`
	CreatedAt   time.Time    `json:"createdAt"`
	Catalog     string       `json:"catalog"`
	InputSHA256 string       `json:"inputSha256"`
	SourceLang  string       `json:"sourceLanguage"`
	TargetLang  string       `json:"targetLanguage"`
	FailedPaths []FailedPath `json:"failedPaths"`
}

// NewRunID returns a fresh identifier for one pipeline run.
func NewRunID() string {
	return uuid.NewString()
}

// HashInput fingerprints the raw catalog bytes.
func HashInput(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func New(runID, catalogPath, inputHash, sourceLang, targetLang string, paths []catalog.Path) *Report {
	r := &Report{
		RunID:       runID,
		CreatedAt:   time.Now().UTC(),
		Catalog:     catalogPath,
		InputSHA256: inputHash,
		SourceLang:  sourceLang,
		TargetLang:  targetLang,
		FailedPaths: make([]FailedPath, 0, len(paths)),
	}
	for _, p := range paths {
		fp := FailedPath{Key: p.Key, Language: p.Language}
		if p.Variant != nil {
			fp.Variant = p.Variant.Key
			fp.Device = p.Variant.Device
		}
		r.FailedPaths = append(r.FailedPaths, fp)
	}
	return r
}

// Write persists the report next to the catalog.
func (r *Report) Write(catalogPath string) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	path := catalogPath + Suffix
	if err := files.AtomicWrite(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
