// Package catalog models an Xcode string catalog (.xcstrings) and its
// load/save/merge operations. The document is owned by a single pipeline run:
// loaded once, mutated in place, persisted after every batch.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/oukeidos/locstr/internal/apperrors"
	"github.com/oukeidos/locstr/internal/files"
)

// States a string unit moves through. StateError is an internal retry marker
// and must never be the terminal persisted state of a successful run.
const (
	StateNew         = "new"
	StateTranslated  = "translated"
	StateNeedsReview = "needs_review"
	StateError       = "error"
)

// Document is the root of an xcstrings catalog. Fields outside Strings are
// carried through untouched so a round trip stays diff-friendly.
type Document struct {
	SourceLanguage string            `json:"sourceLanguage,omitempty"`
	Version        string            `json:"version,omitempty"`
	Strings        map[string]*Entry `json:"strings"`
}

// Entry is one translatable key with per-language renderings and optional
// device variants.
type Entry struct {
	Comment         string                   `json:"comment,omitempty"`
	ExtractionState string                   `json:"extractionState,omitempty"`
	ShouldTranslate *bool                    `json:"shouldTranslate,omitempty"`
	Localizations   map[string]*Localization `json:"localizations,omitempty"`
	Variations      map[string]*Variant      `json:"variations,omitempty"`
}

// Localization is one language's rendering of an Entry or Variant.
type Localization struct {
	StringUnit *StringUnit `json:"stringUnit,omitempty"`
}

// Variant is a device-specific override of an Entry.
type Variant struct {
	Device        string                   `json:"device,omitempty"`
	Localizations map[string]*Localization `json:"localizations,omitempty"`
}

type StringUnit struct {
	State string `json:"state,omitempty"`
	Value string `json:"value"`
}

// VariantRef addresses a variant within an entry.
type VariantRef struct {
	Key    string
	Device string
}

// Path is the structural address used to write a translation result back
// into the document: entry key, target language, optional variant. Results
// carry paths rather than document pointers so batches stay serializable.
type Path struct {
	Key      string
	Language string
	Variant  *VariantRef
}

func (p Path) String() string {
	if p.Variant != nil {
		return fmt.Sprintf("%s[%s/%s].%s", p.Key, p.Variant.Key, p.Variant.Device, p.Language)
	}
	return fmt.Sprintf("%s.%s", p.Key, p.Language)
}

// Unit is the translatable payload extracted for one path: the source text
// and a context comment passed along to the model.
type Unit struct {
	Value   string
	Comment string
}

// TranslationResult is one translated unit ready to merge back by path.
type TranslationResult struct {
	Original   string
	Translated string
	Path       Path
	State      string
	Err        string
}

// Parse decodes a raw catalog document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Format(fmt.Errorf("catalog is not valid JSON: %w", err))
	}
	if doc.Strings == nil {
		return nil, apperrors.Format(fmt.Errorf("catalog has no \"strings\" collection"))
	}
	return &doc, nil
}

// Load reads and parses a catalog file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Format(fmt.Errorf("failed to read catalog %s: %w", path, err))
	}
	return Parse(data)
}

// Marshal serializes the document the way Xcode writes it: two-space indent
// and non-ASCII characters kept literal rather than \u-escaped.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to serialize catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the document to path atomically. Called after every merged
// batch so a crash loses at most one batch of work.
func (d *Document) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	return files.AtomicWrite(path, data, 0o644)
}

// Localization returns the string unit addressed by a path, or nil when any
// link in the address chain is missing.
func (d *Document) Localization(p Path) *StringUnit {
	entry, ok := d.Strings[p.Key]
	if !ok || entry == nil {
		return nil
	}
	locs := entry.Localizations
	if p.Variant != nil {
		variant, ok := entry.Variations[p.Variant.Key]
		if !ok || variant == nil {
			return nil
		}
		locs = variant.Localizations
	}
	loc, ok := locs[p.Language]
	if !ok || loc == nil {
		return nil
	}
	return loc.StringUnit
}

// Apply merges translation results into the document by path, creating the
// localization containers a path needs as it goes. Results in the error
// state are skipped; unknown keys or variants are skipped rather than
// invented. Returns the number of results written.
func (d *Document) Apply(results []TranslationResult) int {
	applied := 0
	for _, r := range results {
		if r.State == StateError {
			continue
		}
		entry, ok := d.Strings[r.Path.Key]
		if !ok || entry == nil {
			continue
		}

		locs := entry.Localizations
		if r.Path.Variant != nil {
			variant, ok := entry.Variations[r.Path.Variant.Key]
			if !ok || variant == nil {
				continue
			}
			if variant.Localizations == nil {
				variant.Localizations = make(map[string]*Localization)
			}
			locs = variant.Localizations
		} else if locs == nil {
			entry.Localizations = make(map[string]*Localization)
			locs = entry.Localizations
		}

		locs[r.Path.Language] = &Localization{
			StringUnit: &StringUnit{
				State: r.State,
				Value: r.Translated,
			},
		}
		applied++
	}
	return applied
}
