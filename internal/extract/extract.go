// Package extract walks a catalog document and collects the units that need
// translation into a target language.
package extract

import (
	"sort"

	"github.com/oukeidos/locstr/internal/catalog"
)

// Item pairs a translatable unit with the path its translation must be
// written back to.
type Item struct {
	Unit catalog.Unit
	Path catalog.Path
}

// Extract returns the ordered items needing translation from sourceLang into
// targetLang, walking entries in sorted key order. Entries without a source
// localization get one synthesized from their key, mutating the document;
// the returned flag reports whether any synthesis happened so the caller
// knows to persist before translating.
//
// Absence of the target localization, not its state, is the signal that a
// unit needs translation: once a target exists it is left alone even when
// its state is "new" or "needs_review".
func Extract(doc *catalog.Document, sourceLang, targetLang string) ([]Item, bool) {
	keys := make([]string, 0, len(doc.Strings))
	for k := range doc.Strings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var items []Item
	changed := false

	for _, key := range keys {
		entry := doc.Strings[key]
		if entry == nil {
			continue
		}
		if entry.ShouldTranslate != nil && !*entry.ShouldTranslate {
			continue
		}

		if entry.Localizations == nil {
			entry.Localizations = make(map[string]*catalog.Localization)
		}
		source, synthesized := sourceUnit(entry.Localizations, sourceLang, key)
		if synthesized {
			changed = true
		}
		if source != nil {
			if _, ok := entry.Localizations[targetLang]; !ok {
				items = append(items, Item{
					Unit: catalog.Unit{Value: source.Value, Comment: entry.ExtractionState},
					Path: catalog.Path{Key: key, Language: targetLang},
				})
			}
		}

		varKeys := make([]string, 0, len(entry.Variations))
		for vk := range entry.Variations {
			varKeys = append(varKeys, vk)
		}
		sort.Strings(varKeys)

		for _, vk := range varKeys {
			variant := entry.Variations[vk]
			if variant == nil {
				continue
			}
			if variant.Localizations == nil {
				variant.Localizations = make(map[string]*catalog.Localization)
			}
			vSource, vSynth := sourceUnit(variant.Localizations, sourceLang, key)
			if vSynth {
				changed = true
			}
			if vSource == nil {
				continue
			}
			if _, ok := variant.Localizations[targetLang]; ok {
				continue
			}
			comment := entry.ExtractionState + " [Variation for " + variant.Device + "]"
			items = append(items, Item{
				Unit: catalog.Unit{Value: vSource.Value, Comment: comment},
				Path: catalog.Path{
					Key:      key,
					Language: targetLang,
					Variant:  &catalog.VariantRef{Key: vk, Device: variant.Device},
				},
			})
		}
	}

	return items, changed
}

// sourceUnit resolves the source-language string unit for a localization
// map, synthesizing one from the entry key when the language is missing
// entirely. A localization that exists but has no string unit is returned
// as nil without synthesis; such records are skipped for extraction.
func sourceUnit(locs map[string]*catalog.Localization, sourceLang, key string) (unit *catalog.StringUnit, synthesized bool) {
	loc, ok := locs[sourceLang]
	if !ok || loc == nil {
		su := &catalog.StringUnit{State: catalog.StateTranslated, Value: key}
		locs[sourceLang] = &catalog.Localization{StringUnit: su}
		return su, true
	}
	return loc.StringUnit, false
}
