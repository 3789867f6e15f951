package validate

import (
	"fmt"
	"sort"

	"github.com/oukeidos/locstr/internal/catalog"
)

// Shape checks that everything structurally present in the source document
// is still present in the translated document: every key, every language
// under a key, every variant and every variant language. Values are not
// compared, only presence.
func Shape(source, translated *catalog.Document) (bool, []string) {
	var errs []string

	for _, key := range sortedKeys(source.Strings) {
		srcEntry := source.Strings[key]
		if srcEntry == nil {
			continue
		}
		dstEntry, ok := translated.Strings[key]
		if !ok || dstEntry == nil {
			errs = append(errs, fmt.Sprintf("key %q missing from translated document", key))
			continue
		}

		for _, lang := range sortedKeys(srcEntry.Localizations) {
			if _, ok := dstEntry.Localizations[lang]; !ok {
				errs = append(errs, fmt.Sprintf("key %q: language %q missing from translated document", key, lang))
			}
		}

		for _, vk := range sortedKeys(srcEntry.Variations) {
			srcVar := srcEntry.Variations[vk]
			dstVar, ok := dstEntry.Variations[vk]
			if !ok || dstVar == nil {
				errs = append(errs, fmt.Sprintf("key %q: variant %q missing from translated document", key, vk))
				continue
			}
			if srcVar == nil {
				continue
			}
			for _, lang := range sortedKeys(srcVar.Localizations) {
				if _, ok := dstVar.Localizations[lang]; !ok {
					errs = append(errs, fmt.Sprintf("key %q variant %q: language %q missing from translated document", key, vk, lang))
				}
			}
		}
	}

	return len(errs) == 0, errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
