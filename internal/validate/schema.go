package validate

import (
	"encoding/json"
	"fmt"
)

// Schema validates raw catalog bytes against the expected xcstrings shape
// without touching the typed model: root object, "strings" object, entries
// as objects, localizations as objects, stringUnit objects carrying a value,
// variations with well-formed nested string units. Used to sanity-check both
// freshly loaded and freshly written documents.
func Schema(data []byte) (bool, []string) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return false, []string{fmt.Sprintf("document is not valid JSON: %v", err)}
	}

	rootObj, ok := root.(map[string]any)
	if !ok {
		return false, []string{"root is not an object"}
	}
	rawStrings, ok := rootObj["strings"]
	if !ok {
		return false, []string{`root has no "strings" object`}
	}
	strObj, ok := rawStrings.(map[string]any)
	if !ok {
		return false, []string{`"strings" is not an object`}
	}

	var errs []string
	for key, rawEntry := range strObj {
		entry, ok := rawEntry.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("entry %q is not an object", key))
			continue
		}
		if rawLocs, ok := entry["localizations"]; ok {
			errs = append(errs, checkLocalizations(key, "", rawLocs)...)
		}
		if rawVars, ok := entry["variations"]; ok {
			vars, ok := rawVars.(map[string]any)
			if !ok {
				errs = append(errs, fmt.Sprintf("entry %q: variations is not an object", key))
				continue
			}
			for vk, rawVar := range vars {
				variant, ok := rawVar.(map[string]any)
				if !ok {
					errs = append(errs, fmt.Sprintf("entry %q: variant %q is not an object", key, vk))
					continue
				}
				if rawLocs, ok := variant["localizations"]; ok {
					errs = append(errs, checkLocalizations(key, vk, rawLocs)...)
				}
			}
		}
	}
	return len(errs) == 0, errs
}

func checkLocalizations(key, variant string, raw any) []string {
	where := fmt.Sprintf("entry %q", key)
	if variant != "" {
		where = fmt.Sprintf("entry %q variant %q", key, variant)
	}

	locs, ok := raw.(map[string]any)
	if !ok {
		return []string{fmt.Sprintf("%s: localizations is not an object", where)}
	}

	var errs []string
	for lang, rawLoc := range locs {
		loc, ok := rawLoc.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: localization %q is not an object", where, lang))
			continue
		}
		rawUnit, ok := loc["stringUnit"]
		if !ok {
			continue
		}
		unit, ok := rawUnit.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: localization %q stringUnit is not an object", where, lang))
			continue
		}
		if _, ok := unit["value"].(string); !ok {
			errs = append(errs, fmt.Sprintf("%s: localization %q stringUnit has no string value", where, lang))
		}
	}
	return errs
}
