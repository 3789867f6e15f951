// Package validate holds the mechanical checks run against translated text
// and catalog documents. All checks report violations; callers decide
// whether to act on them.
package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	// C-style conversions like %d or %s. Positional forms (%1$d) have a
	// digit after the percent and are matched by positionalRe instead.
	cStyleRe     = regexp.MustCompile(`%[diouxXfeEgGcrs]`)
	positionalRe = regexp.MustCompile(`%\d+\$[@diouxXfeEgGcrs]`)
)

// Translation checks that a translated string preserves every format
// specifier of its source: the multiset of C-style specifiers, the number of
// %@ object specifiers, and the multiset of positional specifiers. Order may
// change (languages reorder arguments via positional forms); kind and count
// may not.
func Translation(source, translated string) (bool, []string) {
	var errs []string

	if strings.TrimSpace(translated) == "" {
		errs = append(errs, "translated text is empty")
		return false, errs
	}

	errs = append(errs, compareMultiset("format specifier", cStyleRe.FindAllString(source, -1), cStyleRe.FindAllString(translated, -1))...)

	srcObj := strings.Count(source, "%@")
	dstObj := strings.Count(translated, "%@")
	if srcObj != dstObj {
		errs = append(errs, fmt.Sprintf("%%@ count mismatch: source has %d, translation has %d", srcObj, dstObj))
	}

	errs = append(errs, compareMultiset("positional specifier", positionalRe.FindAllString(source, -1), positionalRe.FindAllString(translated, -1))...)

	return len(errs) == 0, errs
}

func compareMultiset(label string, source, translated []string) []string {
	counts := make(map[string]int)
	for _, s := range source {
		counts[s]++
	}
	for _, s := range translated {
		counts[s]--
	}

	keys := make([]string, 0, len(counts))
	for k, n := range counts {
		if n != 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var errs []string
	for _, k := range keys {
		if counts[k] > 0 {
			errs = append(errs, fmt.Sprintf("missing %s %s in translation (%d fewer than source)", label, k, counts[k]))
		} else {
			errs = append(errs, fmt.Sprintf("extra %s %s in translation (%d more than source)", label, k, -counts[k]))
		}
	}
	return errs
}
