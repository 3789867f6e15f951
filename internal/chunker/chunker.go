// Package chunker groups extracted units into word-budgeted batches for the
// translation client.
package chunker

import (
	"strings"

	"github.com/oukeidos/locstr/internal/catalog"
	"github.com/oukeidos/locstr/internal/extract"
)

// DefaultWordBudget is the soft cap on whitespace-delimited words per batch.
const DefaultWordBudget = 30

// Batch is an ordered group of units with their index-aligned write-back
// paths, sized for a single completion request.
type Batch struct {
	Units      []catalog.Unit
	Paths      []catalog.Path
	SourceLang string
	TargetLang string
	Index      int
	Total      int
}

// Split packs items into batches greedily: a batch closes when adding the
// next unit would push its word count past the budget. The budget is a soft
// cap: a single unit larger than the whole budget still gets a batch of its
// own rather than being dropped.
func Split(items []extract.Item, wordBudget int, sourceLang, targetLang string) []Batch {
	if wordBudget <= 0 {
		wordBudget = DefaultWordBudget
	}

	var batches []Batch
	var current Batch
	currentWords := 0

	flush := func() {
		if len(current.Units) == 0 {
			return
		}
		batches = append(batches, current)
		current = Batch{}
		currentWords = 0
	}

	for _, item := range items {
		words := len(strings.Fields(item.Unit.Value))
		if len(current.Units) > 0 && currentWords+words > wordBudget {
			flush()
		}
		current.Units = append(current.Units, item.Unit)
		current.Paths = append(current.Paths, item.Path)
		currentWords += words
	}
	flush()

	// Index and total are stamped after packing, once the count is known.
	for i := range batches {
		batches[i].Index = i
		batches[i].Total = len(batches)
		batches[i].SourceLang = sourceLang
		batches[i].TargetLang = targetLang
	}
	return batches
}

// TotalUnits sums the unit counts across batches, for progress totals.
func TotalUnits(batches []Batch) int {
	n := 0
	for _, b := range batches {
		n += len(b.Units)
	}
	return n
}
