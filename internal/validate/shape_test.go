package validate

import (
	"strings"
	"testing"

	"github.com/oukeidos/locstr/internal/catalog"
)

func shapeDoc() *catalog.Document {
	return &catalog.Document{
		Strings: map[string]*catalog.Entry{
			"title": {
				Localizations: map[string]*catalog.Localization{
					"en": {StringUnit: &catalog.StringUnit{Value: "Title"}},
					"de": {StringUnit: &catalog.StringUnit{Value: "Titel"}},
				},
			},
			"subtitle": {
				Localizations: map[string]*catalog.Localization{
					"en": {StringUnit: &catalog.StringUnit{Value: "Subtitle"}},
				},
				Variations: map[string]*catalog.Variant{
					"compact": {
						Device: "iphone",
						Localizations: map[string]*catalog.Localization{
							"en": {StringUnit: &catalog.StringUnit{Value: "Sub"}},
						},
					},
				},
			},
		},
	}
}

func TestShapeIdenticalStructure(t *testing.T) {
	src := shapeDoc()
	dst := shapeDoc()
	// Different values are fine; only presence matters.
	dst.Strings["title"].Localizations["de"].StringUnit.Value = "Überschrift"

	valid, errs := Shape(src, dst)
	if !valid {
		t.Errorf("expected valid, got %v", errs)
	}
}

func TestShapeMissingKey(t *testing.T) {
	src := shapeDoc()
	dst := shapeDoc()
	delete(dst.Strings, "subtitle")

	valid, errs := Shape(src, dst)
	if valid {
		t.Fatal("expected invalid")
	}
	if len(errs) == 0 || !strings.Contains(errs[0], "subtitle") {
		t.Errorf("error should name the missing key: %v", errs)
	}
}

func TestShapeMissingLanguage(t *testing.T) {
	src := shapeDoc()
	dst := shapeDoc()
	delete(dst.Strings["title"].Localizations, "de")

	valid, errs := Shape(src, dst)
	if valid {
		t.Fatal("expected invalid")
	}
	found := false
	for _, e := range errs {
		if strings.Contains(e, "title") && strings.Contains(e, `"de"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("error should name key and language: %v", errs)
	}
}

func TestShapeMissingVariant(t *testing.T) {
	src := shapeDoc()
	dst := shapeDoc()
	delete(dst.Strings["subtitle"].Variations, "compact")

	valid, errs := Shape(src, dst)
	if valid {
		t.Fatal("expected invalid")
	}
	found := false
	for _, e := range errs {
		if strings.Contains(e, "compact") {
			found = true
		}
	}
	if !found {
		t.Errorf("error should name the missing variant: %v", errs)
	}
}
