package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/oukeidos/locstr/internal/catalog"
)

func TestReportWriteAndReload(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "Localizable.xcstrings")

	paths := []catalog.Path{
		{Key: "greeting", Language: "de"},
		{Key: "cart_cta", Language: "de", Variant: &catalog.VariantRef{Key: "wide", Device: "ipad"}},
	}
	r := New(NewRunID(), catalogPath, HashInput([]byte(`{"strings":{}}`)), "en", "de", paths)

	written, err := r.Write(catalogPath)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if written != catalogPath+Suffix {
		t.Errorf("report path = %q", written)
	}

	data, err := os.ReadFile(written)
	if err != nil {
		t.Fatal(err)
	}
	var loaded Report
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if loaded.RunID == "" {
		t.Error("runId missing")
	}
	if len(loaded.InputSHA256) != 64 {
		t.Errorf("inputSha256 = %q, want 64 hex chars", loaded.InputSHA256)
	}
	if len(loaded.FailedPaths) != 2 {
		t.Fatalf("got %d failed paths, want 2", len(loaded.FailedPaths))
	}
	if loaded.FailedPaths[1].Variant != "wide" || loaded.FailedPaths[1].Device != "ipad" {
		t.Errorf("variant path lost: %+v", loaded.FailedPaths[1])
	}
	if loaded.FailedPaths[0].Variant != "" {
		t.Errorf("plain path should have no variant: %+v", loaded.FailedPaths[0])
	}
}

func TestHashInputStable(t *testing.T) {
	a := HashInput([]byte("same bytes"))
	b := HashInput([]byte("same bytes"))
	c := HashInput([]byte("other bytes"))
	if a != b {
		t.Error("hash not deterministic")
	}
	if a == c {
		t.Error("different inputs produced the same hash")
	}
}

func TestNewRunIDUnique(t *testing.T) {
	if NewRunID() == NewRunID() {
		t.Error("run IDs should be unique")
	}
}
