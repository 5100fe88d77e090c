package cards

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edgenotch/cardkeep/internal/docstore"
)

func TestVerifyCleanCorpus(t *testing.T) {
	dir := writeFixture(t, map[string]docstore.Doc{
		"a": front("Alpha", "", "", ""),
	}, map[string]docstore.Doc{
		"a": {"entries": []any{}},
	})

	report, err := Verify(dir, "", nil)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !report.Clean() {
		t.Errorf("report = %+v, want clean", report)
	}
	if report.Cards != 1 || report.Fronts != 1 || report.Backs != 1 {
		t.Errorf("counts = %d/%d/%d", report.Cards, report.Fronts, report.Backs)
	}
}

func TestVerifyFindsProblems(t *testing.T) {
	dir := writeFixture(t, map[string]docstore.Doc{
		"named":   front("Alpha", "", "", ""),
		"unnamed": front("", "", "", ""),
		"errcard": {"error": "OCR failed"},
	}, map[string]docstore.Doc{
		"backonly": {"entries": []any{}},
	})
	if err := os.WriteFile(docstore.FrontPath(dir, "corrupt"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := Verify(dir, "", nil)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.Cards != 5 {
		t.Errorf("Cards = %d, want 5", report.Cards)
	}
	if len(report.CorruptFronts) != 1 || report.CorruptFronts[0] != "corrupt" {
		t.Errorf("CorruptFronts = %v", report.CorruptFronts)
	}
	if len(report.ErrorMarkers) != 1 || report.ErrorMarkers[0] != "errcard" {
		t.Errorf("ErrorMarkers = %v", report.ErrorMarkers)
	}
	if len(report.MissingNames) != 1 || report.MissingNames[0] != "unnamed" {
		t.Errorf("MissingNames = %v", report.MissingNames)
	}
}

func TestVerifyChecksImages(t *testing.T) {
	dir := writeFixture(t, map[string]docstore.Doc{
		"a": front("Alpha", "", "", ""),
	}, nil)
	imagesDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(imagesDir, "a_front.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := Verify(dir, imagesDir, nil)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(report.MissingImages) != 0 {
		t.Errorf("MissingImages = %v, want none", report.MissingImages)
	}

	// Remove the scan; verify should notice.
	if err := os.Remove(filepath.Join(imagesDir, "a_front.jpg")); err != nil {
		t.Fatal(err)
	}
	report, err = Verify(dir, imagesDir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.MissingImages) != 1 || report.MissingImages[0] != "a_front.jpg" {
		t.Errorf("MissingImages = %v", report.MissingImages)
	}
}

func TestVerifyUnreadableDataDir(t *testing.T) {
	if _, err := Verify(filepath.Join(t.TempDir(), "nope"), "", nil); err == nil {
		t.Error("expected error when no document directory is readable")
	}
}
