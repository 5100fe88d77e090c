package docstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCardID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"B14-A-Kronfeld_front.json", "B14-A-Kronfeld"},
		{"B14-A-Kronfeld_back.json", "B14-A-Kronfeld"},
		{"B14-A-Kronfeld_front.jpg", "B14-A-Kronfeld"},
		{"plain.json", "plain"},
		{"no-suffix", "no-suffix"},
		{"weird_front_back.json", "weird_front"},
	}
	for _, c := range cases {
		if got := CardID(c.in); got != c.want {
			t.Errorf("CardID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDocGetString(t *testing.T) {
	doc := Doc{
		"personalIdentification": map[string]any{
			"fullName": "Robert Kronfeld",
		},
		"count": 3,
	}

	if got := doc.GetString("personalIdentification", "fullName"); got != "Robert Kronfeld" {
		t.Errorf("GetString = %q, want %q", got, "Robert Kronfeld")
	}
	if got := doc.GetString("personalIdentification", "missing"); got != "" {
		t.Errorf("GetString on absent key = %q, want empty", got)
	}
	if got := doc.GetString("count"); got != "" {
		t.Errorf("GetString on non-string = %q, want empty", got)
	}
	if got := doc.GetString("count", "deeper"); got != "" {
		t.Errorf("GetString through non-map = %q, want empty", got)
	}
}

func TestDocEntries(t *testing.T) {
	doc := Doc{"entries": []any{1, 2, 3}}
	if got := doc.Entries(); got != 3 {
		t.Errorf("Entries = %d, want 3", got)
	}
	if got := (Doc{}).Entries(); got != 0 {
		t.Errorf("Entries on empty doc = %d, want 0", got)
	}
	if got := (Doc{"entries": "nope"}).Entries(); got != 0 {
		t.Errorf("Entries on non-list = %d, want 0", got)
	}
}

func TestDocHasError(t *testing.T) {
	if !(Doc{"error": "OCR failed"}).HasError() {
		t.Error("expected HasError for error marker document")
	}
	if (Doc{"error": ""}).HasError() {
		t.Error("empty error string should not mark the document")
	}
	if (Doc{"name": "x"}).HasError() {
		t.Error("document without error field should not be marked")
	}
}

func TestReadMissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()

	if _, err := Read(filepath.Join(dir, "absent.json")); err == nil {
		t.Error("expected error reading missing file")
	}

	corrupt := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(corrupt); err == nil {
		t.Error("expected error reading corrupt file")
	}
}

func TestWriteAtomicRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")

	doc := Doc{"personalIdentification": map[string]any{"fullName": "Ada"}}
	if err := WriteAtomic(path, doc); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.GetString("personalIdentification", "fullName") != "Ada" {
		t.Errorf("round-trip lost data: %v", got)
	}

	// No temp artifacts should remain next to the final file.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "doc.json" {
			t.Errorf("unexpected leftover file %q", e.Name())
		}
	}
}

func TestListJSON(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a_front.json", "b_front.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := ListJSON(dir)
	if err != nil {
		t.Fatalf("ListJSON: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("ListJSON = %v, want 2 json files", names)
	}
	for _, n := range names {
		if !strings.HasSuffix(n, ".json") {
			t.Errorf("non-json name %q", n)
		}
	}

	if _, err := ListJSON(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}
