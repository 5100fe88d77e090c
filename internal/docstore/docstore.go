// Package docstore provides read/write primitives for the on-disk card
// documents: loosely-typed JSON documents, atomic file replacement, and
// the path conventions shared by the front, back, and metadata files.
package docstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// Doc is a loosely-typed JSON document. Only a handful of fields are ever
// interpreted; everything else is carried through untouched so documents
// with unknown fields round-trip cleanly.
type Doc map[string]any

// GetString walks the given key path and returns the string value at the
// end of it. Absent keys or wrong-typed values return "".
func (d Doc) GetString(path ...string) string {
	cur := any(d)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = m[key]
	}
	s, _ := cur.(string)
	return s
}

// Entries returns the length of the document's "entries" list, or 0 if the
// field is absent or not a list.
func (d Doc) Entries() int {
	list, _ := d["entries"].([]any)
	return len(list)
}

// HasError reports whether the document is an error marker (contains a
// non-empty "error" field).
func (d Doc) HasError() bool {
	v, ok := d["error"]
	if !ok {
		return false
	}
	switch e := v.(type) {
	case string:
		return e != ""
	case nil:
		return false
	default:
		return true
	}
}

// Read loads and parses a JSON document. Any error (missing file, bad
// permissions, corrupt JSON) is returned; callers that treat corrupt or
// missing documents as absent simply discard the error.
func Read(path string) (Doc, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc Doc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// WriteAtomic marshals v and replaces the file at path atomically, so a
// concurrent reader never observes a partially-written document. The
// 2-space indentation matches the format the corpus tooling produces.
func WriteAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", path, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// CardID derives the card identifier from a document or image storage name
// by stripping the extension and the _front/_back side suffix.
// e.g. "B14-A-Kronfeld_front.json" -> "B14-A-Kronfeld".
func CardID(filename string) string {
	name := filename
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.TrimSuffix(name, "_front")
	name = strings.TrimSuffix(name, "_back")
	return name
}

// FrontDir returns the directory holding front documents.
func FrontDir(dataDir string) string { return filepath.Join(dataDir, "front") }

// BackDir returns the directory holding back documents.
func BackDir(dataDir string) string { return filepath.Join(dataDir, "back") }

// FrontPath returns the path of a card's front document.
func FrontPath(dataDir, id string) string {
	return filepath.Join(dataDir, "front", id+"_front.json")
}

// BackPath returns the path of a card's back document.
func BackPath(dataDir, id string) string {
	return filepath.Join(dataDir, "back", id+"_back.json")
}

// MetadataPath returns the path of the mutable card metadata file.
func MetadataPath(dataDir string) string {
	return filepath.Join(dataDir, "metadata.json")
}

// ListJSON returns the names of the .json files directly inside dir.
func ListJSON(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
