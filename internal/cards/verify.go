package cards

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/edgenotch/cardkeep/internal/docstore"
	"github.com/edgenotch/cardkeep/internal/progress"
)

// VerifyReport summarizes an offline consistency scan of the corpus.
type VerifyReport struct {
	Cards  int
	Fronts int
	Backs  int

	CorruptFronts []string // front file exists but does not parse
	CorruptBacks  []string
	ErrorMarkers  []string // front document is an OCR error marker
	MissingNames  []string // front parses but has no fullName
	MissingImages []string // expected scan file absent (local images only)
}

// Clean reports whether the scan found nothing to complain about.
func (r *VerifyReport) Clean() bool {
	return len(r.CorruptFronts) == 0 && len(r.CorruptBacks) == 0 &&
		len(r.ErrorMarkers) == 0 && len(r.MissingNames) == 0 &&
		len(r.MissingImages) == 0
}

// Verify walks every card in dataDir and checks that its documents parse
// and, when imagesDir is non-empty, that the expected scan files exist.
// rep may be nil.
func Verify(dataDir, imagesDir string, rep progress.Reporter) (*VerifyReport, error) {
	frontFiles, frontErr := docstore.ListJSON(docstore.FrontDir(dataDir))
	backFiles, backErr := docstore.ListJSON(docstore.BackDir(dataDir))
	if frontErr != nil && backErr != nil {
		return nil, fmt.Errorf("no readable document directories under %s", dataDir)
	}

	frontIDs := make(map[string]bool, len(frontFiles))
	for _, f := range frontFiles {
		frontIDs[docstore.CardID(f)] = true
	}
	backIDs := make(map[string]bool, len(backFiles))
	for _, f := range backFiles {
		backIDs[docstore.CardID(f)] = true
	}

	ids := make([]string, 0, len(frontIDs)+len(backIDs))
	for id := range frontIDs {
		ids = append(ids, id)
	}
	for id := range backIDs {
		if !frontIDs[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	report := &VerifyReport{
		Cards:  len(ids),
		Fronts: len(frontFiles),
		Backs:  len(backFiles),
	}

	if rep != nil {
		rep.Start(len(ids))
		defer rep.Finish()
	}

	for i, id := range ids {
		if frontIDs[id] {
			doc, err := docstore.Read(docstore.FrontPath(dataDir, id))
			switch {
			case err != nil:
				report.CorruptFronts = append(report.CorruptFronts, id)
			case doc.HasError():
				report.ErrorMarkers = append(report.ErrorMarkers, id)
			case doc.GetString("personalIdentification", "fullName") == "":
				report.MissingNames = append(report.MissingNames, id)
			}
			if imagesDir != "" {
				checkImage(report, imagesDir, id+"_front.jpg")
			}
		}
		if backIDs[id] {
			if _, err := docstore.Read(docstore.BackPath(dataDir, id)); err != nil {
				report.CorruptBacks = append(report.CorruptBacks, id)
			}
			if imagesDir != "" {
				checkImage(report, imagesDir, id+"_back.jpg")
			}
		}
		if rep != nil {
			rep.Update(i+1, id)
		}
	}

	return report, nil
}

func checkImage(report *VerifyReport, imagesDir, filename string) {
	if _, err := os.Stat(filepath.Join(imagesDir, filename)); err != nil {
		report.MissingImages = append(report.MissingImages, filename)
	}
}
