package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"time"
)

// WebReportsDir is the subfolder of the reports root that holds the
// web-analysis variant.
const WebReportsDir = "web_reports"

// PairReportName derives a collision-resistant artifact name from the two
// input filenames. The timestamp component makes repeated comparisons of
// the same pair produce distinct artifacts; nothing is ever overwritten.
func PairReportName(file1, file2 string) string {
	return fmt.Sprintf("similarity_report_%s.pdf", nameHash(filepath.Base(file1)+"_"+filepath.Base(file2)))
}

// WebReportName derives the artifact name for a web-analysis report. The
// returned key includes the web_reports/ subfolder.
func WebReportName(file string) string {
	return fmt.Sprintf("%s/web_similarity_report_%s.pdf", WebReportsDir, nameHash(filepath.Base(file)))
}

func nameHash(base string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s_%d", base, time.Now().UnixNano())))
	return hex.EncodeToString(sum[:])[:8]
}
