package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	appErr "github.com/simcheck/simcheck/internal/pkg/errors"
	"github.com/simcheck/simcheck/internal/similarity"
)

const (
	// matchesPerSection bounds page length in the match listing; a new page
	// starts after this many entries.
	matchesPerSection = 10
	// unitDisplayLimit truncates each side of a match pair in the listing.
	unitDisplayLimit = 100
)

type FileMeta struct {
	Name string
	Text string
}

// PairInput carries everything the pair report renders. Matches arrive
// sorted by similarity descending and are listed in that order.
type PairInput struct {
	File1       FileMeta
	File2       FileMeta
	Score       float64
	Matches     []similarity.MatchPair
	GeneratedAt time.Time
}

// Builder renders report artifacts. It holds no state between builds.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// BuildPair writes the two-document comparison report to outPath. When both
// inputs are empty after normalization this is the one place the pipeline
// surfaces an error instead of degrading: no artifact is produced.
func (b *Builder) BuildPair(input PairInput, outPath string) error {
	if similarity.Normalize(input.File1.Text) == "" && similarity.Normalize(input.File2.Text) == "" {
		return appErr.ErrUnprocessable
	}
	if input.GeneratedAt.IsZero() {
		input.GeneratedAt = time.Now()
	}

	pdf, tr := newDocument()
	writeTitle(pdf, tr, "Similarity Analysis Report", input.GeneratedAt)
	writeScore(pdf, tr, "Overall Similarity Score", input.Score)
	writeInterpretation(pdf, tr, input.Score)
	writeProportionBar(pdf, tr, input.Score)
	writeFileTable(pdf, tr, input.File1, input.File2)
	writeMatchListing(pdf, tr, input.Matches)
	writeMethodology(pdf, tr, false)

	return pdf.OutputFileAndClose(outPath)
}

func newDocument() (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	return pdf, tr
}

func writeTitle(pdf *gofpdf.Fpdf, tr func(string) string, title string, generatedAt time.Time) {
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(21, 67, 96)
	pdf.CellFormat(0, 12, tr(title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 7, tr("Generated on "+generatedAt.Format("2006-01-02 15:04:05")), "", 1, "C", false, 0, "")
	pdf.SetDrawColor(21, 67, 96)
	pdf.SetLineWidth(0.6)
	x, y := pdf.GetX(), pdf.GetY()+2
	pdf.Line(x, y, x+190, y)
	pdf.Ln(8)
}

// scoreColor implements the three-tier coloring policy shared by the score
// headline, the source table and the match listing.
func scoreColor(score float64) (int, int, int) {
	switch {
	case score > 60:
		return 192, 57, 43 // red
	case score > 30:
		return 230, 126, 34 // orange
	default:
		return 39, 174, 96 // green
	}
}

func writeScore(pdf *gofpdf.Fpdf, tr func(string) string, label string, score float64) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(70, 9, tr(label+":"), "", 0, "L", false, 0, "")
	r, g, bl := scoreColor(score)
	pdf.SetTextColor(r, g, bl)
	pdf.CellFormat(0, 9, tr(fmt.Sprintf("%.2f%%", score)), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)
}

// Interpretation buckets a score into the plain-language wording used in
// the report. Thresholds mirror the interpretation guide section.
func Interpretation(score float64) string {
	switch {
	case score > 90:
		return "Extremely similar - the documents are identical or nearly identical."
	case score > 70:
		return "Very high similarity - significant portions may be unoriginal."
	case score > 50:
		return "High similarity - contains substantial similar content."
	case score > 30:
		return "Moderate similarity - may contain some paraphrased content."
	case score > 15:
		return "Low similarity - contains common phrases but is largely original."
	default:
		return "Very low similarity - likely original content."
	}
}

func writeInterpretation(pdf *gofpdf.Fpdf, tr func(string) string, score float64) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr("Assessment: "+Interpretation(score)), "", "L", false)
	pdf.Ln(3)
}

// writeProportionBar draws the similar-vs-different content share as a
// single horizontal bar.
func writeProportionBar(pdf *gofpdf.Fpdf, tr func(string) string, score float64) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Content Share"), "", 1, "L", false, 0, "")
	const barWidth, barHeight = 170.0, 8.0
	x, y := pdf.GetX(), pdf.GetY()
	similarWidth := barWidth * score / 100
	r, g, bl := scoreColor(score)
	pdf.SetFillColor(r, g, bl)
	pdf.Rect(x, y, similarWidth, barHeight, "F")
	pdf.SetFillColor(214, 219, 223)
	pdf.Rect(x+similarWidth, y, barWidth-similarWidth, barHeight, "F")
	pdf.SetY(y + barHeight + 2)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Similar content: %.2f%%   Different content: %.2f%%", score, 100-score)), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func writeFileTable(pdf *gofpdf.Fpdf, tr func(string) string, file1, file2 FileMeta) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Files Compared"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(212, 216, 220)
	pdf.CellFormat(130, 7, tr("Filename"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, tr("Word Count"), "1", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, meta := range []FileMeta{file1, file2} {
		pdf.CellFormat(130, 7, tr(truncate(meta.Name, 70)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, tr(fmt.Sprintf("%d", similarity.WordCount(meta.Text))), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(6)
}

// paginate splits the match list into page-sized sections; the listing
// renders one section per page.
func paginate(matches []similarity.MatchPair, perSection int) [][]similarity.MatchPair {
	if perSection <= 0 || len(matches) == 0 {
		return nil
	}
	var sections [][]similarity.MatchPair
	for start := 0; start < len(matches); start += perSection {
		end := start + perSection
		if end > len(matches) {
			end = len(matches)
		}
		sections = append(sections, matches[start:end])
	}
	return sections
}

func writeMatchListing(pdf *gofpdf.Fpdf, tr func(string) string, matches []similarity.MatchPair) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("All Matches (%d)", len(matches))), "", 1, "L", false, 0, "")
	if len(matches) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr("No significant matching passages found."), "", 1, "L", false, 0, "")
		pdf.Ln(4)
		return
	}
	sections := paginate(matches, matchesPerSection)
	index := 0
	for si, section := range sections {
		if si > 0 {
			pdf.AddPage()
		}
		for _, match := range section {
			index++
			pdf.SetFont("Helvetica", "B", 10)
			r, g, bl := scoreColor(match.Similarity)
			pdf.SetTextColor(r, g, bl)
			pdf.CellFormat(0, 6, tr(fmt.Sprintf("Match %d - %.2f%%", index, match.Similarity)), "", 1, "L", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFont("Helvetica", "", 9)
			pdf.MultiCell(0, 5, tr("Document 1: "+truncate(match.Unit1, unitDisplayLimit)), "", "L", false)
			pdf.MultiCell(0, 5, tr("Document 2: "+truncate(match.Unit2, unitDisplayLimit)), "", "L", false)
			pdf.Ln(2)
		}
	}
	pdf.Ln(4)
}

func writeMethodology(pdf *gofpdf.Fpdf, tr func(string) string, webVariant bool) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, tr("Analysis Methodology"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, tr("Similarity is measured with TF-IDF vectorization and cosine similarity between the two texts. Overlapping passages are located by comparing sentence units with a longest-matching-block edit similarity."), "", "L", false)
	if webVariant {
		pdf.MultiCell(0, 5, tr("Web sources are discovered through search queries derived from the document, fetched, scored individually, and assessed by a semantic analysis model that distinguishes exact matches, similar content and common knowledge."), "", "L", false)
	}
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, tr("Interpretation Guide"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{
		"0-15%: Very low similarity - likely original content",
		"16-30%: Low similarity - contains common phrases but largely original",
		"31-50%: Moderate similarity - may contain some paraphrased content",
		"51-70%: High similarity - contains substantial similar content",
		"71-100%: Very high similarity - significant portions may be unoriginal",
	} {
		pdf.CellFormat(0, 5, tr("- "+line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(0, 5, tr("Disclaimer: this automated analysis approximates content similarity. Common knowledge, standard phrases and coincidental matches may be flagged; results should always be interpreted by a human reviewer."), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
