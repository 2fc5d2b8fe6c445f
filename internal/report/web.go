package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	appErr "github.com/simcheck/simcheck/internal/pkg/errors"
	"github.com/simcheck/simcheck/internal/similarity"
)

type WebSourceRow struct {
	URL        string
	Title      string
	Similarity float64
}

type WebMatch struct {
	AssignmentText string
	SourceURL      string
	SourceText     string
	MatchType      string
	Similarity     float64
}

// WebInput is the merged result of the web orchestrator: the oracle's
// judgment plus the individually scored sources and the full document text
// for the highlighted rendering.
type WebInput struct {
	DocumentName string
	DocumentText string
	Score        float64
	Assessment   string
	Conclusion   string
	Sources      []WebSourceRow
	Matches      []WebMatch
	GeneratedAt  time.Time
}

// BuildWeb writes the web-analysis report to outPath. An empty document is
// a hard input error; everything else renders, including an empty source
// list.
func (b *Builder) BuildWeb(input WebInput, outPath string) error {
	if similarity.Normalize(input.DocumentText) == "" {
		return appErr.ErrUnprocessable
	}
	if input.GeneratedAt.IsZero() {
		input.GeneratedAt = time.Now()
	}

	pdf, tr := newDocument()
	writeTitle(pdf, tr, "Assignment Web Similarity Analysis", input.GeneratedAt)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr("Executive Summary"), "", 1, "L", false, 0, "")
	writeScore(pdf, tr, "Overall Web Similarity Score", input.Score)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, tr("Assessment: "+fallbackText(input.Assessment, "No assessment available.")), "", "L", false)
	pdf.MultiCell(0, 5, tr("Conclusion: "+fallbackText(input.Conclusion, "No conclusion available.")), "", "L", false)
	pdf.Ln(4)

	writeSourceTable(pdf, tr, input.Sources)
	writeWebMatches(pdf, tr, input.Matches)
	writeHighlightedText(pdf, tr, input.DocumentText, input.Matches)
	writeMethodology(pdf, tr, true)

	return pdf.OutputFileAndClose(outPath)
}

func writeSourceTable(pdf *gofpdf.Fpdf, tr func(string) string, sources []WebSourceRow) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, tr("Web Sources Analyzed"), "", 1, "L", false, 0, "")
	if len(sources) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr("No web sources found for analysis."), "", 1, "L", false, 0, "")
		pdf.Ln(4)
		return
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(174, 214, 241)
	pdf.CellFormat(140, 7, tr("Source URL"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, tr("Similarity"), "1", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, source := range sources {
		pdf.CellFormat(140, 7, tr(truncate(source.URL, 80)), "1", 0, "L", false, 0, "")
		r, g, bl := scoreColor(source.Similarity)
		pdf.SetTextColor(r, g, bl)
		pdf.CellFormat(30, 7, tr(fmt.Sprintf("%.2f%%", source.Similarity)), "1", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(6)
}

func writeWebMatches(pdf *gofpdf.Fpdf, tr func(string) string, matches []WebMatch) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Detailed Content Matches (%d)", len(matches))), "", 1, "L", false, 0, "")
	if len(matches) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr("No specific content matches were identified."), "", 1, "L", false, 0, "")
		pdf.Ln(4)
		return
	}
	for i, match := range matches {
		if i > 0 && i%matchesPerSection == 0 {
			pdf.AddPage()
		}
		pdf.SetFont("Helvetica", "B", 10)
		r, g, bl := scoreColor(match.Similarity)
		pdf.SetTextColor(r, g, bl)
		matchType := fallbackText(match.MatchType, "Match")
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Match %d - %s (%.2f%%)", i+1, matchType, match.Similarity)), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, tr("Assignment: "+truncate(match.AssignmentText, unitDisplayLimit)), "", "L", false)
		pdf.MultiCell(0, 5, tr("Source: "+truncate(match.SourceURL, unitDisplayLimit)), "", "L", false)
		pdf.MultiCell(0, 5, tr("Source Text: "+truncate(match.SourceText, unitDisplayLimit)), "", "L", false)
		pdf.Ln(2)
	}
	pdf.Ln(4)
}

// writeHighlightedText renders the complete document in original order,
// paragraph by paragraph, emphasizing passages attributed to a web source.
func writeHighlightedText(pdf *gofpdf.Fpdf, tr func(string) string, documentText string, matches []WebMatch) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, tr("Full Document with Highlighted Matches"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 5, tr("Passages in red were matched to a web source with more than 60% similarity."), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)

	for _, paragraph := range strings.Split(documentText, "\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			pdf.Ln(3)
			continue
		}
		sourceURL := ""
		for _, seg := range highlightParagraph(paragraph, matches) {
			if seg.highlighted {
				pdf.SetFont("Helvetica", "B", 10)
				pdf.SetTextColor(192, 57, 43)
				if sourceURL == "" {
					sourceURL = seg.sourceURL
				}
			} else {
				pdf.SetFont("Helvetica", "", 10)
				pdf.SetTextColor(0, 0, 0)
			}
			pdf.Write(5, tr(seg.text))
		}
		pdf.Ln(5)
		if sourceURL != "" {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.SetTextColor(90, 90, 90)
			pdf.Write(4, tr("Source: "+sourceURL))
			pdf.Ln(5)
			pdf.SetTextColor(0, 0, 0)
		}
	}
}

func fallbackText(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
