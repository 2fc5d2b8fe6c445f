package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode"
)

type docxExtractor struct{}

func (e *docxExtractor) ExtractText(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}
		return parseDocumentXML(content), nil
	}
	return "", fmt.Errorf("docx has no word/document.xml")
}

type documentXML struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Text []docxText `xml:"t"`
}

type docxText struct {
	Content string `xml:",chardata"`
}

func parseDocumentXML(content []byte) string {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return ""
	}
	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		for _, run := range para.Runs {
			for _, text := range run.Text {
				result.WriteString(text.Content)
			}
		}
	}
	return strings.TrimSpace(result.String())
}

type docExtractor struct{}

// Legacy .doc is a binary container without an open decoder here; salvage
// the printable runs and let the normalizer discard the rest.
func (e *docExtractor) ExtractText(data []byte) (string, error) {
	var b strings.Builder
	var run []rune
	flush := func() {
		// Short printable runs inside a binary blob are noise.
		if len(run) >= 4 {
			b.WriteString(string(run))
			b.WriteString(" ")
		}
		run = run[:0]
	}
	for _, r := range string(data) {
		if r == '\n' || r == '\r' || unicode.IsPrint(r) && r < unicode.MaxASCII {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("doc contained no printable text")
	}
	return text, nil
}
