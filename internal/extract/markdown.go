package extract

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

type markdownExtractor struct{}

// Markdown is rendered to HTML first so emphasis markers, link targets and
// code fences do not leak into the similarity tokens.
func (e *markdownExtractor) ExtractText(data []byte) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(data, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return StripHTML(buf.String()), nil
}
