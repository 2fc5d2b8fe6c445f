package extract

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Extractor converts raw file bytes of one format into plain text.
type Extractor interface {
	ExtractText(data []byte) (string, error)
}

var registry = map[string]Extractor{}

func register(ext string, e Extractor) {
	registry[strings.ToLower(strings.TrimPrefix(ext, "."))] = e
}

func init() {
	register("txt", &plainExtractor{})
	register("pdf", &pdfExtractor{})
	register("docx", &docxExtractor{})
	register("doc", &docExtractor{})
	register("md", &markdownExtractor{})
}

// SupportedExt reports whether uploads with the given extension can be
// extracted. The extension may carry a leading dot.
func SupportedExt(ext string) bool {
	_, ok := registry[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return ok
}

var (
	multiNewlines = regexp.MustCompile(`\n+`)
	tabs          = regexp.MustCompile(`\t`)
)

// FromFile extracts plain text from a document on disk. Extraction never
// fails upward: any error is logged and an empty string is returned so a
// batch comparison degrades to a zero score instead of aborting.
func FromFile(ctx context.Context, path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		logutil.GetLogger(ctx).Error("read document failed", zap.String("path", path), zap.Error(err))
		return ""
	}
	return FromBytes(ctx, data, filepath.Ext(path))
}

// FromBytes extracts plain text from raw document bytes with a declared
// extension. Same failure contract as FromFile.
func FromBytes(ctx context.Context, data []byte, ext string) string {
	key := strings.ToLower(strings.TrimPrefix(ext, "."))
	extractor, ok := registry[key]
	if !ok {
		logutil.GetLogger(ctx).Warn("unsupported document type", zap.String("ext", ext))
		return ""
	}
	text, err := extractor.ExtractText(data)
	if err != nil {
		logutil.GetLogger(ctx).Error("extract text failed", zap.String("ext", ext), zap.Error(err))
		return ""
	}
	return cleanup(text)
}

// cleanup collapses newline runs and replaces tabs so the downstream
// normalizer sees uniform whitespace.
func cleanup(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = multiNewlines.ReplaceAllString(text, "\n")
	text = tabs.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

type plainExtractor struct{}

func (e *plainExtractor) ExtractText(data []byte) (string, error) {
	return string(data), nil
}
