package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appErr "github.com/simcheck/simcheck/internal/pkg/errors"
	"github.com/simcheck/simcheck/internal/similarity"
)

func TestBuildPair(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "report.pdf")
	input := PairInput{
		File1: FileMeta{Name: "essay_a.txt", Text: "The quick brown fox jumps over the lazy dog."},
		File2: FileMeta{Name: "essay_b.txt", Text: "The quick brown fox leaps over the lazy dog."},
		Score: 87.5,
		Matches: []similarity.MatchPair{
			{Unit1: "The quick brown fox jumps over the lazy dog.", Unit2: "The quick brown fox leaps over the lazy dog.", Similarity: 93.18},
		},
		GeneratedAt: time.Now(),
	}
	require.NoError(t, NewBuilder().BuildPair(input, out))
	stat, err := os.Stat(out)
	require.NoError(t, err)
	require.Greater(t, stat.Size(), int64(0))
}

func TestBuildPairBothEmpty(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "report.pdf")
	input := PairInput{
		File1: FileMeta{Name: "a.txt", Text: "   "},
		File2: FileMeta{Name: "b.txt", Text: "!!! ???"},
	}
	err := NewBuilder().BuildPair(input, out)
	require.ErrorIs(t, err, appErr.ErrUnprocessable)
	_, statErr := os.Stat(out)
	require.True(t, os.IsNotExist(statErr), "no artifact may be written for unprocessable input")
}

func TestBuildPairOneEmpty(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "report.pdf")
	input := PairInput{
		File1: FileMeta{Name: "a.txt", Text: "real content in one document"},
		File2: FileMeta{Name: "b.txt", Text: ""},
		Score: 0,
	}
	require.NoError(t, NewBuilder().BuildPair(input, out))
}

func TestBuildWeb(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "web_report.pdf")
	input := WebInput{
		DocumentName: "essay.txt",
		DocumentText: "Photosynthesis converts sunlight into chemical energy.\nPlants use chlorophyll for this process.",
		Score:        72.4,
		Assessment:   "High similarity to online sources.",
		Conclusion:   "Several passages appear to be copied.",
		Sources: []WebSourceRow{
			{URL: "https://example.com/photosynthesis", Title: "Photosynthesis", Similarity: 72.4},
		},
		Matches: []WebMatch{
			{
				AssignmentText: "Photosynthesis converts sunlight into chemical energy.",
				SourceURL:      "https://example.com/photosynthesis",
				SourceText:     "Photosynthesis converts sunlight into chemical energy.",
				MatchType:      "Exact Match",
				Similarity:     98,
			},
		},
		GeneratedAt: time.Now(),
	}
	require.NoError(t, NewBuilder().BuildWeb(input, out))
	stat, err := os.Stat(out)
	require.NoError(t, err)
	require.Greater(t, stat.Size(), int64(0))
}

func TestBuildWebEmptyDocument(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "web_report.pdf")
	err := NewBuilder().BuildWeb(WebInput{DocumentName: "a.txt", DocumentText: " ... "}, out)
	require.ErrorIs(t, err, appErr.ErrUnprocessable)
	_, statErr := os.Stat(out)
	require.True(t, os.IsNotExist(statErr))
}

func TestPaginate(t *testing.T) {
	matches := make([]similarity.MatchPair, 25)
	sections := paginate(matches, 10)
	require.Len(t, sections, 3)
	require.Len(t, sections[0], 10)
	require.Len(t, sections[1], 10)
	require.Len(t, sections[2], 5)

	require.Nil(t, paginate(nil, 10))
	require.Nil(t, paginate(matches, 0))
	require.Len(t, paginate(matches[:10], 10), 1)
}

func TestInterpretation(t *testing.T) {
	require.Equal(t, "Extremely similar - the documents are identical or nearly identical.", Interpretation(100))
	require.Contains(t, Interpretation(95), "Extremely similar")
	require.Contains(t, Interpretation(80), "Very high similarity")
	require.Contains(t, Interpretation(60), "High similarity")
	require.Contains(t, Interpretation(40), "Moderate similarity")
	require.Contains(t, Interpretation(20), "Low similarity")
	require.Contains(t, Interpretation(5), "Very low similarity")
}

func TestReportNames(t *testing.T) {
	name1 := PairReportName("a.txt", "b.txt")
	time.Sleep(time.Microsecond)
	name2 := PairReportName("a.txt", "b.txt")
	require.Regexp(t, `^similarity_report_[0-9a-f]{8}\.pdf$`, name1)
	require.NotEqual(t, name1, name2, "repeated comparisons must not collide")

	webName := WebReportName("essay.docx")
	require.Regexp(t, `^web_reports/web_similarity_report_[0-9a-f]{8}\.pdf$`, webName)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "abcde...", truncate("abcdefghij", 5))
}
