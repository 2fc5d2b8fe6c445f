package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/simcheck/simcheck/internal/extract"
	"github.com/simcheck/simcheck/internal/model"
	appErr "github.com/simcheck/simcheck/internal/pkg/errors"
	"github.com/simcheck/simcheck/internal/repo"
	"github.com/simcheck/simcheck/internal/report"
	"github.com/simcheck/simcheck/internal/reportstore"
	"github.com/simcheck/simcheck/internal/similarity"
)

const (
	// textCacheSize and textCacheTTL bound the extracted-text cache. A batch
	// over N assignments touches each file N-1 times; caching makes that one
	// extraction per file.
	textCacheSize = 128
	textCacheTTL  = 10 * time.Minute

	// maxBatchAssignments caps a single comparison request. The pair count
	// grows quadratically, so the bound keeps one request from occupying the
	// server for minutes.
	maxBatchAssignments = 20
)

// PairResult is the outcome of one pairwise comparison inside a batch.
// Failed pairs carry Error and zero values; the batch itself still
// succeeds.
type PairResult struct {
	Assignment1 string  `json:"assignment1_id"`
	Assignment2 string  `json:"assignment2_id"`
	Title1      string  `json:"title1"`
	Title2      string  `json:"title2"`
	File1       string  `json:"file1"`
	File2       string  `json:"file2"`
	Score       float64 `json:"score"`
	MatchCount  int     `json:"match_count"`
	ReportKey   string  `json:"report_key,omitempty"`
	Error       string  `json:"error,omitempty"`
}

type ComparisonService struct {
	assignments *repo.AssignmentRepo
	scorer      *similarity.Scorer
	matcher     *similarity.Matcher
	builder     *report.Builder
	store       reportstore.Store
	textCache   *expirable.LRU[string, string]
}

func NewComparisonService(assignments *repo.AssignmentRepo, scorer *similarity.Scorer, matcher *similarity.Matcher, builder *report.Builder, store reportstore.Store) *ComparisonService {
	return &ComparisonService{
		assignments: assignments,
		scorer:      scorer,
		matcher:     matcher,
		builder:     builder,
		store:       store,
		textCache:   expirable.NewLRU[string, string](textCacheSize, nil, textCacheTTL),
	}
}

// CompareBatch compares every unique pair among the given assignments. One
// failing pair does not abort the rest; its result carries the error text.
func (s *ComparisonService) CompareBatch(ctx context.Context, ids []string) ([]PairResult, error) {
	if len(ids) < 2 {
		return nil, fmt.Errorf("%w: at least two assignments are required", appErr.ErrInvalid)
	}
	if len(ids) > maxBatchAssignments {
		return nil, fmt.Errorf("%w: at most %d assignments per batch", appErr.ErrTooMany, maxBatchAssignments)
	}
	assignments, err := s.assignments.GetByIDs(ctx, uniqueStrings(ids))
	if err != nil {
		return nil, err
	}
	if len(assignments) < 2 {
		return nil, fmt.Errorf("%w: fewer than two of the requested assignments exist", appErr.ErrNotFound)
	}

	var results []PairResult
	for i := 0; i < len(assignments); i++ {
		for j := i + 1; j < len(assignments); j++ {
			results = append(results, s.comparePair(ctx, assignments[i], assignments[j]))
		}
	}
	logutil.GetLogger(ctx).Info("comparison batch completed",
		zap.Int("assignments", len(assignments)), zap.Int("pairs", len(results)))
	return results, nil
}

func (s *ComparisonService) comparePair(ctx context.Context, a1, a2 *model.Assignment) PairResult {
	result := PairResult{
		Assignment1: a1.ID,
		Assignment2: a2.ID,
		Title1:      a1.Title,
		Title2:      a2.Title,
		File1:       a1.Filename,
		File2:       a2.Filename,
	}
	text1 := s.extractText(ctx, a1.FilePath)
	text2 := s.extractText(ctx, a2.FilePath)

	score := s.scorer.Score(ctx, text1, text2)
	matches := s.matcher.FindMatches(text1, text2)

	key, err := s.writeReport(ctx, report.PairInput{
		File1:       report.FileMeta{Name: a1.Filename, Text: text1},
		File2:       report.FileMeta{Name: a2.Filename, Text: text2},
		Score:       score,
		Matches:     matches,
		GeneratedAt: time.Now(),
	}, report.PairReportName(a1.Filename, a2.Filename))
	if err != nil {
		logutil.GetLogger(ctx).Error("pair comparison failed",
			zap.String("id1", a1.ID), zap.String("id2", a2.ID), zap.Error(err))
		result.Error = err.Error()
		return result
	}
	result.Score = score
	result.MatchCount = len(matches)
	result.ReportKey = key
	return result
}

// writeReport renders the artifact to a temp file and hands it to the
// store. The builder targets the filesystem; the store may not.
func (s *ComparisonService) writeReport(ctx context.Context, input report.PairInput, key string) (string, error) {
	tmp := filepath.Join(os.TempDir(), filepath.Base(key))
	if err := s.builder.BuildPair(input, tmp); err != nil {
		return "", err
	}
	defer os.Remove(tmp)
	file, err := os.Open(tmp)
	if err != nil {
		return "", err
	}
	defer file.Close()
	if err := s.store.Save(ctx, key, file); err != nil {
		return "", err
	}
	return key, nil
}

// extractText reads a document through the cache. Extraction already
// degrades to empty on failure, and empty results are cached too: a broken
// file stays broken for the rest of the batch.
func (s *ComparisonService) extractText(ctx context.Context, path string) string {
	if text, ok := s.textCache.Get(path); ok {
		return text
	}
	text := extract.FromFile(ctx, path)
	s.textCache.Add(path, text)
	return text
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
