package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/simcheck/simcheck/internal/ai"
	"github.com/simcheck/simcheck/internal/extract"
	appErr "github.com/simcheck/simcheck/internal/pkg/errors"
	"github.com/simcheck/simcheck/internal/report"
	"github.com/simcheck/simcheck/internal/reportstore"
	"github.com/simcheck/simcheck/internal/repo"
	"github.com/simcheck/simcheck/internal/similarity"
	"github.com/simcheck/simcheck/internal/websearch"
)

// queryMinWords filters sentences too short to make meaningful search
// queries.
const queryMinWords = 6

// WebAnalysisResult is returned to the caller after the web report has
// been stored.
type WebAnalysisResult struct {
	AssignmentID string             `json:"assignment_id"`
	Score        float64            `json:"score"`
	Assessment   string             `json:"assessment"`
	Conclusion   string             `json:"conclusion"`
	Degraded     bool               `json:"degraded"`
	Sources      []websearch.Source `json:"sources"`
	MatchCount   int                `json:"match_count"`
	ReportKey    string             `json:"report_key"`
}

type WebAnalysisService struct {
	assignments   *repo.AssignmentRepo
	scorer        *similarity.Scorer
	matcher       *similarity.Matcher
	builder       *report.Builder
	store         reportstore.Store
	search        *websearch.Client
	fetcher       *websearch.Fetcher
	oracle        ai.IOracle
	maxInputChars int
	oracleTimeout time.Duration
	maxSources    int
}

func NewWebAnalysisService(
	assignments *repo.AssignmentRepo,
	scorer *similarity.Scorer,
	matcher *similarity.Matcher,
	builder *report.Builder,
	store reportstore.Store,
	search *websearch.Client,
	fetcher *websearch.Fetcher,
	oracle ai.IOracle,
	maxInputChars int,
	oracleTimeout time.Duration,
	maxSources int,
) *WebAnalysisService {
	return &WebAnalysisService{
		assignments:   assignments,
		scorer:        scorer,
		matcher:       matcher,
		builder:       builder,
		store:         store,
		search:        search,
		fetcher:       fetcher,
		oracle:        oracle,
		maxInputChars: maxInputChars,
		oracleTimeout: oracleTimeout,
		maxSources:    maxSources,
	}
}

// Analyze runs the full web pipeline for one assignment: query derivation,
// search, fetch, per-source scoring, oracle judgment and report building.
// Search and fetch failures degrade to fewer sources; only an empty
// document or a failed report write surface as errors.
func (s *WebAnalysisService) Analyze(ctx context.Context, assignmentID string) (*WebAnalysisResult, error) {
	assignment, err := s.assignments.Get(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	text := extract.FromFile(ctx, assignment.FilePath)
	if similarity.Normalize(text) == "" {
		return nil, fmt.Errorf("%w: no extractable text in %s", appErr.ErrUnprocessable, assignment.Filename)
	}

	sources := s.collectSources(ctx, text)
	judgment := s.judge(ctx, text, sources)

	input := report.WebInput{
		DocumentName: assignment.Filename,
		DocumentText: text,
		Score:        similarity.Round2(judgment.OverallScore),
		Assessment:   judgment.Assessment,
		Conclusion:   judgment.Conclusion,
		GeneratedAt:  time.Now(),
	}
	for _, source := range sources {
		input.Sources = append(input.Sources, report.WebSourceRow{
			URL:        source.URL,
			Title:      source.Title,
			Similarity: source.Similarity,
		})
	}
	for _, match := range judgment.Matches {
		input.Matches = append(input.Matches, report.WebMatch{
			AssignmentText: match.AssignmentText,
			SourceURL:      match.SourceURL,
			SourceText:     match.SourceText,
			MatchType:      match.MatchType,
			Similarity:     match.Similarity,
		})
	}

	key := report.WebReportName(assignment.Filename)
	if err := s.writeWebReport(ctx, input, key); err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Info("web analysis completed",
		zap.String("assignment_id", assignmentID),
		zap.Int("sources", len(sources)),
		zap.Float64("score", input.Score),
		zap.Bool("degraded", judgment.Degraded))

	return &WebAnalysisResult{
		AssignmentID: assignmentID,
		Score:        input.Score,
		Assessment:   judgment.Assessment,
		Conclusion:   judgment.Conclusion,
		Degraded:     judgment.Degraded,
		Sources:      sources,
		MatchCount:   len(judgment.Matches),
		ReportKey:    key,
	}, nil
}

// collectSources derives search queries from the document, queries the
// search API, deduplicates hits by URL and fetches page content for the
// top results. Each fetched source is scored against the document.
func (s *WebAnalysisService) collectSources(ctx context.Context, text string) []websearch.Source {
	logger := logutil.GetLogger(ctx)
	seen := make(map[string]struct{})
	var hits []websearch.Result
	for _, query := range queryCandidates(text) {
		results, err := s.search.Search(ctx, query)
		if err != nil {
			logger.Warn("search query failed", zap.String("query", query), zap.Error(err))
			continue
		}
		for _, result := range results {
			if result.URL == "" {
				continue
			}
			if _, ok := seen[result.URL]; ok {
				continue
			}
			seen[result.URL] = struct{}{}
			hits = append(hits, result)
		}
	}

	var sources []websearch.Source
	for _, hit := range hits {
		if len(sources) >= s.maxSources {
			break
		}
		content, err := s.fetcher.FetchText(ctx, hit.URL)
		if err != nil || content == "" {
			logger.Warn("source fetch skipped", zap.String("url", hit.URL), zap.Error(err))
			continue
		}
		sources = append(sources, websearch.Source{
			URL:        hit.URL,
			Title:      hit.Title,
			Snippet:    hit.Snippet,
			Content:    content,
			Similarity: s.scorer.Score(ctx, text, content),
		})
	}
	return sources
}

// judge asks the oracle for a verdict and falls back to offline scoring
// when the oracle is unavailable or errors out. The oracle is consulted
// even with an empty source list; the score is its judgment to make.
func (s *WebAnalysisService) judge(ctx context.Context, text string, sources []websearch.Source) ai.Judgment {
	inputs := make([]ai.SourceInput, 0, len(sources))
	for _, source := range sources {
		inputs = append(inputs, ai.SourceInput{URL: source.URL, Content: source.Content})
	}
	prompt := ai.BuildJudgmentPrompt(text, inputs, s.maxInputChars)

	oracleCtx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
	defer cancel()
	raw, err := s.oracle.Generate(oracleCtx, prompt)
	if err != nil {
		logutil.GetLogger(ctx).Warn("oracle unavailable, falling back to offline scoring", zap.Error(err))
		return s.offlineJudgment(text, sources)
	}
	return ai.ParseJudgment(raw)
}

// offlineJudgment approximates the oracle's verdict from TF-IDF scores and
// sentence matching against the highest-scoring source.
func (s *WebAnalysisService) offlineJudgment(text string, sources []websearch.Source) ai.Judgment {
	if len(sources) == 0 {
		return ai.Judgment{
			Assessment: "No web sources were found for this document.",
			Conclusion: "The document could not be matched against online content.",
			Degraded:   true,
		}
	}
	best := sources[0]
	for _, source := range sources[1:] {
		if source.Similarity > best.Similarity {
			best = source
		}
	}
	judgment := ai.Judgment{
		OverallScore: best.Similarity,
		Assessment:   report.Interpretation(best.Similarity),
		Conclusion:   "Semantic analysis was unavailable; scores reflect statistical text similarity only.",
		Degraded:     true,
	}
	for _, match := range s.matcher.FindMatches(text, best.Content) {
		judgment.Matches = append(judgment.Matches, ai.JudgmentMatch{
			AssignmentText: match.Unit1,
			SourceURL:      best.URL,
			SourceText:     match.Unit2,
			Similarity:     match.Similarity,
			MatchType:      "Similar Content",
		})
	}
	return judgment
}

func (s *WebAnalysisService) writeWebReport(ctx context.Context, input report.WebInput, key string) error {
	tmp := filepath.Join(os.TempDir(), filepath.Base(key))
	if err := s.builder.BuildWeb(input, tmp); err != nil {
		return err
	}
	defer os.Remove(tmp)
	file, err := os.Open(tmp)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.store.Save(ctx, key, file)
}

var sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)

// queryCandidates picks up to three representative sentences (start, middle
// and end of the document) as search queries. Short documents fall back to
// their leading characters.
func queryCandidates(text string) []string {
	var candidates []string
	for _, part := range sentenceBoundary.Split(text, -1) {
		part = strings.TrimSpace(part)
		if len(strings.Fields(part)) >= queryMinWords {
			candidates = append(candidates, part)
		}
	}
	switch {
	case len(candidates) >= 3:
		return []string{candidates[0], candidates[len(candidates)/2], candidates[len(candidates)-1]}
	case len(candidates) > 0:
		return candidates
	}
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	if len(runes) > 100 {
		trimmed = string(runes[:100])
	}
	if trimmed == "" {
		return nil
	}
	return []string{trimmed}
}
