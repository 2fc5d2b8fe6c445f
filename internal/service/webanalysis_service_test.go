package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/simcheck/simcheck/internal/ai"
	"github.com/simcheck/simcheck/internal/config"
	appErr "github.com/simcheck/simcheck/internal/pkg/errors"
	"github.com/simcheck/simcheck/internal/report"
	"github.com/simcheck/simcheck/internal/reportstore"
	"github.com/simcheck/simcheck/internal/repo"
	"github.com/simcheck/simcheck/internal/similarity"
	"github.com/simcheck/simcheck/internal/websearch"
	"github.com/simcheck/simcheck/test/testutil"
)

type stubOracle struct {
	response string
	err      error
	called   bool
}

func (s *stubOracle) Generate(ctx context.Context, prompt string) (string, error) {
	s.called = true
	return s.response, s.err
}

func newWebAnalysisFixture(t *testing.T, searchURL string, oracle ai.IOracle) (*WebAnalysisService, *repo.AssignmentRepo, reportstore.Store, string) {
	t.Helper()
	db, cleanup := testutil.OpenTestDB(t)
	t.Cleanup(cleanup)

	store, err := reportstore.New(config.StoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir()},
	})
	require.NoError(t, err)

	assignments := repo.NewAssignmentRepo(db)
	svc := NewWebAnalysisService(
		assignments,
		similarity.NewScorer(false),
		similarity.NewMatcher(similarity.Options{}),
		report.NewBuilder(),
		store,
		websearch.NewClient(searchURL, "test-key", 5, 5*time.Second),
		websearch.NewFetcher(5*time.Second),
		oracle,
		3000,
		5*time.Second,
		5,
	)
	return svc, assignments, store, t.TempDir()
}

func TestAnalyzeNoSources(t *testing.T) {
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"organic": []}`))
	}))
	defer search.Close()

	oracle := &stubOracle{err: ai.ErrUnavailable}
	svc, assignments, store, dir := newWebAnalysisFixture(t, search.URL, oracle)
	seedAssignment(t, assignments, dir, "essay", "Photosynthesis converts sunlight into chemical energy that plants store. This process requires chlorophyll and water throughout the growing season.")

	result, err := svc.Analyze(context.Background(), "essay")
	require.NoError(t, err)
	require.True(t, oracle.called)
	require.Equal(t, 0.0, result.Score)
	require.True(t, result.Degraded)
	require.Empty(t, result.Sources)
	require.Contains(t, result.Assessment, "No web sources")
	require.True(t, strings.HasPrefix(result.ReportKey, report.WebReportsDir+"/"))

	file, _, err := store.Open(context.Background(), result.ReportKey)
	require.NoError(t, err)
	file.Close()
}

func TestAnalyzeNoSourcesOracleVerdict(t *testing.T) {
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"organic": []}`))
	}))
	defer search.Close()

	verdict := `{"overall_score": 42, "assessment": "Partially similar.", "matches": [], "conclusion": "Some overlap."}`
	oracle := &stubOracle{response: verdict}
	svc, assignments, _, dir := newWebAnalysisFixture(t, search.URL, oracle)
	seedAssignment(t, assignments, dir, "essay", "Photosynthesis converts sunlight into chemical energy that plants store. This process requires chlorophyll and water throughout the growing season.")

	result, err := svc.Analyze(context.Background(), "essay")
	require.NoError(t, err)
	require.True(t, oracle.called)
	require.Equal(t, 42.0, result.Score)
	require.False(t, result.Degraded)
	require.Equal(t, "Partially similar.", result.Assessment)
	require.Empty(t, result.Sources)
}

func TestAnalyzeOfflineFallback(t *testing.T) {
	text := "Photosynthesis converts sunlight into chemical energy that plants store. This process requires chlorophyll and water throughout the growing season."
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>" + text + "</p></body></html>"))
	}))
	defer page.Close()
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"organic": [{"title": "Match", "link": "` + page.URL + `", "snippet": "s"}]}`))
	}))
	defer search.Close()

	svc, assignments, store, dir := newWebAnalysisFixture(t, search.URL, &stubOracle{err: ai.ErrUnavailable})
	seedAssignment(t, assignments, dir, "essay", text)

	result, err := svc.Analyze(context.Background(), "essay")
	require.NoError(t, err)
	require.True(t, result.Degraded)
	require.Len(t, result.Sources, 1)
	require.Equal(t, 100.0, result.Sources[0].Similarity)
	require.Equal(t, 100.0, result.Score)
	require.Greater(t, result.MatchCount, 0)

	file, _, err := store.Open(context.Background(), result.ReportKey)
	require.NoError(t, err)
	file.Close()
}

func TestAnalyzeWithOracleVerdict(t *testing.T) {
	text := "Photosynthesis converts sunlight into chemical energy that plants store. This process requires chlorophyll and water throughout the growing season."
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>" + text + "</p></body></html>"))
	}))
	defer page.Close()
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"organic": [{"title": "Match", "link": "` + page.URL + `", "snippet": "s"}]}`))
	}))
	defer search.Close()

	verdict := "```json\n" + `{"overall_score": 91, "assessment": "Nearly identical.", "matches": [{"assignment_text": "Photosynthesis converts sunlight into chemical energy that plants store.", "source_url": "` + page.URL + `", "source_text": "same", "similarity": 95, "match_type": "Exact Match"}], "conclusion": "Copied."}` + "\n```"
	svc, assignments, _, dir := newWebAnalysisFixture(t, search.URL, &stubOracle{response: verdict})
	seedAssignment(t, assignments, dir, "essay", text)

	result, err := svc.Analyze(context.Background(), "essay")
	require.NoError(t, err)
	require.False(t, result.Degraded)
	require.Equal(t, 91.0, result.Score)
	require.Equal(t, "Nearly identical.", result.Assessment)
	require.Equal(t, 1, result.MatchCount)
}

func TestAnalyzeEmptyDocument(t *testing.T) {
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"organic": []}`))
	}))
	defer search.Close()

	svc, assignments, _, dir := newWebAnalysisFixture(t, search.URL, &stubOracle{})
	seedAssignment(t, assignments, dir, "blank", "   ")

	_, err := svc.Analyze(context.Background(), "blank")
	require.ErrorIs(t, err, appErr.ErrUnprocessable)
}

func TestAnalyzeUnknownAssignment(t *testing.T) {
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"organic": []}`))
	}))
	defer search.Close()

	svc, _, _, _ := newWebAnalysisFixture(t, search.URL, &stubOracle{})
	_, err := svc.Analyze(context.Background(), "nope")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestQueryCandidates(t *testing.T) {
	long := "One two three four five six seven. Eight nine ten eleven twelve thirteen fourteen. " +
		"Fifteen sixteen seventeen eighteen nineteen twenty twentyone. Alpha beta gamma delta epsilon zeta eta."
	queries := queryCandidates(long)
	require.Len(t, queries, 3)
	require.Contains(t, queries[0], "One two three")

	short := "tiny text"
	queries = queryCandidates(short)
	require.Equal(t, []string{"tiny text"}, queries)

	require.Nil(t, queryCandidates("   "))
}
