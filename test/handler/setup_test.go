package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/simcheck/simcheck/internal/ai"
	"github.com/simcheck/simcheck/internal/config"
	"github.com/simcheck/simcheck/internal/handler"
	"github.com/simcheck/simcheck/internal/middleware"
	"github.com/simcheck/simcheck/internal/report"
	"github.com/simcheck/simcheck/internal/reportstore"
	"github.com/simcheck/simcheck/internal/repo"
	"github.com/simcheck/simcheck/internal/service"
	"github.com/simcheck/simcheck/internal/similarity"
	"github.com/simcheck/simcheck/internal/websearch"
	"github.com/simcheck/simcheck/test/testutil"
)

func setupRouter(t *testing.T, searchURL string) (http.Handler, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, cleanup := testutil.OpenTestDB(t)

	store, err := reportstore.New(config.StoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir()},
	})
	require.NoError(t, err)

	assignmentRepo := repo.NewAssignmentRepo(db)
	scorer := similarity.NewScorer(false)
	matcher := similarity.NewMatcher(similarity.Options{})
	builder := report.NewBuilder()

	provider, err := ai.NewProvider("gemini", map[string]interface{}{"api_key": ""})
	require.NoError(t, err)
	oracle := ai.NewOracle(provider, "gemini-1.5-pro")

	assignmentService := service.NewAssignmentService(assignmentRepo, t.TempDir(), 10)
	comparisonService := service.NewComparisonService(assignmentRepo, scorer, matcher, builder, store)
	reportService := service.NewReportService(store)
	webAnalysisService := service.NewWebAnalysisService(
		assignmentRepo,
		scorer,
		matcher,
		builder,
		store,
		websearch.NewClient(searchURL, "test-key", 5, 5*time.Second),
		websearch.NewFetcher(5*time.Second),
		oracle,
		3000,
		5*time.Second,
		5,
	)

	deps := handler.RouterDeps{
		Assignments: handler.NewAssignmentHandler(assignmentService),
		Comparisons: handler.NewComparisonHandler(comparisonService),
		WebAnalysis: handler.NewWebAnalysisHandler(webAnalysisService),
		Reports:     handler.NewReportHandler(reportService),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)

	return engine, cleanup
}

func stubSearchServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"organic": []}`))
	}))
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var env envelope
	if len(resp.Body.Bytes()) > 0 && resp.Header().Get("Content-Type") != "application/pdf" {
		_ = json.Unmarshal(resp.Body.Bytes(), &env)
	}
	return resp, env
}

func uploadAssignment(t *testing.T, router http.Handler, filename, title string, content []byte) string {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("title", title))
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	require.Zero(t, env.Code, resp.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func uploadExpectingError(t *testing.T, router http.Handler, filename, title string, content []byte) envelope {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("title", title))
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	require.NotZero(t, env.Code, resp.Body.String())
	return env
}
