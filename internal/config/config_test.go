package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{"port": 8080, "db_path": "/tmp/simcheck.db"}`))
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "info", cfg.LogConfig.Level)
	require.Equal(t, "uploads", cfg.Upload.Dir)
	require.Equal(t, int64(10), cfg.Upload.MaxSizeMB)
	require.Equal(t, "local", cfg.Reports.Store.Type)
	require.Equal(t, "0 3 * * *", cfg.Reports.CleanupSpec)
	require.Equal(t, 0.6, cfg.Similarity.Threshold)
	require.Equal(t, "sentence", cfg.Similarity.Strategy)
	require.Equal(t, 3, cfg.Similarity.MinSentenceWords)
	require.Equal(t, 4, cfg.Similarity.MinPhraseRun)
	require.Equal(t, 5, cfg.Search.MaxResults)
	require.Equal(t, 10, cfg.Search.TimeoutSeconds)
	require.Equal(t, "gemini", cfg.Oracle.Provider)
	require.Equal(t, 3000, cfg.Oracle.MaxInputChars)
}

func TestLoadKeepsExplicitValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{
		"port": 9000,
		"db_path": "/data/db.sqlite",
		"similarity": {"threshold": 0.8, "strategy": "phrase"},
		"reports": {"store": {"type": "s3"}, "retention_days": 30}
	}`))
	require.NoError(t, err)
	require.Equal(t, 0.8, cfg.Similarity.Threshold)
	require.Equal(t, "phrase", cfg.Similarity.Strategy)
	require.Equal(t, "s3", cfg.Reports.Store.Type)
	require.Equal(t, 30, cfg.Reports.RetentionDays)
}

func TestLoadValidation(t *testing.T) {
	_, err := Load(writeConfig(t, `{"db_path": "/tmp/x.db"}`))
	require.Error(t, err)

	_, err = Load(writeConfig(t, `{"port": 8080}`))
	require.Error(t, err)

	_, err = Load(writeConfig(t, `not json`))
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
