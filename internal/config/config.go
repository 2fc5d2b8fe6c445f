package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port             int              `json:"port"`
	DBPath           string           `json:"db_path"`
	LogConfig        logger.LogConfig `json:"log_config"`
	Upload           UploadConfig     `json:"upload"`
	Reports          ReportsConfig    `json:"reports"`
	Similarity       SimilarityConfig `json:"similarity"`
	Search           SearchConfig     `json:"search"`
	Oracle           OracleConfig     `json:"oracle"`
	CORSAllowOrigins []string         `json:"cors_allow_origins"`
}

type UploadConfig struct {
	Dir       string `json:"dir"`
	MaxSizeMB int64  `json:"max_size_mb"`
}

type ReportsConfig struct {
	Store         StoreConfig `json:"store"`
	RetentionDays int         `json:"retention_days"`
	CleanupSpec   string      `json:"cleanup_spec"`
}

type StoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type SimilarityConfig struct {
	Threshold        float64 `json:"threshold"`
	Strategy         string  `json:"strategy"`
	MinSentenceWords int     `json:"min_sentence_words"`
	MinPhraseRun     int     `json:"min_phrase_run"`
	UseStemming      bool    `json:"use_stemming"`
}

type SearchConfig struct {
	Endpoint       string `json:"endpoint"`
	APIKey         string `json:"api_key"`
	MaxResults     int    `json:"max_results"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type OracleConfig struct {
	Provider       string      `json:"provider"`
	Model          string      `json:"model"`
	MaxInputChars  int         `json:"max_input_chars"`
	TimeoutSeconds int         `json:"timeout_seconds"`
	Data           interface{} `json:"data"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db_path is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Upload.Dir == "" {
		cfg.Upload.Dir = "uploads"
	}
	if cfg.Upload.MaxSizeMB == 0 {
		cfg.Upload.MaxSizeMB = 10
	}
	if cfg.Reports.Store.Type == "" {
		cfg.Reports.Store.Type = "local"
	}
	if cfg.Reports.Store.Type == "local" && cfg.Reports.Store.Data == nil {
		cfg.Reports.Store.Data = map[string]interface{}{"dir": "reports"}
	}
	if cfg.Reports.CleanupSpec == "" {
		cfg.Reports.CleanupSpec = "0 3 * * *"
	}
	if cfg.Similarity.Threshold == 0 {
		cfg.Similarity.Threshold = 0.6
	}
	if cfg.Similarity.Strategy == "" {
		cfg.Similarity.Strategy = "sentence"
	}
	if cfg.Similarity.MinSentenceWords == 0 {
		cfg.Similarity.MinSentenceWords = 3
	}
	if cfg.Similarity.MinPhraseRun == 0 {
		cfg.Similarity.MinPhraseRun = 4
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = 5
	}
	if cfg.Search.TimeoutSeconds == 0 {
		cfg.Search.TimeoutSeconds = 10
	}
	if cfg.Oracle.Provider == "" {
		cfg.Oracle.Provider = "gemini"
	}
	if cfg.Oracle.Model == "" {
		cfg.Oracle.Model = "gemini-1.5-pro"
	}
	if cfg.Oracle.MaxInputChars == 0 {
		cfg.Oracle.MaxInputChars = 3000
	}
	if cfg.Oracle.TimeoutSeconds == 0 {
		cfg.Oracle.TimeoutSeconds = 60
	}
	return &cfg, nil
}
