package reportstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/simcheck/simcheck/internal/config"
)

// Info describes one stored report artifact. Key is relative to the store
// root and may contain the web_reports/ subfolder.
type Info struct {
	Key   string    `json:"key"`
	Size  int64     `json:"size"`
	Ctime time.Time `json:"ctime"`
}

type Store interface {
	Save(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, Info, error)
	List(ctx context.Context) ([]Info, error)
	Delete(ctx context.Context, key string) error
}

type Factory func(args interface{}) (Store, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(cfg config.StoreConfig) (Store, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Type))
	if key == "" {
		return nil, fmt.Errorf("reports.store.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported report store type: %s", cfg.Type)
	}
	return factory(cfg.Data)
}

// validateKey rejects keys that escape the store root. Report keys are at
// most one folder deep (the web_reports/ subfolder).
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("report key is required")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") || strings.Contains(key, "..") {
		return fmt.Errorf("invalid report key")
	}
	if strings.Count(key, "/") > 1 {
		return fmt.Errorf("invalid report key")
	}
	return nil
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("store config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode store config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode store config: %w", err)
	}
	return nil
}
