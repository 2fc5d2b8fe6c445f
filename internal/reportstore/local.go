package reportstore

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	appErr "github.com/simcheck/simcheck/internal/pkg/errors"
)

type localConfig struct {
	Dir string `json:"dir"`
}

type localStore struct {
	dir string
}

func init() {
	Register("local", createLocalStore)
}

func createLocalStore(args interface{}) (Store, error) {
	config := &localConfig{}
	if err := decodeConfig(args, config); err != nil {
		return nil, err
	}
	if config.Dir == "" {
		return nil, fmt.Errorf("local store dir is required")
	}
	return &localStore{dir: config.Dir}, nil
}

func (s *localStore) Save(ctx context.Context, key string, r io.Reader) error {
	_ = ctx
	if err := validateKey(key); err != nil {
		return err
	}
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, r)
	return err
}

func (s *localStore) Open(ctx context.Context, key string) (io.ReadCloser, Info, error) {
	_ = ctx
	if err := validateKey(key); err != nil {
		return nil, Info{}, err
	}
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Info{}, appErr.ErrNotFound
		}
		return nil, Info{}, err
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, Info{}, err
	}
	return file, Info{Key: key, Size: stat.Size(), Ctime: stat.ModTime()}, nil
}

func (s *localStore) List(ctx context.Context) ([]Info, error) {
	_ = ctx
	var infos []Info
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".pdf") {
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		stat, err := d.Info()
		if err != nil {
			return err
		}
		infos = append(infos, Info{
			Key:   filepath.ToSlash(rel),
			Size:  stat.Size(),
			Ctime: stat.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Ctime.After(infos[j].Ctime) })
	return infos, nil
}

func (s *localStore) Delete(ctx context.Context, key string) error {
	_ = ctx
	if err := validateKey(key); err != nil {
		return err
	}
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return appErr.ErrNotFound
		}
		return err
	}
	return nil
}
