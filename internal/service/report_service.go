package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/simcheck/simcheck/internal/report"
	"github.com/simcheck/simcheck/internal/reportstore"
)

// ReportItem is one stored report in the listing, tagged with its variant.
type ReportItem struct {
	Key   string    `json:"key"`
	Kind  string    `json:"kind"`
	Size  int64     `json:"size"`
	Ctime time.Time `json:"ctime"`
}

type ReportService struct {
	store reportstore.Store
}

func NewReportService(store reportstore.Store) *ReportService {
	return &ReportService{store: store}
}

func (s *ReportService) List(ctx context.Context) ([]ReportItem, error) {
	infos, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]ReportItem, 0, len(infos))
	for _, info := range infos {
		kind := "pair"
		if strings.HasPrefix(info.Key, report.WebReportsDir+"/") {
			kind = "web"
		}
		items = append(items, ReportItem{Key: info.Key, Kind: kind, Size: info.Size, Ctime: info.Ctime})
	}
	return items, nil
}

func (s *ReportService) Open(ctx context.Context, key string) (io.ReadCloser, reportstore.Info, error) {
	return s.store.Open(ctx, key)
}

func (s *ReportService) Delete(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("report deleted", zap.String("key", key))
	return nil
}

// DeleteOlderThan removes reports past the retention window and returns how
// many were deleted. Used by the cleanup job.
func (s *ReportService) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	infos, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, info := range infos {
		if !info.Ctime.Before(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, info.Key); err != nil {
			logutil.GetLogger(ctx).Warn("delete expired report failed",
				zap.String("key", info.Key), zap.Error(err))
			continue
		}
		deleted++
	}
	return deleted, nil
}
