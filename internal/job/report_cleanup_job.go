package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/simcheck/simcheck/internal/service"
)

// ReportCleanupJob deletes report artifacts older than the retention
// window. Retention of zero or less disables the job at wiring time; the
// guard here is a second line of defense.
type ReportCleanupJob struct {
	reports       *service.ReportService
	retentionDays int
}

func NewReportCleanupJob(reports *service.ReportService, retentionDays int) *ReportCleanupJob {
	return &ReportCleanupJob{reports: reports, retentionDays: retentionDays}
}

func (j *ReportCleanupJob) Name() string {
	return "report_cleanup"
}

func (j *ReportCleanupJob) Run(ctx context.Context) error {
	if j.reports == nil || j.retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -j.retentionDays)
	deleted, err := j.reports.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logutil.GetLogger(ctx).Info("expired reports removed", zap.Int("count", deleted))
	}
	return nil
}
