package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// MaintenanceService runs the scheduled housekeeping jobs.
type MaintenanceService struct {
	activityService *ActivityService
	retention       time.Duration
	cron            *cron.Cron
	logger          *zap.Logger
}

// NewMaintenanceService creates a MaintenanceService that keeps retentionDays of activity logs.
// A retention of 0 days disables pruning.
func NewMaintenanceService(activityService *ActivityService, retentionDays int, logger *zap.Logger) *MaintenanceService {
	return &MaintenanceService{
		activityService: activityService,
		retention:       time.Duration(retentionDays) * 24 * time.Hour,
		cron:            cron.New(cron.WithLocation(time.UTC)),
		logger:          logger,
	}
}

// Start schedules the daily log pruning and starts the scheduler.
func (s *MaintenanceService) Start() error {
	if s.retention <= 0 {
		s.logger.Info("Activity log pruning disabled")
		return nil
	}

	if _, err := s.cron.AddFunc("@daily", func() {
		if _, err := s.PruneExpired(context.Background()); err != nil {
			s.logger.Error("Scheduled log pruning failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Activity log pruning scheduled", zap.Duration("retention", s.retention))
	return nil
}

// Stop stops the scheduler and waits for a running job to finish or ctx to expire.
func (s *MaintenanceService) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// PruneExpired deletes activity logs older than the retention period.
func (s *MaintenanceService) PruneExpired(ctx context.Context) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	return s.activityService.PruneBefore(ctx, time.Now().UTC().Add(-s.retention))
}
