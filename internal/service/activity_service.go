package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/metrics"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/repository"
)

// ActivityService writes and reads the per-user audit log.
type ActivityService struct {
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
	metrics      *metrics.Metrics
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activityRepo *repository.ActivityRepository, logger *zap.Logger, m *metrics.Metrics) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		logger:       logger,
		metrics:      m,
	}
}

// Record appends an audit entry for uid.
// A failed write is logged and swallowed; the user's action has already succeeded.
func (s *ActivityService) Record(ctx context.Context, uid, action, detail string) {
	entry := model.ActivityLog{
		ID:        uuid.New().String(),
		UID:       uid,
		Action:    action,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}

	if err := s.activityRepo.InsertLog(ctx, entry); err != nil {
		s.logger.Warn("Failed to record activity",
			zap.String("uid", uid),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// List returns the user's activity log, newest first.
func (s *ActivityService) List(ctx context.Context, uid string, filters model.ActivityFilters) ([]model.ActivityLog, error) {
	logs, err := s.activityRepo.ListLogs(ctx, uid, filters)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveActivity, err)
	}
	return logs, nil
}

// PruneBefore deletes every entry older than before and returns how many were removed.
func (s *ActivityService) PruneBefore(ctx context.Context, before time.Time) (int64, error) {
	n, err := s.activityRepo.DeleteLogsBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToDeleteLogs, err)
	}

	s.metrics.AddPrunedLogs(n)
	s.logger.Info("Pruned activity logs", zap.Time("before", before), zap.Int64("deleted", n))

	return n, nil
}
