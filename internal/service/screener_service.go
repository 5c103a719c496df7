package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/screener"
	"github.com/ndewijer/Stock-Research-Backend/internal/yahoo"
)

// ScreenerService runs catalog screens against the finance API.
type ScreenerService struct {
	financeClient   yahoo.Client
	admission       screener.Admission
	activityService *ActivityService
	tracker         *RequestTracker
	logger          *zap.Logger
}

// NewScreenerService creates a new ScreenerService.
func NewScreenerService(
	financeClient yahoo.Client,
	admission screener.Admission,
	activityService *ActivityService,
	tracker *RequestTracker,
	logger *zap.Logger,
) *ScreenerService {
	return &ScreenerService{
		financeClient:   financeClient,
		admission:       admission,
		activityService: activityService,
		tracker:         tracker,
		logger:          logger,
	}
}

// Catalog lists the available screens.
func (s *ScreenerService) Catalog() []model.Screen {
	screens := screener.Catalog()
	out := make([]model.Screen, len(screens))
	for i, sc := range screens {
		out[i] = sc.Info()
	}
	return out
}

// Run executes one screen and returns its admissible quotes.
//
// Predefined screens are run by id on the provider; declarative screens post their
// filter tree. Every fetch failure is reported as apperrors.ErrScreenerFetch. Quotes
// that fail the admission rule are dropped and only counted.
//
// Returns:
//   - apperrors.ErrScreenNotFound if id is not in the catalog
//   - apperrors.ErrSuperseded if the user started another screen meanwhile
func (s *ScreenerService) Run(ctx context.Context, uid, id string) (run model.ScreenerRun, err error) {
	screen, err := screener.Lookup(id)
	if err != nil {
		return model.ScreenerRun{}, err
	}

	ctx, finish := s.tracker.Begin(ctx, uid, KindScreener)
	defer func() {
		err = finish(err)
		if err != nil {
			run = model.ScreenerRun{}
		}
	}()

	var quotes []yahoo.RawQuote
	if screen.Predefined != "" {
		quotes, err = s.financeClient.PredefinedScreener(ctx, screen.Predefined)
	} else {
		quotes, err = s.financeClient.CustomScreener(ctx, screen.Filter, screen.SortField)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return model.ScreenerRun{}, err
		}
		s.logger.Warn("Screener fetch failed", zap.String("screen", screen.ID), zap.Error(err))
		return model.ScreenerRun{}, fmt.Errorf("%w: %w", apperrors.ErrScreenerFetch, err)
	}

	kept, dropped := s.admission.Filter(quotes)
	results := make([]model.ScreenerResult, len(kept))
	for i, q := range kept {
		results[i] = screener.Project(q)
	}

	s.activityService.Record(ctx, uid, model.ActionScreener, screen.ID)

	return model.ScreenerRun{
		Screen:  screen.Info(),
		Results: results,
		Dropped: dropped,
	}, nil
}
