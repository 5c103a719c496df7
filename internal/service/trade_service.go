package service

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/portfolio"
	"github.com/ndewijer/Stock-Research-Backend/internal/tradefile"
)

// TradeService analyzes uploaded trade files. Uploads are not stored.
type TradeService struct {
	activityService *ActivityService
	logger          *zap.Logger
}

// NewTradeService creates a new TradeService.
func NewTradeService(activityService *ActivityService, logger *zap.Logger) *TradeService {
	return &TradeService{
		activityService: activityService,
		logger:          logger,
	}
}

// Analyze parses a trade file and computes positions, statistics and the daily series.
//
// Positions always cover the whole file; statistics and the daily series only cover the
// trades selected by month ("YYYY-MM", empty for all) and tab. Malformed rows are coerced
// and listed in the parse report rather than failing the upload.
//
// Returns an error wrapping apperrors.ErrUnreadableTradeFile or apperrors.ErrEmptyTradeFile
// when the file as a whole cannot be used.
func (s *TradeService) Analyze(ctx context.Context, uid string, r io.Reader, month string, tab portfolio.Tab) (model.TradeAnalysis, error) {
	parsed, err := tradefile.Parse(r)
	if err != nil {
		return model.TradeAnalysis{}, err
	}

	if n := len(parsed.Report.Issues); n > 0 {
		s.logger.Debug("Trade file rows coerced",
			zap.String("uid", uid),
			zap.Int("rows", parsed.Report.CoercedRows),
			zap.Int("issues", n),
		)
	}

	analysis := portfolio.Analyze(parsed.Trades, parsed.Report, month, tab)

	s.activityService.Record(ctx, uid, model.ActionTradeUpload, fmt.Sprintf("%d trades", len(parsed.Trades)))

	return analysis, nil
}
