package service

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/Stock-Research-Backend/internal/assistant"
	"github.com/ndewijer/Stock-Research-Backend/internal/llm"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/repository"
	"github.com/ndewijer/Stock-Research-Backend/internal/tradefile"
)

// RiskService asks the model for a risk tolerance score of a trade file.
type RiskService struct {
	profileRepo     *repository.ProfileRepository
	activityService *ActivityService
	completer       llm.Completer
	logger          *zap.Logger
}

// NewRiskService creates a new RiskService.
func NewRiskService(
	profileRepo *repository.ProfileRepository,
	activityService *ActivityService,
	completer llm.Completer,
	logger *zap.Logger,
) *RiskService {
	return &RiskService{
		profileRepo:     profileRepo,
		activityService: activityService,
		completer:       completer,
		logger:          logger,
	}
}

// Analyze sends the first lines of the trade file to the model verbatim, parses its
// JSON answer and stores the result as the user's risk snapshot.
//
// Returns:
//   - error wrapping apperrors.ErrEmptyTradeFile or apperrors.ErrUnreadableTradeFile
//   - error wrapping apperrors.ErrLLMRequest if the model call fails
//   - error wrapping apperrors.ErrInvalidRiskResponse if the answer cannot be parsed
func (s *RiskService) Analyze(ctx context.Context, uid string, r io.Reader) (model.RiskAnalysis, error) {
	sample, err := tradefile.Head(r, assistant.RiskSampleLines)
	if err != nil {
		return model.RiskAnalysis{}, err
	}

	reply, err := s.completer.Complete(ctx, llm.Request{
		Purpose: "risk",
		System:  assistant.RiskSystemPrompt,
		Prompt:  assistant.BuildRiskPrompt(sample),
		JSON:    true,
	})
	if err != nil {
		return model.RiskAnalysis{}, err
	}

	analysis, err := assistant.ParseRisk(reply)
	if err != nil {
		s.logger.Warn("Unparseable risk analysis", zap.String("uid", uid), zap.Error(err))
		return model.RiskAnalysis{}, err
	}
	analysis.AnalyzedAt = time.Now().UTC()

	if err := s.profileRepo.SetRiskAnalysis(ctx, uid, analysis); err != nil {
		return model.RiskAnalysis{}, err
	}

	s.activityService.Record(ctx, uid, model.ActionRiskAnalysis, analysis.RiskLevel)

	return analysis, nil
}
