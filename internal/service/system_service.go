package service

import (
	"database/sql"
	"fmt"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/database"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db          *sql.DB
	llmProvider string
	features    map[string]bool
}

// NewSystemService creates a new SystemService.
// features lists optional capabilities and whether they are configured.
func NewSystemService(db *sql.DB, llmProvider string, features map[string]bool) *SystemService {
	return &SystemService{
		db:          db,
		llmProvider: llmProvider,
		features:    features,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// GetVersionInfo returns the application version, schema version and enabled features.
func (s *SystemService) GetVersionInfo() (model.VersionInfo, error) {
	dbVersion, err := database.Version(s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetVersionInfo, err)
	}

	features := make(map[string]bool, len(s.features))
	for k, v := range s.features {
		features[k] = v
	}

	return model.VersionInfo{
		AppVersion:  version.Version,
		DbVersion:   fmt.Sprint(dbVersion),
		Features:    features,
		LLMProvider: s.llmProvider,
	}, nil
}
