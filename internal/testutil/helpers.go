package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndewijer/Stock-Research-Backend/internal/auth"
	"github.com/ndewijer/Stock-Research-Backend/internal/config"
	"github.com/ndewijer/Stock-Research-Backend/internal/llm"
	"github.com/ndewijer/Stock-Research-Backend/internal/repository"
	"github.com/ndewijer/Stock-Research-Backend/internal/screener"
	"github.com/ndewijer/Stock-Research-Backend/internal/service"
	"github.com/ndewijer/Stock-Research-Backend/internal/yahoo"
)

// TestAdmission is the screener admission rule used by service and handler tests.
var TestAdmission = config.ScreenerConfig{
	MinVolume:           100000,
	MinPrice:            1,
	MinMarketCap:        50000000,
	MaxAbsChangePercent: 50,
}

func NewTestActivityService(t *testing.T, db *sql.DB) *service.ActivityService {
	t.Helper()

	return service.NewActivityService(repository.NewActivityRepository(db), zap.NewNop(), nil)
}

func NewTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()

	sessions, err := auth.NewSessionManager("", time.Hour)
	if err != nil {
		t.Fatalf("Failed to create session manager: %v", err)
	}
	return sessions
}

func NewTestAuthService(t *testing.T, db *sql.DB, sessions *auth.SessionManager) *service.AuthService {
	t.Helper()

	return service.NewAuthService(
		repository.NewProfileRepository(db),
		NewTestActivityService(t, db),
		sessions,
	)
}

func NewTestProfileService(t *testing.T, db *sql.DB) *service.ProfileService {
	t.Helper()

	return service.NewProfileService(repository.NewProfileRepository(db), NewTestActivityService(t, db))
}

func NewTestConversationService(t *testing.T, db *sql.DB) *service.ConversationService {
	t.Helper()

	return service.NewConversationService(repository.NewConversationRepository(db))
}

// NewTestChatService wires a ChatService over the given mocks. A limit of 0 disables the question cap.
func NewTestChatService(t *testing.T, db *sql.DB, completer llm.Completer, finance yahoo.Client, limit int) *service.ChatService {
	t.Helper()

	return service.NewChatService(
		repository.NewConversationRepository(db),
		repository.NewProfileRepository(db),
		repository.NewSymbolCounterRepository(db),
		NewTestConversationService(t, db),
		NewTestActivityService(t, db),
		completer,
		finance,
		limit,
		zap.NewNop(),
	)
}

func NewTestSearchService(t *testing.T, db *sql.DB, finance yahoo.Client) *service.SearchService {
	t.Helper()

	return service.NewSearchService(
		finance,
		repository.NewSymbolCounterRepository(db),
		NewTestActivityService(t, db),
		service.NewRequestTracker(nil),
		zap.NewNop(),
	)
}

func NewTestScreenerService(t *testing.T, db *sql.DB, finance yahoo.Client) *service.ScreenerService {
	t.Helper()

	return service.NewScreenerService(
		finance,
		screener.NewAdmission(TestAdmission),
		NewTestActivityService(t, db),
		service.NewRequestTracker(nil),
		zap.NewNop(),
	)
}

func NewTestTradeService(t *testing.T, db *sql.DB) *service.TradeService {
	t.Helper()

	return service.NewTradeService(NewTestActivityService(t, db), zap.NewNop())
}

func NewTestRiskService(t *testing.T, db *sql.DB, completer llm.Completer) *service.RiskService {
	t.Helper()

	return service.NewRiskService(
		repository.NewProfileRepository(db),
		NewTestActivityService(t, db),
		completer,
		zap.NewNop(),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, llm.ProviderOpenAI, map[string]bool{"risk_analysis": true})
}

// MakeID generates a unique ID for testing.
func MakeID() string {
	return uuid.New().String()
}

// MakeEmail generates a unique email address for testing.
//
// Example usage:
//
//	email := testutil.MakeEmail("jane")
//	// Returns: "jane.ab12cd@example.com"
func MakeEmail(base string) string {
	if base == "" {
		base = "user"
	}
	return base + "." + randomLowerAlphanumeric(6) + "@example.com"
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

func randomLowerAlphanumeric(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

// CommonExchanges contains the full exchange names the screener admits.
var CommonExchanges = []string{"NasdaqGS", "NasdaqGM", "NYSE", "NYSE American"}
