package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrUserNotFound indicates that no profile exists for the given uid or email.
	ErrUserNotFound = errors.New("user not found")

	// ErrConversationNotFound indicates that a conversation with the given ID does not exist
	// or belongs to another user.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrSymbolNotFound indicates that a symbol lookup returned no results
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrScreenNotFound indicates that the requested screen id is not in the catalog.
	ErrScreenNotFound = errors.New("screen not found")
)

// Authentication errors. Messages are shown to the user as-is.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email address is already in use")
	ErrInvalidSession     = errors.New("session is invalid or expired")
	ErrMissingSession     = errors.New("missing session token")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrQuestionLimitReached indicates a free-tier user used up their chat questions.
	ErrQuestionLimitReached = errors.New("question limit reached for subscription tier")

	// ErrSuperseded indicates that a newer request from the same user replaced this one.
	ErrSuperseded = errors.New("request superseded by a newer one")

	// Validation errors for required fields
	ErrInvalidSymbol = errors.New("symbol is required")
	ErrInvalidDate   = errors.New("date parameter is required")
)

// Trade file errors. Whole-file failures are surfaced with one generic message;
// individual malformed rows are coerced and reported instead.
var (
	ErrUnreadableTradeFile = errors.New("trade file could not be read")
	ErrEmptyTradeFile      = errors.New("trade file contains no trades")
)

// External service errors represent failures when talking to the finance API or the LLM.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// ErrFinanceAPI indicates a network or HTTP failure when calling the finance API.
	ErrFinanceAPI = errors.New("failed to fetch market data")

	// ErrScreenerFetch collapses every screener failure into one user-facing message.
	ErrScreenerFetch = errors.New("failed to fetch screener results")

	// ErrInvalidFormat indicates a finance API response did not have the expected shape.
	ErrInvalidFormat = errors.New("invalid response format")

	// ErrLLMRequest indicates the language model call failed.
	ErrLLMRequest = errors.New("failed to get a response from the assistant")

	// ErrInvalidRiskResponse indicates the model's risk analysis could not be parsed.
	ErrInvalidRiskResponse = errors.New("invalid risk analysis response format")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveProfile       = errors.New("failed to retrieve profile")
	ErrFailedToUpdateProfile         = errors.New("failed to update profile")
	ErrFailedToRetrieveConversations = errors.New("failed to retrieve conversations")
	ErrFailedToRetrieveConversation  = errors.New("failed to retrieve conversation")
	ErrFailedToCreateConversation    = errors.New("failed to create conversation")
	ErrFailedToDeleteConversation    = errors.New("failed to delete conversation")
	ErrFailedToRetrieveActivity      = errors.New("failed to retrieve activity log")
	ErrFailedToRetrieveTrending      = errors.New("failed to retrieve trending symbols")
	ErrFailedToDeleteLogs            = errors.New("failed to delete logs")
	ErrFailedToAnalyzeTrades         = errors.New("failed to analyze trades")
	ErrFailedToGetVersionInfo        = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state.
	ErrDataInconsistency = errors.New("data inconsistency detected")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)
