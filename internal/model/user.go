package model

import "time"

// Subscription tiers.
const (
	TierFree = "free"
	TierPro  = "pro"
)

// ValidTiers contains the allowed subscription tier values.
var ValidTiers = map[string]bool{
	TierFree: true, TierPro: true,
}

// UserProfile represents the stored profile of a signed-in user.
type UserProfile struct {
	UID              string        `json:"uid"`
	FirstName        string        `json:"firstName"`
	LastName         string        `json:"lastName"`
	Email            string        `json:"email"`
	SubscriptionTier string        `json:"subscriptionTier"`
	QuestionCount    int           `json:"questionCount"`
	RiskAnalysis     *RiskAnalysis `json:"riskAnalysis,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
	LastLoginAt      *time.Time    `json:"lastLoginAt,omitempty"`
}

// Session is returned on sign-up and sign-in.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Profile   UserProfile `json:"profile"`
}

// ActivityLog is one audit entry of a user action.
type ActivityLog struct {
	ID        string    `json:"id"`
	UID       string    `json:"uid"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Activity actions written to the log.
const (
	ActionSignUp       = "sign_up"
	ActionSignIn       = "sign_in"
	ActionSearch       = "search"
	ActionScreener     = "screener"
	ActionChat         = "chat"
	ActionTradeUpload  = "trade_upload"
	ActionRiskAnalysis = "risk_analysis"
	ActionProfileEdit  = "profile_edit"
)

// ValidActions contains the actions a log listing may be filtered by.
var ValidActions = map[string]bool{
	ActionSignUp: true, ActionSignIn: true, ActionSearch: true, ActionScreener: true,
	ActionChat: true, ActionTradeUpload: true, ActionRiskAnalysis: true, ActionProfileEdit: true,
}

// ActivityFilters narrows an activity log listing.
type ActivityFilters struct {
	Actions []string
	Limit   int
}

// SymbolCounter tracks how often a ticker has been searched.
type SymbolCounter struct {
	Symbol         string    `json:"symbol"`
	SearchCount    int64     `json:"searchCount"`
	LastSearchedAt time.Time `json:"lastSearchedAt"`
}
