package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Stock-Research-Backend/internal/auth"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/repository"
)

// DefaultPassword is the password of every profile created by ProfileBuilder.
const DefaultPassword = "correct horse battery"

// ProfileBuilder provides a fluent interface for creating test user profiles.
//
// Example usage:
//
//	// Simple creation with defaults
//	profile := testutil.NewProfile().Build(t, db)
//
//	// Customized profile
//	profile := testutil.NewProfile().
//	    WithEmail("jane@example.com").
//	    Pro().
//	    WithQuestionCount(3).
//	    Build(t, db)
type ProfileBuilder struct {
	UID              string
	Email            string
	FirstName        string
	LastName         string
	SubscriptionTier string
	QuestionCount    int
	Password         string
}

// NewProfile creates a ProfileBuilder with sensible defaults.
func NewProfile() *ProfileBuilder {
	return &ProfileBuilder{
		UID:              MakeID(),
		Email:            MakeEmail("user"),
		FirstName:        "Test",
		LastName:         "User",
		SubscriptionTier: model.TierFree,
		Password:         DefaultPassword,
	}
}

// WithEmail sets a custom email.
func (b *ProfileBuilder) WithEmail(email string) *ProfileBuilder {
	b.Email = email
	return b
}

// WithPassword sets a custom password.
func (b *ProfileBuilder) WithPassword(password string) *ProfileBuilder {
	b.Password = password
	return b
}

// WithQuestionCount sets how many questions the user has already asked.
func (b *ProfileBuilder) WithQuestionCount(n int) *ProfileBuilder {
	b.QuestionCount = n
	return b
}

// Pro puts the profile on the pro tier.
func (b *ProfileBuilder) Pro() *ProfileBuilder {
	b.SubscriptionTier = model.TierPro
	return b
}

// Build inserts the profile into the database and returns it.
func (b *ProfileBuilder) Build(t *testing.T, db *sql.DB) model.UserProfile {
	t.Helper()

	hash, err := auth.HashPassword(b.Password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	p := model.UserProfile{
		UID:              b.UID,
		FirstName:        b.FirstName,
		LastName:         b.LastName,
		Email:            b.Email,
		SubscriptionTier: b.SubscriptionTier,
		QuestionCount:    b.QuestionCount,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	repo := repository.NewProfileRepository(db)
	if err := repo.InsertProfile(context.Background(), p, hash); err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}

	return p
}

// CreateProfile is a shorthand for NewProfile().Build(t, db).
func CreateProfile(t *testing.T, db *sql.DB) model.UserProfile {
	t.Helper()
	return NewProfile().Build(t, db)
}

// ConversationBuilder provides a fluent interface for creating test conversations.
//
// Example usage:
//
//	conv := testutil.NewConversation(profile.UID).
//	    WithTitle("AAPL questions").
//	    WithMessage(model.RoleUser, "price of apple?").
//	    Build(t, db)
type ConversationBuilder struct {
	ID        string
	UID       string
	Title     string
	CreatedAt time.Time
	Messages  []model.ChatMessage
}

// NewConversation creates a ConversationBuilder for uid with sensible defaults.
func NewConversation(uid string) *ConversationBuilder {
	return &ConversationBuilder{
		ID:        MakeID(),
		UID:       uid,
		Title:     "Test conversation " + randomAlphanumeric(4),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// WithTitle sets a custom title.
func (b *ConversationBuilder) WithTitle(title string) *ConversationBuilder {
	b.Title = title
	return b
}

// WithCreatedAt sets a custom creation time.
func (b *ConversationBuilder) WithCreatedAt(t time.Time) *ConversationBuilder {
	b.CreatedAt = t.UTC()
	return b
}

// WithMessage appends a message; messages are stored in the order added.
func (b *ConversationBuilder) WithMessage(role, text string) *ConversationBuilder {
	b.Messages = append(b.Messages, model.ChatMessage{
		ID:        MakeID(),
		Role:      role,
		Text:      text,
		Timestamp: b.CreatedAt.Add(time.Duration(len(b.Messages)+1) * time.Second),
	})
	return b
}

// Build inserts the conversation and its messages into the database.
func (b *ConversationBuilder) Build(t *testing.T, db *sql.DB) model.Conversation {
	t.Helper()

	c := model.Conversation{
		ID:        b.ID,
		UID:       b.UID,
		Title:     b.Title,
		CreatedAt: b.CreatedAt,
		Messages:  []model.ChatMessage{},
	}

	repo := repository.NewConversationRepository(db)
	if err := repo.InsertConversation(context.Background(), c); err != nil {
		t.Fatalf("Failed to create test conversation: %v", err)
	}
	for _, m := range b.Messages {
		if err := repo.AppendMessage(context.Background(), b.UID, b.ID, m); err != nil {
			t.Fatalf("Failed to append test message: %v", err)
		}
		c.Messages = append(c.Messages, m)
	}

	return c
}

// CreateActivity inserts an activity log entry with the given timestamp.
func CreateActivity(t *testing.T, db *sql.DB, uid, action string, at time.Time) model.ActivityLog {
	t.Helper()

	l := model.ActivityLog{
		ID:        MakeID(),
		UID:       uid,
		Action:    action,
		Timestamp: at.UTC(),
	}
	if err := repository.NewActivityRepository(db).InsertLog(context.Background(), l); err != nil {
		t.Fatalf("Failed to create test activity: %v", err)
	}
	return l
}
