package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
)

// ConversationRepository provides data access methods for the conversation and chat_message tables.
// Every query is scoped to the owning uid; another user's conversation reads as not found.
type ConversationRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewConversationRepository creates a new ConversationRepository with the provided database connection.
func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// WithTx returns a new ConversationRepository scoped to the provided transaction.
func (r *ConversationRepository) WithTx(tx *sql.Tx) *ConversationRepository {
	return &ConversationRepository{db: r.db, tx: tx}
}

// InsertConversation creates an empty conversation.
func (r *ConversationRepository) InsertConversation(ctx context.Context, c model.Conversation) error {
	query := `INSERT INTO conversation (id, uid, title, created_at) VALUES (?, ?, ?, ?)`

	_, err := pick(r.db, r.tx).ExecContext(ctx, query, c.ID, c.UID, c.Title, FormatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}

	return nil
}

// ListConversations returns the user's conversations newest first, without messages.
func (r *ConversationRepository) ListConversations(ctx context.Context, uid string) ([]model.Conversation, error) {
	query := `
		SELECT id, uid, title, created_at
		FROM conversation
		WHERE uid = ?
		ORDER BY created_at DESC
	`

	rows, err := pick(r.db, r.tx).QueryContext(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation table: %w", err)
	}
	defer rows.Close()

	conversations := []model.Conversation{}
	for rows.Next() {
		var c model.Conversation
		var createdAtStr string

		if err := rows.Scan(&c.ID, &c.UID, &c.Title, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan conversation table results: %w", err)
		}
		if c.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}

		conversations = append(conversations, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation table: %w", err)
	}

	return conversations, nil
}

// GetConversation retrieves a conversation with its messages in order.
func (r *ConversationRepository) GetConversation(ctx context.Context, uid, id string) (model.Conversation, error) {
	query := `SELECT id, uid, title, created_at FROM conversation WHERE id = ? AND uid = ?`

	var c model.Conversation
	var createdAtStr string
	err := pick(r.db, r.tx).QueryRowContext(ctx, query, id, uid).Scan(&c.ID, &c.UID, &c.Title, &createdAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Conversation{}, apperrors.ErrConversationNotFound
	}
	if err != nil {
		return model.Conversation{}, fmt.Errorf("failed to query conversation: %w", err)
	}
	if c.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Conversation{}, err
	}

	c.Messages, err = r.getMessages(ctx, id)
	if err != nil {
		return model.Conversation{}, err
	}

	return c, nil
}

func (r *ConversationRepository) getMessages(ctx context.Context, conversationID string) ([]model.ChatMessage, error) {
	query := `
		SELECT id, role, text, ticker, data, timestamp
		FROM chat_message
		WHERE conversation_id = ?
		ORDER BY position ASC
	`

	rows, err := pick(r.db, r.tx).QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat_message table: %w", err)
	}
	defer rows.Close()

	messages := []model.ChatMessage{}
	for rows.Next() {
		var m model.ChatMessage
		var ticker, data sql.NullString
		var timestampStr string

		if err := rows.Scan(&m.ID, &m.Role, &m.Text, &ticker, &data, &timestampStr); err != nil {
			return nil, fmt.Errorf("failed to scan chat_message table results: %w", err)
		}
		if m.Timestamp, err = ParseTime(timestampStr); err != nil {
			return nil, err
		}
		m.Ticker = ticker.String
		if data.Valid && data.String != "" {
			m.Data = json.RawMessage(data.String)
		}

		messages = append(messages, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat_message table: %w", err)
	}

	return messages, nil
}

// AppendMessage stores msg after the last message of the user's conversation.
func (r *ConversationRepository) AppendMessage(ctx context.Context, uid, conversationID string, msg model.ChatMessage) error {
	query := `
		INSERT INTO chat_message (id, conversation_id, position, role, text, ticker, data, timestamp)
		SELECT ?, c.id,
			(SELECT COALESCE(MAX(position), -1) + 1 FROM chat_message WHERE conversation_id = c.id),
			?, ?, ?, ?, ?
		FROM conversation c
		WHERE c.id = ? AND c.uid = ?
	`

	result, err := pick(r.db, r.tx).ExecContext(ctx, query,
		msg.ID,
		msg.Role,
		msg.Text,
		nullString(msg.Ticker),
		nullString(string(msg.Data)),
		FormatTime(msg.Timestamp),
		conversationID,
		uid,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat_message: %w", err)
	}

	return requireAffected(result, apperrors.ErrConversationNotFound)
}

// DeleteConversation removes a conversation and, by cascade, its messages.
func (r *ConversationRepository) DeleteConversation(ctx context.Context, uid, id string) error {
	query := `DELETE FROM conversation WHERE id = ? AND uid = ?`

	result, err := pick(r.db, r.tx).ExecContext(ctx, query, id, uid)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	return requireAffected(result, apperrors.ErrConversationNotFound)
}
