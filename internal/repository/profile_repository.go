package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
)

// ProfileRepository provides data access methods for the user_profile table.
// The password hash never leaves this layer except through GetCredentials.
type ProfileRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewProfileRepository creates a new ProfileRepository with the provided database connection.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// WithTx returns a new ProfileRepository scoped to the provided transaction.
func (r *ProfileRepository) WithTx(tx *sql.Tx) *ProfileRepository {
	return &ProfileRepository{db: r.db, tx: tx}
}

const profileColumns = `uid, email, first_name, last_name, subscription_tier, question_count,
		risk_analysis, created_at, updated_at, last_login_at`

// InsertProfile creates a profile row. A duplicate email returns apperrors.ErrEmailInUse.
func (r *ProfileRepository) InsertProfile(ctx context.Context, p model.UserProfile, passwordHash string) error {
	query := `
		INSERT INTO user_profile (uid, email, password_hash, first_name, last_name,
			subscription_tier, question_count, created_at, updated_at, last_login_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var lastLogin sql.NullString
	if p.LastLoginAt != nil {
		lastLogin = nullString(FormatTime(*p.LastLoginAt))
	}

	_, err := pick(r.db, r.tx).ExecContext(ctx, query,
		p.UID,
		p.Email,
		passwordHash,
		p.FirstName,
		p.LastName,
		p.SubscriptionTier,
		p.QuestionCount,
		FormatTime(p.CreatedAt),
		FormatTime(p.UpdatedAt),
		lastLogin,
	)
	if isUniqueViolation(err) {
		return apperrors.ErrEmailInUse
	}
	if err != nil {
		return fmt.Errorf("failed to insert user_profile: %w", err)
	}

	return nil
}

// GetProfile retrieves a profile by uid.
func (r *ProfileRepository) GetProfile(ctx context.Context, uid string) (model.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profile WHERE uid = ?`

	p, err := scanProfile(pick(r.db, r.tx).QueryRowContext(ctx, query, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserProfile{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("failed to query user_profile: %w", err)
	}

	return p, nil
}

// GetCredentials returns the uid and password hash stored for an email address.
func (r *ProfileRepository) GetCredentials(ctx context.Context, email string) (string, string, error) {
	query := `SELECT uid, password_hash FROM user_profile WHERE email = ?`

	var uid, hash string
	err := pick(r.db, r.tx).QueryRowContext(ctx, query, email).Scan(&uid, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", apperrors.ErrUserNotFound
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to query credentials: %w", err)
	}

	return uid, hash, nil
}

// UpdateProfile overwrites the editable fields. Concurrent edits are last-write-wins.
func (r *ProfileRepository) UpdateProfile(ctx context.Context, p model.UserProfile) error {
	query := `
		UPDATE user_profile
		SET first_name = ?, last_name = ?, subscription_tier = ?, updated_at = ?
		WHERE uid = ?
	`

	result, err := pick(r.db, r.tx).ExecContext(ctx, query,
		p.FirstName,
		p.LastName,
		p.SubscriptionTier,
		FormatTime(p.UpdatedAt),
		p.UID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user_profile: %w", err)
	}

	return requireAffected(result, apperrors.ErrUserNotFound)
}

// SetLastLogin records a successful sign-in.
func (r *ProfileRepository) SetLastLogin(ctx context.Context, uid string, at time.Time) error {
	query := `UPDATE user_profile SET last_login_at = ? WHERE uid = ?`

	result, err := pick(r.db, r.tx).ExecContext(ctx, query, FormatTime(at), uid)
	if err != nil {
		return fmt.Errorf("failed to update last_login_at: %w", err)
	}

	return requireAffected(result, apperrors.ErrUserNotFound)
}

// IncrementQuestionCount adds one to the chat question counter.
func (r *ProfileRepository) IncrementQuestionCount(ctx context.Context, uid string, at time.Time) error {
	query := `UPDATE user_profile SET question_count = question_count + 1, updated_at = ? WHERE uid = ?`

	result, err := pick(r.db, r.tx).ExecContext(ctx, query, FormatTime(at), uid)
	if err != nil {
		return fmt.Errorf("failed to increment question_count: %w", err)
	}

	return requireAffected(result, apperrors.ErrUserNotFound)
}

// SetRiskAnalysis replaces the stored risk snapshot.
func (r *ProfileRepository) SetRiskAnalysis(ctx context.Context, uid string, ra model.RiskAnalysis) error {
	data, err := json.Marshal(ra)
	if err != nil {
		return fmt.Errorf("failed to encode risk analysis: %w", err)
	}

	query := `UPDATE user_profile SET risk_analysis = ?, updated_at = ? WHERE uid = ?`

	result, err := pick(r.db, r.tx).ExecContext(ctx, query, string(data), FormatTime(ra.AnalyzedAt), uid)
	if err != nil {
		return fmt.Errorf("failed to update risk_analysis: %w", err)
	}

	return requireAffected(result, apperrors.ErrUserNotFound)
}

func scanProfile(row *sql.Row) (model.UserProfile, error) {
	var p model.UserProfile
	var riskStr, lastLoginStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&p.UID,
		&p.Email,
		&p.FirstName,
		&p.LastName,
		&p.SubscriptionTier,
		&p.QuestionCount,
		&riskStr,
		&createdAtStr,
		&updatedAtStr,
		&lastLoginStr,
	)
	if err != nil {
		return model.UserProfile{}, err
	}

	if p.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.UserProfile{}, err
	}
	if p.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return model.UserProfile{}, err
	}

	// LastLoginAt is nullable
	if lastLoginStr.Valid {
		t, err := ParseTime(lastLoginStr.String)
		if err != nil {
			return model.UserProfile{}, err
		}
		p.LastLoginAt = &t
	}

	// RiskAnalysis is nullable
	if riskStr.Valid && riskStr.String != "" {
		var ra model.RiskAnalysis
		if err := json.Unmarshal([]byte(riskStr.String), &ra); err != nil {
			return model.UserProfile{}, fmt.Errorf("%w: risk_analysis: %w", apperrors.ErrDataInconsistency, err)
		}
		p.RiskAnalysis = &ra
	}

	return p, nil
}

func requireAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
