package repository

import (
	"context"
	"time"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConfirmationCodeStore keeps at most one live code hash per user.
// Save replaces whatever was stored before, so issuing a code invalidates the previous one.
type ConfirmationCodeStore interface {
	Save(ctx context.Context, userID, codeHash string, ttl time.Duration) error
	// Get returns ErrCodeNotFound when nothing is stored or the code has expired.
	Get(ctx context.Context, userID string) (string, error)
	// Consume removes the code in one step, but only while codeHash is still the
	// live code of the user. Otherwise it returns ErrCodeNotFound and leaves the store alone.
	Consume(ctx context.Context, userID, codeHash string) error
}

// confirmationCodeRepository is the GORM implementation of ConfirmationCodeStore
type confirmationCodeRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewConfirmationCodeRepository creates a database-backed ConfirmationCodeStore
func NewConfirmationCodeRepository(db *gorm.DB) ConfirmationCodeStore {
	return &confirmationCodeRepository{db: db, now: time.Now}
}

// Save upserts the single row of the user
func (r *confirmationCodeRepository) Save(ctx context.Context, userID, codeHash string, ttl time.Duration) error {
	now := r.now()
	code := models.ConfirmationCode{
		UserID:    userID,
		CodeHash:  codeHash,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"code_hash", "expires_at", "created_at"}),
	}).Omit(clause.Associations).Create(&code).Error
}

func (r *confirmationCodeRepository) Get(ctx context.Context, userID string) (string, error) {
	var code models.ConfirmationCode
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, r.now()).
		First(&code).Error
	if IsNotFound(err) {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", err
	}
	return code.CodeHash, nil
}

// Consume is a conditional DELETE; only the caller that removed the row gets nil
func (r *confirmationCodeRepository) Consume(ctx context.Context, userID, codeHash string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND code_hash = ? AND expires_at > ?", userID, codeHash, r.now()).
		Delete(&models.ConfirmationCode{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCodeNotFound
	}
	return nil
}
