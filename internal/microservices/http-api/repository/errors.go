package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// postgres SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

var (
	ErrDuplicateReview = errors.New("review already exists for this author and title")
	ErrCodeNotFound    = errors.New("confirmation code not found or expired")
)

// IsNotFound reports a missing row
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports a unique constraint failure, translated by gorm or raw from pgx
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return hasPgCode(err, pgUniqueViolation)
}

// IsForeignKeyViolation reports a reference to a row that does not exist (anymore)
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return hasPgCode(err, pgForeignKeyViolation)
}

// IsCheckViolation reports a CHECK constraint failure such as the score range
func IsCheckViolation(err error) bool {
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	return hasPgCode(err, pgCheckViolation)
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// offset converts 1-based page numbers to an OFFSET
func offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
