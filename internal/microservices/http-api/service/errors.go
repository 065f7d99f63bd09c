package service

import (
	"yamdb/internal/apperror"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

// storageError maps repository errors onto the taxonomy. notFoundCode is used
// for missing rows; anything unrecognised becomes an internal error.
func storageError(err error, notFoundCode string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*apperror.Error); ok {
		return appErr
	}
	switch {
	case repository.IsNotFound(err):
		return apperror.NotFound(notFoundCode).Wrap(err)
	case repository.IsCheckViolation(err):
		return apperror.Validation(apperror.CodeScoreOutOfRange, "score", models.MinScore, models.MaxScore).Wrap(err)
	case repository.IsForeignKeyViolation(err):
		return apperror.Validation(apperror.CodeInvalidInput, "").Wrap(err)
	}
	return apperror.Internal(err)
}
