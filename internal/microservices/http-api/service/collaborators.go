package service

import (
	"context"

	"yamdb/internal/microservices/http-api/models"
)

// NotificationChannel delivers a message to an email address.
type NotificationChannel interface {
	Send(ctx context.Context, to, subject, body string) error
}

// TokenIssuer issues opaque bearer tokens and resolves them back to a user id.
type TokenIssuer interface {
	IssueFor(user *models.User) (string, error)
	Parse(token string) (*Claims, error)
}
