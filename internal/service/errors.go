package service

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrValidation              = errors.New("validation failed")
	ErrInvalidOrExpiredPIN     = errors.New("invalid or expired pin")
	ErrResetUnauthorized       = errors.New("password reset not verified")
	ErrUserNotFound            = errors.New("user not found")
	ErrEngineerNotFound        = errors.New("engineer not found")
	ErrMailDelivery            = errors.New("mail delivery failed")
	ErrEmailAlreadyUsed        = errors.New("email already registered")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrPasswordTooWeak         = errors.New("password too weak")
	ErrContactAlreadySubmitted = errors.New("contact request already submitted for this email")
	ErrSessionNotFound         = errors.New("session not found")
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
