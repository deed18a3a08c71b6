package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/metrics"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/repository/ports"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/util"
)

type PasswordResetSender interface {
	SendPasswordReset(ctx context.Context, email, pin string, resent bool) error
}

type PasswordResetConfig struct {
	TTL         time.Duration
	PINLength   int
	MailTimeout time.Duration
}

// VerifiedReset is handed out by Verify and must be presented to
// CompleteReset. The HTTP layer carries it between requests.
type VerifiedReset struct {
	Email   string
	TokenID int64
}

type PasswordResetService struct {
	users    ports.UserRepository
	tokens   ports.ResetTokenRepository
	sessions ports.SessionRepository
	mailer   PasswordResetSender
	log      logrus.FieldLogger
	metrics  *metrics.Metrics

	ttl         time.Duration
	pinLength   int
	mailTimeout time.Duration
	now         func() time.Time
	generatePIN func(length int) (string, error)
}

func NewPasswordResetService(users ports.UserRepository, tokens ports.ResetTokenRepository, sessions ports.SessionRepository, mailer PasswordResetSender, log logrus.FieldLogger, m *metrics.Metrics, cfg PasswordResetConfig) *PasswordResetService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	pinLength := cfg.PINLength
	if pinLength <= 0 {
		pinLength = 6
	}
	mailTimeout := cfg.MailTimeout
	if mailTimeout <= 0 {
		mailTimeout = 10 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PasswordResetService{
		users:       users,
		tokens:      tokens,
		sessions:    sessions,
		mailer:      mailer,
		log:         log,
		metrics:     m,
		ttl:         ttl,
		pinLength:   pinLength,
		mailTimeout: mailTimeout,
		now:         time.Now,
		generatePIN: func(length int) (string, error) {
			return util.GenerateOTP(length, util.HexAlphabet)
		},
	}
}

func (s *PasswordResetService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *PasswordResetService) TTL() time.Duration {
	return s.ttl
}

// Issue starts a reset for email. Unknown addresses are accepted silently so
// callers cannot probe which accounts exist.
func (s *PasswordResetService) Issue(ctx context.Context, email string) error {
	return s.issue(ctx, email, false)
}

// Resend replaces the outstanding PIN for email with a fresh one.
func (s *PasswordResetService) Resend(ctx context.Context, email string) error {
	return s.issue(ctx, email, true)
}

func (s *PasswordResetService) issue(ctx context.Context, email string, resent bool) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if s.mailer == nil {
		return fmt.Errorf("%w: mailer not configured", ErrMailDelivery)
	}

	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if isNotFound(err) {
			s.log.WithField("email", email).Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	pin, err := s.generatePIN(s.pinLength)
	if err != nil {
		return fmt.Errorf("generate pin: %w", err)
	}
	token, err := s.tokens.ReplaceActive(ctx, email, pin, s.now().Add(s.ttl))
	if err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	trigger := "send"
	if resent {
		trigger = "resend"
	}
	s.metrics.PINIssued(trigger)

	mailCtx, cancel := context.WithTimeout(ctx, s.mailTimeout)
	defer cancel()
	if err := s.mailer.SendPasswordReset(mailCtx, email, pin, resent); err != nil {
		s.metrics.MailDelivery("failed")
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			// The transport may still deliver this PIN, so the token stays.
			s.log.WithError(err).WithField("email", email).Warn("password reset mail timed out")
			return fmt.Errorf("%w: %v", ErrMailDelivery, err)
		}
		s.log.WithError(err).WithField("email", email).Warn("password reset mail failed")
		if delErr := s.tokens.Delete(ctx, token.ID); delErr != nil && !isNotFound(delErr) {
			s.log.WithError(delErr).WithField("email", email).Error("discard undelivered reset token")
		}
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	s.metrics.MailDelivery("sent")
	s.log.WithFields(logrus.Fields{"email": email, "trigger": trigger}).Info("password reset pin sent")
	return nil
}

// Verify consumes the unused token matching email and pin. A token can be
// verified at most once.
func (s *PasswordResetService) Verify(ctx context.Context, email, pin string) (*VerifiedReset, error) {
	email = normalizeEmail(email)
	pin = strings.TrimSpace(pin)
	if email == "" || pin == "" {
		return nil, fmt.Errorf("%w: email and pin are required", ErrValidation)
	}

	token, err := s.tokens.FindUnused(ctx, email, pin)
	if err != nil {
		if isNotFound(err) {
			s.metrics.PINVerified("invalid")
			return nil, ErrInvalidOrExpiredPIN
		}
		return nil, fmt.Errorf("lookup reset token: %w", err)
	}

	if token.Expired(s.now()) {
		s.metrics.PINVerified("expired")
		if err := s.tokens.Delete(ctx, token.ID); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("delete expired reset token: %w", err)
		}
		return nil, ErrInvalidOrExpiredPIN
	}

	if err := s.tokens.MarkUsed(ctx, token.ID); err != nil {
		if isNotFound(err) {
			s.metrics.PINVerified("conflict")
			return nil, ErrInvalidOrExpiredPIN
		}
		return nil, fmt.Errorf("mark reset token used: %w", err)
	}

	s.metrics.PINVerified("success")
	return &VerifiedReset{Email: email, TokenID: token.ID}, nil
}

// CompleteReset stores newPassword for the account behind verified. All reset
// tokens for the email are purged and open login sessions are closed.
func (s *PasswordResetService) CompleteReset(ctx context.Context, email, newPassword string, verified *VerifiedReset) error {
	email = normalizeEmail(email)
	if verified == nil || email == "" || normalizeEmail(verified.Email) != email {
		return ErrResetUnauthorized
	}

	token, err := s.tokens.FindByID(ctx, verified.TokenID)
	if err != nil {
		if isNotFound(err) {
			return ErrResetUnauthorized
		}
		return fmt.Errorf("lookup reset token: %w", err)
	}
	if !token.Used || token.Email != email {
		return ErrResetUnauthorized
	}

	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", ErrValidation)
	}
	if err := util.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %w: %v", ErrValidation, ErrPasswordTooWeak, err)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	hash, salt, err := util.DerivePassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash, salt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.tokens.DeleteByEmail(ctx, email); err != nil {
		// The verified token is already used; the sweeper drops it once expired.
		s.log.WithError(err).WithField("email", email).Error("purge reset tokens after password reset")
	}
	if s.sessions != nil {
		if err := s.sessions.DeactivateUserSessions(ctx, user.ID); err != nil {
			s.log.WithError(err).WithField("email", email).Warn("deactivate sessions after password reset")
		}
	}
	s.log.WithField("email", email).Info("password reset completed")
	return nil
}

// SweepExpired deletes tokens whose expiry has passed.
func (s *PasswordResetService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.tokens.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("sweep reset tokens: %w", err)
	}
	s.metrics.TokensSwept(n)
	return n, nil
}

// RunSweeper calls SweepExpired every interval until ctx is cancelled.
func (s *PasswordResetService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.SweepExpired(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.log.WithError(err).Warn("reset token sweep failed")
				continue
			}
			if n > 0 {
				s.log.WithField("removed", n).Info("expired reset tokens removed")
			}
		}
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
