package service

import (
	"context"
	"database/sql"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/domain"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User

	createErr error
	findErr   error

	updatePasswordCalls []struct {
		id   uuid.UUID
		hash []byte
		salt []byte
	}
	updatePasswordErr error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[string]*domain.User{}}
	for _, u := range users {
		f.users[u.Email] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, name, email string, passwordHash, passwordSalt []byte) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	u := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: append([]byte(nil), passwordHash...),
		PasswordSalt: append([]byte(nil), passwordSalt...),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.users[email] = u
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updatePasswordCalls = append(f.updatePasswordCalls, struct {
		id   uuid.UUID
		hash []byte
		salt []byte
	}{id: id, hash: append([]byte(nil), passwordHash...), salt: append([]byte(nil), passwordSalt...)})
	if f.updatePasswordErr != nil {
		return f.updatePasswordErr
	}
	for _, u := range f.users {
		if u.ID == id {
			u.PasswordHash = append([]byte(nil), passwordHash...)
			u.PasswordSalt = append([]byte(nil), passwordSalt...)
		}
	}
	return nil
}

func (f *fakeUserRepo) remove(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, email)
}

// fakeResetTokenRepo keeps tokens in memory with the same replace and
// conditional-update rules as the SQL repository.
type fakeResetTokenRepo struct {
	mu     sync.Mutex
	nextID int64
	tokens map[int64]*domain.ResetToken

	replaceErr       error
	deleteByEmailErr error
	deleteIDs        []int64
}

func newFakeResetTokenRepo() *fakeResetTokenRepo {
	return &fakeResetTokenRepo{tokens: map[int64]*domain.ResetToken{}}
}

func (f *fakeResetTokenRepo) ReplaceActive(ctx context.Context, email, pin string, expiresAt time.Time) (*domain.ResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	for id, t := range f.tokens {
		if t.Email == email && !t.Used {
			delete(f.tokens, id)
		}
	}
	f.nextID++
	t := &domain.ResetToken{ID: f.nextID, Email: email, PIN: pin, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	f.tokens[t.ID] = t
	clone := *t
	return &clone, nil
}

func (f *fakeResetTokenRepo) FindUnused(ctx context.Context, email, pin string) (*domain.ResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.Email == email && t.PIN == pin && !t.Used {
			clone := *t
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeResetTokenRepo) FindByID(ctx context.Context, id int64) (*domain.ResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *t
	return &clone, nil
}

func (f *fakeResetTokenRepo) MarkUsed(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[id]
	if !ok || t.Used {
		return sql.ErrNoRows
	}
	t.Used = true
	return nil
}

func (f *fakeResetTokenRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteIDs = append(f.deleteIDs, id)
	delete(f.tokens, id)
	return nil
}

func (f *fakeResetTokenRepo) DeleteByEmail(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteByEmailErr != nil {
		return f.deleteByEmailErr
	}
	for id, t := range f.tokens {
		if t.Email == email {
			delete(f.tokens, id)
		}
	}
	return nil
}

func (f *fakeResetTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, t := range f.tokens {
		if t.Expired(now) {
			delete(f.tokens, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeResetTokenRepo) forEmail(email string) []domain.ResetToken {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ResetToken
	for _, t := range f.tokens {
		if t.Email == email {
			out = append(out, *t)
		}
	}
	return out
}

func (f *fakeResetTokenRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	nextID   int64

	createErr error

	deactivatedTokens []string
	deactivatedUsers  []uuid.UUID
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*domain.Session{}}
}

func (f *fakeSessionRepo) CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	s := &domain.Session{ID: f.nextID, UserID: userID, Token: token, CreatedAt: time.Now(), ExpiresAt: expiresAt, IsActive: true}
	f.sessions[token] = s
	clone := *s
	return &clone, nil
}

func (f *fakeSessionRepo) DeactivateSession(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deactivatedTokens = append(f.deactivatedTokens, token)
	if s, ok := f.sessions[token]; ok {
		s.IsActive = false
	}
	return nil
}

func (f *fakeSessionRepo) DeactivateUserSessions(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deactivatedUsers = append(f.deactivatedUsers, userID)
	for _, s := range f.sessions {
		if s.UserID == userID {
			s.IsActive = false
		}
	}
	return nil
}

func (f *fakeSessionRepo) FindActiveSession(ctx context.Context, token string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok || !s.IsActive {
		return nil, sql.ErrNoRows
	}
	clone := *s
	return &clone, nil
}

type sentResetMail struct {
	email  string
	pin    string
	resent bool
}

type fakeResetMailer struct {
	mu   sync.Mutex
	sent []sentResetMail
	err  error
}

func (f *fakeResetMailer) SendPasswordReset(ctx context.Context, email, pin string, resent bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentResetMail{email: email, pin: pin, resent: resent})
	return f.err
}

type fakeEngineerRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.EngineerProfile
	calls    int
	err      error
	release  chan struct{}
	started  chan struct{}
}

func (f *fakeEngineerRepo) FindByEngineerID(ctx context.Context, engineerID string) (*domain.EngineerProfile, error) {
	if f.started != nil {
		select {
		case f.started <- struct{}{}:
		default:
		}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[engineerID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p.Clone(), nil
}

func (f *fakeEngineerRepo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeContactRepo struct {
	created []domain.ContactSubmission
	err     error
}

func (f *fakeContactRepo) Create(ctx context.Context, s domain.ContactSubmission) (*domain.ContactSubmission, error) {
	if f.err != nil {
		return nil, f.err
	}
	s.ID = int64(len(f.created) + 1)
	s.SubmittedAt = time.Now()
	f.created = append(f.created, s)
	return &s, nil
}
