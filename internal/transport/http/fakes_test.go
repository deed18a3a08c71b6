package http

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/domain"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/roster"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/service"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/util"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (m *memUsers) Create(ctx context.Context, name, email string, hash, salt []byte) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[email]; ok {
		return nil, errDuplicate
	}
	u := &domain.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: hash, PasswordSalt: salt, CreatedAt: time.Now()}
	m.users[email] = u
	clone := *u
	return &clone, nil
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memUsers) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memUsers) UpdatePassword(ctx context.Context, id uuid.UUID, hash, salt []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			u.PasswordHash, u.PasswordSalt = hash, salt
		}
	}
	return nil
}

type memTokens struct {
	mu     sync.Mutex
	nextID int64
	tokens map[int64]*domain.ResetToken
}

func (m *memTokens) ReplaceActive(ctx context.Context, email, pin string, expiresAt time.Time) (*domain.ResetToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.tokens {
		if t.Email == email && !t.Used {
			delete(m.tokens, id)
		}
	}
	m.nextID++
	t := &domain.ResetToken{ID: m.nextID, Email: email, PIN: pin, ExpiresAt: expiresAt}
	m.tokens[t.ID] = t
	clone := *t
	return &clone, nil
}

func (m *memTokens) FindUnused(ctx context.Context, email, pin string) (*domain.ResetToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.Email == email && t.PIN == pin && !t.Used {
			clone := *t
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memTokens) FindByID(ctx context.Context, id int64) (*domain.ResetToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tokens[id]; ok {
		clone := *t
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memTokens) MarkUsed(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[id]
	if !ok || t.Used {
		return sql.ErrNoRows
	}
	t.Used = true
	return nil
}

func (m *memTokens) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, id)
	return nil
}

func (m *memTokens) DeleteByEmail(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.tokens {
		if t.Email == email {
			delete(m.tokens, id)
		}
	}
	return nil
}

func (m *memTokens) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, t := range m.tokens {
		if t.Expired(now) {
			delete(m.tokens, id)
			n++
		}
	}
	return n, nil
}

func (m *memTokens) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func (m *memSessions) CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &domain.Session{ID: int64(len(m.sessions) + 1), UserID: userID, Token: token, ExpiresAt: expiresAt, IsActive: true}
	m.sessions[token] = s
	clone := *s
	return &clone, nil
}

func (m *memSessions) DeactivateSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[token]; ok {
		s.IsActive = false
	}
	return nil
}

func (m *memSessions) DeactivateUserSessions(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.UserID == userID {
			s.IsActive = false
		}
	}
	return nil
}

func (m *memSessions) FindActiveSession(ctx context.Context, token string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[token]; ok && s.IsActive {
		clone := *s
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

type memEngineers struct {
	mu       sync.Mutex
	profiles map[string]*domain.EngineerProfile
	calls    int
	err      error
}

func (m *memEngineers) FindByEngineerID(ctx context.Context, engineerID string) (*domain.EngineerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.profiles[engineerID]; ok {
		return p.Clone(), nil
	}
	return nil, sql.ErrNoRows
}

type memContacts struct {
	mu     sync.Mutex
	emails map[string]bool
}

func (m *memContacts) Create(ctx context.Context, s domain.ContactSubmission) (*domain.ContactSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emails[s.Email] {
		return nil, errDuplicate
	}
	m.emails[s.Email] = true
	s.ID = int64(len(m.emails))
	s.SubmittedAt = time.Now()
	return &s, nil
}

type capturingMailer struct {
	mu   sync.Mutex
	pins map[string]string
	err  error
}

func (m *capturingMailer) SendPasswordReset(ctx context.Context, email, pin string, resent bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.pins[email] = pin
	return nil
}

func (m *capturingMailer) lastPIN(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pins[email]
}

// testApp wires the real services over in-memory stores behind the router.
type testApp struct {
	e         *echo.Echo
	users     *memUsers
	tokens    *memTokens
	sessions  *memSessions
	engineers *memEngineers
	mailer    *capturingMailer
	auth      *service.AuthService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := quietLogger()
	app := &testApp{
		users:     &memUsers{users: map[string]*domain.User{}},
		tokens:    &memTokens{tokens: map[int64]*domain.ResetToken{}},
		sessions:  &memSessions{sessions: map[string]*domain.Session{}},
		engineers: &memEngineers{profiles: map[string]*domain.EngineerProfile{}},
		mailer:    &capturingMailer{pins: map[string]string{}},
	}
	jwtManager := util.NewJWTManager("test-secret", time.Hour)
	app.auth = service.NewAuthService(app.users, app.sessions, jwtManager, log)
	resets := service.NewPasswordResetService(app.users, app.tokens, app.sessions, app.mailer, log, nil, service.PasswordResetConfig{})
	profiles := service.NewEngineerProfileCache(app.engineers, log, nil, time.Minute)
	contacts := service.NewContactService(&memContacts{emails: map[string]bool{}}, log)

	directory, err := roster.Bundled(context.Background())
	if err != nil {
		t.Fatalf("load bundled roster: %v", err)
	}

	app.e = NewRouter([]string{"*"}, log)
	RegisterAuth(app.e, app.auth, CookieConfig{}, nil, log)
	RegisterPasswordReset(app.e, resets, jwtManager, CookieConfig{}, nil, log)
	RegisterEngineers(app.e, profiles, directory, log)
	RegisterContact(app.e, contacts, nil, log)
	return app
}

func (a *testApp) addUser(t *testing.T, name, email, password string) *domain.User {
	t.Helper()
	hash, salt, err := util.DerivePassword(password)
	if err != nil {
		t.Fatalf("derive password: %v", err)
	}
	u, err := a.users.Create(context.Background(), name, email, hash, salt)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (a *testApp) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return serve(a, req)
}

func newFormRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func serve(a *testApp, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var errDuplicate error = &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
