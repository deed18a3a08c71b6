package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/config"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/logging"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/metrics"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/repository/minio"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/repository/postgres"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/roster"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/service"
	transport "github.com/njprem/Hanuram_Constructions_BackEnd/internal/transport/http"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/transport/mail"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/util"
)

func main() {
	cfg := config.Load()

	logger, logCloser := logging.New(logging.Config{Level: cfg.LogLevel, LogstashTCPAddr: cfg.LogstashTCPAddr})
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("connect database")
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		logger.WithError(err).Fatal("migrate database")
	}

	m := metrics.New()
	jwtManager := util.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)

	userRepo := postgres.NewUserRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	resetRepo := postgres.NewResetTokenRepo(db)
	engineerRepo := postgres.NewEngineerRepo(db)
	contactRepo := postgres.NewContactRepo(db)

	mailer, err := newMailer(cfg)
	if err != nil {
		// Reset requests fail with a delivery error until mail is configured.
		logger.WithError(err).Warn("password reset mail disabled")
	}

	authSvc := service.NewAuthService(userRepo, sessionRepo, jwtManager, logger.WithField("component", "auth"))
	resetSvc := service.NewPasswordResetService(userRepo, resetRepo, sessionRepo, mailer, logger.WithField("component", "password_reset"), m, service.PasswordResetConfig{
		TTL:         cfg.PasswordResetTTL,
		PINLength:   cfg.PasswordResetPINLength,
		MailTimeout: cfg.MailTimeout,
	})
	profileCache := service.NewEngineerProfileCache(engineerRepo, logger.WithField("component", "engineer_cache"), m, cfg.EngineerCacheTTL)
	contactSvc := service.NewContactService(contactRepo, logger.WithField("component", "contact"))

	directory, err := loadRoster(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("load engineer roster")
	}
	logger.WithField("engineers", directory.Len()).Info("engineer roster loaded")

	go resetSvc.RunSweeper(ctx, cfg.PasswordResetSweepInterval)

	cookies := transport.CookieConfig{Secure: cfg.CookieSecure}
	limiter := transport.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)

	e := transport.NewRouter(cfg.AllowOrigins, logger)
	transport.RegisterMetrics(e, m)
	transport.RegisterSwagger(e, cfg.SwaggerSpecPath)
	transport.RegisterAuth(e, authSvc, cookies, limiter, logger)
	transport.RegisterPasswordReset(e, resetSvc, jwtManager, cookies, limiter, logger)
	transport.RegisterEngineers(e, profileCache, directory, logger)
	transport.RegisterContact(e, contactSvc, limiter, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.WithField("addr", server.Addr).Info("server started")
		if err := e.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown")
	}
	logger.Info("server stopped")
}

func newMailer(cfg config.Config) (service.PasswordResetSender, error) {
	if cfg.MailProvider == "resend" {
		m, err := mail.NewResendMailer(cfg.ResendAPIKey, cfg.SMTPFrom, cfg.MailBrand, cfg.PasswordResetTTL)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	m, err := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		Brand:    cfg.MailBrand,
		ValidFor: cfg.PasswordResetTTL,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func loadRoster(ctx context.Context, cfg config.Config) (*roster.Roster, error) {
	if !cfg.RosterFromObjectStore() {
		return roster.LoadFile(ctx, cfg.EngineerRosterPath)
	}
	client, err := minio.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		return nil, err
	}
	return roster.LoadObject(ctx, minio.NewStorage(client, 0), cfg.EngineerRosterBucket, cfg.EngineerRosterObject)
}
