package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/lucaapp/account-service/internal/auth"
	"github.com/lucaapp/account-service/internal/config"
	"github.com/lucaapp/account-service/internal/database"
	"github.com/lucaapp/account-service/internal/email"
	"github.com/lucaapp/account-service/internal/handler"
	"github.com/lucaapp/account-service/internal/queue"
	"github.com/lucaapp/account-service/internal/repository"
	"github.com/lucaapp/account-service/internal/router"
)

func main() {
	// Load .env first so config.Load sees local overrides.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	accounts := repository.NewAccountRepo(db)
	sessionStore := repository.NewSessionRepo(db)
	resetStore := repository.NewResetTokenRepo(db)

	sessions := auth.NewSessionManager(sessionStore, time.Duration(cfg.SessionTTLDays)*24*time.Hour)
	resets := auth.NewResetManager(resetStore, accounts, sessions, time.Duration(cfg.ResetTokenTTLMin)*time.Minute)

	limiter := buildLimiter(cfg)
	mailer, smtpMailer := buildMailer(cfg)

	svc := auth.NewService(accounts, sessions, resets, limiter, mailer, cfg.AppScheme)

	if cfg.MailQueueEnabled {
		go func() {
			if err := queue.StartMailConsumer(smtpMailer); err != nil {
				log.Printf("mail consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	router.RegisterRoutes(e, handler.NewResetRedirectHandler(cfg.AppScheme))
	router.RegisterAuth(e, handler.NewAuthHandler(svc))
	router.RegisterAccounts(e, handler.NewAccountHandler(accounts, sessions), sessions)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// buildLimiter picks the login limiter backend. Redis shares
// lockout state across replicas; the in-memory limiter is the
// single-instance default and also the fallback when Redis is
// unreachable at startup.
func buildLimiter(cfg config.Config) auth.LoginLimiter {
	window := time.Duration(cfg.LoginLockoutSec) * time.Second
	if cfg.LimiterBackend == "redis" {
		if rdb := config.NewRedisClient(); rdb != nil {
			log.Printf("login limiter: redis backend")
			return auth.NewRedisLoginLimiter(rdb, cfg.LoginMaxAttempts, window)
		}
		log.Printf("login limiter: redis unreachable, falling back to memory")
	}
	return auth.NewMemoryLoginLimiter(cfg.LoginMaxAttempts, window)
}

// buildMailer returns the Mailer the auth service uses plus the
// concrete SMTP mailer the queue consumer delivers through.
func buildMailer(cfg config.Config) (auth.Mailer, *email.SMTPMailer) {
	smtpMailer := email.NewSMTPMailer(
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass,
		cfg.EmailFromAddress, cfg.EmailFromName, cfg.WebURL,
	)
	if cfg.MailQueueEnabled {
		return email.NewQueuedMailer(smtpMailer), smtpMailer
	}
	return smtpMailer, smtpMailer
}
