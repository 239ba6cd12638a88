package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/simpleauth/simple-auth/pkg/account"
	"github.com/simpleauth/simple-auth/pkg/authflow"
	"github.com/simpleauth/simple-auth/pkg/authflow/api"
	"github.com/simpleauth/simple-auth/pkg/clock"
	"github.com/simpleauth/simple-auth/pkg/notification"
	"github.com/simpleauth/simple-auth/pkg/session"
	"github.com/simpleauth/simple-auth/pkg/singleuse"
	"github.com/simpleauth/simple-auth/pkg/tokengenerator"
)

type DbConfig struct {
	Host     string `env:"AUTH_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"AUTH_PG_PORT" env-default:"5432"`
	Database string `env:"AUTH_PG_DATABASE" env-default:"auth_db"`
	User     string `env:"AUTH_PG_USER" env-default:"auth"`
	Password string `env:"AUTH_PG_PASSWORD" env-default:"pwd"`
}

func (d DbConfig) dsn() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", d.User, d.Password, d.Host, d.Port, d.Database)
}

type JwtConfig struct {
	Secret             string        `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	Issuer             string        `env:"JWT_ISSUER" env-default:"simple-auth"`
	Audience           string        `env:"JWT_AUDIENCE" env-default:"simple-auth"`
	AccessTokenExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRY" env-default:"15m"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY" env-default:"24h"`
}

type SmtpConfig struct {
	Host     string `env:"SMTP_HOST" env-default:"localhost"`
	Port     int    `env:"SMTP_PORT" env-default:"1025"`
	TLS      bool   `env:"SMTP_TLS" env-default:"false"`
	Username string `env:"SMTP_USERNAME" env-default:""`
	Password string `env:"SMTP_PASSWORD" env-default:""`
	From     string `env:"SMTP_FROM" env-default:"noreply@example.com"`
}

type AuthConfig struct {
	BaseUrl       string        `env:"AUTH_BASE_URL" env-default:"http://localhost:4000"`
	TokenValidity time.Duration `env:"ACTIVATION_TOKEN_VALIDITY" env-default:"24h"`
	OTPValidity   time.Duration `env:"OTP_CODE_VALIDITY" env-default:"10m"`
	OTPLength     int           `env:"OTP_CODE_LENGTH" env-default:"6"`
	BcryptCost    int           `env:"BCRYPT_COST" env-default:"0"`
	SmsFrom       string        `env:"SMS_FROM" env-default:"simple-auth"`
}

type ServerConfig struct {
	Host string `env:"HOST" env-default:"0.0.0.0"`
	Port string `env:"PORT" env-default:"4000"`
}

type Config struct {
	DbConfig     DbConfig
	JwtConfig    JwtConfig
	SmtpConfig   SmtpConfig
	AuthConfig   AuthConfig
	ServerConfig ServerConfig
}

func main() {
	godotenv.Load()

	config := Config{}
	if err := cleanenv.ReadEnv(&config); err != nil {
		slog.Error("Failed reading config from env", "err", err)
		os.Exit(-1)
	}

	pool, err := pgxpool.New(context.Background(), config.DbConfig.dsn())
	if err != nil {
		slog.Error("Failed creating dbpool", "db", config.DbConfig.Database, "host", config.DbConfig.Host, "err", err)
		os.Exit(-1)
	}
	defer pool.Close()

	clk := clock.New()

	cost := config.AuthConfig.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hasher, err := account.NewBcryptHasher(cost)
	if err != nil {
		slog.Error("Failed creating password hasher", "err", err)
		os.Exit(-1)
	}

	users := account.NewPostgresRepository(pool)
	sessions := session.NewPostgresRepository(pool)
	validationTokens := singleuse.NewStore(
		singleuse.NewValidationTokenRepository(pool),
		singleuse.NewHexTokenGenerator(32),
		config.AuthConfig.TokenValidity,
		clk,
	)
	otpCodes := singleuse.NewStore(
		singleuse.NewOTPCodeRepository(pool),
		singleuse.NewNumericCodeGenerator(config.AuthConfig.OTPLength),
		config.AuthConfig.OTPValidity,
		clk,
	)

	tokenService := tokengenerator.NewJwtService(
		tokengenerator.NewJwtTokenGenerator(config.JwtConfig.Secret, config.JwtConfig.Issuer, config.JwtConfig.Audience),
		tokengenerator.WithAccessTokenExpiry(config.JwtConfig.AccessTokenExpiry),
		tokengenerator.WithRefreshTokenExpiry(config.JwtConfig.RefreshTokenExpiry),
	)

	notificationManager, err := notification.NewNotificationManager(config.AuthConfig.BaseUrl,
		notification.WithAllTemplates(),
		notification.WithSMTP(notification.SMTPConfig{
			Host:     config.SmtpConfig.Host,
			Port:     config.SmtpConfig.Port,
			TLS:      config.SmtpConfig.TLS,
			Username: config.SmtpConfig.Username,
			Password: config.SmtpConfig.Password,
			From:     config.SmtpConfig.From,
		}),
		// nil sender logs the message body instead of delivering
		notification.WithSMS(config.AuthConfig.SmsFrom, nil),
	)
	if err != nil {
		slog.Error("Failed creating notification manager", "err", err)
		os.Exit(-1)
	}

	svc := authflow.NewService(users, hasher, validationTokens, otpCodes, sessions, tokenService,
		authflow.WithNotificationManager(notificationManager),
	)
	handle := api.NewHandle(svc)

	tokenAuth := jwtauth.New("HS256", []byte(config.JwtConfig.Secret), nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Group(handle.Routes)
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokenAuth))
			r.Use(jwtauth.Authenticator(tokenAuth))
			handle.ProtectedRoutes(r)
		})
	})

	addr := config.ServerConfig.Host + ":" + config.ServerConfig.Port
	slog.Info("Starting auth server", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("Server stopped", "err", err)
		os.Exit(-1)
	}
}
