package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server configures cmd/server.
type Server struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBDir    string     `env:"DB_DIR" envDefault:"data"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	// QuizFile replaces the embedded default quiz when set.
	QuizFile string `env:"QUIZ_FILE"`

	// Submissions are checked against reCAPTCHA when a secret is set and
	// against locally issued challenge tokens otherwise.
	RecaptchaSecret    string        `env:"RECAPTCHA_SECRET"`
	RecaptchaVerifyURL string        `env:"RECAPTCHA_VERIFY_URL" envDefault:"https://www.google.com/recaptcha/api/siteverify"`
	TokenTTL           time.Duration `env:"TOKEN_TTL" envDefault:"2m"`

	TransitionDelay time.Duration `env:"TRANSITION_DELAY" envDefault:"400ms"`
	SubmitTimeout   time.Duration `env:"SUBMIT_TIMEOUT" envDefault:"30s"`
	SessionIdleTTL  time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`

	AdminEmail        string `env:"ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
}

// Client configures cmd/quiz.
type Client struct {
	GatewayURL      string        `env:"GATEWAY_URL" envDefault:"http://localhost:8080/api/v1/submitquiz"`
	ChallengeURL    string        `env:"CHALLENGE_URL" envDefault:"http://localhost:8080/api/v1/challenge"`
	QuizFile        string        `env:"QUIZ_FILE"`
	LogFile         string        `env:"LOG_FILE" envDefault:"quiz.log"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	TransitionDelay time.Duration `env:"TRANSITION_DELAY" envDefault:"400ms"`
	SubmitTimeout   time.Duration `env:"SUBMIT_TIMEOUT" envDefault:"30s"`
}

func LoadServer() (*Server, error) {
	cfg, err := env.ParseAs[Server]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.TransitionDelay < 0 || cfg.SubmitTimeout <= 0 || cfg.SessionIdleTTL <= 0 {
		return nil, fmt.Errorf("durations must be positive")
	}
	return &cfg, nil
}

func LoadClient() (*Client, error) {
	cfg, err := env.ParseAs[Client]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.GatewayURL == "" || cfg.ChallengeURL == "" {
		return nil, fmt.Errorf("GATEWAY_URL and CHALLENGE_URL are required")
	}
	return &cfg, nil
}
