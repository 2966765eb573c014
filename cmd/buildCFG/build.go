package buildCFG

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
)

type ServerConfig struct {
	Port string
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

type MailConfig struct {
	SMTPHost  string
	SMTPPort  string
	From      string
	Password  string
	AdminCopy string
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) *ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		port = "8080"
		log.Warn().Msg("server.port not set, using default 8080")
	}
	return &ServerConfig{Port: port}
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := cfg.GetString("database.master_dsn")
	if masterDSN == "" {
		return "", nil, nil, errors.New("database.master_dsn is required")
	}

	var slaveDSNs []string
	for _, dsn := range strings.Split(cfg.GetString("database.slave_dsns"), ",") {
		if dsn = strings.TrimSpace(dsn); dsn != "" {
			slaveDSNs = append(slaveDSNs, dsn)
		}
	}

	opts := &dbpg.Options{
		MaxOpenConns: cfg.GetInt("database.max_open_conns"),
		MaxIdleConns: cfg.GetInt("database.max_idle_conns"),
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}

	log.Info().
		Int("max_open_conns", opts.MaxOpenConns).
		Int("max_idle_conns", opts.MaxIdleConns).
		Int("slaves", len(slaveDSNs)).
		Msg("database config loaded")

	return masterDSN, slaveDSNs, opts, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (*RabbitConfig, error) {
	rc := &RabbitConfig{
		Url:      cfg.GetString("rabbit.url"),
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}
	if rc.Url == "" {
		return nil, errors.New("rabbit.url is required")
	}
	if rc.Exchange == "" {
		rc.Exchange = "colorin.assignments"
	}
	if rc.Queue == "" {
		rc.Queue = "assignment_notifications"
	}
	log.Info().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Msg("rabbit config loaded")
	return rc, nil
}

func BuildAuthConfig(cfg *config.Config, log *zerolog.Logger) (*AuthConfig, error) {
	secret := cfg.GetString("auth.secret")
	if secret == "" {
		return nil, errors.New("auth.secret is required")
	}
	if len(secret) < 32 {
		log.Warn().Msg("auth.secret is shorter than 32 characters")
	}

	ttlHours := cfg.GetInt("auth.token_ttl_hours")
	ac := &AuthConfig{Secret: secret}
	if ttlHours > 0 {
		ac.TokenTTL = time.Duration(ttlHours) * time.Hour
	}
	return ac, nil
}

func BuildMailConfig(cfg *config.Config) *MailConfig {
	return &MailConfig{
		SMTPHost:  cfg.GetString("mail.smtp_host"),
		SMTPPort:  cfg.GetString("mail.smtp_port"),
		From:      cfg.GetString("mail.from"),
		Password:  cfg.GetString("mail.password"),
		AdminCopy: cfg.GetString("mail.admin_copy"),
	}
}
