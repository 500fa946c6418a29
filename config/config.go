// Package config loads the server configuration from the environment.
package config

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	MailTransportSmtp = "smtp"
	MailTransportSes  = "ses"
	MailTransportDev  = "dev"
)

const DefaultDatabaseUrl = "sqlite://blog.db"

type Config struct {
	Env         string
	Port        string
	SecretKey   string
	DatabaseUrl string

	MailTransport    string
	SmtpHost         string
	SmtpPort         int
	SmtpUsername     string
	SmtpPassword     string
	MailFrom         string
	ContactRecipient string
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads the configuration and fails listing every required variable that is unset.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("SMTP_PORT", 587)

	cfg := &Config{
		Env:              v.GetString("GOENV"),
		Port:             v.GetString("PORT"),
		SecretKey:        v.GetString("SECRET_KEY"),
		MailTransport:    strings.ToLower(v.GetString("MAIL_TRANSPORT")),
		SmtpHost:         v.GetString("SMTP_HOST"),
		SmtpPort:         v.GetInt("SMTP_PORT"),
		SmtpUsername:     v.GetString("SMTP_USERNAME"),
		SmtpPassword:     v.GetString("SMTP_PASSWORD"),
		MailFrom:         v.GetString("MAIL_FROM"),
		ContactRecipient: v.GetString("CONTACT_RECIPIENT"),
	}

	cfg.DatabaseUrl = databaseUrl(v)

	if cfg.MailTransport == "" {
		if cfg.IsDevelopment() {
			cfg.MailTransport = MailTransportDev
		} else {
			cfg.MailTransport = MailTransportSmtp
		}
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SmtpUsername
	}
	if cfg.ContactRecipient == "" {
		cfg.ContactRecipient = cfg.MailFrom
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	require := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}

	require("SECRET_KEY", c.SecretKey)

	switch c.MailTransport {
	case MailTransportSmtp:
		require("SMTP_HOST", c.SmtpHost)
		require("SMTP_USERNAME", c.SmtpUsername)
		require("SMTP_PASSWORD", c.SmtpPassword)
	case MailTransportSes:
		require("MAIL_FROM", c.MailFrom)
	case MailTransportDev:
	default:
		return errors.Errorf("unknown MAIL_TRANSPORT %q (expected smtp, ses or dev)", c.MailTransport)
	}

	if len(missing) > 0 {
		return errors.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// LoadDatabaseUrl resolves just the database url, for commands that need
// nothing else from the environment.
func LoadDatabaseUrl() string {
	v := viper.New()
	v.AutomaticEnv()
	return databaseUrl(v)
}

func databaseUrl(v *viper.Viper) string {
	if dbUrl := v.GetString("DATABASE_URL"); dbUrl != "" {
		return dbUrl
	}
	if dbUrl := composeDatabaseUrl(v); dbUrl != "" {
		return dbUrl
	}
	return DefaultDatabaseUrl
}

// composeDatabaseUrl builds a postgres url from the DB_* variables, or returns "".
func composeDatabaseUrl(v *viper.Viper) string {
	keys := []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME"}
	for _, k := range keys {
		if v.GetString(k) == "" {
			return ""
		}
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(v.GetString("DB_USER"), v.GetString("DB_PASSWORD")),
		Host:   v.GetString("DB_HOST") + ":" + v.GetString("DB_PORT"),
		Path:   "/" + v.GetString("DB_NAME"),
	}
	return u.String()
}
