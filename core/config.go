package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string
		Build    string
		Debug    bool
		TestMode bool

		AppName          string
		SecretKey        []byte
		DefaultFromEmail mail.Address
		FrontendBaseURL  string

		SendgridAPIKey string
		RollbarToken   string

		RecoveryTokenTimeoutDelta time.Duration

		Org      OrgConfig
		Server   ServerConfig
		Auth     AuthConfig
		Database DatabaseConfig
	}

	// OrgConfig is the coaching centre identity printed on fee slips.
	OrgConfig struct {
		Name            string
		Tagline         string
		Phone           string
		AddressLine1    string
		AddressLine2    string
		Email           string
		AcademicSession string
	}

	ServerConfig struct {
		Host                      string
		Addr                      string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		ShutdownTimeout           time.Duration
	}

	AuthConfig struct {
		// Strategy is one of "static", "procedure" or "provider".
		// It is picked once at startup; strategies are never mixed.
		Strategy string

		// static strategy only
		StaticUsername string
		StaticPassword string
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}
)

const (
	AuthStrategyStatic    = "static"
	AuthStrategyProcedure = "procedure"
	AuthStrategyProvider  = "provider"
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

// NewConfig loads the app configuration from defaults, an optional
// config/.env.<env> file and environment variables (prefixed with ENV).
func NewConfig(build string) (*Config, error) {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Vidya Coaching")
	conf.SetDefault("secretKey", "t0t@lly-s3cret-k3y-ch@nge-me-in-pr0d")
	conf.SetDefault("defaultFromEmail", "noreply@vidyacoaching.com")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("recoveryTokenTimeoutDelta", 2*time.Hour)

	conf.SetDefault("orgName", "Vidya Coaching")
	conf.SetDefault("orgTagline", "Excellence in Education - Fee Structure Slip")
	conf.SetDefault("orgPhone", "8073465108")
	conf.SetDefault("orgAddressLine1", "No.31, 1st Cross, Ananthnagar")
	conf.SetDefault("orgAddressLine2", "Electronic City Phase 2, Bangalore - 560100")
	conf.SetDefault("orgEmail", "info@vidyacoaching.com")
	conf.SetDefault("orgAcademicSession", "2024-25")

	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverAddr", ":8000")
	conf.SetDefault("jwtExpirationDelta", 10*time.Minute)
	conf.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)

	conf.SetDefault("authStrategy", AuthStrategyProvider)
	conf.SetDefault("authStaticUsername", "sakshiyadav")
	conf.SetDefault("authStaticPassword", "syssakshiyada")

	conf.SetDefault("databaseEngine", "postgres")
	conf.SetDefault("databaseName", "vidya")
	conf.SetDefault("databaseHost", "localhost")
	conf.SetDefault("databasePort", "5432")
	conf.SetDefault("databaseDisableTLS", true)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	conf.AutomaticEnv()

	c := &Config{
		Env:                       env,
		Build:                     build,
		Debug:                     conf.GetBool("debug"),
		TestMode:                  conf.GetBool("testMode"),
		AppName:                   conf.GetString("appName"),
		SecretKey:                 []byte(conf.GetString("secretKey")),
		DefaultFromEmail:          mail.Address{Name: conf.GetString("appName"), Address: conf.GetString("defaultFromEmail")},
		FrontendBaseURL:           conf.GetString("frontendBaseURL"),
		SendgridAPIKey:            conf.GetString("sendgridApiKey"),
		RollbarToken:              conf.GetString("rollbarToken"),
		RecoveryTokenTimeoutDelta: conf.GetDuration("recoveryTokenTimeoutDelta"),
		Org: OrgConfig{
			Name:            conf.GetString("orgName"),
			Tagline:         conf.GetString("orgTagline"),
			Phone:           conf.GetString("orgPhone"),
			AddressLine1:    conf.GetString("orgAddressLine1"),
			AddressLine2:    conf.GetString("orgAddressLine2"),
			Email:           conf.GetString("orgEmail"),
			AcademicSession: conf.GetString("orgAcademicSession"),
		},
		Server: ServerConfig{
			Host:                      conf.GetString("serverHost"),
			Addr:                      conf.GetString("serverAddr"),
			JWTExpirationDelta:        conf.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: conf.GetDuration("jwtRefreshExpirationDelta"),
			ShutdownTimeout:           conf.GetDuration("serverShutdownTimeout"),
		},
		Auth: AuthConfig{
			Strategy:       conf.GetString("authStrategy"),
			StaticUsername: conf.GetString("authStaticUsername"),
			StaticPassword: conf.GetString("authStaticPassword"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("databaseEngine"),
			Name:          conf.GetString("databaseName"),
			User:          conf.GetString("databaseUser"),
			Password:      conf.GetString("databasePassword"),
			AdminUser:     conf.GetString("databaseAdminUser"),
			AdminPassword: conf.GetString("databaseAdminPassword"),
			Host:          conf.GetString("databaseHost"),
			Port:          conf.GetString("databasePort"),
			DisableTLS:    conf.GetBool("databaseDisableTLS"),
		},
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(c.AppName, "appName"),
		vala.StringNotEmpty(string(c.SecretKey), "secretKey"),
		vala.StringNotEmpty(c.Auth.Strategy, "authStrategy"),
		vala.StringNotEmpty(c.Server.Addr, "serverAddr"),
	).Check(); err != nil {
		return err
	}
	if !validStrategies[c.Auth.Strategy] {
		return errors.Errorf("unknown auth strategy %q", c.Auth.Strategy)
	}
	return nil
}

var validStrategies = map[string]bool{
	AuthStrategyStatic:    true,
	AuthStrategyProcedure: true,
	AuthStrategyProvider:  true,
}
