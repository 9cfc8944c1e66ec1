package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/gateway"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/pool"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/session"
)

const (
	EnvPrefix        = "GATEWAY"
	DefaultRemoteURL = "https://apisandbox.zuora.com/apps/services/a/27.0"
	DefaultTimeout   = 30 * time.Second
)

// Config is the resolved configuration of the gateway binaries.
type Config struct {
	RemoteURL  string
	RPCTimeout time.Duration
	Session    session.Config
	Pool       pool.Config
	Gateway    gateway.Config

	HostURL         string
	SpannerProject  string
	SpannerInstance string
	SpannerDatabase string

	MetricsListen string
	LogLevel      string
}

// DatabasePath is the fully qualified Spanner database name.
func (c Config) DatabasePath() string {
	return fmt.Sprintf("projects/%s/instances/%s/databases/%s", c.SpannerProject, c.SpannerInstance, c.SpannerDatabase)
}

// RegisterFlags declares every configuration key as a flag.
func RegisterFlags(flags *pflag.FlagSet) {
	pc := pool.DefaultConfig()

	flags.String("config", "", "path to a config file (yaml, toml or json)")
	flags.String("remote.url", DefaultRemoteURL, "billing back end endpoint")
	flags.String("remote.user", "", "billing back end user")
	flags.String("remote.password", "", "billing back end password")
	flags.String("remote.credentials-file", "", "properties file with user and password, re-read on every login")
	flags.Int("remote.max-login-retries", session.DefaultMaxLoginRetries, "attempts per remote call before giving up on the session")
	flags.Duration("rpc.timeout", DefaultTimeout, "network timeout of a single remote call")
	flags.Int("pool.min-idle", pc.MinIdle, "connections kept logged in while idle")
	flags.Int("pool.max-idle", pc.MaxIdle, "idle connections retained")
	flags.Int("pool.max-active", pc.MaxActive, "connections borrowed at once")
	flags.String("pool.when-exhausted", pc.WhenExhausted.String(), "borrow behaviour at max-active: block or fail")
	flags.Duration("pool.max-wait", pc.MaxWait, "longest a blocked borrow waits (0 = until cancelled)")
	flags.Bool("pool.test-on-borrow", pc.TestOnBorrow, "validate connections before lending them")
	flags.String("gateway.rate-plan-charge", gateway.DefaultRatePlanCharge, "product rate plan charge used for one-off subscriptions")
	flags.Bool("gateway.check-remote-state", true, "look for existing remote objects before creating them")
	flags.String("gateway.override-gateway", "", "payment gateway used for every credit card")
	flags.String("host.url", "http://localhost:8080", "host platform API")
	flags.String("spanner.project", "test-project", "Spanner project id")
	flags.String("spanner.instance", "test-instance", "Spanner instance id")
	flags.String("spanner.database", "billing-gateway", "Spanner database id")
	flags.String("metrics-listen", "", "serve Prometheus metrics on this address")
	flags.String("log-level", "info", "log level")
}

// Bind wires env variables (GATEWAY_POOL_MAX_ACTIVE, ...) and flags into v.
func Bind(v *viper.Viper, flags *pflag.FlagSet) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	return nil
}

// Load reads the optional config file named by the "config" key and
// resolves the configuration.
func Load(v *viper.Viper) (Config, error) {
	if path := strings.TrimSpace(v.GetString("config")); path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return Config{}, fmt.Errorf("expand config path %q: %w", path, err)
		}
		v.SetConfigFile(expanded)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %q: %w", expanded, err)
		}
	}

	whenExhausted, err := pool.ParseWhenExhausted(v.GetString("pool.when-exhausted"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		RemoteURL:  strings.TrimSpace(v.GetString("remote.url")),
		RPCTimeout: v.GetDuration("rpc.timeout"),
		Session: session.Config{
			User:            v.GetString("remote.user"),
			Password:        v.GetString("remote.password"),
			CredentialsFile: v.GetString("remote.credentials-file"),
			MaxLoginRetries: v.GetInt("remote.max-login-retries"),
		},
		Pool: pool.Config{
			MinIdle:       v.GetInt("pool.min-idle"),
			MaxIdle:       v.GetInt("pool.max-idle"),
			MaxActive:     v.GetInt("pool.max-active"),
			WhenExhausted: whenExhausted,
			MaxWait:       v.GetDuration("pool.max-wait"),
			TestOnBorrow:  v.GetBool("pool.test-on-borrow"),
		},
		Gateway: gateway.Config{
			RatePlanCharge:   v.GetString("gateway.rate-plan-charge"),
			CheckRemoteState: v.GetBool("gateway.check-remote-state"),
			OverrideGateway:  v.GetString("gateway.override-gateway"),
		},
		HostURL:         strings.TrimSpace(v.GetString("host.url")),
		SpannerProject:  v.GetString("spanner.project"),
		SpannerInstance: v.GetString("spanner.instance"),
		SpannerDatabase: v.GetString("spanner.database"),
		MetricsListen:   strings.TrimSpace(v.GetString("metrics-listen")),
		LogLevel:        v.GetString("log-level"),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if err := c.Pool.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Session.MaxLoginRetries <= 0 {
		errs = append(errs, fmt.Errorf("remote max-login-retries must be positive, got %d", c.Session.MaxLoginRetries))
	}
	if c.RPCTimeout <= 0 {
		errs = append(errs, fmt.Errorf("rpc timeout must be positive, got %s", c.RPCTimeout))
	}
	if err := checkURL("remote.url", c.RemoteURL); err != nil {
		errs = append(errs, err)
	}
	if err := checkURL("host.url", c.HostURL); err != nil {
		errs = append(errs, err)
	}
	if c.Session.User == "" && c.Session.CredentialsFile == "" {
		errs = append(errs, errors.New("remote.user or remote.credentials-file is required"))
	}
	return errors.Join(errs...)
}

func checkURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", key, raw)
	}
	return nil
}

func expandPath(p string) (string, error) {
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(p) == 1 {
			p = home
		} else if p[1] == '/' || p[1] == '\\' {
			p = filepath.Join(home, p[2:])
		}
	}
	return filepath.Abs(p)
}
