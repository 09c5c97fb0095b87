package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/chm626/LehighEnergySymposium/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  logging.Config `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Data     DataConfig     `mapstructure:"data"`
	Export   ExportConfig   `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity. Either a full DSN or
// the discrete host/port/name/user/password parameters may be supplied; the
// discrete form matches the ERES_DATABASE_* environment variables.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

// ResolveDSN returns the configured DSN, assembling one from the discrete
// parameters when no explicit DSN is set. Returns "" when connectivity is
// not configured at all.
func (c DatabaseConfig) ResolveDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	if c.Host == "" || c.Name == "" {
		return ""
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	if c.User != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		} else {
			u.User = url.User(c.User)
		}
	}
	return u.String()
}

// DataConfig sets the ingestion floors and validity bounds for the three
// market sources. Dates are inclusive floors in YYYY-MM-DD form.
type DataConfig struct {
	FromDate       string  `mapstructure:"from_date"`
	OffersFromDate string  `mapstructure:"offers_from_date"`
	FeesFromDate   string  `mapstructure:"fees_from_date"`
	MaxRate        float64 `mapstructure:"max_rate_cents_per_kwh"`
	MaxFee         float64 `mapstructure:"max_fee_dollars"`
}

// From parses the general ingestion floor.
func (c DataConfig) From() (time.Time, error) {
	return parseDate(c.FromDate, "data.from_date")
}

// OffersFrom parses the offer-comparison floor.
func (c DataConfig) OffersFrom() (time.Time, error) {
	return parseDate(c.OffersFromDate, "data.offers_from_date")
}

// FeesFrom parses the fee-analysis floor.
func (c DataConfig) FeesFrom() (time.Time, error) {
	return parseDate(c.FeesFromDate, "data.fees_from_date")
}

func parseDate(value, key string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return t.UTC(), nil
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxDataPoints int `mapstructure:"max_data_points"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ERES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "eres")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "EEdb")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.connect_timeout", "10s")

	v.SetDefault("data.from_date", "2010-01-01")
	v.SetDefault("data.offers_from_date", "2016-01-01")
	v.SetDefault("data.fees_from_date", "2015-01-01")
	v.SetDefault("data.max_rate_cents_per_kwh", 50.0)
	v.SetDefault("data.max_fee_dollars", 500.0)

	v.SetDefault("export.max_data_points", 100000)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Export.MaxDataPoints <= 0 {
		return fmt.Errorf("export.max_data_points must be greater than zero")
	}
	if c.Data.MaxRate <= 0 {
		return fmt.Errorf("data.max_rate_cents_per_kwh must be greater than zero")
	}
	if c.Data.MaxFee <= 0 {
		return fmt.Errorf("data.max_fee_dollars must be greater than zero")
	}
	if _, err := c.Data.From(); err != nil {
		return err
	}
	if _, err := c.Data.OffersFrom(); err != nil {
		return err
	}
	if _, err := c.Data.FeesFrom(); err != nil {
		return err
	}
	return nil
}

// ResolveMaxPoints returns either the CLI override or config default.
func (c *Config) ResolveMaxPoints(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxDataPoints
}
