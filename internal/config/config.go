package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Input  InputConfig  `yaml:"input" mapstructure:"input"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Sinks  SinksConfig  `yaml:"sinks" mapstructure:"sinks"`
	Report ReportConfig `yaml:"report" mapstructure:"report"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// InputConfig configures where the raw sales table comes from and how it
// is read. Path may be a local file, an ftp:// URL or an http(s):// URL.
type InputConfig struct {
	Path            string  `yaml:"path" mapstructure:"path"`
	Delimiter       string  `yaml:"delimiter" mapstructure:"delimiter"`
	Encoding        string  `yaml:"encoding" mapstructure:"encoding"`
	Sheet           string  `yaml:"sheet" mapstructure:"sheet"`
	SheetIndex      int     `yaml:"sheet_index" mapstructure:"sheet_index"`
	FTPTimeoutSecs  int     `yaml:"ftp_timeout_secs" mapstructure:"ftp_timeout_secs"`
	HTTPTimeoutSecs int     `yaml:"http_timeout_secs" mapstructure:"http_timeout_secs"`
	HTTPRetries     int     `yaml:"http_retries" mapstructure:"http_retries"`
	HTTPRate        float64 `yaml:"http_rate" mapstructure:"http_rate"`
}

// OutputConfig names the file outputs. Empty paths are skipped, except
// Cleaned and Insights which always have defaults.
type OutputConfig struct {
	Cleaned  string `yaml:"cleaned" mapstructure:"cleaned"`
	Insights string `yaml:"insights" mapstructure:"insights"`
	XLSX     string `yaml:"xlsx" mapstructure:"xlsx"`
	Summary  string `yaml:"summary" mapstructure:"summary"`
}

// SinksConfig configures the optional database outputs.
type SinksConfig struct {
	SQLite   SQLiteConfig   `yaml:"sqlite" mapstructure:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres" mapstructure:"postgres"`
}

// SQLiteConfig enables the SQLite sink when DSN is set.
type SQLiteConfig struct {
	DSN   string `yaml:"dsn" mapstructure:"dsn"`
	Table string `yaml:"table" mapstructure:"table"`
}

// PostgresConfig enables the PostgreSQL sink when DatabaseURL is set.
type PostgresConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Schema      string `yaml:"schema" mapstructure:"schema"`
	Table       string `yaml:"table" mapstructure:"table"`
}

// ReportConfig configures insight formatting.
type ReportConfig struct {
	CurrencySymbol string `yaml:"currency_symbol" mapstructure:"currency_symbol"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. An empty path looks
// for an optional config.yaml in the working directory; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("SALES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input.path", "raw_data.csv")
	v.SetDefault("input.delimiter", ",")
	v.SetDefault("input.encoding", "")
	v.SetDefault("input.sheet", "")
	v.SetDefault("input.sheet_index", 0)
	v.SetDefault("input.ftp_timeout_secs", 30)
	v.SetDefault("input.http_timeout_secs", 30)
	v.SetDefault("input.http_retries", 3)
	v.SetDefault("input.http_rate", 5.0)
	v.SetDefault("output.cleaned", "cleaned_sales_data.csv")
	v.SetDefault("output.insights", "insights_report.txt")
	v.SetDefault("output.xlsx", "")
	v.SetDefault("output.summary", "")
	v.SetDefault("sinks.sqlite.dsn", "")
	v.SetDefault("sinks.sqlite.table", "cleaned_sales")
	v.SetDefault("sinks.postgres.database_url", "")
	v.SetDefault("sinks.postgres.schema", "")
	v.SetDefault("sinks.postgres.table", "cleaned_sales")
	v.SetDefault("report.currency_symbol", "₹")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the values the run command depends on. All problems are
// reported together.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Input.Path) == "" {
		problems = append(problems, "input.path is required")
	}
	if c.Input.SheetIndex < 0 {
		problems = append(problems, "input.sheet_index must be >= 0")
	}
	if c.Input.HTTPRetries < 1 {
		problems = append(problems, "input.http_retries must be >= 1")
	}
	if c.Input.HTTPRate <= 0 {
		problems = append(problems, "input.http_rate must be > 0")
	}
	if c.Output.Cleaned == "" {
		problems = append(problems, "output.cleaned is required")
	}
	if c.Output.Insights == "" {
		problems = append(problems, "output.insights is required")
	}
	if c.Sinks.SQLite.DSN != "" && c.Sinks.SQLite.Table == "" {
		problems = append(problems, "sinks.sqlite.table is required when sinks.sqlite.dsn is set")
	}
	if c.Sinks.Postgres.DatabaseURL != "" && c.Sinks.Postgres.Table == "" {
		problems = append(problems, "sinks.postgres.table is required when sinks.postgres.database_url is set")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		problems = append(problems, "log.format must be json or console")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger installs the global zap logger. Logs go to stderr so the
// report printed on stdout stays clean.
func InitLogger(cfg LogConfig) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build(zap.Fields(zap.String("app", "sales-insights")))
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
