package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendSheets = "sheets"
	BackendMySQL  = "mysql"
	BackendMemory = "memory"

	JournalMemory = "memory"
	JournalRedis  = "redis"
)

type Config struct {
	Backend string       `mapstructure:"backend"` // sheets | mysql | memory
	Journal string       `mapstructure:"journal"` // memory | redis
	Sheets  SheetsConfig `mapstructure:"sheets"`
	MySQL   MySQLConfig  `mapstructure:"mysql"`
	Redis   RedisConfig  `mapstructure:"redis"`
	Remote  RemoteConfig `mapstructure:"remote"`
	Parser  ParserConfig `mapstructure:"parser"`
	Log     LogConfig    `mapstructure:"log"`
}

type SheetsConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	Spreadsheet     string `mapstructure:"spreadsheet"`    // looked up by name
	SpreadsheetID   string `mapstructure:"spreadsheet_id"` // skips the lookup when set
	InventorySheet  string `mapstructure:"inventory_sheet"`
	SalesSheet      string `mapstructure:"sales_sheet"`
}

type MySQLConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type RemoteConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type ParserConfig struct {
	MinInventoryFields int `mapstructure:"min_inventory_fields"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // console | json
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendSheets)
	v.SetDefault("journal", JournalMemory)

	v.SetDefault("sheets.credentials_file", "creds/creds.json")
	v.SetDefault("sheets.spreadsheet", "Inventory_Manager")
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.inventory_sheet", "Inventory")
	v.SetDefault("sheets.sales_sheet", "Sales")

	v.SetDefault("mysql.dsn", "root:root@tcp(localhost:3306)/stockledger?parseTime=true")
	v.SetDefault("mysql.max_open_conns", 5)
	v.SetDefault("mysql.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key", "stockledger:divergences")

	v.SetDefault("remote.timeout", 30*time.Second)
	v.SetDefault("parser.min_inventory_fields", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads config.yaml from ./config or the working directory, or the file
// at path when given. A missing default file is not an error. Environment
// variables prefixed STOCKLEDGER_ override file values
// (STOCKLEDGER_SHEETS_SPREADSHEET -> sheets.spreadsheet).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("STOCKLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSheets:
		if c.Sheets.CredentialsFile == "" {
			return fmt.Errorf("sheets.credentials_file is required for the sheets backend")
		}
		if c.Sheets.Spreadsheet == "" && c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("sheets.spreadsheet or sheets.spreadsheet_id is required")
		}
	case BackendMySQL:
		if c.MySQL.DSN == "" {
			return fmt.Errorf("mysql.dsn is required for the mysql backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	switch c.Journal {
	case JournalMemory, JournalRedis:
	default:
		return fmt.Errorf("unknown journal %q", c.Journal)
	}

	if c.Sheets.InventorySheet == "" || c.Sheets.SalesSheet == "" {
		return fmt.Errorf("sheet names must not be empty")
	}
	if c.Sheets.InventorySheet == c.Sheets.SalesSheet {
		return fmt.Errorf("inventory and sales sheets must differ")
	}
	if c.Parser.MinInventoryFields < 5 {
		return fmt.Errorf("parser.min_inventory_fields must be at least 5, got %d", c.Parser.MinInventoryFields)
	}
	if c.Remote.Timeout < 0 {
		return fmt.Errorf("remote.timeout must not be negative")
	}

	return nil
}
