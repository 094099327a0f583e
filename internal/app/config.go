package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/entregas/internal/models"
	"github.com/shrimpsizemoose/entregas/internal/store"
)

const (
	DefaultOutputPath = "Reporte_Calificaciones.xlsx"
	DefaultSheetName  = "Calificaciones"
	DefaultStartCell  = "A1"
)

type HeaderConfig struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

// GSheetConfig addresses the target sheet. StartCell and TimestampRange are
// cell references inside SheetName, without a "Sheet!" prefix.
type GSheetConfig struct {
	Enabled         bool   `toml:"enabled"`
	CredentialsPath string `toml:"credentials_path"`
	SheetID         string `toml:"sheet_id"`
	SheetName       string `toml:"sheet_name"`
	StartCell       string `toml:"start_cell"`
	TimestampRange  string `toml:"timestamp_range"`
}

type Config struct {
	Server struct {
		Port       string `toml:"port"`
		EnableAuth bool   `toml:"enable_auth"`
	} `toml:"server"`

	Auth struct {
		RedisURL         string `toml:"redis_url"`
		TokenHeader      string `toml:"token_header"`
		TokenKeyTemplate string `toml:"token_key_template"`
	} `toml:"auth"`

	API struct {
		ClientIDHeader  string         `toml:"client_id_header"`
		RequiredHeaders []HeaderConfig `toml:"required_headers"`
		CORSOrigins     []string       `toml:"cors_origins"`
	} `toml:"api"`

	Database struct {
		DSN           string `toml:"dsn"`
		Type          string `toml:"type"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Scoring struct {
		MaxPoints int `toml:"max_points"`
	} `toml:"scoring"`

	Export struct {
		OutputPath string `toml:"output_path"`
		Format     string `toml:"format"`
		SheetName  string `toml:"sheet_name"`
		Schedule   string `toml:"schedule"`
	} `toml:"export"`

	GSheet GSheetConfig `toml:"gsheet"`

	Sources struct {
		RosterPath      string `toml:"roster_path"`
		SubmissionsRoot string `toml:"submissions_root"`
	} `toml:"sources"`

	Display struct {
		EmojiVariants []string `toml:"emoji_variants"`
	} `toml:"display"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return ParseConfig(path, data)
}

func ParseConfig(path string, data []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	config.applyDefaults()

	if config.Server.EnableAuth && config.Auth.RedisURL == "" {
		return nil, fmt.Errorf("auth is enabled but auth.redis_url is empty")
	}
	if config.GSheet.Enabled && (config.GSheet.SheetID == "" || config.GSheet.CredentialsPath == "") {
		return nil, fmt.Errorf("gsheet export is enabled but sheet_id or credentials_path is empty")
	}
	if strings.Contains(config.GSheet.StartCell, "!") || strings.Contains(config.GSheet.TimestampRange, "!") {
		return nil, fmt.Errorf("gsheet start_cell and timestamp_range must not name the sheet, it comes from sheet_name")
	}

	logger.Debug.Printf("Loaded scoring config: %+v", config.Scoring)

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Scoring.MaxPoints <= 0 {
		c.Scoring.MaxPoints = models.DefaultMaxPoints
	}
	if c.Export.OutputPath == "" {
		c.Export.OutputPath = DefaultOutputPath
	}
	if c.Export.Format == "" {
		c.Export.Format = "xlsx"
	}
	if c.Export.SheetName == "" {
		c.Export.SheetName = DefaultSheetName
	}
	if c.GSheet.SheetName == "" {
		c.GSheet.SheetName = DefaultSheetName
	}
	if c.GSheet.StartCell == "" {
		c.GSheet.StartCell = DefaultStartCell
	}
	if c.Auth.TokenHeader == "" {
		c.Auth.TokenHeader = "Authorization"
	}
	if c.Auth.TokenKeyTemplate == "" {
		c.Auth.TokenKeyTemplate = "auth:{course}:{client}"
	}
	if c.API.ClientIDHeader == "" {
		c.API.ClientIDHeader = "X-Client-Id"
	}
	if c.Database.MigrationsDir == "" {
		c.Database.MigrationsDir = "./migrations"
	}
}

func (c *Config) DBConfig() store.DBConfig {
	return store.DBConfig{
		DSN:           c.Database.DSN,
		Type:          store.DatabaseType(c.Database.Type),
		MigrationsDir: c.Database.MigrationsDir,
	}
}

// RequireServer checks the settings only the HTTP server needs.
func (c *Config) RequireServer() error {
	if c.Server.Port == "" {
		return fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}
	return nil
}
