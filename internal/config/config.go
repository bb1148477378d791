// Package config loads the server configuration.
//
// Values are layered, lowest precedence first: built-in defaults, the YAML
// config file, then .env and process environment variables. Command line
// flags are applied on top by the caller.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is read from the working directory when no path is given
	DefaultFile = "config.yaml"

	DefaultServerName  = "truenas-docs-tools"
	DefaultLogFile     = "truenas_mcp_tools_server.log"
	DefaultTestScript  = "run_middleware_tests.sh"
	DefaultTestTimeout = 10 * time.Minute

	ModeDevelopment = "development"
	ModeProduction  = "production"

	docsDirName = "docs"
	schemaURL   = "https://github.com/truenas/docs-mcp-server/config.schema.json"
)

// Environment variables that override the config file
const (
	EnvDocsPath    = "TRUENAS_DOCS_PATH"
	EnvServerMode  = "MCP_SERVER_MODE"
	EnvLogFile     = "TRUENAS_LOG_FILE"
	EnvTestScript  = "TRUENAS_TEST_SCRIPT"
	EnvRepoPath    = "TRUENAS_MIDDLEWARE_REPO"
	EnvTestTimeout = "TRUENAS_TEST_TIMEOUT"
)

//go:embed config.schema.json
var schemaJSON []byte

// Config is the complete server configuration
type Config struct {
	DocsPath string       `yaml:"docs_path"`
	Server   ServerConfig `yaml:"server"`
	Log      LogConfig    `yaml:"log"`
	Tests    TestsConfig  `yaml:"tests"`
}

// ServerConfig names the MCP server
type ServerConfig struct {
	Name string `yaml:"name"`
}

// LogConfig selects where logs go and how much is logged
type LogConfig struct {
	Mode    string `yaml:"mode"`
	File    string `yaml:"file"`
	Verbose bool   `yaml:"verbose"`
}

// TestsConfig configures the middleware test runner
type TestsConfig struct {
	Script   string        `yaml:"script"`
	RepoPath string        `yaml:"repo_path"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when nothing else is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{Name: DefaultServerName},
		Log:    LogConfig{Mode: ModeDevelopment},
		Tests:  TestsConfig{Timeout: DefaultTestTimeout},
	}
}

// Load builds the configuration from path, .env and the environment.
// An empty path reads DefaultFile if it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	} else {
		log.Printf("✓ Configuration loaded from %s", path)
	}

	// .env is optional
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := Validate(data); err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks a YAML config document against the embedded JSON schema
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc == nil {
		return nil // empty file
	}

	// Round-trip through JSON so the validator sees plain JSON values
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config is not representable as JSON: %w", err)
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return err
	}
	return schema.Validate(instance)
}

func compileSchema() (*jsonschema.Schema, error) {
	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("embedded config schema is invalid: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to add config schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", err)
	}
	return schema, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDocsPath); v != "" {
		c.DocsPath = v
	}
	if v := os.Getenv(EnvServerMode); v != "" {
		c.Log.Mode = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv(EnvTestScript); v != "" {
		c.Tests.Script = v
	}
	if v := os.Getenv(EnvRepoPath); v != "" {
		c.Tests.RepoPath = v
	}
	if v := os.Getenv(EnvTestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTestTimeout, err)
		}
		c.Tests.Timeout = d
	}
	return nil
}

// Production reports whether logs go to a file instead of stderr
func (c *Config) Production() bool {
	return c.Log.Mode == ModeProduction
}

// LogFile returns the configured log file, defaulting to one next to the executable
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(executableDir(), DefaultLogFile)
}

// ResolveDocsPath returns the documentation root.
// Without an explicit docs_path it tries "docs" next to the executable,
// then "docs" in the working directory.
func (c *Config) ResolveDocsPath() string {
	if c.DocsPath != "" {
		return c.DocsPath
	}

	// Strategy 1: relative to executable
	if dir := executableDir(); dir != "" {
		candidate := filepath.Join(dir, docsDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}

	// Strategy 2: current working directory
	return filepath.Join(".", docsDirName)
}

// ResolveTestScript returns the test script path, or "" when none exists
func (c *Config) ResolveTestScript() string {
	if c.Tests.Script != "" {
		return c.Tests.Script
	}
	if dir := executableDir(); dir != "" {
		candidate := filepath.Join(dir, DefaultTestScript)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func executableDir() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(execPath)
}
