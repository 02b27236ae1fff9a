package core

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	TodoProviderStatic = "static"
	TodoProviderGenAI  = "genai"
)

// CommandConfig represents a generic command configuration
type CommandConfig struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:",inline"`
}

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

type Redis struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Session struct {
	TTLMinutes int `yaml:"ttlMinutes"`
}

type Stability struct {
	APIKey         string `yaml:"apiKey"`
	BaseURL        string `yaml:"baseURL"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

type ProductSearch struct {
	APIKey          string `yaml:"apiKey"`
	Host            string `yaml:"host"`
	BaseURL         string `yaml:"baseURL"`
	TimeoutSeconds  int    `yaml:"timeoutSeconds"`
	CacheTTLMinutes int    `yaml:"cacheTTLMinutes"`
}

type Todo struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"apiKey"`
	Model    string `yaml:"model"`
}

type ServiceConfig struct {
	Port           int             `yaml:"port"`
	LogLevel       string          `yaml:"logLevel"`
	PublicBaseURL  string          `yaml:"publicBaseURL"`
	Database       Database        `yaml:"database"`
	Redis          Redis           `yaml:"redis"`
	Session        Session         `yaml:"session"`
	Stability      Stability       `yaml:"stability"`
	ProductSearch  ProductSearch   `yaml:"productSearch"`
	Todo           Todo            `yaml:"todo"`
	UploadCommands []CommandConfig `yaml:"uploadCommands"`
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	applyEnvOverrides(&config)
	applyDefaults(&config)

	// Validate commands
	if err := validateCommands(config.UploadCommands); err != nil {
		return nil, fmt.Errorf("invalid command configuration: %w", err)
	}
	if err := validateTodo(config.Todo); err != nil {
		return nil, fmt.Errorf("invalid todo configuration: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides lets secrets come from the environment instead of the file
func applyEnvOverrides(config *ServiceConfig) {
	if value := os.Getenv("STABILITY_API_KEY"); value != "" {
		config.Stability.APIKey = value
	}
	if value := os.Getenv("RAPIDAPI_KEY"); value != "" {
		config.ProductSearch.APIKey = value
	}
	if value := os.Getenv("GEMINI_API_KEY"); value != "" {
		config.Todo.APIKey = value
	}
}

func applyDefaults(config *ServiceConfig) {
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.PublicBaseURL == "" {
		config.PublicBaseURL = fmt.Sprintf("http://localhost:%d", config.Port)
	}
	if config.Database.Type == "" {
		config.Database.Type = "sqlite"
	}
	if config.Database.ConnectionString == "" {
		config.Database.ConnectionString = "cozymind.db"
	}
	if config.Redis.Address == "" {
		config.Redis.Address = "localhost:6379"
	}
	if config.Session.TTLMinutes <= 0 {
		config.Session.TTLMinutes = 7 * 24 * 60
	}
	if config.ProductSearch.CacheTTLMinutes <= 0 {
		config.ProductSearch.CacheTTLMinutes = 60
	}
	config.Todo.Provider = strings.ToLower(strings.TrimSpace(config.Todo.Provider))
	if config.Todo.Provider == "" {
		config.Todo.Provider = TodoProviderStatic
	}
}

// validateCommands ensures all command configurations have required fields
func validateCommands(commands []CommandConfig) error {
	seenNames := make(map[string]bool)

	for i, cmd := range commands {
		// Validate name is not empty
		if cmd.Name == "" {
			return fmt.Errorf("command at index %d has empty name", i)
		}

		// Validate name is unique
		if seenNames[cmd.Name] {
			return fmt.Errorf("duplicate command name: %s", cmd.Name)
		}
		seenNames[cmd.Name] = true
	}

	return nil
}

func validateTodo(todo Todo) error {
	switch todo.Provider {
	case TodoProviderStatic, TodoProviderGenAI:
		return nil
	default:
		return fmt.Errorf("unknown provider %q", todo.Provider)
	}
}
