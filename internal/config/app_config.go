// Package config loads ask configuration from global and local YAML files and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/temirov/ask/internal/types"
	"github.com/temirov/ask/internal/utils"
)

const (
	// APIKeyEnvironmentVariable overrides the API key for any provider.
	APIKeyEnvironmentVariable = "ASK_API_KEY"
	// GeminiAPIKeyEnvironmentVariable is consulted for the gemini provider.
	GeminiAPIKeyEnvironmentVariable = "GEMINI_API_KEY"
	// OpenAIAPIKeyEnvironmentVariable is consulted for the openai provider.
	OpenAIAPIKeyEnvironmentVariable = "OPENAI_API_KEY"

	apiKeySettingName = "api_key"
	defaultConfigType = "yaml"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds provider settings and output defaults.
type ApplicationConfiguration struct {
	Provider    string             `mapstructure:"provider"`
	Model       string             `mapstructure:"model"`
	APIKey      string             `mapstructure:"api_key"`
	BaseURL     string             `mapstructure:"base_url"`
	MaxFileSize *int64             `mapstructure:"max_file_size"`
	Markdown    *bool              `mapstructure:"markdown"`
	Copy        *bool              `mapstructure:"copy"`
	Tokens      TokenConfiguration `mapstructure:"tokens"`
}

// TokenConfiguration controls prompt token estimation defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LoadApplicationConfiguration loads ~/.ask/config.yaml and then the local
// .ask.yaml (or ExplicitFilePath), with local values overriding global ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", localPath, statErr)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	return merged.Merge(localConfig), nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.ConfigFileName), nil
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath, nil
	}
	if workingDirectory == "" {
		absolute, err := filepath.Abs(explicitPath)
		if err != nil {
			return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
		}
		return absolute, nil
	}
	return filepath.Join(workingDirectory, explicitPath), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if extension := filepath.Ext(path); extension == "" || extension == filepath.Base(path) {
		reader.SetConfigType(defaultConfigType)
	}
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Provider != "" {
		result.Provider = override.Provider
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	if override.APIKey != "" {
		result.APIKey = override.APIKey
	}
	if override.BaseURL != "" {
		result.BaseURL = override.BaseURL
	}
	if override.MaxFileSize != nil {
		result.MaxFileSize = cloneInt64(override.MaxFileSize)
	}
	if override.Markdown != nil {
		result.Markdown = cloneBool(override.Markdown)
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

// ResolvedProvider returns the lower-cased provider, defaulting to gemini.
func (config ApplicationConfiguration) ResolvedProvider() string {
	provider := strings.ToLower(strings.TrimSpace(config.Provider))
	if provider == "" {
		return types.ProviderGemini
	}
	return provider
}

// ResolvedModel returns the configured model or the provider's default model.
func (config ApplicationConfiguration) ResolvedModel() string {
	if model := strings.TrimSpace(config.Model); model != "" {
		return model
	}
	if config.ResolvedProvider() == types.ProviderOpenAI {
		return types.DefaultOpenAIModel
	}
	return types.DefaultGeminiModel
}

// ResolvedMaxFileSize returns the per-file ceiling, defaulting to 3 MiB.
func (config ApplicationConfiguration) ResolvedMaxFileSize() int64 {
	if config.MaxFileSize == nil || *config.MaxFileSize <= 0 {
		return types.DefaultMaxFileSizeBytes
	}
	return *config.MaxFileSize
}

// ResolveAPIKey returns the configured key, then ASK_API_KEY, then the provider-specific variable.
func (config ApplicationConfiguration) ResolveAPIKey() string {
	if apiKey := strings.TrimSpace(config.APIKey); apiKey != "" {
		return apiKey
	}
	environment := viper.New()
	environmentNames := []string{apiKeySettingName, APIKeyEnvironmentVariable}
	switch config.ResolvedProvider() {
	case types.ProviderGemini:
		environmentNames = append(environmentNames, GeminiAPIKeyEnvironmentVariable)
	case types.ProviderOpenAI:
		environmentNames = append(environmentNames, OpenAIAPIKeyEnvironmentVariable)
	}
	if bindErr := environment.BindEnv(environmentNames...); bindErr != nil {
		return ""
	}
	return strings.TrimSpace(environment.GetString(apiKeySettingName))
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
