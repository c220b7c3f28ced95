package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit    string        `yaml:"git_commit" envconfig:"BRW_GIT_COMMIT"`
	GitTag       string        `yaml:"git_tag" envconfig:"BRW_GIT_TAG"`
	BuildTime    string        `yaml:"build_time" envconfig:"BRW_BUILD_TIME"`
	IsProduction bool          `yaml:"is_production" envconfig:"BRW_IS_PRODUCTION"`
	LogLevel     zapcore.Level `yaml:"log_level" envconfig:"BRW_LOG_LEVEL"`
	LogFile      string        `yaml:"log_file" envconfig:"BRW_LOG_FILE"`
	Backend      BackendConfig `yaml:"backend"`
	Session      SessionConfig `yaml:"session"`
}

// BackendConfig holds the remote book-review api settings.
type BackendConfig struct {
	BaseURL        string        `yaml:"base_url" envconfig:"BRW_BACKEND_BASE_URL"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"BRW_BACKEND_REQUEST_TIMEOUT"`
	UserAgent      string        `yaml:"user_agent" envconfig:"BRW_BACKEND_USER_AGENT"`
}

// SessionConfig holds the durable session store settings.
type SessionConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BRW_SESSION_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BRW_SESSION_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BRW_SESSION_BUCKET_NAME"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Backend.BaseURL) == 0 {
		return errors.New("make sure to set a valid backend base url in configuration file")
	}
	config.Backend.BaseURL = strings.TrimRight(config.Backend.BaseURL, "/")

	if config.Backend.RequestTimeout <= 0 {
		config.Backend.RequestTimeout = 30 * time.Second
	}

	if len(config.Session.FilePath) == 0 {
		return errors.New("make sure to set a valid session store filepath in configuration file")
	}

	if len(config.Session.BucketName) == 0 {
		config.Session.BucketName = "session"
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil && !os.IsNotExist(err) {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `BRW`.
	err = LoadConfigEnvs("BRW", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
