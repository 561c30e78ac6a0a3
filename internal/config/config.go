package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Storage struct {
		// Driver selects the store implementation: "memory" or "postgres".
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"storage"`
	AnalysisService struct {
		URL string `yaml:"url"`
		// StageTimeout bounds each individual analysis call, in seconds.
		StageTimeout int64 `yaml:"stage_timeout_seconds"`
	} `yaml:"analysis_service"`
	Queue struct {
		Enabled   bool   `yaml:"enabled"`
		URL       string `yaml:"url"`
		QueueName string `yaml:"queue_name"`
	} `yaml:"queue"`
	Notifications struct {
		Enabled          bool   `yaml:"enabled"`
		TelegramBotToken string `yaml:"telegram_bot_token"`
		TelegramChatID   int64  `yaml:"telegram_chat_id"`
	} `yaml:"notifications"`
	FraudIndicatorsFile string `yaml:"fraud_indicators_file"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.Server.Port == "" {
		config.Server.Port = ":8080"
	}
	if config.Storage.Driver == "" {
		config.Storage.Driver = "memory"
	}
	if config.AnalysisService.StageTimeout <= 0 {
		config.AnalysisService.StageTimeout = 30
	}
	if config.Queue.QueueName == "" {
		config.Queue.QueueName = "report_events"
	}

	return config, nil
}
