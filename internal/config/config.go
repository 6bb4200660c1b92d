package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env     string `yaml:"env" env:"ENV" env-default:"local"`
	LogPath string `yaml:"log_path" env:"LOG_PATH" env-default:""`
	Listen  struct {
		BindIP         string        `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port           string        `yaml:"port" env-default:"9100"`
		ApiKey         string        `yaml:"key" env:"LISTEN_KEY" env-default:""`
		RequestTimeout time.Duration `yaml:"request_timeout" env-default:"30s"`
	} `yaml:"listen"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
		BotName string `yaml:"bot_name" env-default:"ReturnsAgentBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	State struct {
		Backend string        `yaml:"backend" env:"STATE_BACKEND" env-default:"memory"`
		TTL     time.Duration `yaml:"ttl" env-default:"24h"`
		Redis   struct {
			Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"127.0.0.1:6379"`
			Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
			DB       int    `yaml:"db" env-default:"0"`
			Prefix   string `yaml:"prefix" env-default:"returns:"`
		} `yaml:"redis"`
		Mongo struct {
			Host       string `yaml:"host" env-default:"127.0.0.1"`
			Port       string `yaml:"port" env-default:"27017"`
			User       string `yaml:"user" env-default:"admin"`
			Password   string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
			Database   string `yaml:"database" env-default:"returns"`
			Collection string `yaml:"collection" env-default:"bot_state"`
		} `yaml:"mongo"`
		DynamoDB struct {
			Region   string `yaml:"region" env:"AWS_REGION" env-default:"eu-west-1"`
			Table    string `yaml:"table" env-default:"returns-bot-state"`
			Endpoint string `yaml:"endpoint" env-default:""`
		} `yaml:"dynamodb"`
	} `yaml:"state"`
	NLU struct {
		Provider  string `yaml:"provider" env:"NLU_PROVIDER" env-default:"clu"`
		Sentiment string `yaml:"sentiment" env-default:""`
		CLU       struct {
			Endpoint       string `yaml:"endpoint" env:"CLU_ENDPOINT" env-default:""`
			ApiKey         string `yaml:"api_key" env:"CLU_API_KEY" env-default:""`
			ProjectName    string `yaml:"project_name" env-default:""`
			DeploymentName string `yaml:"deployment_name" env-default:""`
		} `yaml:"clu"`
		OpenAI struct {
			ApiKey string `yaml:"api_key" env:"OPENAI_API_KEY" env-default:""`
			Model  string `yaml:"model" env-default:"gpt-4o-mini"`
		} `yaml:"openai"`
		Google struct {
			ApiKey   string `yaml:"api_key" env:"GOOGLE_API_KEY" env-default:""`
			Endpoint string `yaml:"endpoint" env-default:""`
		} `yaml:"google"`
	} `yaml:"nlu"`
	OMS struct {
		BaseURL string        `yaml:"base_url" env:"OMS_BASE_URL" env-default:""`
		Timeout time.Duration `yaml:"timeout" env-default:"20s"`
		Retries int           `yaml:"retries" env-default:"0"`
	} `yaml:"oms"`
	Brand struct {
		TablePath     string  `yaml:"table_path" env-default:""`
		Cutoff        float64 `yaml:"cutoff" env-default:"60"`
		DefaultTenant string  `yaml:"default_tenant" env-default:"FBAFBA"`
	} `yaml:"brand"`
	Returns struct {
		EligibilityRule string `yaml:"eligibility_rule" env-default:"AvailableForReturns"`
	} `yaml:"returns"`
	Session struct {
		TokenTTL time.Duration `yaml:"token_ttl" env-default:"0s"`
	} `yaml:"session"`
	Transcript struct {
		Enabled bool `yaml:"enabled" env:"TRANSCRIPT_ENABLED" env-default:"false"`
		Limit   int  `yaml:"limit" env-default:"50"`
	} `yaml:"transcript"`
}

// Load reads the YAML file at path with environment overrides. A .env file in
// the working directory is loaded into the environment first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := &Config{}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		desc, _ := cleanenv.GetDescription(cfg, nil)
		return nil, fmt.Errorf("%s; %s", err, desc)
	}
	return cfg, nil
}
