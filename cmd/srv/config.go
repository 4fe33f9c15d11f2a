package main

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/loyaltap/backend/config"
	"github.com/urfave/cli/v2"
)

func (s *srv) loadConfig(cctx *cli.Context) error {
	s.configs = defaultConfigs()

	path := cctx.String("config")
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, s.configs); err != nil {
			return err
		}
	}

	// Secrets and addresses can always be overridden from the environment.
	if v, ok := os.LookupEnv("DB_HOST"); ok {
		s.configs.Database.Host = v
	}
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		s.configs.Database.Password = v
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		s.configs.Redis.Addr = v
	}
	if v, ok := os.LookupEnv("KAFKA_ADDR"); ok {
		s.configs.Kafka.Addr = v
	}
	if v, ok := os.LookupEnv("TOKEN_SECRET"); ok {
		s.configs.Auth.TokenSecret = v
	}
	if v, ok := os.LookupEnv("SESSION_SECRET"); ok {
		s.configs.Session.Secret = v
	}

	return nil
}

func defaultConfigs() *config.Configs {
	return &config.Configs{
		Env: "local",
		Database: config.DatabaseConfigs{
			Host:     "localhost",
			Port:     "3306",
			Database: "loyaltap",
			User:     "root",
		},
		ApiServer: config.ServerConfigs{
			Host:         "localhost",
			Port:         "8080",
			DefaultLimit: 10,
			MaxLimit:     50,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "token-secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: 24 * time.Hour,
			},
		},
		Session: config.SessionConfigs{
			Secret: "session-secret",
			Name:   "session",
		},
		Redis: config.RedisConfigs{Addr: "localhost:6379"},
		Kafka: config.KafkaConfigs{Addr: "localhost:9092"},
		Scan: config.ScanConfigs{
			UserDailyLimit: 50,
			TagDailyLimit:  1000,
			IPDailyLimit:   200,
			Cooldown:       5 * time.Minute,
		},
		Challenge: config.ChallengeConfigs{MaxRules: 20},
	}
}
