package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config armazena as configurações da aplicação
type Config struct {
	Port    string
	GinMode string

	// Token da API (Bearer) para as rotas /api/v1
	TokenAPI string

	// Logging
	LogLevel string
	LogJSON  bool

	// Banco de dados
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Rate limit por cliente (requisições por minuto)
	RateLimitPerMinute int

	// Usuários da sessão web no formato "user1:hash1,user2:hash2"
	// (hashes bcrypt gerados via middleware.HashPassword)
	SessionUsers string
}

// Load carrega as configurações do ambiente
func Load() (*Config, error) {
	// Tenta carregar .env de múltiplos locais
	_ = godotenv.Load()          // ./backend/.env
	_ = godotenv.Load("../.env") // ./.env (raiz do projeto)

	cfg := &Config{
		Port:         os.Getenv("PORT"),
		GinMode:      os.Getenv("GIN_MODE"),
		TokenAPI:     os.Getenv("TOKEN_API"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		LogJSON:      os.Getenv("LOG_JSON") == "true",
		DBHost:       os.Getenv("DB_HOST"),
		DBPort:       os.Getenv("DB_PORT"),
		DBUser:       os.Getenv("DB_USER"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBName:       os.Getenv("DB_NAME"),
		DBSSLMode:    os.Getenv("DB_SSLMODE"),
		SessionUsers: os.Getenv("SESSION_USERS"),
	}

	// Validações obrigatórias
	if cfg.TokenAPI == "" {
		return nil, errors.New("TOKEN_API não configurado")
	}

	if cfg.DBHost == "" {
		return nil, errors.New("DB_HOST não configurado")
	}

	if cfg.DBUser == "" {
		return nil, errors.New("DB_USER não configurado")
	}

	if cfg.DBName == "" {
		return nil, errors.New("DB_NAME não configurado")
	}

	// Defaults
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.GinMode == "" {
		cfg.GinMode = "debug"
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if cfg.DBPort == "" {
		cfg.DBPort = "5432"
	}

	if cfg.DBSSLMode == "" {
		cfg.DBSSLMode = "disable"
	}

	cfg.RateLimitPerMinute = 300
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitPerMinute = n
		}
	}

	return cfg, nil
}
