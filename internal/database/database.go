package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/cleberrangel/task-tracker-api/internal/config"
	"github.com/cleberrangel/task-tracker-api/internal/logger"
	_ "github.com/lib/pq"
)

const (
	// maxOpenConns limite de conexões abertas no pool
	maxOpenConns = 25

	// maxIdleConns limite de conexões ociosas no pool
	maxIdleConns = 10

	// connMaxLifetime tempo máximo de vida de uma conexão
	connMaxLifetime = 5 * time.Minute

	// connMaxIdleTime tempo máximo de ociosidade de uma conexão
	connMaxIdleTime = 2 * time.Minute
)

// Connect estabelece conexão com o PostgreSQL
func Connect(cfg *config.Config) (*sql.DB, error) {
	log := logger.Global()

	// Constrói string de conexão
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	log.Info().
		Str("host", cfg.DBHost).
		Str("port", cfg.DBPort).
		Str("user", cfg.DBUser).
		Str("dbname", cfg.DBName).
		Str("sslmode", cfg.DBSSLMode).
		Msg("Conectando ao PostgreSQL")

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir conexão: %w", err)
	}

	// Configura pool de conexões
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	// Testa conexão
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao testar conexão: %w", err)
	}

	log.Info().
		Int("max_open_conns", maxOpenConns).
		Int("max_idle_conns", maxIdleConns).
		Msg("Conexão com PostgreSQL estabelecida")
	return db, nil
}

// Close fecha a conexão com o banco
func Close(db *sql.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
