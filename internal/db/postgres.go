package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/XSAM/otelsql"
	_ "github.com/lib/pq"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Settings are the DB_* environment variables
type Settings struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// SettingsFromEnv reads DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME and DB_SSLMODE
func SettingsFromEnv() Settings {
	s := Settings{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}
	if s.Port == "" {
		s.Port = "5432"
	}
	if s.SSLMode == "" {
		s.SSLMode = "disable"
	}
	return s
}

// DSN builds the lib/pq connection string
func (s Settings) DSN() (string, error) {
	if s.Host == "" || s.User == "" || s.Password == "" || s.Name == "" {
		return "", fmt.Errorf("missing required database environment variables")
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		s.Host, s.Port, s.User, s.Password, s.Name, s.SSLMode,
	), nil
}

// Connect opens an instrumented PostgreSQL pool using the DB_* environment
func Connect(ctx context.Context) (*sql.DB, error) {
	settings := SettingsFromEnv()
	connStr, err := settings.DSN()
	if err != nil {
		return nil, err
	}

	attrs := otelsql.WithAttributes(
		semconv.DBSystemPostgreSQL,
		semconv.DBName(settings.Name),
	)

	db, err := otelsql.Open("postgres", connStr, attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := otelsql.RegisterDBStatsMetrics(db, attrs); err != nil {
		log.Printf("[WARN] failed to register database stats metrics: %v", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Printf("✓ Connected to PostgreSQL database %s (OpenTelemetry enabled)", settings.Name)
	return db, nil
}
