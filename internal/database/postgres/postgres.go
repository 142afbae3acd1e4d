package postgres

import (
	"fmt"
	"log"
	"time"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var DB_Status bool

func Connect(cfg config.PostgresConfig) (*sqlx.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBname)

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to target database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping target database: %w", err)
	}
	DB_Status = true

	return db, nil
}

func RetryConnectOnFailed(waitAmount time.Duration, db **sqlx.DB, cfg config.PostgresConfig) {
	if DB_Status {
		log.Printf("database connection already healthy, abort retry")
		return
	}

	if *db != nil {
		curDB := *db
		if err := curDB.Ping(); err == nil {
			log.Printf("database connection is healthy, no retry needed")
			return
		} else {
			log.Printf("failed to ping target database: %s, retry db connection", err)
		}
	} else {
		log.Printf("database connection is nil, attempting to reconnect...")
	}

	newDB, err := Connect(cfg)
	if err == nil {
		*db = newDB
		log.Printf("database retry connection successfully")
		return
	}
	log.Printf("failed to retry connect database: %s, next retry in %v", err, waitAmount)
	time.Sleep(waitAmount)

	RetryConnectOnFailed(waitAmount, db, cfg)
}
