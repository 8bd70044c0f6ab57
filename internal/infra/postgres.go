package infra

import (
	"context"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"wayfarer/internal/models/db_models"
)

// InitPostgresql opens the connection pool and migrates the catalog, embedding
// and itinerary tables. The vector extension must be installable by the
// connecting role.
func InitPostgresql(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("POSTGRES_URL is not set")
	}

	connectionPool, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := connectionPool.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("enabling pgvector: %w", err)
	}

	if err := connectionPool.AutoMigrate(
		&db_models.Place{},
		&db_models.PlaceEmbedding{},
		&db_models.Itinerary{},
	); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	log.Println("PostgreSQL connected and migrated")
	return connectionPool, nil
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting database instance: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("PostgreSQL database connection closed successfully")
	}
}

// PostgresPinger adapts a gorm handle to the health check.
type PostgresPinger struct {
	DB *gorm.DB
}

func (p PostgresPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
