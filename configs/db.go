package configs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"foodorder/entity"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectionDB opens the SQL database named by DBDriver. Postgres goes
// through lib/pq and is handed to gorm as an existing *sql.DB.
func ConnectionDB(cfg *Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch cfg.DBDriver {
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DBSource), gcfg)
	case "postgres":
		sqlDB, err := sql.Open("postgres", cfg.DBSource)
		if err != nil {
			return nil, err
		}
		if err := sqlDB.Ping(); err != nil {
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
		return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gcfg)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.DBDriver)
	}
}

// SetupDatabase migrates the schema.
func SetupDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Meal{},
		&entity.Cart{},
		&entity.Order{},
	)
}

// ConnectMongo dials DBSource and returns the configured database.
func ConnectMongo(ctx context.Context, cfg *Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DBSource))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, client.Database(cfg.MongoDatabase), nil
}
