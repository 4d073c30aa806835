package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pav-beep/calorie.app/config"
	"github.com/pav-beep/calorie.app/internal/models"
)

// AuthorizedEmail mirrors the Users sheet: one row per paid email.
type AuthorizedEmail struct {
	gorm.Model
	Email string `gorm:"uniqueIndex;not null"`
}

// LedgerRow mirrors the Logs sheet. Macro cells stay strings so the
// database backend preserves the exact spreadsheet semantics, including
// unit-suffixed values written by older clients.
type LedgerRow struct {
	gorm.Model
	Identity  string `gorm:"index;not null"`
	Timestamp time.Time
	FoodName  string
	Calories  string
	Protein   string
	Carbs     string
	Fat       string
	Micros    string
}

// GormStore is the database-backed ledger store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the configured database and migrates the two
// ledger tables.
func NewGormStore(cfg *config.Config) (*GormStore, error) {
	var dial gorm.Dialector
	switch cfg.StoreDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
		log.Printf("[GormStore] Connecting to postgres at %s:%s as user %s", cfg.DBHost, cfg.DBPort, cfg.DBUser)
		dial = postgres.Open(dsn)
	case "sqlite":
		log.Printf("[GormStore] Opening sqlite database %s", cfg.SQLitePath)
		dial = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("gorm store does not support driver %q", cfg.StoreDriver)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewGormStoreWithDB(db)
}

// NewGormStoreWithDB wraps an already-open connection. Tests use this
// with an in-memory sqlite database.
func NewGormStoreWithDB(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&AuthorizedEmail{}, &LedgerRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate ledger tables: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) AuthorizedEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := s.db.WithContext(ctx).
		Model(&AuthorizedEmail{}).
		Pluck("email", &emails).Error
	if err != nil {
		return nil, fmt.Errorf("%w: reading authorized emails: %v", models.ErrConnection, err)
	}
	return emails, nil
}

func (s *GormStore) Append(ctx context.Context, entry models.LogEntry) error {
	row := LedgerRow{
		Identity:  entry.Identity,
		Timestamp: entry.Timestamp,
		FoodName:  entry.FoodName,
		Calories:  string(entry.Calories),
		Protein:   string(entry.Protein),
		Carbs:     string(entry.Carbs),
		Fat:       string(entry.Fat),
		Micros:    entry.Micros,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("%w: appending ledger row: %v", models.ErrStore, err)
	}
	return nil
}

func (s *GormStore) Entries(ctx context.Context) ([]models.LogEntry, error) {
	var rows []LedgerRow
	err := s.db.WithContext(ctx).
		Order("timestamp ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: reading ledger rows: %v", models.ErrStore, err)
	}

	entries := make([]models.LogEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, models.LogEntry{
			Identity:  r.Identity,
			Timestamp: r.Timestamp,
			FoodName:  r.FoodName,
			Calories:  models.Macro(r.Calories),
			Protein:   models.Macro(r.Protein),
			Carbs:     models.Macro(r.Carbs),
			Fat:       models.Macro(r.Fat),
			Micros:    r.Micros,
		})
	}
	return entries, nil
}

// AddAuthorizedEmail inserts one paid email. The sheets deployment
// manages the Users table out of band; this exists for the database
// backend and seeding scripts.
func (s *GormStore) AddAuthorizedEmail(ctx context.Context, email string) error {
	if err := s.db.WithContext(ctx).Create(&AuthorizedEmail{Email: email}).Error; err != nil {
		return fmt.Errorf("%w: adding authorized email: %v", models.ErrStore, err)
	}
	return nil
}
