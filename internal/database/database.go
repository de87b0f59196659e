package database

import (
	"context"
	"fmt"

	"crypto-trading-sim/internal/config"
	"crypto-trading-sim/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the session store and resets it to the configured seed portfolio.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	seed, err := cfg.SeedPortfolio()
	if err != nil {
		return nil, fmt.Errorf("invalid seed portfolio: %w", err)
	}

	db, err := Open(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	if err := AutoMigrate(db, seed); err != nil {
		return nil, err
	}

	return db, nil
}

// Open connects to the sqlite database at dsn.
// A single connection is used so that in-memory databases are shared by every query.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// AutoMigrate drops the existing tables, creates new ones and stores the seed portfolio.
// Nothing from a previous session survives.
func AutoMigrate(db *gorm.DB, seed models.Portfolio) error {
	if err := db.Migrator().DropTable(&models.HoldingRecord{}); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}

	if err := db.AutoMigrate(&models.HoldingRecord{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	if err := NewSessionStore(db).Save(context.Background(), seed); err != nil {
		return fmt.Errorf("failed to store seed portfolio: %w", err)
	}

	return nil
}

// SessionStore keeps the committed portfolio of the running session.
type SessionStore struct {
	db *gorm.DB
}

// NewSessionStore creates a store on an already migrated database.
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Load reads the stored portfolio.
func (s *SessionStore) Load(ctx context.Context) (models.Portfolio, error) {
	var records []models.HoldingRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return models.Portfolio{}, fmt.Errorf("could not read holdings: %w", err)
	}

	seed := make(map[models.CoinSymbol]models.Holding, len(records))
	for _, r := range records {
		coin, err := models.ParseCoinSymbol(r.Coin)
		if err != nil {
			return models.Portfolio{}, fmt.Errorf("corrupt holding record %d: %w", r.ID, err)
		}
		seed[coin] = models.Holding{Quantity: r.Quantity, AverageCost: r.AverageCost}
	}

	return models.NewPortfolio(seed)
}

// Save replaces every stored holding with the ones of portfolio in a single transaction.
func (s *SessionStore) Save(ctx context.Context, portfolio models.Portfolio) error {
	records := make([]models.HoldingRecord, 0, len(models.AllCoins()))
	for _, coin := range models.AllCoins() {
		h := portfolio.Holding(coin)
		records = append(records, models.HoldingRecord{
			Coin:        coin.String(),
			Quantity:    h.Quantity,
			AverageCost: h.AverageCost,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "coin"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "average_cost", "updated_at"}),
		}).Create(&records).Error
		if err != nil {
			return fmt.Errorf("could not save holdings: %w", err)
		}
		return nil
	})
}
