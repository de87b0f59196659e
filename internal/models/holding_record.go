package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HoldingRecord is the stored form of one holding of the session portfolio.
type HoldingRecord struct {
	gorm.Model
	Coin        string          `gorm:"uniqueIndex;not null"`
	Quantity    decimal.Decimal `gorm:"type:text;not null"`
	AverageCost decimal.Decimal `gorm:"type:text;not null"`
}
