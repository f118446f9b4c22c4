package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaxScale is the number of fractional digits the balance column keeps.
// Amounts with more digits are rejected rather than rounded.
const MaxScale = 18

// MaxIntegerDigits is what decimal(38,18) leaves left of the point.
const MaxIntegerDigits = 20

var maxMagnitude = decimal.New(1, MaxIntegerDigits)

type Account struct {
	AccountNumber string          `gorm:"primaryKey;size:64" json:"account_number"`
	Balance       decimal.Decimal `gorm:"type:decimal(38,18);not null;default:0" json:"balance"`
	FirstName     string          `gorm:"not null" json:"first_name"`
	LastName      string          `gorm:"not null" json:"last_name"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

func (a *Account) BeforeSave(tx *gorm.DB) error {
	if a.Balance.IsNegative() {
		return ErrNegativeBalance
	}
	if !FitsPrecision(a.Balance) {
		return ErrBalanceOutOfRange
	}
	return nil
}

// Clone returns a copy that shares no state with a.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// FitsScale reports whether d can be stored without rounding.
func FitsScale(d decimal.Decimal) bool {
	return d.Exponent() >= -MaxScale || d.Equal(d.Truncate(MaxScale))
}

// FitsPrecision reports whether d has at most MaxIntegerDigits digits left
// of the decimal point.
func FitsPrecision(d decimal.Decimal) bool {
	return d.Abs().LessThan(maxMagnitude)
}
