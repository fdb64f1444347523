package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Unit is the pricing basis a tariff rate applies to.
type Unit string

const (
	UnitFixed Unit = "fixed"
	UnitM2    Unit = "m2"
	UnitM3    Unit = "m3"
	UnitGcal  Unit = "gcal"
	UnitKwh   Unit = "kwh"
)

// ParseUnit validates a raw unit value.
func ParseUnit(raw string) (Unit, bool) {
	switch Unit(raw) {
	case UnitFixed, UnitM2, UnitM3, UnitGcal, UnitKwh:
		return Unit(raw), true
	}
	return "", false
}

// Tariff is one pricing rule for one utility service over one time window.
// Windows of a service never overlap; an unset EndDate means still in force.
type Tariff struct {
	ID        snowflake.ID    `json:"id" gorm:"primaryKey"`
	ServiceID snowflake.ID    `json:"service_id" gorm:"column:service_id;not null;index"`
	Rate      decimal.Decimal `json:"rate" gorm:"type:decimal(12,4);not null"`
	Unit      Unit            `json:"unit" gorm:"type:text;not null"`
	StartDate time.Time       `json:"start_date" gorm:"type:date;not null"`
	EndDate   *time.Time      `json:"end_date,omitempty" gorm:"type:date"`
	CreatedAt time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Tariff) TableName() string { return "tariffs" }

// Open reports whether the tariff is still open-ended.
func (t Tariff) Open() bool { return t.EndDate == nil }
