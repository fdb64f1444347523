package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	tariffdomain "github.com/upravdom/upravdom/internal/tariff/domain"
)

// Calculation is how a utility service's charge is computed.
type Calculation string

const (
	CalcFixed Calculation = "fixed"
	CalcArea  Calculation = "area"
	CalcMeter Calculation = "meter"
)

// ParseCalculation validates a raw calculation type.
func ParseCalculation(raw string) (Calculation, bool) {
	switch Calculation(raw) {
	case CalcFixed, CalcArea, CalcMeter:
		return Calculation(raw), true
	}
	return "", false
}

// MeterType identifies what a metered service measures.
type MeterType string

const (
	MeterColdWater   MeterType = "cold_water"
	MeterHotWater    MeterType = "hot_water"
	MeterHeating     MeterType = "heating"
	MeterElectricity MeterType = "electricity"
)

// ParseMeterType validates a raw meter type.
func ParseMeterType(raw string) (MeterType, bool) {
	switch MeterType(raw) {
	case MeterColdWater, MeterHotWater, MeterHeating, MeterElectricity:
		return MeterType(raw), true
	}
	return "", false
}

// UtilityService is one billed communal service of the building: cold water,
// heating, maintenance and so on.
type UtilityService struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"type:text;not null"`
	Code        string       `json:"code" gorm:"type:text;not null;uniqueIndex"`
	Calculation Calculation  `json:"calculation" gorm:"type:text;not null"`
	MeterType   *MeterType   `json:"meter_type,omitempty" gorm:"type:text"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (UtilityService) TableName() string { return "utility_services" }

// Unit derives the tariff pricing basis from the calculation type and meter
// binding. This is the value the tariff lifecycle propagates on Event B.
func (u UtilityService) Unit() tariffdomain.Unit {
	switch u.Calculation {
	case CalcArea:
		return tariffdomain.UnitM2
	case CalcMeter:
		if u.MeterType == nil {
			return tariffdomain.UnitM3
		}
		switch *u.MeterType {
		case MeterHeating:
			return tariffdomain.UnitGcal
		case MeterElectricity:
			return tariffdomain.UnitKwh
		default:
			return tariffdomain.UnitM3
		}
	default:
		return tariffdomain.UnitFixed
	}
}
