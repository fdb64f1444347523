package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/upravdom/upravdom/internal/billingperiod"
	tariffdomain "github.com/upravdom/upravdom/internal/tariff/domain"
	utilitydomain "github.com/upravdom/upravdom/internal/utility/domain"
	"gorm.io/gorm"
)

type defaultService struct {
	Name        string
	Code        string
	Calculation utilitydomain.Calculation
	MeterType   *utilitydomain.MeterType
}

func meterType(t utilitydomain.MeterType) *utilitydomain.MeterType { return &t }

var defaultServices = []defaultService{
	{Name: "Maintenance", Code: "maintenance", Calculation: utilitydomain.CalcArea},
	{Name: "Cold water", Code: "cold_water", Calculation: utilitydomain.CalcMeter, MeterType: meterType(utilitydomain.MeterColdWater)},
	{Name: "Hot water", Code: "hot_water", Calculation: utilitydomain.CalcMeter, MeterType: meterType(utilitydomain.MeterHotWater)},
	{Name: "Heating", Code: "heating", Calculation: utilitydomain.CalcMeter, MeterType: meterType(utilitydomain.MeterHeating)},
	{Name: "Electricity", Code: "electricity", Calculation: utilitydomain.CalcMeter, MeterType: meterType(utilitydomain.MeterElectricity)},
	{Name: "Intercom", Code: "intercom", Calculation: utilitydomain.CalcFixed},
}

// EnsureDefaultServices seeds the standard set of building services on a
// fresh database. Each seeded service gets a rate-0 open-ended tariff at the
// active period start so its timeline is never empty. Existing codes are
// left untouched, which makes the seed safe to run on every startup.
func EnsureDefaultServices(db *gorm.DB, now time.Time) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	period := billingperiod.Compute(now)
	ctx := context.Background()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, def := range defaultServices {
			if err := ensureServiceTx(ctx, tx, node, def, period.ActiveStart, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureServiceTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, def defaultService, startDate, now time.Time) error {
	var existing utilitydomain.UtilityService
	err := tx.WithContext(ctx).Where("code = ?", def.Code).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	svc := utilitydomain.UtilityService{
		ID:          node.Generate(),
		Name:        def.Name,
		Code:        def.Code,
		Calculation: def.Calculation,
		MeterType:   def.MeterType,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
	if err := tx.WithContext(ctx).Create(&svc).Error; err != nil {
		return err
	}

	tariff := tariffdomain.Tariff{
		ID:        node.Generate(),
		ServiceID: svc.ID,
		Rate:      decimal.Zero,
		Unit:      svc.Unit(),
		StartDate: startDate,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	return tx.WithContext(ctx).Create(&tariff).Error
}
