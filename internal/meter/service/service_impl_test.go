package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	apartmentdomain "github.com/upravdom/upravdom/internal/apartment/domain"
	apartmentrepository "github.com/upravdom/upravdom/internal/apartment/repository"
	"github.com/upravdom/upravdom/internal/clock"
	meterdomain "github.com/upravdom/upravdom/internal/meter/domain"
	"github.com/upravdom/upravdom/internal/meter/repository"
	utilitydomain "github.com/upravdom/upravdom/internal/utility/domain"
	utilityrepository "github.com/upravdom/upravdom/internal/utility/repository"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func setupMeterService(t *testing.T) (meterdomain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	if err := db.AutoMigrate(
		&apartmentdomain.Apartment{},
		&utilitydomain.UtilityService{},
		&meterdomain.Meter{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	svc := New(Params{
		DB:            db,
		Log:           zaptest.NewLogger(t),
		GenID:         node,
		Clock:         clock.NewFakeClock(time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)),
		Repo:          repository.Provide(),
		ApartmentRepo: apartmentrepository.Provide(),
		UtilityRepo:   utilityrepository.Provide(),
	})
	return svc, db, node
}

func seedApartmentAndService(t *testing.T, db *gorm.DB, node *snowflake.Node) (snowflake.ID, snowflake.ID) {
	t.Helper()

	apartment := apartmentdomain.Apartment{
		ID:     node.Generate(),
		Number: "12",
		Floor:  3,
		Rooms:  2,
		AreaM2: decimal.RequireFromString("54.30"),
	}
	if err := db.Create(&apartment).Error; err != nil {
		t.Fatalf("seed apartment: %v", err)
	}

	meterType := utilitydomain.MeterColdWater
	utility := utilitydomain.UtilityService{
		ID:          node.Generate(),
		Name:        "Cold water",
		Code:        "cold_water",
		Calculation: utilitydomain.CalcMeter,
		MeterType:   &meterType,
	}
	if err := db.Create(&utility).Error; err != nil {
		t.Fatalf("seed utility: %v", err)
	}
	return apartment.ID, utility.ID
}

func TestCreateMeter(t *testing.T) {
	svc, db, node := setupMeterService(t)
	apartmentID, serviceID := seedApartmentAndService(t, db, node)

	meter, err := svc.Create(context.Background(), meterdomain.CreateRequest{
		ApartmentID: apartmentID.String(),
		ServiceID:   serviceID.String(),
		Serial:      "CW-001122",
		InstalledAt: "2025-03-01",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !meter.LastReading.IsZero() {
		t.Fatalf("new meter reading = %s, want 0", meter.LastReading)
	}
}

func TestCreateMeterRejectsUnmeteredService(t *testing.T) {
	svc, db, node := setupMeterService(t)
	apartmentID, _ := seedApartmentAndService(t, db, node)

	fixed := utilitydomain.UtilityService{
		ID:          node.Generate(),
		Name:        "Intercom",
		Code:        "intercom",
		Calculation: utilitydomain.CalcFixed,
	}
	if err := db.Create(&fixed).Error; err != nil {
		t.Fatalf("seed utility: %v", err)
	}

	_, err := svc.Create(context.Background(), meterdomain.CreateRequest{
		ApartmentID: apartmentID.String(),
		ServiceID:   fixed.ID.String(),
		Serial:      "X-1",
		InstalledAt: "2025-03-01",
	})
	if err != meterdomain.ErrInvalidService {
		t.Fatalf("got %v, want ErrInvalidService for a fixed-charge service", err)
	}
}

func TestRecordReadingMonotonic(t *testing.T) {
	svc, db, node := setupMeterService(t)
	apartmentID, serviceID := seedApartmentAndService(t, db, node)
	ctx := context.Background()

	meter, err := svc.Create(ctx, meterdomain.CreateRequest{
		ApartmentID: apartmentID.String(),
		ServiceID:   serviceID.String(),
		Serial:      "CW-001122",
		InstalledAt: "2025-03-01",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.RecordReading(ctx, meter.ID.String(), decimal.RequireFromString("15.250"))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !updated.LastReading.Equal(decimal.RequireFromString("15.250")) {
		t.Fatalf("reading = %s, want 15.250", updated.LastReading)
	}

	if _, err := svc.RecordReading(ctx, meter.ID.String(), decimal.RequireFromString("10")); err != meterdomain.ErrReadingDecreased {
		t.Fatalf("got %v, want ErrReadingDecreased", err)
	}
}

func TestCreateMeterDuplicateSerial(t *testing.T) {
	svc, db, node := setupMeterService(t)
	apartmentID, serviceID := seedApartmentAndService(t, db, node)
	ctx := context.Background()

	req := meterdomain.CreateRequest{
		ApartmentID: apartmentID.String(),
		ServiceID:   serviceID.String(),
		Serial:      "CW-001122",
		InstalledAt: "2025-03-01",
	}
	if _, err := svc.Create(ctx, req); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, req); err != meterdomain.ErrDuplicateSerial {
		t.Fatalf("got %v, want ErrDuplicateSerial", err)
	}
}
