package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	apartmentdomain "github.com/upravdom/upravdom/internal/apartment/domain"
	"github.com/upravdom/upravdom/internal/clock"
	meterdomain "github.com/upravdom/upravdom/internal/meter/domain"
	meterrepository "github.com/upravdom/upravdom/internal/meter/repository"
	tariffdomain "github.com/upravdom/upravdom/internal/tariff/domain"
	tariffrepository "github.com/upravdom/upravdom/internal/tariff/repository"
	tariffservice "github.com/upravdom/upravdom/internal/tariff/service"
	"github.com/upravdom/upravdom/internal/tariff/status"
	utilitydomain "github.com/upravdom/upravdom/internal/utility/domain"
	"github.com/upravdom/upravdom/internal/utility/repository"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func setupUtilityService(t *testing.T, now time.Time) (utilitydomain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db := openUtilityDB(t, dsn)
	if err := db.AutoMigrate(&utilitydomain.UtilityService{}, &meterdomain.Meter{}, &tariffdomain.Tariff{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return newUtilityService(t, db, now), db
}

// setupUtilityServiceOnMigrationSchema builds the service on the schema the
// versioned migration ships, with foreign key enforcement on, so constraint
// mismatches between the models and the migration surface in tests.
func setupUtilityServiceOnMigrationSchema(t *testing.T, now time.Time) (utilitydomain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", t.Name())
	db := openUtilityDB(t, dsn)

	ddl, err := os.ReadFile("../../migration/migrations/000001_init.up.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	// The postgres DDL declares TIMESTAMPTZ, which the glebarez sqlite
	// driver does not map to time.Time; normalize it for the sqlite run.
	sqliteDDL := strings.ReplaceAll(string(ddl), "TIMESTAMPTZ", "DATETIME")
	for _, stmt := range strings.Split(sqliteDDL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("apply migration statement: %v", err)
		}
	}
	return newUtilityService(t, db, now), db
}

func openUtilityDB(t *testing.T, dsn string) *gorm.DB {
	t.Helper()

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
	return db
}

func newUtilityService(t *testing.T, db *gorm.DB, now time.Time) utilitydomain.Service {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	fake := clock.NewFakeClock(now)
	log := zaptest.NewLogger(t)

	cache := status.New(status.Params{
		Store: status.NewMemoryStore(),
		Clock: fake,
		Log:   log,
	})
	lifecycle := tariffservice.New(tariffservice.Params{
		DB:     db,
		Log:    log,
		GenID:  node,
		Clock:  fake,
		Repo:   tariffrepository.Provide(),
		Status: cache,
	})

	return New(Params{
		DB:        db,
		Log:       log,
		GenID:     node,
		Clock:     fake,
		Repo:      repository.Provide(),
		MeterRepo: meterrepository.Provide(),
		Lifecycle: lifecycle,
	})
}

func tariffsOf(t *testing.T, db *gorm.DB, serviceID snowflake.ID) []tariffdomain.Tariff {
	t.Helper()
	var items []tariffdomain.Tariff
	if err := db.Where("service_id = ?", serviceID).Order("start_date ASC").Find(&items).Error; err != nil {
		t.Fatalf("load tariffs: %v", err)
	}
	return items
}

func meterTypePtr(s string) *string { return &s }

func TestCreateSeedsInitialTariff(t *testing.T) {
	svc, db := setupUtilityService(t, time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC))

	resp, err := svc.Create(context.Background(), utilitydomain.CreateRequest{
		Name:        "Cold water",
		Code:        "cold_water",
		Calculation: "meter",
		MeterType:   meterTypePtr("cold_water"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Unit != "m3" {
		t.Fatalf("unit = %s, want m3 for a cold water meter", resp.Unit)
	}

	items := tariffsOf(t, db, resp.ID)
	if len(items) != 1 {
		t.Fatalf("got %d tariffs, want the seeded rate-0 tariff", len(items))
	}
	if !items[0].Rate.IsZero() || items[0].Unit != tariffdomain.UnitM3 {
		t.Fatalf("seed = %+v, want rate-0 m3", items[0])
	}
	if items[0].StartDate.Format("2006-01-02") != "2025-03-01" {
		t.Fatalf("seed starts %v, want active period start", items[0].StartDate)
	}
}

func TestCreateMeterRequiresMeterType(t *testing.T) {
	svc, _ := setupUtilityService(t, time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC))

	_, err := svc.Create(context.Background(), utilitydomain.CreateRequest{
		Name:        "Hot water",
		Code:        "hot_water",
		Calculation: "meter",
	})
	if err != utilitydomain.ErrMeterTypeRequired {
		t.Fatalf("got %v, want ErrMeterTypeRequired", err)
	}
}

func TestUpdateBasisChangePropagatesUnit(t *testing.T) {
	svc, db := setupUtilityService(t, time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	created, err := svc.Create(ctx, utilitydomain.CreateRequest{
		Name:        "Maintenance",
		Code:        "maintenance",
		Calculation: "fixed",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	calc := "area"
	updated, err := svc.Update(ctx, created.ID.String(), utilitydomain.UpdateRequest{
		Calculation: &calc,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Unit != "m2" {
		t.Fatalf("unit = %s, want m2 after switching to area", updated.Unit)
	}

	items := tariffsOf(t, db, created.ID)
	if len(items) != 1 {
		t.Fatalf("got %d tariffs, the editable seed changes in place", len(items))
	}
	if items[0].Unit != tariffdomain.UnitM2 {
		t.Fatalf("tariff unit = %s, want m2", items[0].Unit)
	}
}

func TestUpdateWithoutBasisChangeLeavesTariffs(t *testing.T) {
	svc, db := setupUtilityService(t, time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	created, err := svc.Create(ctx, utilitydomain.CreateRequest{
		Name:        "Intercom",
		Code:        "intercom",
		Calculation: "fixed",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	before := tariffsOf(t, db, created.ID)

	name := "Intercom and entry"
	if _, err := svc.Update(ctx, created.ID.String(), utilitydomain.UpdateRequest{Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}

	after := tariffsOf(t, db, created.ID)
	if len(after) != len(before) || !after[0].UpdatedAt.Equal(before[0].UpdatedAt) {
		t.Fatal("a rename must not touch the tariff timeline")
	}
}

func TestDeleteWindsDownTimeline(t *testing.T) {
	svc, db := setupUtilityService(t, time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	created, err := svc.Create(ctx, utilitydomain.CreateRequest{
		Name:        "Electricity",
		Code:        "electricity",
		Calculation: "meter",
		MeterType:   meterTypePtr("electricity"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, created.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.Get(ctx, created.ID.String()); err != utilitydomain.ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound after delete", err)
	}
	if items := tariffsOf(t, db, created.ID); len(items) != 0 {
		t.Fatalf("got %d tariffs, the never-priced seed must be removed", len(items))
	}
}

func TestDeleteKeepsPricedHistoryUnderForeignKeys(t *testing.T) {
	svc, db := setupUtilityServiceOnMigrationSchema(t, time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	created, err := svc.Create(ctx, utilitydomain.CreateRequest{
		Name:        "Cold water",
		Code:        "cold_water",
		Calculation: "meter",
		MeterType:   meterTypePtr("cold_water"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	closedEnd := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	priced := tariffdomain.Tariff{
		ID:        node.Generate(),
		ServiceID: created.ID,
		Rate:      decimal.RequireFromString("42.50"),
		Unit:      tariffdomain.UnitM3,
		StartDate: time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   &closedEnd,
	}
	if err := db.Create(&priced).Error; err != nil {
		t.Fatalf("seed priced tariff: %v", err)
	}

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
	meter := meterdomain.Meter{
		ID:          node.Generate(),
		ApartmentID: apartment.ID,
		ServiceID:   created.ID,
		Serial:      "CW-001122",
		InstalledAt: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&meter).Error; err != nil {
		t.Fatalf("seed meter: %v", err)
	}

	if err := svc.Delete(ctx, created.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var meterCount int64
	if err := db.Model(&meterdomain.Meter{}).Where("service_id = ?", created.ID).Count(&meterCount).Error; err != nil {
		t.Fatalf("count meters: %v", err)
	}
	if meterCount != 0 {
		t.Fatalf("got %d meters, want none after the service is gone", meterCount)
	}

	items := tariffsOf(t, db, created.ID)
	if len(items) != 1 || items[0].ID != priced.ID {
		t.Fatalf("got %+v, want only the closed priced tariff to survive", items)
	}
}
