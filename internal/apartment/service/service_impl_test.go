package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	apartmentdomain "github.com/upravdom/upravdom/internal/apartment/domain"
	"github.com/upravdom/upravdom/internal/apartment/repository"
	"github.com/upravdom/upravdom/internal/clock"
	ownerdomain "github.com/upravdom/upravdom/internal/owner/domain"
	ownerrepository "github.com/upravdom/upravdom/internal/owner/repository"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func setupApartmentService(t *testing.T) (apartmentdomain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(&ownerdomain.Owner{}, &apartmentdomain.Apartment{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:        db,
		Log:       zaptest.NewLogger(t),
		GenID:     node,
		Clock:     clock.NewFakeClock(time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)),
		Repo:      repository.Provide(),
		OwnerRepo: ownerrepository.Provide(),
	})
	return svc, db, node
}

func TestCreateApartment(t *testing.T) {
	svc, _, _ := setupApartmentService(t)

	apartment, err := svc.Create(context.Background(), apartmentdomain.CreateRequest{
		Number: "12",
		Floor:  3,
		Rooms:  2,
		AreaM2: decimal.RequireFromString("54.30"),
	})
	require.NoError(t, err)
	require.Equal(t, "12", apartment.Number)
	require.Nil(t, apartment.OwnerID)
}

func TestCreateApartmentDuplicateNumber(t *testing.T) {
	svc, _, _ := setupApartmentService(t)
	ctx := context.Background()

	req := apartmentdomain.CreateRequest{
		Number: "12",
		Floor:  3,
		Rooms:  2,
		AreaM2: decimal.RequireFromString("54.30"),
	}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, apartmentdomain.ErrDuplicateNumber)
}

func TestCreateApartmentRejectsUnknownOwner(t *testing.T) {
	svc, _, node := setupApartmentService(t)

	missing := node.Generate().String()
	_, err := svc.Create(context.Background(), apartmentdomain.CreateRequest{
		Number:  "12",
		Floor:   3,
		Rooms:   2,
		AreaM2:  decimal.RequireFromString("54.30"),
		OwnerID: &missing,
	})
	require.ErrorIs(t, err, apartmentdomain.ErrInvalidOwner)
}

func TestUpdateApartmentAssignsOwner(t *testing.T) {
	svc, db, node := setupApartmentService(t)
	ctx := context.Background()

	owner := ownerdomain.Owner{
		ID:       node.Generate(),
		FullName: "Anna Petrova",
		Email:    "anna@example.com",
	}
	require.NoError(t, db.Create(&owner).Error)

	apartment, err := svc.Create(ctx, apartmentdomain.CreateRequest{
		Number: "12",
		Floor:  3,
		Rooms:  2,
		AreaM2: decimal.RequireFromString("54.30"),
	})
	require.NoError(t, err)

	ownerID := owner.ID.String()
	updated, err := svc.Update(ctx, apartment.ID.String(), apartmentdomain.UpdateRequest{
		OwnerID: &ownerID,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.OwnerID)
	require.Equal(t, owner.ID, *updated.OwnerID)
}

func TestUpdateApartmentRejectsNonPositiveArea(t *testing.T) {
	svc, _, _ := setupApartmentService(t)
	ctx := context.Background()

	apartment, err := svc.Create(ctx, apartmentdomain.CreateRequest{
		Number: "12",
		Floor:  3,
		Rooms:  2,
		AreaM2: decimal.RequireFromString("54.30"),
	})
	require.NoError(t, err)

	zero := decimal.Zero
	_, err = svc.Update(ctx, apartment.ID.String(), apartmentdomain.UpdateRequest{
		AreaM2: &zero,
	})
	require.ErrorIs(t, err, apartmentdomain.ErrInvalidArea)
}
