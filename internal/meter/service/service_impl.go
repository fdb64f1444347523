package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	apartmentdomain "github.com/upravdom/upravdom/internal/apartment/domain"
	"github.com/upravdom/upravdom/internal/billingperiod"
	"github.com/upravdom/upravdom/internal/clock"
	meterdomain "github.com/upravdom/upravdom/internal/meter/domain"
	utilitydomain "github.com/upravdom/upravdom/internal/utility/domain"
	"github.com/upravdom/upravdom/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Repo          meterdomain.Repository
	ApartmentRepo apartmentdomain.Repository
	UtilityRepo   utilitydomain.Repository
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	clock         clock.Clock
	repo          meterdomain.Repository
	apartmentRepo apartmentdomain.Repository
	utilityRepo   utilitydomain.Repository
}

func New(p Params) meterdomain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("meter.service"),
		genID:         p.GenID,
		clock:         p.Clock,
		repo:          p.Repo,
		apartmentRepo: p.ApartmentRepo,
		utilityRepo:   p.UtilityRepo,
	}
}

func (s *Service) Create(ctx context.Context, req meterdomain.CreateRequest) (*meterdomain.Meter, error) {
	serial := strings.TrimSpace(req.Serial)
	if serial == "" {
		return nil, meterdomain.ErrInvalidSerial
	}

	apartmentID, err := snowflake.ParseString(strings.TrimSpace(req.ApartmentID))
	if err != nil || apartmentID == 0 {
		return nil, meterdomain.ErrInvalidApartment
	}
	apartment, err := s.apartmentRepo.FindByID(ctx, s.db, apartmentID)
	if err != nil {
		return nil, err
	}
	if apartment == nil {
		return nil, meterdomain.ErrInvalidApartment
	}

	serviceID, err := snowflake.ParseString(strings.TrimSpace(req.ServiceID))
	if err != nil || serviceID == 0 {
		return nil, meterdomain.ErrInvalidService
	}
	utility, err := s.utilityRepo.FindByID(ctx, s.db, serviceID)
	if err != nil {
		return nil, err
	}
	if utility == nil || utility.Calculation != utilitydomain.CalcMeter {
		return nil, meterdomain.ErrInvalidService
	}

	installedAt, err := time.ParseInLocation(billingperiod.DateLayout, strings.TrimSpace(req.InstalledAt), s.clock.Now().Location())
	if err != nil {
		return nil, meterdomain.ErrInvalidDate
	}

	now := s.clock.Now().UTC()
	entity := &meterdomain.Meter{
		ID:          s.genID.Generate(),
		ApartmentID: apartmentID,
		ServiceID:   serviceID,
		Serial:      serial,
		LastReading: decimal.Zero,
		InstalledAt: installedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, meterdomain.ErrDuplicateSerial
		}
		return nil, err
	}
	return entity, nil
}

func (s *Service) List(ctx context.Context, apartmentID string) ([]meterdomain.Meter, error) {
	if strings.TrimSpace(apartmentID) == "" {
		return s.repo.List(ctx, s.db)
	}
	parsed, err := snowflake.ParseString(strings.TrimSpace(apartmentID))
	if err != nil || parsed == 0 {
		return nil, meterdomain.ErrInvalidApartment
	}
	return s.repo.FindByApartment(ctx, s.db, parsed)
}

func (s *Service) Get(ctx context.Context, id string) (*meterdomain.Meter, error) {
	return s.load(ctx, id)
}

// RecordReading stores a new cumulative reading. Readings only move forward;
// a meter swap goes through delete and re-create instead.
func (s *Service) RecordReading(ctx context.Context, id string, reading decimal.Decimal) (*meterdomain.Meter, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if reading.LessThan(entity.LastReading) {
		return nil, meterdomain.ErrReadingDecreased
	}

	entity.LastReading = reading
	entity.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	entity, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, entity.ID)
}

func (s *Service) load(ctx context.Context, id string) (*meterdomain.Meter, error) {
	parsed, err := snowflake.ParseString(id)
	if err != nil || parsed == 0 {
		return nil, meterdomain.ErrInvalidID
	}
	entity, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, meterdomain.ErrNotFound
	}
	return entity, nil
}
