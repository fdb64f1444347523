package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/upravdom/upravdom/internal/clock"
	meterdomain "github.com/upravdom/upravdom/internal/meter/domain"
	tariffdomain "github.com/upravdom/upravdom/internal/tariff/domain"
	utilitydomain "github.com/upravdom/upravdom/internal/utility/domain"
	"github.com/upravdom/upravdom/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      utilitydomain.Repository
	MeterRepo meterdomain.Repository
	Lifecycle tariffdomain.Lifecycle
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      utilitydomain.Repository
	meterRepo meterdomain.Repository
	lifecycle tariffdomain.Lifecycle
}

func New(p Params) utilitydomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("utility.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		meterRepo: p.MeterRepo,
		lifecycle: p.Lifecycle,
	}
}

// Create registers a new communal service and seeds its first rate-0 tariff
// in the same transaction, so the service is never without pricing coverage.
func (s *Service) Create(ctx context.Context, req utilitydomain.CreateRequest) (*utilitydomain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, utilitydomain.ErrInvalidName
	}
	code := strings.ToLower(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, utilitydomain.ErrInvalidCode
	}

	calc, meterType, err := parseBasis(req.Calculation, req.MeterType)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	entity := &utilitydomain.UtilityService{
		ID:          s.genID.Generate(),
		Name:        name,
		Code:        code,
		Calculation: calc,
		MeterType:   meterType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, entity); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return utilitydomain.ErrDuplicateCode
			}
			return err
		}
		return s.lifecycle.EnsureInitialTariff(ctx, tx, entity.ID, entity.Unit())
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("utility service created",
		zap.Int64("service_id", entity.ID.Int64()),
		zap.String("code", code),
	)
	return toResponse(entity), nil
}

func (s *Service) List(ctx context.Context) ([]utilitydomain.Response, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]utilitydomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*utilitydomain.Response, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(entity), nil
}

// Update edits a service. When the calculation basis changes the tariff
// lifecycle propagates the new unit through the timeline (Event B), inside
// one transaction with the service row itself.
func (s *Service) Update(ctx context.Context, id string, req utilitydomain.UpdateRequest) (*utilitydomain.Response, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, utilitydomain.ErrInvalidName
		}
		entity.Name = name
	}

	oldUnit := entity.Unit()

	if req.Calculation != nil || req.MeterType != nil {
		calcRaw := string(entity.Calculation)
		if req.Calculation != nil {
			calcRaw = *req.Calculation
		}
		meterRaw := req.MeterType
		if meterRaw == nil && entity.MeterType != nil {
			existing := string(*entity.MeterType)
			meterRaw = &existing
		}
		calc, meterType, err := parseBasis(calcRaw, meterRaw)
		if err != nil {
			return nil, err
		}
		entity.Calculation = calc
		entity.MeterType = meterType
	}

	newUnit := entity.Unit()
	entity.UpdatedAt = s.clock.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, entity); err != nil {
			return err
		}
		if newUnit != oldUnit {
			return s.lifecycle.HandleUnitChanged(ctx, tx, entity.ID, newUnit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toResponse(entity), nil
}

// Delete removes a service, its meters and its tariff timeline atomically:
// either every change lands or none is visible. Meters go first so the
// service row delete cannot trip over their foreign key.
func (s *Service) Delete(ctx context.Context, id string) error {
	entity, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.meterRepo.DeleteByService(ctx, tx, entity.ID); err != nil {
			return err
		}
		if err := s.lifecycle.HandleServiceDeleted(ctx, tx, entity.ID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, entity.ID)
	})
	if err != nil {
		return err
	}

	s.log.Info("utility service deleted", zap.Int64("service_id", entity.ID.Int64()))
	return nil
}

func (s *Service) load(ctx context.Context, id string) (*utilitydomain.UtilityService, error) {
	parsed, err := snowflake.ParseString(id)
	if err != nil || parsed == 0 {
		return nil, utilitydomain.ErrInvalidID
	}
	entity, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, utilitydomain.ErrNotFound
	}
	return entity, nil
}

func parseBasis(calcRaw string, meterRaw *string) (utilitydomain.Calculation, *utilitydomain.MeterType, error) {
	calc, ok := utilitydomain.ParseCalculation(strings.TrimSpace(calcRaw))
	if !ok {
		return "", nil, utilitydomain.ErrInvalidCalculation
	}

	if calc != utilitydomain.CalcMeter {
		return calc, nil, nil
	}

	if meterRaw == nil || strings.TrimSpace(*meterRaw) == "" {
		return "", nil, utilitydomain.ErrMeterTypeRequired
	}
	meterType, ok := utilitydomain.ParseMeterType(strings.TrimSpace(*meterRaw))
	if !ok {
		return "", nil, utilitydomain.ErrInvalidMeterType
	}
	return calc, &meterType, nil
}

func toResponse(u *utilitydomain.UtilityService) *utilitydomain.Response {
	return &utilitydomain.Response{
		ID:          u.ID,
		Name:        u.Name,
		Code:        u.Code,
		Calculation: u.Calculation,
		MeterType:   u.MeterType,
		Unit:        string(u.Unit()),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
