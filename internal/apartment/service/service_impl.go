package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	apartmentdomain "github.com/upravdom/upravdom/internal/apartment/domain"
	"github.com/upravdom/upravdom/internal/clock"
	ownerdomain "github.com/upravdom/upravdom/internal/owner/domain"
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
	Repo      apartmentdomain.Repository
	OwnerRepo ownerdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      apartmentdomain.Repository
	ownerRepo ownerdomain.Repository
}

func New(p Params) apartmentdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("apartment.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		ownerRepo: p.OwnerRepo,
	}
}

func (s *Service) Create(ctx context.Context, req apartmentdomain.CreateRequest) (*apartmentdomain.Apartment, error) {
	number := strings.TrimSpace(req.Number)
	if number == "" {
		return nil, apartmentdomain.ErrInvalidNumber
	}
	if !req.AreaM2.IsPositive() {
		return nil, apartmentdomain.ErrInvalidArea
	}

	ownerID, err := s.resolveOwner(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	entity := &apartmentdomain.Apartment{
		ID:        s.genID.Generate(),
		Number:    number,
		Floor:     req.Floor,
		Rooms:     req.Rooms,
		AreaM2:    req.AreaM2,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, apartmentdomain.ErrDuplicateNumber
		}
		return nil, err
	}
	return entity, nil
}

func (s *Service) List(ctx context.Context) ([]apartmentdomain.Apartment, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Get(ctx context.Context, id string) (*apartmentdomain.Apartment, error) {
	return s.load(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, req apartmentdomain.UpdateRequest) (*apartmentdomain.Apartment, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Floor != nil {
		entity.Floor = *req.Floor
	}
	if req.Rooms != nil {
		entity.Rooms = *req.Rooms
	}
	if req.AreaM2 != nil {
		if !req.AreaM2.IsPositive() {
			return nil, apartmentdomain.ErrInvalidArea
		}
		entity.AreaM2 = *req.AreaM2
	}
	if req.OwnerID != nil {
		ownerID, err := s.resolveOwner(ctx, req.OwnerID)
		if err != nil {
			return nil, err
		}
		entity.OwnerID = ownerID
	}
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

func (s *Service) load(ctx context.Context, id string) (*apartmentdomain.Apartment, error) {
	parsed, err := snowflake.ParseString(id)
	if err != nil || parsed == 0 {
		return nil, apartmentdomain.ErrInvalidID
	}
	entity, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, apartmentdomain.ErrNotFound
	}
	return entity, nil
}

func (s *Service) resolveOwner(ctx context.Context, raw *string) (*snowflake.ID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := snowflake.ParseString(strings.TrimSpace(*raw))
	if err != nil || parsed == 0 {
		return nil, apartmentdomain.ErrInvalidOwner
	}
	owner, err := s.ownerRepo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apartmentdomain.ErrInvalidOwner
	}
	return &parsed, nil
}
