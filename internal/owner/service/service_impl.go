package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/upravdom/upravdom/internal/clock"
	ownerdomain "github.com/upravdom/upravdom/internal/owner/domain"
	"github.com/upravdom/upravdom/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  ownerdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  ownerdomain.Repository
}

func New(p Params) ownerdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("owner.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req ownerdomain.CreateRequest) (*ownerdomain.Owner, error) {
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, ownerdomain.ErrInvalidName
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ownerdomain.ErrInvalidEmail
	}

	now := s.clock.Now().UTC()
	entity := &ownerdomain.Owner{
		ID:        s.genID.Generate(),
		FullName:  name,
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, ownerdomain.ErrDuplicateEmail
		}
		return nil, err
	}
	return entity, nil
}

func (s *Service) List(ctx context.Context) ([]ownerdomain.Owner, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Get(ctx context.Context, id string) (*ownerdomain.Owner, error) {
	return s.load(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, req ownerdomain.UpdateRequest) (*ownerdomain.Owner, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, ownerdomain.ErrInvalidName
		}
		entity.FullName = name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, ownerdomain.ErrInvalidEmail
		}
		entity.Email = email
	}
	if req.Phone != nil {
		entity.Phone = strings.TrimSpace(*req.Phone)
	}
	entity.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.Update(ctx, s.db, entity); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, ownerdomain.ErrDuplicateEmail
		}
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

func (s *Service) load(ctx context.Context, id string) (*ownerdomain.Owner, error) {
	parsed, err := snowflake.ParseString(id)
	if err != nil || parsed == 0 {
		return nil, ownerdomain.ErrInvalidID
	}
	entity, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ownerdomain.ErrNotFound
	}
	return entity, nil
}
