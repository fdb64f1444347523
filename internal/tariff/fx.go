package tariff

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/upravdom/upravdom/internal/config"
	tariffdomain "github.com/upravdom/upravdom/internal/tariff/domain"
	"github.com/upravdom/upravdom/internal/tariff/repository"
	"github.com/upravdom/upravdom/internal/tariff/service"
	"github.com/upravdom/upravdom/internal/tariff/status"
	"go.uber.org/fx"
)

var Module = fx.Module("tariff.service",
	fx.Provide(repository.Provide),
	fx.Provide(status.NewStore),
	fx.Provide(status.New),
	fx.Provide(func(cfg config.Config) *service.Locker {
		if cfg.RedisAddr == "" {
			return nil
		}
		return service.NewLocker(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}))
	}),
	fx.Provide(func(c *status.Cache) tariffdomain.StatusProvider { return c }),
	fx.Provide(service.New),
	fx.Provide(func(s *service.Service) tariffdomain.Service { return s }),
	fx.Provide(func(s *service.Service) tariffdomain.Lifecycle { return s }),
)
