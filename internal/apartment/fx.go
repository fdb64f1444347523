package apartment

import (
	"github.com/upravdom/upravdom/internal/apartment/repository"
	"github.com/upravdom/upravdom/internal/apartment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("apartment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
