package meter

import (
	"github.com/upravdom/upravdom/internal/meter/repository"
	"github.com/upravdom/upravdom/internal/meter/service"
	"go.uber.org/fx"
)

var Module = fx.Module("meter.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
