package utility

import (
	"github.com/upravdom/upravdom/internal/utility/repository"
	"github.com/upravdom/upravdom/internal/utility/service"
	"go.uber.org/fx"
)

var Module = fx.Module("utility.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
