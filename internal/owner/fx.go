package owner

import (
	"github.com/upravdom/upravdom/internal/owner/repository"
	"github.com/upravdom/upravdom/internal/owner/service"
	"go.uber.org/fx"
)

var Module = fx.Module("owner.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
