package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/upravdom/upravdom/internal/clock"
	"github.com/upravdom/upravdom/internal/config"
	"github.com/upravdom/upravdom/internal/migration"
	"github.com/upravdom/upravdom/internal/server"
	"github.com/upravdom/upravdom/pkg/db"
	"github.com/upravdom/upravdom/pkg/log"
	"github.com/upravdom/upravdom/pkg/telemetry"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		telemetry.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
