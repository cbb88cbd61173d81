package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/pedalroom/pedalroom/internal/config"
	"github.com/pedalroom/pedalroom/internal/migration"
	"github.com/pedalroom/pedalroom/internal/observability"
	"github.com/pedalroom/pedalroom/internal/server"
	"github.com/pedalroom/pedalroom/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// HTTP surface and the domain modules behind it
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
