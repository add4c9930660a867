package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/cotiza/internal/clock"
	"github.com/smallbiznis/cotiza/internal/config"
	"github.com/smallbiznis/cotiza/internal/migration"
	"github.com/smallbiznis/cotiza/internal/observability"
	"github.com/smallbiznis/cotiza/internal/server"
	"github.com/smallbiznis/cotiza/pkg/db"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		config.Module,
		observability.Module,
		fx.Provide(func() (*snowflake.Node, error) {
			return snowflake.NewNode(1)
		}),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	).Run()
}
