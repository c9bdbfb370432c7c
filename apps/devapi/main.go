package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/trezcool/shule/apps/devapi/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/resource"
	"github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/storage/database/inmem"
	"github.com/trezcool/shule/storage/database/sqlx"
)

func main() {
	logSvc := logsvc.NewLogger(core.Conf)

	// set up storage
	var repo resource.Repository
	switch core.Conf.Database.Engine {
	case "postgres":
		db, err := sqlxdb.Open(core.Conf)
		errAndDie(err)
		defer db.Close()
		repo = sqlxdb.NewResourceRepository(db)
	default:
		db, err := inmemdb.Open()
		errAndDie(err)
		repo = inmemdb.NewResourceRepository(db)
	}

	// start API server
	app := echoapi.NewServer(&echoapi.Options{
		Addr:   core.Conf.Server.Addr,
		Repo:   repo,
		Logger: logSvc,
	})

	errs := make(chan error, 1)
	go func() { errs <- app.Start() }()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errs:
		errAndDie(err)
	case <-quit:
		ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
		defer cancel()
		errAndDie(app.Stop(ctx))
	}
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
