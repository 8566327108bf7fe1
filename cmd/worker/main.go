package main

import (
	"flag"
	"os"

	"github.com/dkotelnikov/go-todolist/internal/app"
)

func main() {
	once := flag.Bool("once", false, "run a single autoclose batch and exit")
	flag.Parse()

	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()

	app.MustConnectRedis()
	defer app.DisconnectRedis()

	app.MustInitServices()

	if *once {
		if !app.RunAutocloseOnce() {
			os.Exit(1)
		}
		return
	}

	app.MustRunAutocloseWorker()
}
