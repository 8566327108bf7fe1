package main

import "github.com/dkotelnikov/go-todolist/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()

	app.MustConnectRedis()
	defer app.DisconnectRedis()

	app.MustInitServices()
	app.MustListenAndServeHTTP()
}
