// Command server boots the ordinalfs HTTP API: migrations and seeders
// register themselves via blank import, then app.New wires config, the
// database connection, and the routes in app/routes.
package main

import (
	"github.com/ordinalfs/ordinalfs/app/routes"
	"github.com/ordinalfs/ordinalfs/pkg/app"

	_ "github.com/ordinalfs/ordinalfs/database/migrations"
	_ "github.com/ordinalfs/ordinalfs/database/seeders"
)

func main() {
	app.New().Routes(routes.RegisterAPI).Run()
}
