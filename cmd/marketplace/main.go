// Command marketplace serves the marketplace API and runs its maintenance
// tasks: migrations, seeding and route listing.
//
//	marketplace serve
//	marketplace migrate
//	marketplace migrate:rollback
//	marketplace migrate:status
//	marketplace seed
//	marketplace route:list
package main

import (
	"github.com/shashiranjanraj/marketplace/app/routes"
	"github.com/shashiranjanraj/marketplace/database/migrations"
	"github.com/shashiranjanraj/marketplace/database/seeders"
	"github.com/shashiranjanraj/marketplace/pkg/app"
)

func main() {
	app.New("marketplace").
		Routes(routes.Mount).
		AutoMigrate(migrations.Models()...).
		Migrations(migrations.All()...).
		Seeders(seeders.All()...).
		OnBoot(routes.BootstrapSuperadmin).
		Run()
}
