package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds every schema change, registered in file order.
var Migrations = migrate.NewMigrations()
