// Package db carries the PostgreSQL schema of the learn service.
package db

import "embed"

// MigrationsDir is the directory of Migrations holding the migration files.
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var Migrations embed.FS
