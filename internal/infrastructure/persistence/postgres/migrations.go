package postgres

import "embed"

// Migrations holds the schema for loan applications and their event log.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that holds the files.
const MigrationsDir = "migrations"
