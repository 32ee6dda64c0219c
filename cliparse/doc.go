// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A local .env file is loaded first when present (godotenv).

# Config Fields

  - Port: Server listen port (default: 4117)
  - DatabaseType: "sqlite" (default) or "postgres"
  - DatabaseURL: SQLite file path (default: scheduler.db) or
    PostgreSQL connection string (required for postgres)

# CLI Flags

	-p  Server port
	-d  Database URL or SQLite path
	-t  Database type (sqlite or postgres)

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t

CLI flags take precedence over environment variables.
*/
package cliparse
