// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Meetslot is a meeting-time poll server: an organizer proposes a grid of
candidate slots, participants mark availability, and the organizer
finalizes the winning slot and exports it to a calendar.

# Quick Start

Run with SQLite (the default):

	go run main.go

Or against PostgreSQL:

	go run main.go -t postgres -d "postgres://..."

# Configuration

Optional settings (flags fall back to env vars, .env is read):

  - PORT (-p): Server port (default: 4117)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string

# Architecture

The server uses a handler-based architecture with dependency injection:

  - slots: candidate slot generation from a poll configuration
  - store: SQL persistence (polls, options, votes)
  - aggregate: pure vote tallying (counts, best slot, unanimity)
  - lifecycle: the poll state machine and credential rules
  - calendar: ICS rendering and Synology Calendar push
  - handlers: HTTP request handlers (polls, voting, results, export)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, error mapping
  - models: Request/response and domain types
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
