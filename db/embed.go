// Package db holds the embedded schema applied at startup.
package db

import _ "embed"

// Schema is the DDL for every table, written to be re-runnable.
//
//go:embed migrations/001_schema.sql
var Schema string
