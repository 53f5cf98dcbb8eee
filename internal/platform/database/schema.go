package database

import _ "embed"

// Schema is the full DDL for the service. Production databases are migrated
// out of band; the integration test harness applies this to fresh containers.
//
//go:embed schema.sql
var Schema string
