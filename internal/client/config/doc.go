// Package config loads runtime configuration for the operator console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend, e.g. https://api.example.com
//	-d string   path of the local state database
//	-t int      request timeout in seconds (0 = transport default)
//	-l string   log level
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "30s" or integer nanoseconds. Absent keys keep earlier values:
//
//	{
//	  "server_base_url": "https://api.example.com",
//	  "state_db_path": "/var/lib/console/state.db",
//	  "request_timeout": "30s",
//	  "log_level": "debug"
//	}
//
// This package does not read environment variables.
package config
