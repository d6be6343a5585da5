// Package config loads runtime configuration for the account client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   account endpoint URL
//	-u string   avatar upload endpoint URL
//	-d string   local database path
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-s int      session lifetime (seconds, 0 disables expiry)
//	-l string   log level
//	-f string   log format
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "server_endpoint_url": "http://127.0.0.1:8080/auth",
//	  "avatar_endpoint_url": "http://127.0.0.1:8080/upload-avatar",
//	  "database_path": "session.db",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "session_ttl": "720h",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// The package does not read environment variables.
package config
