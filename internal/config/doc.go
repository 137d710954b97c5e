// Package config loads server, database, auth and scheduler settings from
// defaults, an optional config.yaml, a .env file and SCRY_ environment
// variables, and validates them before the server starts.
package config
