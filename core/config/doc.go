// Package config loads the application configuration.
//
// Configuration values come from environment variables (optionally via a
// .env file) and are bound to nested config structs using their
// mapstructure and default tags. SERVER_PORT maps to server.port,
// EXPORT_CACHE_TTL_SECONDS to export.cache_ttl_seconds, and so on.
package config
