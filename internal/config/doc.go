// Package config manages application configuration for the Shelf API.
//
// Configuration is loaded from an optional .env file (github.com/joho/godotenv)
// and environment variables, which take precedence over the file:
//
//	cfg, err := config.Load()
//	if err == nil {
//	    err = cfg.Validate()
//	}
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, static bundle, log level)
//   - StoreConfig: document store connection and per-operation timeout
//   - RateLimitConfig: per-client request limits
//
// # Environment Variables
//
//	PORT                     - HTTP server port (default: 3000)
//	SERVER_ENV               - development, production or test
//	STATIC_DIR               - browser bundle directory (default: ./frontend)
//	LOG_LEVEL                - debug, info, warn or error
//	MONGO_URI                - store connection string (alias: STORE_URI);
//	                           mongodb://, ws:// (SurrealDB) or memory://
//	DB_NAME                  - database name when not in the URI
//	DB_NAMESPACE             - SurrealDB namespace
//	DB_USER, DB_PASSWORD     - store credentials
//	STORE_OP_TIMEOUT         - bound on each store call (default: 5s)
//	STORE_CONNECT_RETRIES    - extra connection attempts at startup
//	STORE_CONNECT_BACKOFF    - delay between connection attempts
//	RATE_LIMIT_RPS           - requests per second per client, 0 disables
//	RATE_LIMIT_BURST         - bucket size
//
// Validate reports every problem at once using errors.Join.
package config
