// Package database connects the catalog to its backing document store.
//
// Two stores are supported, chosen by the scheme of the connection string:
//   - mongodb:// and mongodb+srv:// dial MongoDB (ConnectMongo)
//   - ws://, wss://, http:// and https:// dial SurrealDB (SurrealDB.Connect)
//
// memory:// selects an in-process store that lives in the repository package.
//
// Connecting is fallible and never terminates the process; callers decide
// whether to retry or give up.
//
// # Error Handling
//
// Standard errors are defined for common failure cases:
//   - ErrNotFound: Record does not exist
//   - ErrInvalidID: Identifier is not in the store's format
//   - ErrPrecondition: A conditional write found the record in the wrong state
//   - ErrConnection: Dial, ping or authentication failure
//   - ErrQuery: Query execution failure
//   - ErrMissingURI / ErrUnsupportedScheme: Unusable connection string
//   - ErrNotConnected: The store connection has not been established yet
//
// Use errors.Is() to check error types:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // Handle missing record
//	}
package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Standard errors for database operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidID indicates an identifier that cannot name a record in this store.
	ErrInvalidID = errors.New("invalid record id")

	// ErrPrecondition indicates a conditional write whose condition did not hold.
	ErrPrecondition = errors.New("precondition failed")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure.
	ErrQuery = errors.New("query error")

	// ErrMissingURI indicates no connection string was configured.
	ErrMissingURI = errors.New("connection string is missing")

	// ErrUnsupportedScheme indicates a connection string for an unknown store.
	ErrUnsupportedScheme = errors.New("unsupported connection string scheme")

	// ErrNotConnected indicates the store connection is still being established.
	ErrNotConnected = errors.New("database not connected")
)

// Driver names a supported backing store.
type Driver string

const (
	DriverMongo   Driver = "mongodb"
	DriverSurreal Driver = "surrealdb"
	DriverMemory  Driver = "memory"
)

// DefaultOpTimeout bounds dialing and pinging when Config.Timeout is unset.
const DefaultOpTimeout = 5 * time.Second

// Config holds database configuration
type Config struct {
	URI       string
	Database  string
	Namespace string
	User      string
	Password  string
	Timeout   time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultOpTimeout
}

// DriverFor picks the store named by a connection string's scheme.
func DriverFor(uri string) (Driver, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "", ErrMissingURI
	}

	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedScheme, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "mongodb", "mongodb+srv":
		return DriverMongo, nil
	case "ws", "wss", "http", "https":
		return DriverSurreal, nil
	case "memory":
		return DriverMemory, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

// Redact strips credentials from a connection string for logging.
func Redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.User == nil {
		return uri
	}
	u.User = url.User("xxxxx")
	return u.String()
}

// Database defines the query interface over SurrealDB
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}
