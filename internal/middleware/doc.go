// Package middleware provides HTTP middleware for the Shelf API.
//
// # Available Middleware
//
//   - RequestID: assigns or propagates X-Request-ID
//   - Logger: one structured log line per request
//   - Recovery: turns panics into a 500 problem response
//   - CORS: any origin, the catalog's methods (gorilla/handlers)
//   - RateLimit: per-IP token buckets (golang.org/x/time/rate)
//   - Compress: gzip responses (klauspost/compress)
//
// # Usage
//
//	wrapped := middleware.Chain(
//	    router,
//	    middleware.RequestID,
//	    middleware.Logger,
//	    middleware.Recovery,
//	    middleware.CORS(),
//	    middleware.RateLimit(limiter),
//	    middleware.Compress,
//	)
//
// # Context Values
//
//   - GetRequestID(ctx): Returns unique request identifier
package middleware
