// Package middleware provides the Gin middleware stack: panic
// recovery, request IDs, CORS, body-size limiting, request logging,
// bearer-token authentication, and route policy enforcement.
//
// Authentication and authorization are split on purpose. Authenticate
// only establishes identity: a missing or rejected token leaves the
// request anonymous and lets it proceed. Authorize consults the route
// policy and is the single place a request is turned away.
package middleware
