// Package errors provides unified error handling for the classboard
// backend. It implements structured error types with machine-readable
// codes, HTTP status mapping, and a stable JSON response envelope.
//
// Authentication failures deliberately collapse into coarse codes:
// login never distinguishes an unknown identity from a wrong password
// or an undecryptable payload, and token validation never reveals which
// part of a token was defective.
package errors
