// Package server provides the HTTP server backed by Gin.
//
// It owns the listener lifecycle, the standard middleware stack
// (recovery, request-ID, CORS, body-size limit, request logging,
// authentication, route policy), the success/error response envelopes,
// and the operational endpoints under /health and /info. Feature
// packages register their routes on the Gin engine and use the response
// helpers; they never touch the raw http.Server.
package server
