// Package users persists accounts and serves the user-facing and
// admin-facing account endpoints.
//
// GormStore is the database-backed implementation of the credential
// service's persistence port. The HTTP handlers here never touch
// password hashes: profiles expose identity and role only.
package users
