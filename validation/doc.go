// Package validation provides struct tag validation for request inputs.
//
// Inputs declare their rules with `validate` tags and services call
// Struct before doing any work:
//
//	type RegisterInput struct {
//	    Name  string `validate:"required,max=100"`
//	    Email string `validate:"required,email"`
//	}
//	if err := validation.Struct(in); err != nil { ... }
//
// Failures come back as an application error carrying one entry per
// offending field, ready to serialize into the error envelope.
package validation
