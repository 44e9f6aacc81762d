// Package authz evaluates route access rules.
//
// A Policy is a declared table of rules mapping HTTP verb and path
// pattern to the roles allowed through. Evaluation is fail-closed once
// a rule matches: the most specific matching rule decides, and a
// principal that doesn't satisfy it is turned away. Paths no rule
// covers are open.
//
// Patterns use path segments with two wildcards: "*" matches exactly
// one segment, "**" matches the rest of the path.
//
//	policy := authz.New(
//	    authz.Rule{Method: "*", Pattern: "/api/auth/**", Roles: []string{authz.Public}},
//	    authz.Rule{Method: "*", Pattern: "/api/admin/**", Roles: []string{"admin"}},
//	    authz.Rule{Method: "GET", Pattern: "/api/courses/**", Roles: []string{authz.Authenticated}},
//	)
//
// This package has no external dependencies so it can be exercised
// without pulling in HTTP or cryptography libraries.
package authz
