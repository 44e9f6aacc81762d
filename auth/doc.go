// Package auth groups the authentication core of the classboard backend:
//
//   - keyexchange: the server RSA keypair that keeps passwords
//     confidential in transit
//   - password: salted adaptive password hashing and verification
//   - token: signed bearer-token issuance and validation
//   - authctx: request-scoped principal propagation
//   - credential: the registration and login orchestration on top of
//     the packages above
//
// Route-level authorization lives in the top-level authz package;
// request interception lives in server/middleware.
package auth
