// Package auth provides pluggable authentication for the reactivities API.
//
// Authentication uses a chain of authenticators with three-outcome voting:
// each returns Yes (identity found), No (credentials invalid) or Abstain
// (cannot handle the credentials). The chain's default decision applies when
// all abstain, which is how "auth disabled" deployments admit everyone.
//
// The HTTP middleware rejects with an empty 401 body, enforces per-subject
// rate limits and injects the caller's tenant into the request context for
// storage scoping.
package auth
