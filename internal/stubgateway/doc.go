// Package stubgateway is an in-memory stand-in for the platform's REST
// gateway. It serves the same /api routes the console consumes, issues and
// verifies HS256 access tokens and enforces the role rules of the real
// services, so the console can be exercised end to end without the backend.
//
// Nothing is persisted: every collection lives in memory for the lifetime of
// the Server.
package stubgateway
