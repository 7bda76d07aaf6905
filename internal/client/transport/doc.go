// Package transport is the HTTP layer every console request goes through.
//
// # Overview
//
//  1. Augment decorates an outgoing request with the bearer token of the live
//     session. It copies the request and never touches the original.
//  2. Classify maps a failed call (no response, or a non-2xx status) onto the
//     fixed Fault taxonomy and derives the user-facing message.
//  3. Interpreter is the global failure interceptor: it logs the fault, hands
//     the message to the Notifier, runs fault hooks and returns the same fault
//     to the caller. Faults are never swallowed and never retried here.
//  4. Client ties the three together for JSON request/response round trips.
//
// # Error Handling
//
// Every failed round trip returns a *Fault. Callers match kinds with
// errors.Is against ErrClient, ErrAuthentication, ErrAuthorization,
// ErrNotFound, ErrServer, ErrUpstreamUnavailable and ErrUnclassified, or use
// errors.As to read the status and server detail.
package transport
