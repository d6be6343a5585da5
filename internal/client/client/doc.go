// Package client contains the client-side building blocks that talk to the
// outside world.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) towards the
//     account service: Register, Login, UploadAvatar, Ping.
//  2. A JSON/HTTP implementation (see HTTPClient). Login and register share a
//     single endpoint and are distinguished by the "action" field; every
//     request carries an X-Request-ID header.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Failures are reported with sentinel errors that callers match with
// errors.Is:
//
//   - ErrUnavailable  the request did not complete (network, timeout, cancel)
//   - ErrBadResponse  the response body could not be understood
//   - ErrRejected     the service refused; *RejectedError holds its message
//
// A request succeeds only when the status is 2xx and the body says
// "success": true.
package client
