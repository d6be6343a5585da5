// Package common contains shared constants and small helpers used across
// gophaccount components.
package common

// RequestIDHeaderName is the HTTP header carrying a per-request identifier
// on outbound calls to the account service.
const RequestIDHeaderName = "X-Request-ID"

// MinPasswordLength mirrors the account service's registration rule. The
// client checks it before sending anything so a short password never leaves
// the machine.
const MinPasswordLength = 8
