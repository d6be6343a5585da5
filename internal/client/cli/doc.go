// Package cli provides the interactive command-line client for the account
// service.
//
// It wires configuration, local storage, the HTTP client and the session
// controller, then runs a REPL whose commands depend on the current view.
// Typical flow: restore a stored session (or show the sign-in view), start a
// background connectivity watcher, and execute user commands.
//
// Key features:
//   - Register / Login / Logout
//   - Home and profile views rendered as text
//   - Avatar upload from a local file
//   - Online/offline indicator in the prompt
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
