package cli

import (
	"context"
)

// Root restores the stored session, starts the connectivity watcher and
// serves the REPL until the user leaves.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to the account client (type 'help' for commands)")

	if err := a.session.Restore(ctx); err != nil {
		a.logger.Error(ctx, "restoring session", "error", err)
	}
	// Restore renders through the listener; this covers a failed restore.
	a.onStateChange(a.session.State())

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		a.checkOnline(watchCtx)
		a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)
	}()

	runREPL(ctx, a, a.getStatus, a.reader)
}
