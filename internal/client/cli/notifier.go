package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/gophaccount/internal/client/models"
	"github.com/dmitrijs2005/gophaccount/internal/client/services"
)

// consoleNotifier prints notifications as single lines:
//
//	[Success] Welcome!
type consoleNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

var _ services.Notifier = (*consoleNotifier)(nil)

func newConsoleNotifier(w io.Writer) *consoleNotifier {
	return &consoleNotifier{w: w}
}

func (n *consoleNotifier) Notify(_ context.Context, note models.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.w, "[%s] %s\n", note.Title, note.Description)
}
