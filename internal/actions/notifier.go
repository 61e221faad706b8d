package actions

import (
	"context"
	"fmt"

	"github.com/diewo77/dashboard-invoices/internal/cache"
)

// InvoicesPath is both the invalidated view and the navigation target after a mutation.
const InvoicesPath = "/dashboard/invoices"

// Notifier runs after a successful mutation: it invalidates a view and returns
// where the browser should go next.
type Notifier interface {
	Notify(ctx context.Context) (redirect string, err error)
}

// PageNotifier invalidates one cached page and navigates to the same path.
type PageNotifier struct {
	pages cache.PageCache
	path  string
}

func NewPageNotifier(pages cache.PageCache, path string) *PageNotifier {
	return &PageNotifier{pages: pages, path: path}
}

func (n *PageNotifier) Notify(ctx context.Context) (string, error) {
	if err := n.pages.Invalidate(ctx, n.path); err != nil {
		return "", fmt.Errorf("invalidate %s: %w", n.path, err)
	}
	return n.path, nil
}
