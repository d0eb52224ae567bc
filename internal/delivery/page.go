package delivery

import "context"

// Page is the browser automation surface the automator drives. One
// implementation wraps a real browser; tests script a fake.
type Page interface {
	Navigate(ctx context.Context, url string) error
	URL(ctx context.Context) (string, error)
	Exists(ctx context.Context, selector string) (bool, error)
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error
	// Attributes returns the given attribute of every node matching
	// selector, in document order.
	Attributes(ctx context.Context, selector, attr string) ([]string, error)
	// ClickNth clicks the index-th node matching selector.
	ClickNth(ctx context.Context, selector string, index int) error
	ScrollTo(ctx context.Context, y int) error
	Close() error
}

// PageFactory opens a fresh browser page. The automator opens the browser
// lazily on the first order and keeps it until cancel.
type PageFactory func(ctx context.Context) (Page, error)
