package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromePage drives a visible Chrome instance. The browser is visible on
// purpose: failed orders stay open so the user can finish or inspect them
// by hand, and checkout is always completed manually.
type ChromePage struct {
	ctx     context.Context
	cancels []context.CancelFunc
}

// NewChromePage launches a browser with a persistent profile so the
// delivery site's login session survives across runs.
func NewChromePage(parent context.Context) (Page, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}
	userDataDir := filepath.Join(home, ".orion_delivery_session")
	if err := os.MkdirAll(userDataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
		chromedp.UserDataDir(userDataDir),
		chromedp.WindowSize(1280, 900),
		chromedp.Flag("lang", "ko-KR"),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Force the browser to start now rather than on the first action.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &ChromePage{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{cancelBrowser, cancelAlloc},
	}, nil
}

func (p *ChromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(p.ctx, 45*time.Second)
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()
	return chromedp.Run(runCtx, actions...)
}

func (p *ChromePage) Navigate(ctx context.Context, url string) error {
	return p.run(ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(2*time.Second),
	)
}

func (p *ChromePage) URL(ctx context.Context) (string, error) {
	var url string
	err := p.run(ctx, chromedp.Location(&url))
	return url, err
}

func (p *ChromePage) Exists(ctx context.Context, selector string) (bool, error) {
	var found bool
	err := p.run(ctx, chromedp.Evaluate(
		fmt.Sprintf(`document.querySelector(%q) !== null`, selector), &found))
	return found, err
}

func (p *ChromePage) Click(ctx context.Context, selector string) error {
	return p.run(ctx,
		chromedp.Click(selector, chromedp.ByQuery),
		chromedp.Sleep(time.Second),
	)
}

func (p *ChromePage) Fill(ctx context.Context, selector, value string) error {
	return p.run(ctx, chromedp.SetValue(selector, value, chromedp.ByQuery))
}

func (p *ChromePage) Attributes(ctx context.Context, selector, attr string) ([]string, error) {
	var values []string
	err := p.run(ctx, chromedp.Evaluate(
		fmt.Sprintf(`Array.from(document.querySelectorAll(%q)).map(el => el.getAttribute(%q) || "")`,
			selector, attr), &values))
	return values, err
}

func (p *ChromePage) ClickNth(ctx context.Context, selector string, index int) error {
	return p.run(ctx,
		chromedp.Evaluate(
			fmt.Sprintf(`document.querySelectorAll(%q)[%d].click()`, selector, index), nil),
		chromedp.Sleep(time.Second),
	)
}

func (p *ChromePage) ScrollTo(ctx context.Context, y int) error {
	return p.run(ctx, chromedp.Evaluate(fmt.Sprintf(`window.scrollTo(0, %d)`, y), nil))
}

func (p *ChromePage) Close() error {
	for _, cancel := range p.cancels {
		cancel()
	}
	return nil
}
