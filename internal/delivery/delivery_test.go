package delivery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakePage struct {
	currentURL   string
	exists       map[string]bool
	attrs        map[string][]string
	clicks       []string
	nthClicks    []int
	fills        map[string]string
	clickErrs    map[string]error
	redirectOnce bool
	closed       bool
}

func newFakePage() *fakePage {
	return &fakePage{
		exists: map[string]bool{
			selAddCart:     true,
			selCartButton:  true,
			selOrderButton: true,
		},
		attrs: map[string][]string{
			selMenuLink: {
				"selectMenu('101', '치즈스틱')",
				"selectMenu('202', '한우불고기버거')",
				"selectMenu('303', '새우버거')",
			},
		},
		fills:     map[string]string{},
		clickErrs: map[string]error{},
	}
}

func (p *fakePage) Navigate(_ context.Context, url string) error {
	if p.redirectOnce {
		p.redirectOnce = false
		p.currentURL = "https://www.lotteeatz.com/member/login?returnUrl=x"
		return nil
	}
	p.currentURL = url
	return nil
}

func (p *fakePage) URL(_ context.Context) (string, error) { return p.currentURL, nil }

func (p *fakePage) Exists(_ context.Context, selector string) (bool, error) {
	return p.exists[selector], nil
}

func (p *fakePage) Click(_ context.Context, selector string) error {
	if err := p.clickErrs[selector]; err != nil {
		return err
	}
	p.clicks = append(p.clicks, selector)
	if selector == selLoginButton {
		// Successful login lands back on the main page.
		p.currentURL = mainURL
	}
	return nil
}

func (p *fakePage) Fill(_ context.Context, selector, value string) error {
	p.fills[selector] = value
	return nil
}

func (p *fakePage) Attributes(_ context.Context, selector, _ string) ([]string, error) {
	return p.attrs[selector], nil
}

func (p *fakePage) ClickNth(_ context.Context, _ string, index int) error {
	p.nthClicks = append(p.nthClicks, index)
	return nil
}

func (p *fakePage) ScrollTo(_ context.Context, _ int) error { return nil }

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

func newTestAutomator(page *fakePage, creds Credentials) *Automator {
	factory := func(context.Context) (Page, error) { return page, nil }
	return NewAutomator(defaultConfig(), creds, factory, "Sir")
}

func TestParseCommandKorean(t *testing.T) {
	cfg := defaultConfig()
	req, clarify := ParseCommand(cfg, "송도집으로 불고기버거 2개 시켜줘")
	if clarify != "" {
		t.Fatalf("clarify = %q, want none", clarify)
	}
	if req.Address != "송도집" {
		t.Fatalf("address = %q", req.Address)
	}
	if req.Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", req.Quantity)
	}
	if !strings.Contains(req.Menu, "불고기") {
		t.Fatalf("menu = %q, want 불고기 phrase", req.Menu)
	}
}

func TestParseCommandEnglishAlias(t *testing.T) {
	req, clarify := ParseCommand(defaultConfig(), "order me a bulgogi burger to songdo house")
	if clarify != "" {
		t.Fatalf("clarify = %q", clarify)
	}
	if req.Address != "송도집" {
		t.Fatalf("address = %q, want 송도집 via songdo alias", req.Address)
	}
	if req.Menu != "bulgogi burger" {
		t.Fatalf("menu = %q", req.Menu)
	}
	if req.Quantity != 1 {
		t.Fatalf("quantity = %d, want default 1", req.Quantity)
	}
}

func TestParseCommandMissingAddressAsksUser(t *testing.T) {
	_, clarify := ParseCommand(defaultConfig(), "불고기버거 시켜줘")
	if !strings.Contains(clarify, "어느 주소") {
		t.Fatalf("clarify = %q, want address question", clarify)
	}
}

func TestParseCommandMissingMenuAsksUser(t *testing.T) {
	_, clarify := ParseCommand(defaultConfig(), "송도집으로 배달해줘")
	if !strings.Contains(clarify, "어떤 메뉴") {
		t.Fatalf("clarify = %q, want menu question", clarify)
	}
}

func TestFindMenuMatch(t *testing.T) {
	cfg := defaultConfig()
	cases := []struct{ query, want string }{
		{"불고기", "한우불고기버거"},
		{"korean beef bulgogi", "한우불고기버거"},
		{"chicken burger", "치킨버거"},
		{"mozzarella", "치즈스틱"},
		{"피자", "피자"}, // unknown passes through
	}
	for _, tc := range cases {
		if got := cfg.FindMenuMatch(tc.query); got != tc.want {
			t.Fatalf("FindMenuMatch(%q) = %q, want %q", tc.query, got, tc.want)
		}
	}
}

func TestLoadConfigMaterializesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "delivery_config.json")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if _, ok := cfg.Addresses["송도집"]; !ok {
		t.Fatalf("default config missing 송도집")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not persisted: %v", err)
	}

	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if len(reloaded.MenuAliases) != len(cfg.MenuAliases) {
		t.Fatalf("reloaded config differs from default")
	}
}

func TestProcessCommandFullPipeline(t *testing.T) {
	page := newFakePage()
	a := newTestAutomator(page, Credentials{ID: "id", Password: "pw"})

	got := a.ProcessCommand(context.Background(), "송도집으로 불고기 2개 시켜줘")
	if !strings.Contains(got, "주문을 준비했습니다") {
		t.Fatalf("ProcessCommand() = %q", got)
	}
	if !strings.Contains(got, "한우불고기버거 2개") {
		t.Fatalf("summary missing item: %q", got)
	}

	order := a.Order()
	if order.Status != StatusCheckout {
		t.Fatalf("status = %s, want checkout", order.Status)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("items = %+v", order.Items)
	}
	if len(page.nthClicks) != 1 || page.nthClicks[0] != 1 {
		t.Fatalf("menu clicks = %v, want index 1 (한우불고기버거)", page.nthClicks)
	}
	// One spinner click raises quantity from 1 to 2.
	spinners := 0
	for _, sel := range page.clicks {
		if sel == selSpinnerUp {
			spinners++
		}
	}
	if spinners != 1 {
		t.Fatalf("spinner clicks = %d, want 1", spinners)
	}
}

func TestSecondOrderAfterCheckoutStartsFresh(t *testing.T) {
	page := newFakePage()
	a := newTestAutomator(page, Credentials{ID: "id", Password: "pw"})

	if got := a.ProcessCommand(context.Background(), "송도집으로 불고기 2개 시켜줘"); !strings.Contains(got, "주문을 준비했습니다") {
		t.Fatalf("first order = %q", got)
	}

	got := a.ProcessCommand(context.Background(), "송도집으로 새우버거 시켜줘")
	if strings.Contains(got, "invalid order transition") {
		t.Fatalf("second order surfaced a transition error: %q", got)
	}
	if !strings.Contains(got, "주문을 준비했습니다") {
		t.Fatalf("second order = %q", got)
	}

	order := a.Order()
	if order.Status != StatusCheckout {
		t.Fatalf("status = %s, want checkout", order.Status)
	}
	if len(order.Items) != 1 || order.Items[0].Name != "새우버거" {
		t.Fatalf("items = %+v, want only the second order's item", order.Items)
	}
}

func TestOrderSnapshotDuringPipeline(t *testing.T) {
	page := newFakePage()
	a := newTestAutomator(page, Credentials{ID: "id", Password: "pw"})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 3; i++ {
			a.ProcessCommand(context.Background(), "송도집으로 불고기 시켜줘")
		}
		a.Cancel()
	}()

	// Concurrent status reads while the pipeline mutates the order.
	for i := 0; i < 1000; i++ {
		order := a.Order()
		if len(order.Items) > 0 && order.Items[0].Quantity != 1 {
			t.Fatalf("snapshot items = %+v", order.Items)
		}
	}
	<-done

	if order := a.Order(); order.Status != StatusIdle || len(order.Items) != 0 {
		t.Fatalf("order not reset after cancel: %+v", order)
	}
}

func TestProcessCommandStepFailureLeavesBrowserOpen(t *testing.T) {
	page := newFakePage()
	page.clickErrs[selOrderButton] = errors.New("selector not found")
	a := newTestAutomator(page, Credentials{ID: "id", Password: "pw"})

	got := a.ProcessCommand(context.Background(), "송도집으로 불고기 시켜줘")
	if !strings.HasPrefix(got, "Sir, ") || !strings.Contains(got, "주문 페이지 이동 실패") {
		t.Fatalf("ProcessCommand() = %q", got)
	}
	if page.closed {
		t.Fatalf("browser closed on step failure, must stay open for manual recovery")
	}

	cancelMsg := a.Cancel()
	if !page.closed {
		t.Fatalf("Cancel() did not close the browser")
	}
	if !strings.Contains(cancelMsg, "취소") {
		t.Fatalf("Cancel() = %q", cancelMsg)
	}
	if order := a.Order(); order.Status != StatusIdle || len(order.Items) != 0 {
		t.Fatalf("order not reset after cancel: %+v", order)
	}
}

func TestNavigateLoginRedirectRetriesOnce(t *testing.T) {
	page := newFakePage()
	a := newTestAutomator(page, Credentials{ID: "id", Password: "pw"})
	factoryPage, _ := a.factory(context.Background())
	a.page = factoryPage

	// First store navigation bounces to the login page.
	if err := a.ensureLoggedIn(context.Background()); err != nil {
		t.Fatalf("ensureLoggedIn() error = %v", err)
	}
	page.redirectOnce = true
	if _, err := a.NavigateToStore(context.Background(), "송도집", defaultStoreType); err != nil {
		t.Fatalf("NavigateToStore() error = %v", err)
	}
	if page.fills[selLoginID] != "id" || page.fills[selLoginPW] != "pw" {
		t.Fatalf("login form not filled: %v", page.fills)
	}
	if !strings.Contains(page.currentURL, "lotteeatz.com/hsv") {
		t.Fatalf("final URL = %q, want store page after login retry", page.currentURL)
	}
}

func TestLoginWithoutCredentials(t *testing.T) {
	page := newFakePage()
	page.exists[selLoginLink] = true
	a := newTestAutomator(page, Credentials{})

	got := a.ProcessCommand(context.Background(), "송도집으로 불고기 시켜줘")
	if !strings.Contains(got, "DELIVERY_ID") {
		t.Fatalf("ProcessCommand() = %q, want missing-credentials message", got)
	}
}

func TestOrderTransitionsRejectInvalidMoves(t *testing.T) {
	o := newOrderState()
	if err := o.transition(StatusCart); err == nil {
		t.Fatalf("idle -> cart allowed, want rejection")
	}
	if err := o.transition(StatusBrowsing); err != nil {
		t.Fatalf("idle -> browsing rejected: %v", err)
	}
	if err := o.transition(StatusCheckout); err == nil {
		t.Fatalf("browsing -> checkout allowed, want rejection")
	}
	if err := o.transition(StatusCart); err != nil {
		t.Fatalf("browsing -> cart rejected: %v", err)
	}
	if err := o.transition(StatusIdle); err != nil {
		t.Fatalf("cancel to idle rejected: %v", err)
	}
}

func TestAddMenuItemRequiresBrowsing(t *testing.T) {
	a := newTestAutomator(newFakePage(), Credentials{})
	if _, err := a.AddMenuItem(context.Background(), "불고기", 1); err == nil {
		t.Fatalf("AddMenuItem() while idle succeeded, want error")
	}
}
