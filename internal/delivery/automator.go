package delivery

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
)

// Site selectors, confirmed against the live ordering pages.
const (
	selLoginLink   = "a[href*='/member/login']"
	selLoginID     = "#onlId"
	selLoginPW     = "#password"
	selAutoLogin   = "#chkAutoLogin"
	selLoginButton = "button.btn-md.btn-primary"
	selMenuLink    = "a.btn-link[onclick*='selectMenu']"
	selSpinnerUp   = "a.ui-spinner-up"
	selAddCart     = "#addCart"
	selCartButton  = "a.btn-md.btn-line-primary"
	selOrderButton = "#btnOrdAmt"
)

const (
	mainURL  = "https://www.lotteeatz.com/eatzMain"
	loginURL = "https://www.lotteeatz.com/member/login"

	defaultStoreType = "롯데리아"
)

// fallbackMenuKeywords rescues near-miss menu matches on the page when
// neither the canonical name nor the raw query appears in a menu link.
var fallbackMenuKeywords = []string{"불고기", "bulgogi", "치킨", "chicken", "새우", "shrimp"}

// Credentials are the delivery-site login details.
type Credentials struct {
	ID       string
	Password string
}

// Automator drives the delivery site through one order: login, store
// page, menu into cart, checkout page. Payment itself is always left to
// the user.
type Automator struct {
	cfg       *Config
	creds     Credentials
	factory   PageFactory
	honorific string

	page Page

	// mu guards order. The status endpoint snapshots it through Order()
	// while the command worker drives the pipeline.
	mu    sync.Mutex
	order OrderState
}

func NewAutomator(cfg *Config, creds Credentials, factory PageFactory, honorific string) *Automator {
	return &Automator{
		cfg:       cfg,
		creds:     creds,
		factory:   factory,
		honorific: honorific,
		order:     newOrderState(),
	}
}

// Order returns a copy of the current order state.
func (a *Automator) Order() OrderState {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.order
	out.Items = append([]OrderItem(nil), a.order.Items...)
	return out
}

func (a *Automator) orderStatus() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.order.Status
}

func (a *Automator) transitionOrder(to Status) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.order.transition(to)
}

// beginBrowsing moves the order to browsing. Re-entering from checkout
// starts a fresh order, so the previous cart is dropped.
func (a *Automator) beginBrowsing(addressName, storeName string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	fromCheckout := a.order.Status == StatusCheckout
	if err := a.order.transition(StatusBrowsing); err != nil {
		return err
	}
	if fromCheckout {
		a.order.Items = nil
	}
	a.order.Address = addressName
	a.order.Store = storeName
	return nil
}

// ProcessCommand runs the full pipeline for a raw delivery utterance and
// returns the spoken response. Step failures abort the rest of the
// pipeline but leave the browser open for manual recovery; only Cancel
// closes it.
func (a *Automator) ProcessCommand(ctx context.Context, command string) string {
	req, clarify := ParseCommand(a.cfg, command)
	if clarify != "" {
		return fmt.Sprintf("%s, %s", a.honorific, clarify)
	}

	if a.page == nil {
		page, err := a.factory(ctx)
		if err != nil {
			log.Printf("delivery: browser start failed: %v", err)
			return fmt.Sprintf("%s, 브라우저를 시작할 수 없습니다.", a.honorific)
		}
		a.page = page
	}

	if _, err := a.NavigateToStore(ctx, req.Address, defaultStoreType); err != nil {
		return fmt.Sprintf("%s, %v", a.honorific, err)
	}
	if _, err := a.AddMenuItem(ctx, req.Menu, req.Quantity); err != nil {
		return fmt.Sprintf("%s, %v", a.honorific, err)
	}
	if err := a.GoToCheckout(ctx); err != nil {
		return fmt.Sprintf("%s, %v", a.honorific, err)
	}

	return fmt.Sprintf("%s, %s 주문을 준비했습니다. 결제 페이지를 열어두었으니 직접 결제를 진행해주세요.",
		a.honorific, a.OrderSummary())
}

// NavigateToStore opens the configured store page for an address,
// logging in first when the site asks for it.
func (a *Automator) NavigateToStore(ctx context.Context, addressName, storeType string) (string, error) {
	if err := a.ensureLoggedIn(ctx); err != nil {
		return "", err
	}

	addrData, ok := a.cfg.Addresses[addressName]
	if !ok {
		return "", fmt.Errorf("'%s' 주소를 찾을 수 없습니다", addressName)
	}
	store, ok := addrData.Stores[storeType]
	if !ok {
		return "", fmt.Errorf("'%s'에 등록된 %s 매장이 없습니다", addressName, storeType)
	}

	if err := a.page.Navigate(ctx, store.URL); err != nil {
		return "", fmt.Errorf("매장 페이지 이동 실패: %w", err)
	}

	// The site sometimes drops the session and bounces to login; log in
	// and retry the navigation once.
	if url, err := a.page.URL(ctx); err == nil && strings.Contains(strings.ToLower(url), "login") {
		if err := a.login(ctx); err != nil {
			return "", err
		}
		if err := a.page.Navigate(ctx, store.URL); err != nil {
			return "", fmt.Errorf("매장 페이지 이동 실패: %w", err)
		}
	}

	if err := a.beginBrowsing(addressName, store.StoreName); err != nil {
		return "", err
	}
	return store.StoreName, nil
}

// AddMenuItem finds a menu on the store page and puts quantity of it in
// the cart. No match leaves the order state unchanged.
func (a *Automator) AddMenuItem(ctx context.Context, menuQuery string, quantity int) (string, error) {
	if a.orderStatus() != StatusBrowsing {
		return "", fmt.Errorf("먼저 매장 페이지로 이동해주세요")
	}
	if quantity < 1 {
		quantity = 1
	}

	menuName := a.cfg.FindMenuMatch(menuQuery)

	// Menu cards lazy-load on scroll.
	for _, y := range []int{300, 600, 900} {
		if err := a.page.ScrollTo(ctx, y); err != nil {
			return "", fmt.Errorf("메뉴 목록 로드 실패: %w", err)
		}
	}

	onclicks, err := a.page.Attributes(ctx, selMenuLink, "onclick")
	if err != nil {
		return "", fmt.Errorf("메뉴 목록 조회 실패: %w", err)
	}

	index := matchMenuIndex(onclicks, menuName, menuQuery)
	if index < 0 {
		return "", fmt.Errorf("'%s' 메뉴를 찾을 수 없습니다", menuQuery)
	}
	if err := a.page.ClickNth(ctx, selMenuLink, index); err != nil {
		return "", fmt.Errorf("메뉴 선택 실패: %w", err)
	}

	for i := 1; i < quantity; i++ {
		if err := a.page.Click(ctx, selSpinnerUp); err != nil {
			return "", fmt.Errorf("수량 설정 실패: %w", err)
		}
	}

	if ok, err := a.page.Exists(ctx, selAddCart); err != nil || !ok {
		return "", fmt.Errorf("장바구니 버튼을 찾을 수 없습니다")
	}
	if err := a.page.Click(ctx, selAddCart); err != nil {
		return "", fmt.Errorf("장바구니 추가 실패: %w", err)
	}

	a.mu.Lock()
	a.order.Items = append(a.order.Items, OrderItem{Name: menuName, Quantity: quantity})
	a.mu.Unlock()
	return fmt.Sprintf("%s %d개 담았습니다.", menuName, quantity), nil
}

// matchMenuIndex scans menu link onclick attributes for the canonical
// name or raw query, then falls back to a short keyword list.
func matchMenuIndex(onclicks []string, menuName, menuQuery string) int {
	nameClean := strings.ReplaceAll(strings.ToLower(menuName), " ", "")
	queryClean := strings.ReplaceAll(strings.ToLower(menuQuery), " ", "")
	for i, onclick := range onclicks {
		clean := strings.ReplaceAll(strings.ToLower(onclick), " ", "")
		if strings.Contains(clean, nameClean) || strings.Contains(clean, queryClean) {
			return i
		}
	}
	for i, onclick := range onclicks {
		lower := strings.ToLower(onclick)
		for _, kw := range fallbackMenuKeywords {
			if strings.Contains(queryClean, kw) && strings.Contains(lower, kw) {
				return i
			}
		}
	}
	return -1
}

// GoToCart opens the cart page.
func (a *Automator) GoToCart(ctx context.Context) error {
	if ok, err := a.page.Exists(ctx, selCartButton); err != nil || !ok {
		return fmt.Errorf("장바구니 버튼을 찾을 수 없습니다")
	}
	if err := a.page.Click(ctx, selCartButton); err != nil {
		return fmt.Errorf("장바구니 이동 실패: %w", err)
	}
	return a.transitionOrder(StatusCart)
}

// GoToCheckout opens the payment page and stops there. Payment is never
// automated.
func (a *Automator) GoToCheckout(ctx context.Context) error {
	if a.orderStatus() == StatusBrowsing {
		if err := a.GoToCart(ctx); err != nil {
			return err
		}
	}
	if ok, err := a.page.Exists(ctx, selOrderButton); err != nil || !ok {
		return fmt.Errorf("주문하기 버튼을 찾을 수 없습니다")
	}
	if err := a.page.Click(ctx, selOrderButton); err != nil {
		return fmt.Errorf("주문 페이지 이동 실패: %w", err)
	}
	return a.transitionOrder(StatusCheckout)
}

// Cancel closes the browser and resets the order from any state.
func (a *Automator) Cancel() string {
	if a.page != nil {
		if err := a.page.Close(); err != nil {
			log.Printf("delivery: browser close failed: %v", err)
		}
		a.page = nil
	}
	a.mu.Lock()
	a.order = newOrderState()
	a.mu.Unlock()
	return fmt.Sprintf("%s, 주문을 취소하고 브라우저를 닫았습니다.", a.honorific)
}

// OrderSummary renders the cart in one spoken clause.
func (a *Automator) OrderSummary() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.order.Items) == 0 {
		return "장바구니가 비어있습니다."
	}
	parts := make([]string, 0, len(a.order.Items))
	for _, item := range a.order.Items {
		parts = append(parts, fmt.Sprintf("%s %d개", item.Name, item.Quantity))
	}
	return fmt.Sprintf("%s에서 %s", a.order.Store, strings.Join(parts, ", "))
}

// ensureLoggedIn opens the landing page and logs in when the site shows
// the login link.
func (a *Automator) ensureLoggedIn(ctx context.Context) error {
	if err := a.page.Navigate(ctx, mainURL); err != nil {
		return fmt.Errorf("메인 페이지 이동 실패: %w", err)
	}

	if url, err := a.page.URL(ctx); err == nil && strings.Contains(strings.ToLower(url), "login") {
		return a.login(ctx)
	}
	if hasLogin, err := a.page.Exists(ctx, selLoginLink); err == nil && hasLogin {
		return a.login(ctx)
	}
	return nil
}

func (a *Automator) login(ctx context.Context) error {
	if a.creds.ID == "" || a.creds.Password == "" {
		return fmt.Errorf("로그인 정보가 없습니다. DELIVERY_ID, DELIVERY_PW를 설정해주세요")
	}

	if err := a.page.Navigate(ctx, loginURL); err != nil {
		return fmt.Errorf("로그인 페이지 이동 실패: %w", err)
	}
	if err := a.page.Fill(ctx, selLoginID, a.creds.ID); err != nil {
		return fmt.Errorf("아이디 입력창을 찾을 수 없습니다")
	}
	if err := a.page.Fill(ctx, selLoginPW, a.creds.Password); err != nil {
		return fmt.Errorf("비밀번호 입력창을 찾을 수 없습니다")
	}
	if ok, err := a.page.Exists(ctx, selAutoLogin); err == nil && ok {
		if err := a.page.Click(ctx, selAutoLogin); err != nil {
			log.Printf("delivery: auto-login checkbox click failed: %v", err)
		}
	}
	if err := a.page.Click(ctx, selLoginButton); err != nil {
		return fmt.Errorf("로그인 버튼을 찾을 수 없습니다")
	}

	if url, err := a.page.URL(ctx); err == nil && strings.Contains(strings.ToLower(url), "login") {
		return fmt.Errorf("로그인 실패. 아이디/비밀번호를 확인해주세요")
	}
	return nil
}
