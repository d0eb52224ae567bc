package delivery

import "fmt"

// Status is the delivery order's position in the checkout funnel.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusBrowsing Status = "browsing"
	StatusCart     Status = "cart"
	StatusCheckout Status = "checkout"
)

// allowedTransitions is the forward edge set. Cancel resets to idle from
// any state and is handled separately. Checkout back to browsing starts
// the next order once the user has paid (or abandoned) the current one.
var allowedTransitions = map[Status][]Status{
	StatusIdle:     {StatusBrowsing},
	StatusBrowsing: {StatusBrowsing, StatusCart},
	StatusCart:     {StatusCheckout},
	StatusCheckout: {StatusBrowsing},
}

func (s Status) canTransition(to Status) bool {
	if to == StatusIdle {
		return true
	}
	for _, next := range allowedTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderItem is one cart line.
type OrderItem struct {
	Name     string
	Quantity int
}

// OrderState tracks the in-flight order. Mutated only by the automator's
// transition methods; reset whenever the browser closes.
type OrderState struct {
	Address string
	Store   string
	Items   []OrderItem
	Status  Status
}

func newOrderState() OrderState {
	return OrderState{Status: StatusIdle}
}

func (o *OrderState) transition(to Status) error {
	if !o.Status.canTransition(to) {
		return fmt.Errorf("invalid order transition %s -> %s", o.Status, to)
	}
	o.Status = to
	return nil
}
