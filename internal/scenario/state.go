package scenario

// State is the position of a run in the purchase flow
type State int

// Scenario states
const (
	StateInit State = iota
	StateNavigated
	StateLoggedIn
	StateItemAdded
	StateCartViewed
	StateShippingFilled
	StateOrderFinished
	StateAborted
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateNavigated:
		return "NAVIGATED"
	case StateLoggedIn:
		return "LOGGED_IN"
	case StateItemAdded:
		return "ITEM_ADDED"
	case StateCartViewed:
		return "CART_VIEWED"
	case StateShippingFilled:
		return "SHIPPING_FILLED"
	case StateOrderFinished:
		return "ORDER_FINISHED"
	case StateAborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// IsTerminal returns true if no further transition is possible
func (s State) IsTerminal() bool {
	return s == StateOrderFinished || s == StateAborted
}
