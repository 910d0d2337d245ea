package browser

import "fmt"

// By is the strategy used to find an element
type By string

// Locator strategies
const (
	ByID        By = "id"
	ByClassName By = "class name"
	ByCSS       By = "css selector"
)

// Locator describes how to find one page element
type Locator struct {
	By    By
	Value string
}

// ID returns a locator matching the element id
func ID(id string) Locator {
	return Locator{By: ByID, Value: id}
}

// ClassName returns a locator matching a single class name
func ClassName(name string) Locator {
	return Locator{By: ByClassName, Value: name}
}

// CSS returns a locator for a raw CSS selector
func CSS(selector string) Locator {
	return Locator{By: ByCSS, Value: selector}
}

// Selector converts the locator to a CSS selector
func (l Locator) Selector() string {
	switch l.By {
	case ByID:
		return "#" + l.Value
	case ByClassName:
		return "." + l.Value
	default:
		return l.Value
	}
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.By, l.Value)
}
