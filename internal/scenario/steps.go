package scenario

import (
	"fmt"
	"log"
	"time"

	"github.com/ghostshopper/ghostshopper/internal/browser"
	"github.com/ghostshopper/ghostshopper/internal/models"
)

const hideAutomationScript = `Object.defineProperty(navigator, 'webdriver', {get: () => false})`

// Page locators of the demo store
var (
	usernameField   = browser.ID("user-name")
	passwordField   = browser.ID("password")
	loginButton     = browser.ID("login-button")
	inventoryList   = browser.ClassName("inventory_list")
	addToCartButton = browser.ClassName("btn_inventory")
	cartBadge       = browser.ClassName("shopping_cart_badge")
	cartLink        = browser.ClassName("shopping_cart_link")
	checkoutButton  = browser.ID("checkout")
	firstNameField  = browser.ID("first-name")
	lastNameField   = browser.ID("last-name")
	postalCodeField = browser.ID("postal-code")
	continueButton  = browser.ID("continue")
	finishButton    = browser.ID("finish")
	completeHeader  = browser.ClassName("complete-header")
)

const cartPageTimeout = 10 * time.Second

type step struct {
	ordinal     int
	label       string
	description string
	target      State
	run         func(*execution) error
}

var steps = []step{
	{1, "home", "Store opened", StateNavigated, (*execution).openStore},
	{2, "login", "Login successful", StateLoggedIn, (*execution).login},
	{3, "item_added", "Product added to cart", StateItemAdded, (*execution).addItem},
	{4, "cart", "Cart viewed", StateCartViewed, (*execution).viewCart},
	{5, "shipping_info", "Shipping information", StateShippingFilled, (*execution).fillShipping},
	{6, "order_complete", "Order completed", StateOrderFinished, (*execution).finishOrder},
}

func (e *execution) openStore() error {
	if err := e.session.Navigate(e.cfg.BaseURL); err != nil {
		return err
	}
	if err := e.session.Execute(hideAutomationScript); err != nil {
		log.Printf("[scenario] could not hide automation banner: %v", err)
	}
	return nil
}

func (e *execution) login() error {
	if err := e.fill(usernameField, e.cfg.Username, "username", 15*time.Second); err != nil {
		return err
	}
	if err := e.fill(passwordField, e.cfg.Password, "password", 15*time.Second); err != nil {
		return err
	}
	if err := e.click(loginButton, "login"); err != nil {
		return err
	}
	return e.confirmMarker(inventoryList)
}

func (e *execution) addItem() error {
	if err := e.click(addToCartButton, "add to cart"); err != nil {
		return err
	}
	return e.confirmMarker(cartBadge)
}

func (e *execution) viewCart() error {
	if err := e.click(cartLink, "cart"); err != nil {
		return err
	}
	return e.transition("/cart.html", "cart", checkoutButton)
}

func (e *execution) fillShipping() error {
	if err := e.session.WaitForURL("cart", cartPageTimeout); err != nil {
		return fmt.Errorf("%w: %w", models.ErrNavigationConfirmation, err)
	}

	if err := e.clickWithin(checkoutButton, "checkout", 15*time.Second); err != nil {
		return err
	}
	if err := e.transition("/checkout-step-one.html", "checkout-step-one", firstNameField); err != nil {
		return err
	}

	if e.cfg.CaptureIntermediate {
		path := e.evidence.Capture(e.session, "checkout_before_fill")
		e.results = append(e.results, models.NewCapturedResult(5, "Checkout before filling", path))
	}

	if err := e.fill(firstNameField, e.cfg.FirstName, "first-name", 20*time.Second); err != nil {
		return err
	}
	if err := e.fill(lastNameField, e.cfg.LastName, "last-name", 15*time.Second); err != nil {
		return err
	}
	if err := e.fill(postalCodeField, e.cfg.PostalCode, "postal-code", 15*time.Second); err != nil {
		return err
	}

	if err := e.clickWithin(continueButton, "continue", 10*time.Second); err != nil {
		return err
	}
	return e.transition("/checkout-step-two.html", "checkout-step-two", finishButton)
}

func (e *execution) finishOrder() error {
	if err := e.confirmPage("checkout-step-two", finishButton); err != nil {
		return err
	}
	if err := e.clickWithin(finishButton, "finish", 15*time.Second); err != nil {
		return err
	}
	return e.confirmPage("checkout-complete", completeHeader)
}
