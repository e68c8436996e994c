// Package signals defines the page signal provider boundary: the structured
// facts about a storefront page that the journey simulator consumes. The
// simulator never sees raw markup; a provider (scraper, fixture, recorded
// snapshot) reduces each page to a PageSignals record.
package signals

import "context"

// StockStatus is the observed stock state of a product page.
type StockStatus string

const (
	StockUnknown    StockStatus = "unknown"
	StockInStock    StockStatus = "in_stock"
	StockOutOfStock StockStatus = "out_of_stock"
)

// PageSignals is a snapshot of observable facts for one page. Fields that do
// not apply to a given stage are left at their zero value.
type PageSignals struct {
	// Navigation / listing signals.
	NavLinkCount int `json:"nav_link_count,omitempty"`
	ProductCount int `json:"product_count,omitempty"`

	// Product page signals.
	HasAddToCart    bool        `json:"has_add_to_cart"`
	HasSizeSelector bool        `json:"has_size_selector"`
	HasPriceDisplay bool        `json:"has_price_display"`
	Stock           StockStatus `json:"stock_status,omitempty"`

	// Checkout page signals.
	HasCheckoutForm     bool `json:"has_checkout_form"`
	HasShippingOptions  bool `json:"has_shipping_options"`
	HasPaymentOptions   bool `json:"has_payment_options"`
	HasPlaceOrderButton bool `json:"has_place_order_button"`
	PaymentMethodCount  int  `json:"payment_method_count,omitempty"`
}

// Provider fetches the signal snapshot for a stage's target page. The stage
// name and target identity are opaque to the provider contract; concrete
// providers map them to URLs, fixtures, or recorded snapshots. A returned
// error means the page could not be observed at all (transport failure,
// unparseable response) and terminates the session that requested it.
type Provider interface {
	Fetch(ctx context.Context, stage, target string) (PageSignals, error)
}

// FuncProvider adapts a plain function to the Provider interface.
type FuncProvider func(ctx context.Context, stage, target string) (PageSignals, error)

// Fetch implements Provider.
func (f FuncProvider) Fetch(ctx context.Context, stage, target string) (PageSignals, error) {
	return f(ctx, stage, target)
}

// Healthy returns a PageSignals with every capability present and stock
// available. Useful as a baseline for fixtures and tests.
func Healthy() PageSignals {
	return PageSignals{
		NavLinkCount:        12,
		ProductCount:        24,
		HasAddToCart:        true,
		HasSizeSelector:     true,
		HasPriceDisplay:     true,
		Stock:               StockInStock,
		HasCheckoutForm:     true,
		HasShippingOptions:  true,
		HasPaymentOptions:   true,
		HasPlaceOrderButton: true,
		PaymentMethodCount:  3,
	}
}
