package detect

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/funnelwatch/internal/journey"
	"github.com/blackwell-systems/funnelwatch/internal/recommend"
)

// Thresholds below are storefront conversion benchmarks: funnels healthier
// than these produce no issue from the corresponding rule.
const (
	healthyBrowseRate     = 70.0 // % of sessions that should reach a listing
	healthyCartRate       = 30.0 // % of sessions that should reach the cart
	healthyConversionRate = 2.0  // % overall conversion
	frictionHotspotShare  = 30.0 // % of sessions stopping at a single stage
	stockoutAlarmShare    = 20.0 // % of sessions lost to stockout reasons
)

// LowBrowseRate fires when too few sessions make it past the landing page
// into product listings.
func LowBrowseRate(ctx *FunnelContext) []recommend.Issue {
	rate, ok := ctx.StageRate(journey.KindListing)
	if !ok || rate >= healthyBrowseRate {
		return nil
	}
	return []recommend.Issue{{
		Title:          "Improve product discovery",
		Description:    fmt.Sprintf("Only %.2f%% of sessions browse products (benchmark: %.0f%%)", rate, healthyBrowseRate),
		Category:       recommend.CategoryUserExperience,
		Severity:       recommend.SeverityHigh,
		Impact:         recommend.ImpactUserFrustration,
		BusinessValue:  60,
		Effort:         40,
		ExpectedImpact: "More visitors reach product listings",
	}}
}

// LowCartRate fires when too few sessions reach the cart stage.
func LowCartRate(ctx *FunnelContext) []recommend.Issue {
	rate, ok := ctx.StageRate(journey.KindCart)
	if !ok || rate >= healthyCartRate {
		return nil
	}
	return []recommend.Issue{{
		Title:          "Improve add-to-cart flow",
		Description:    fmt.Sprintf("Only %.2f%% of sessions add to cart (benchmark: %.0f%%)", rate, healthyCartRate),
		Category:       recommend.CategoryConversion,
		Severity:       recommend.SeverityHigh,
		Impact:         recommend.ImpactUserFrustration,
		BusinessValue:  70,
		Effort:         50,
		ExpectedImpact: "More visitors carry items into checkout",
	}}
}

// LowConversionRate fires when the overall conversion rate is below the
// benchmark; a funnel with zero conversions escalates to a blocker.
func LowConversionRate(ctx *FunnelContext) []recommend.Issue {
	if ctx.Snapshot.TotalSessions == 0 {
		return nil
	}

	if ctx.Snapshot.ConvertedCount == 0 {
		return []recommend.Issue{{
			Title:          "Zero conversion rate",
			Description:    "No sessions completed a purchase",
			Category:       recommend.CategoryConversion,
			Severity:       recommend.SeverityCritical,
			Impact:         recommend.ImpactConversionBlocker,
			BusinessValue:  100,
			Effort:         60,
			Dependencies:   []string{"checkout_fix", "inventory_restock"},
			ExpectedImpact: "Enable revenue generation",
		}}
	}

	if ctx.Snapshot.ConversionRate >= healthyConversionRate {
		return nil
	}
	return []recommend.Issue{{
		Title:          "Raise overall conversion rate",
		Description:    fmt.Sprintf("Conversion rate is %.2f%% (benchmark: %.0f%%)", ctx.Snapshot.ConversionRate, healthyConversionRate),
		Category:       recommend.CategoryConversion,
		Severity:       recommend.SeverityCritical,
		Impact:         recommend.ImpactConversionBlocker,
		BusinessValue:  90,
		Effort:         70,
		ExpectedImpact: "Increased sales and revenue",
	}}
}

// FrictionHotspot fires for each stage where a disproportionate share of
// the batch abandons.
func FrictionHotspot(ctx *FunnelContext) []recommend.Issue {
	var issues []recommend.Issue
	for _, entry := range ctx.Friction {
		if entry.Percentage <= frictionHotspotShare {
			continue
		}
		issues = append(issues, recommend.Issue{
			Title:          fmt.Sprintf("Resolve friction at %s", entry.Stage),
			Description:    fmt.Sprintf("%.2f%% of sessions stop at %s", entry.Percentage, entry.Stage),
			Category:       recommend.CategoryUserExperience,
			Severity:       recommend.SeverityHigh,
			Impact:         recommend.ImpactUserFrustration,
			BusinessValue:  65,
			Effort:         50,
			ExpectedImpact: "Reduced abandonment at the hotspot stage",
		})
	}
	return issues
}

// StockoutLosses fires when stockout reasons account for a meaningful share
// of abandonments.
func StockoutLosses(ctx *FunnelContext) []recommend.Issue {
	share := ctx.ReasonShare("out of stock")
	if share <= stockoutAlarmShare {
		return nil
	}
	return []recommend.Issue{{
		Title:          "Restock unavailable products",
		Description:    fmt.Sprintf("%.2f%% of sessions were lost to out-of-stock products", share),
		Category:       recommend.CategoryInventory,
		Severity:       recommend.SeverityCritical,
		Impact:         recommend.ImpactConversionBlocker,
		BusinessValue:  95,
		Effort:         50,
		Dependencies:   []string{"supplier_contact", "restock_order"},
		ExpectedImpact: "Restore revenue potential",
	}}
}

// BrokenCheckout fires when sessions abandon over missing checkout page
// elements (form, shipping, payment, place-order control).
func BrokenCheckout(ctx *FunnelContext) []recommend.Issue {
	share := ctx.ReasonShare("missing checkout element")
	if share <= 0 {
		return nil
	}
	return []recommend.Issue{{
		Title:          "Repair checkout process",
		Description:    fmt.Sprintf("%.2f%% of sessions hit missing checkout elements", share),
		Category:       recommend.CategoryConversion,
		Severity:       recommend.SeverityCritical,
		Impact:         recommend.ImpactConversionBlocker,
		BusinessValue:  100,
		Effort:         80,
		Dependencies:   []string{"payment_gateway_setup", "shipping_configuration"},
		ExpectedImpact: "Visitors can complete purchases",
	}}
}

// MissingBuyControls fires when sessions abandon because the add-to-cart
// control or a size selector is absent on product pages.
func MissingBuyControls(ctx *FunnelContext) []recommend.Issue {
	share := ctx.ReasonShare("no add to cart control") + ctx.ReasonShare("no size selector")
	if share <= 0 {
		return nil
	}
	return []recommend.Issue{{
		Title:          "Restore product page purchase controls",
		Description:    fmt.Sprintf("%.2f%% of sessions found no usable purchase control", share),
		Category:       recommend.CategoryConversion,
		Severity:       recommend.SeverityCritical,
		Impact:         recommend.ImpactConversionBlocker,
		BusinessValue:  90,
		Effort:         45,
		ExpectedImpact: "Visitors can add products to the cart",
	}}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
