package detect

import "github.com/blackwell-systems/funnelwatch/internal/recommend"

// Engine runs all registered rules against a funnel context and collects
// the resulting issues.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine with all built-in rules registered.
func NewEngine() *Engine {
	return &Engine{
		rules: []Rule{
			LowBrowseRate,
			LowCartRate,
			LowConversionRate,
			FrictionHotspot,
			StockoutLosses,
			BrokenCheckout,
			MissingBuyControls,
		},
	}
}

// Run executes every registered rule and returns the collected issues in
// rule registration order.
func (e *Engine) Run(ctx *FunnelContext) []recommend.Issue {
	var all []recommend.Issue
	for _, rule := range e.rules {
		all = append(all, rule(ctx)...)
	}
	return all
}
