// Package config provides configuration loading and defaults for funnelwatch.
package config

import "github.com/blackwell-systems/funnelwatch/internal/journey"

// DefaultConfigDir is the default location for funnelwatch configuration.
const DefaultConfigDir = "~/.config/funnelwatch"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "funnelwatch.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultStages is the reference purchase funnel. Retention values are the
// configured probability of continuing past each stage; they are heuristic
// constants calibrated against typical storefront drop-off, not learned.
var DefaultStages = []StageConfig{
	{Name: "homepage", Kind: string(journey.KindLanding), Target: "/", Retention: 0.70},
	{Name: "browse", Kind: string(journey.KindListing), Target: "/collections/all", Retention: 0.80},
	{Name: "product_view", Kind: string(journey.KindProduct), Target: "/products/featured", Retention: 0.60},
	{Name: "add_to_cart", Kind: string(journey.KindCart), Target: "/cart", Retention: 0.40},
	{Name: "checkout", Kind: string(journey.KindCheckout), Target: "/checkout", Retention: 0.70},
}

// DefaultSimulation holds the default batch parameters.
var DefaultSimulation = Simulation{
	Sessions:     20,
	Workers:      4,
	Seed:         0,
	CartValueMin: 350,
	CartValueMax: 1200,
	Archetypes:   []string{"new_visitor", "returning_customer", "bargain_hunter", "brand_loyal"},
}

// DefaultWeights holds the reference priority-scoring weights.
var DefaultWeights = Weights{
	ConversionRate:       0.30,
	UserExperience:       0.25,
	BusinessValue:        0.15,
	ImplementationEffort: 0.10,
}

// DefaultCategoryCap is the maximum recommendations surfaced per category.
const DefaultCategoryCap = 3

// DefaultWatch holds the default monitor thresholds.
var DefaultWatch = Watch{
	ConversionDropPct: 5.0,
	FrictionSpikePct:  15.0,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
