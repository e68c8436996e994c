package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/blackwell-systems/funnelwatch/internal/journey"
	"github.com/blackwell-systems/funnelwatch/internal/recommend"
	"github.com/blackwell-systems/funnelwatch/internal/signals"
)

// Config is the top-level funnelwatch configuration.
type Config struct {
	Stages      []StageConfig         `mapstructure:"stages"`
	Simulation  Simulation            `mapstructure:"simulation"`
	Weights     Weights               `mapstructure:"weights"`
	CategoryCap int                   `mapstructure:"category_cap"`
	Watch       Watch                 `mapstructure:"watch"`
	Output      Output                `mapstructure:"output"`
	Pages       map[string]PageConfig `mapstructure:"pages"`
}

// StageConfig describes one funnel stage.
type StageConfig struct {
	Name      string  `mapstructure:"name"`
	Kind      string  `mapstructure:"kind"`
	Target    string  `mapstructure:"target"`
	Retention float64 `mapstructure:"retention"`
}

// Simulation defines batch simulation parameters.
type Simulation struct {
	Sessions     int      `mapstructure:"sessions"`
	Workers      int      `mapstructure:"workers"`
	Seed         int64    `mapstructure:"seed"`
	CartValueMin float64  `mapstructure:"cart_value_min"`
	CartValueMax float64  `mapstructure:"cart_value_max"`
	Archetypes   []string `mapstructure:"archetypes"`
}

// Weights defines the priority-scoring weights. Key names follow the
// factor each weight applies to in reporting terms.
type Weights struct {
	ConversionRate       float64 `mapstructure:"conversion_rate"`
	UserExperience       float64 `mapstructure:"user_experience"`
	BusinessValue        float64 `mapstructure:"business_value"`
	ImplementationEffort float64 `mapstructure:"implementation_effort"`
}

// Watch defines monitor alert thresholds, in percentage points.
type Watch struct {
	ConversionDropPct float64 `mapstructure:"conversion_drop_pct"`
	FrictionSpikePct  float64 `mapstructure:"friction_spike_pct"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// PageConfig describes the signal snapshot served for one stage by the
// static provider. Zero values mean "capability absent", so a stage listed
// here with no fields set models a fully broken page; stages not listed at
// all serve a healthy snapshot.
type PageConfig struct {
	NavLinkCount       int    `mapstructure:"nav_link_count"`
	ProductCount       int    `mapstructure:"product_count"`
	AddToCart          bool   `mapstructure:"add_to_cart"`
	SizeSelector       bool   `mapstructure:"size_selector"`
	PriceDisplay       bool   `mapstructure:"price_display"`
	StockStatus        string `mapstructure:"stock_status"`
	CheckoutForm       bool   `mapstructure:"checkout_form"`
	ShippingOptions    bool   `mapstructure:"shipping_options"`
	PaymentOptions     bool   `mapstructure:"payment_options"`
	PlaceOrderButton   bool   `mapstructure:"place_order_button"`
	PaymentMethodCount int    `mapstructure:"payment_method_count"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. A missing config file is
// not an error. Retention values are clamped into [0,1]; scoring weights
// must have a positive total.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("simulation.sessions", DefaultSimulation.Sessions)
	v.SetDefault("simulation.workers", DefaultSimulation.Workers)
	v.SetDefault("simulation.seed", DefaultSimulation.Seed)
	v.SetDefault("simulation.cart_value_min", DefaultSimulation.CartValueMin)
	v.SetDefault("simulation.cart_value_max", DefaultSimulation.CartValueMax)
	v.SetDefault("simulation.archetypes", DefaultSimulation.Archetypes)
	v.SetDefault("weights.conversion_rate", DefaultWeights.ConversionRate)
	v.SetDefault("weights.user_experience", DefaultWeights.UserExperience)
	v.SetDefault("weights.business_value", DefaultWeights.BusinessValue)
	v.SetDefault("weights.implementation_effort", DefaultWeights.ImplementationEffort)
	v.SetDefault("category_cap", DefaultCategoryCap)
	v.SetDefault("watch.conversion_drop_pct", DefaultWatch.ConversionDropPct)
	v.SetDefault("watch.friction_spike_pct", DefaultWatch.FrictionSpikePct)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		configDir := expandPath(DefaultConfigDir)
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if len(cfg.Stages) == 0 {
		cfg.Stages = DefaultStages
	}
	for i, s := range cfg.Stages {
		if s.Retention < 0 {
			cfg.Stages[i].Retention = 0
		}
		if s.Retention > 1 {
			cfg.Stages[i].Retention = 1
		}
	}

	if cfg.Weights.total() <= 0 {
		return nil, fmt.Errorf("weights: total must be positive, got %v", cfg.Weights.total())
	}

	return &cfg, nil
}

func (w Weights) total() float64 {
	return w.ConversionRate + w.UserExperience + w.BusinessValue + w.ImplementationEffort
}

// JourneyStages converts the configured stages to the simulator's type.
func (c *Config) JourneyStages() []journey.Stage {
	stages := make([]journey.Stage, len(c.Stages))
	for i, s := range c.Stages {
		stages[i] = journey.Stage{
			Name:      s.Name,
			Kind:      journey.StageKind(s.Kind),
			Target:    s.Target,
			Retention: s.Retention,
		}
	}
	return stages
}

// ScoringWeights converts the configured weights to the scoring engine's type.
func (c *Config) ScoringWeights() recommend.Weights {
	return recommend.Weights{
		Severity:      c.Weights.ConversionRate,
		Impact:        c.Weights.UserExperience,
		BusinessValue: c.Weights.BusinessValue,
		Effort:        c.Weights.ImplementationEffort,
	}
}

// SignalPages converts the configured page snapshots to provider signals.
func (c *Config) SignalPages() map[string]signals.PageSignals {
	pages := make(map[string]signals.PageSignals, len(c.Pages))
	for stage, p := range c.Pages {
		pages[stage] = signals.PageSignals{
			NavLinkCount:        p.NavLinkCount,
			ProductCount:        p.ProductCount,
			HasAddToCart:        p.AddToCart,
			HasSizeSelector:     p.SizeSelector,
			HasPriceDisplay:     p.PriceDisplay,
			Stock:               signals.StockStatus(p.StockStatus),
			HasCheckoutForm:     p.CheckoutForm,
			HasShippingOptions:  p.ShippingOptions,
			HasPaymentOptions:   p.PaymentOptions,
			HasPlaceOrderButton: p.PlaceOrderButton,
			PaymentMethodCount:  p.PaymentMethodCount,
		}
	}
	return pages
}

// DBPath returns the full path to the SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
