package dialogue

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Tier is a follower bracket with its rate range. The follower interval is
// half-open: [FollowerLower, FollowerUpper).
type Tier struct {
	Name          string  `yaml:"name"`
	MinRate       float64 `yaml:"min_rate"`
	MaxRate       float64 `yaml:"max_rate"`
	FollowerLower float64 `yaml:"follower_lower"`
	FollowerUpper float64 `yaml:"follower_upper"`
}

// Contains reports whether followers falls inside the tier.
func (t Tier) Contains(followers float64) bool {
	return followers >= t.FollowerLower && followers < t.FollowerUpper
}

// ContentPricing lists tiers in ascending order for one content type.
type ContentPricing struct {
	Type  string `yaml:"type"`
	Tiers []Tier `yaml:"tiers"`
}

// PlatformPricing groups the content types offered on a platform.
type PlatformPricing struct {
	Platform           string           `yaml:"platform"`
	DefaultContentType string           `yaml:"default_content_type"`
	ContentTypes       []ContentPricing `yaml:"content_types"`
}

// PricingTable is the static rate card.
type PricingTable struct {
	Platforms []PlatformPricing `yaml:"platforms"`
}

// ServiceBudget is what the buyer prefers to pay and will pay at most.
type ServiceBudget struct {
	Service   string  `yaml:"service"`
	Preferred float64 `yaml:"preferred"`
	Max       float64 `yaml:"max"`
}

// Metrics is the calculator input. Empty strings mean "not declared".
type Metrics struct {
	Followers    float64
	Platform     string
	ContentType  string
	Engagement   string
	Demographics string
	Niche        string
}

// Quote is a computed fair price.
type Quote struct {
	Price       int64
	Platform    string
	ContentType string
	Tier        Tier
}

// DefaultNicheMultipliers applies when a persona does not override them.
var DefaultNicheMultipliers = map[string]float64{
	"fashion":   1.1,
	"beauty":    1.1,
	"tech":      1.15,
	"business":  1.15,
	"fitness":   1.05,
	"lifestyle": 1.0,
	"food":      1.0,
	"travel":    1.05,
}

// Calculator computes fair rates and counter offers.
type Calculator struct {
	table   PricingTable
	niches  map[string]float64
	budgets []ServiceBudget
}

// NewCalculator builds a calculator. A nil niche table uses the defaults.
func NewCalculator(table PricingTable, niches map[string]float64, budgets []ServiceBudget) *Calculator {
	if niches == nil {
		niches = DefaultNicheMultipliers
	}
	normalized := make(map[string]float64, len(niches))
	for k, v := range niches {
		normalized[strings.ToLower(k)] = v
	}
	return &Calculator{table: table, niches: normalized, budgets: budgets}
}

// HasPricing reports whether the rate card has any platform.
func (c *Calculator) HasPricing() bool {
	return c != nil && len(c.table.Platforms) > 0
}

// Calculate returns the fair price, or false when followers or platform are
// missing or the platform has no rate card.
func (c *Calculator) Calculate(m Metrics) (Quote, bool) {
	if c == nil || m.Followers <= 0 || strings.TrimSpace(m.Platform) == "" {
		return Quote{}, false
	}
	platform, ok := c.platform(m.Platform)
	if !ok {
		return Quote{}, false
	}
	content, ok := resolveContent(platform, m.ContentType)
	if !ok {
		return Quote{}, false
	}
	tier, ok := lookupTier(content.Tiers, m.Followers)
	if !ok {
		return Quote{}, false
	}

	price := (tier.MinRate + tier.MaxRate) / 2
	if rate, ok := parsePercent(m.Engagement); ok {
		price *= engagementMultiplier(rate)
	}
	if demo := strings.ToLower(m.Demographics); demo != "" {
		mult := 1.0
		if strings.Contains(demo, "18-24") || strings.Contains(demo, "gen z") {
			mult *= 1.05
		}
		if strings.Contains(demo, "female") {
			mult *= 1.05
		}
		price *= mult
	}
	if niche := strings.ToLower(strings.TrimSpace(m.Niche)); niche != "" {
		if mult, ok := c.niches[niche]; ok {
			price *= mult
		}
	}

	return Quote{
		Price:       int64(math.Round(price)),
		Platform:    platform.Platform,
		ContentType: content.Type,
		Tier:        tier,
	}, true
}

// TierFor resolves the tier for followers. An unknown or empty platform falls
// back to the first platform on the card.
func (c *Calculator) TierFor(followers float64, platformName, contentType string) (Tier, bool) {
	if !c.HasPricing() || followers <= 0 {
		return Tier{}, false
	}
	platform, ok := c.platform(platformName)
	if !ok {
		platform = &c.table.Platforms[0]
	}
	content, ok := resolveContent(platform, contentType)
	if !ok {
		return Tier{}, false
	}
	return lookupTier(content.Tiers, followers)
}

// CounterOffer returns the buyer's counter to proposed for service. It
// returns false when the proposed price already fits the preferred budget or
// the service is unknown.
func (c *Calculator) CounterOffer(proposed float64, service string) (float64, bool) {
	budget, ok := c.Budget(service)
	if !ok {
		return 0, false
	}
	switch {
	case proposed > budget.Max:
		return budget.Max, true
	case proposed > budget.Preferred:
		return math.Round((budget.Preferred + proposed) / 2), true
	default:
		return 0, false
	}
}

// Budget looks up a service budget by name.
func (c *Calculator) Budget(service string) (ServiceBudget, bool) {
	if c == nil {
		return ServiceBudget{}, false
	}
	service = strings.ToLower(strings.TrimSpace(service))
	for _, b := range c.budgets {
		if strings.ToLower(b.Service) == service {
			return b, true
		}
	}
	return ServiceBudget{}, false
}

// Budgets returns the budget table.
func (c *Calculator) Budgets() []ServiceBudget {
	if c == nil {
		return nil
	}
	return append([]ServiceBudget(nil), c.budgets...)
}

// Table returns the rate card.
func (c *Calculator) Table() PricingTable {
	if c == nil {
		return PricingTable{}
	}
	return c.table
}

func (c *Calculator) platform(name string) (*PlatformPricing, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := range c.table.Platforms {
		if strings.ToLower(c.table.Platforms[i].Platform) == name {
			return &c.table.Platforms[i], true
		}
	}
	return nil, false
}

// resolveContent applies the platform default and then falls back to the
// first content type on the card.
func resolveContent(p *PlatformPricing, contentType string) (*ContentPricing, bool) {
	if len(p.ContentTypes) == 0 {
		return nil, false
	}
	want := strings.ToLower(strings.TrimSpace(contentType))
	if want == "" {
		want = strings.ToLower(p.DefaultContentType)
	}
	for i := range p.ContentTypes {
		if strings.ToLower(p.ContentTypes[i].Type) == want {
			return &p.ContentTypes[i], true
		}
	}
	return &p.ContentTypes[0], true
}

// lookupTier scans tiers in order; no match means the lowest tier.
func lookupTier(tiers []Tier, followers float64) (Tier, bool) {
	if len(tiers) == 0 {
		return Tier{}, false
	}
	for _, t := range tiers {
		if t.Contains(followers) {
			return t, true
		}
	}
	return tiers[0], true
}

func engagementMultiplier(rate float64) float64 {
	switch {
	case rate < 2:
		return 0.9
	case rate < 5:
		return 1.0
	case rate < 10:
		return 1.1
	default:
		return 1.2
	}
}

func parsePercent(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders an amount with digit grouping, e.g. "₹31,625".
func FormatAmount(currency string, amount float64) string {
	if amount == math.Trunc(amount) {
		return currency + amountPrinter.Sprintf("%d", int64(amount))
	}
	return currency + amountPrinter.Sprintf("%.2f", amount)
}

// FormatCount renders a count with digit grouping.
func FormatCount(n float64) string {
	if n == math.Trunc(n) {
		return amountPrinter.Sprintf("%d", int64(n))
	}
	return amountPrinter.Sprintf("%.1f", n)
}

// DescribeTable renders the rate card and budgets for prompts.
func DescribeTable(currency string, table PricingTable, budgets []ServiceBudget) string {
	var b strings.Builder
	for _, p := range table.Platforms {
		fmt.Fprintf(&b, "%s PRICING:\n", strings.ToUpper(p.Platform))
		for _, ct := range p.ContentTypes {
			fmt.Fprintf(&b, "%s:\n", titleCase(ct.Type))
			for _, t := range ct.Tiers {
				fmt.Fprintf(&b, "- %s (%s-%s followers): %s-%s\n",
					titleCase(t.Name),
					FormatCount(t.FollowerLower), FormatCount(t.FollowerUpper),
					FormatAmount(currency, t.MinRate), FormatAmount(currency, t.MaxRate))
			}
		}
		b.WriteString("\n")
	}
	if len(budgets) > 0 {
		b.WriteString("SERVICE BUDGETS:\n")
		for _, sb := range budgets {
			fmt.Fprintf(&b, "- %s: preferred %s, max %s\n",
				titleCase(sb.Service), FormatAmount(currency, sb.Preferred), FormatAmount(currency, sb.Max))
		}
	}
	return strings.TrimSpace(b.String())
}
