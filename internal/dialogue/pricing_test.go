package dialogue

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func influencerCalculator() *Calculator {
	p := Influencer()
	return p.Calculator()
}

func TestCalculate_MicroTechInstagramPost(t *testing.T) {
	quote, ok := influencerCalculator().Calculate(Metrics{
		Followers:   30_000,
		Platform:    "instagram",
		ContentType: "posts",
		Engagement:  "6%",
		Niche:       "tech",
	})

	require.True(t, ok)
	assert.Equal(t, int64(31625), quote.Price)
	assert.Equal(t, "micro", quote.Tier.Name)
	assert.Equal(t, "posts", quote.ContentType)
}

func TestCalculate(t *testing.T) {
	calc := influencerCalculator()

	tests := []struct {
		name    string
		metrics Metrics
		want    int64
		tier    string
	}{
		{
			name:    "youtube defaults to videos",
			metrics: Metrics{Followers: 5_000, Platform: "youtube"},
			want:    12_500,
			tier:    "nano",
		},
		{
			name:    "unknown content type falls back to first",
			metrics: Metrics{Followers: 5_000, Platform: "youtube", ContentType: "posts"},
			want:    6_000,
			tier:    "nano",
		},
		{
			name:    "lower bound is inclusive",
			metrics: Metrics{Followers: 10_000, Platform: "instagram"},
			want:    25_000,
			tier:    "micro",
		},
		{
			name:    "upper bound is exclusive",
			metrics: Metrics{Followers: 49_999, Platform: "instagram"},
			want:    25_000,
			tier:    "micro",
		},
		{
			name:    "above every tier falls back to nano",
			metrics: Metrics{Followers: 2_000_000, Platform: "instagram"},
			want:    4_500,
			tier:    "nano",
		},
		{
			name:    "below every tier falls back to nano",
			metrics: Metrics{Followers: 500, Platform: "facebook"},
			want:    3_500,
			tier:    "nano",
		},
		{
			name:    "low engagement discount",
			metrics: Metrics{Followers: 5_000, Platform: "instagram", Engagement: "1.5%"},
			want:    4_050,
			tier:    "nano",
		},
		{
			name:    "excellent engagement",
			metrics: Metrics{Followers: 5_000, Platform: "instagram", Engagement: "12%"},
			want:    5_400,
			tier:    "nano",
		},
		{
			name:    "unparseable engagement is ignored",
			metrics: Metrics{Followers: 5_000, Platform: "instagram", Engagement: "lots"},
			want:    4_500,
			tier:    "nano",
		},
		{
			name:    "gen z and female audience",
			metrics: Metrics{Followers: 5_000, Platform: "instagram", Demographics: "18-24 female_majority"},
			want:    4_961,
			tier:    "nano",
		},
		{
			name:    "male audience has no premium",
			metrics: Metrics{Followers: 5_000, Platform: "instagram", Demographics: "male_majority"},
			want:    4_500,
			tier:    "nano",
		},
		{
			name:    "unknown niche is neutral",
			metrics: Metrics{Followers: 5_000, Platform: "instagram", Niche: "gaming"},
			want:    4_500,
			tier:    "nano",
		},
		{
			name:    "platform is case insensitive",
			metrics: Metrics{Followers: 100_000, Platform: "Facebook", ContentType: "reels", Niche: "fashion"},
			want:    71_500,
			tier:    "macro",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, ok := calc.Calculate(tt.metrics)
			require.True(t, ok)
			assert.Equal(t, tt.want, quote.Price)
			assert.Equal(t, tt.tier, quote.Tier.Name)
		})
	}
}

func TestCalculate_MissingInputs(t *testing.T) {
	calc := influencerCalculator()

	_, ok := calc.Calculate(Metrics{Platform: "instagram"})
	assert.False(t, ok, "missing followers")

	_, ok = calc.Calculate(Metrics{Followers: 10_000})
	assert.False(t, ok, "missing platform")

	_, ok = calc.Calculate(Metrics{Followers: 10_000, Platform: "tiktok"})
	assert.False(t, ok, "platform without a rate card")

	var nilCalc *Calculator
	_, ok = nilCalc.Calculate(Metrics{Followers: 10_000, Platform: "instagram"})
	assert.False(t, ok)
}

func TestTierFor_FallsBackToFirstPlatform(t *testing.T) {
	tier, ok := influencerCalculator().TierFor(75_000, "tiktok", "")
	require.True(t, ok)
	assert.Equal(t, "macro", tier.Name)
	assert.Equal(t, 40_000.0, tier.MinRate)
}

func TestCounterOffer(t *testing.T) {
	calc := Procurement().Calculator()

	offer, ok := calc.CounterOffer(9_000, "web development")
	require.True(t, ok)
	assert.Equal(t, 8_000.0, offer, "above max counters with max")

	offer, ok = calc.CounterOffer(6_500, "Web Development")
	require.True(t, ok)
	assert.Equal(t, 5_750.0, offer, "between preferred and max counters with the midpoint")

	offer, ok = calc.CounterOffer(8_000, "web development")
	require.True(t, ok)
	assert.Equal(t, 6_500.0, offer, "max itself is still above preferred")

	_, ok = calc.CounterOffer(5_000, "web development")
	assert.False(t, ok, "preferred price stands")

	_, ok = calc.CounterOffer(100, "plumbing")
	assert.False(t, ok, "unknown service")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "₹31,625", FormatAmount("₹", 31_625))
	assert.Equal(t, "$1,234.50", FormatAmount("$", 1_234.5))
	assert.Equal(t, "12,500", FormatCount(12_500))
	assert.Equal(t, "2.5", FormatCount(2.5))
}

func TestDescribeTable(t *testing.T) {
	p := Influencer()
	out := DescribeTable(p.Currency, p.Pricing, nil)

	assert.Contains(t, out, "INSTAGRAM PRICING:")
	assert.Contains(t, out, "- Micro (10,000-50,000 followers): ₹15,000-₹35,000")
	assert.NotContains(t, out, "SERVICE BUDGETS")

	budgets := DescribeTable("$", PricingTable{}, ProcurementBudgets())
	assert.True(t, strings.HasPrefix(budgets, "SERVICE BUDGETS:"))
	assert.Contains(t, budgets, "- Web Development: preferred $5,000, max $8,000")
}
