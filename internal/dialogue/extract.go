package dialogue

import (
	"regexp"
	"strconv"
	"strings"
)

// EntityKind names one extractable entity.
type EntityKind string

const (
	EntityOrderNumber  EntityKind = "order_number"
	EntityPrice        EntityKind = "price"
	EntityFollowers    EntityKind = "followers"
	EntityEngagement   EntityKind = "engagement"
	EntityPlatform     EntityKind = "platform"
	EntityContentType  EntityKind = "content_type"
	EntityNiche        EntityKind = "niche"
	EntityDemographics EntityKind = "demographics"
	EntityServiceType  EntityKind = "service_type"
)

var (
	orderNumberRe = regexp.MustCompile(`(?i)order\s*#?\s*(\d+)`)
	// Matches the first number in the text, currency marker or not.
	priceRe      = regexp.MustCompile(`(?i)(?:₹|rs\.?|rupees?|inr|usd|\$)?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`)
	followersRe  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*([km])?\s*followers?`)
	engagementRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%\s*engagement|engagement(?:\s+rate)?(?:\s+(?:is|of|at))?\s*:?\s*(\d+(?:\.\d+)?)\s*%`)
)

// contentTypeKeywords is checked in order; "reel" wins over "post".
var contentTypeKeywords = []struct{ keyword, contentType string }{
	{"reel", "reels"},
	{"short", "shorts"},
	{"video", "videos"},
	{"post", "posts"},
}

var ageMarkers = []string{"18-24", "gen z", "25-34", "millennial", "35-44", "45+"}

// Entities holds what was found in a single message. Zero values mean
// "not mentioned".
type Entities struct {
	OrderNumber   string   `json:"order_number,omitempty"`
	ProposedPrice *float64 `json:"proposed_price,omitempty"`
	Followers     *float64 `json:"followers,omitempty"`
	Engagement    string   `json:"engagement,omitempty"`
	Platform      string   `json:"platform,omitempty"`
	ContentType   string   `json:"content_type,omitempty"`
	Niche         string   `json:"niche,omitempty"`
	Demographics  string   `json:"demographics,omitempty"`
	ServiceType   string   `json:"service_type,omitempty"`
}

// Empty reports whether nothing was extracted.
func (e Entities) Empty() bool {
	return e.OrderNumber == "" && e.ProposedPrice == nil && e.Followers == nil &&
		e.Engagement == "" && e.Platform == "" && e.ContentType == "" &&
		e.Niche == "" && e.Demographics == "" && e.ServiceType == ""
}

// Apply overwrites only the context fields that were extracted.
func (e Entities) Apply(c *ConversationContext) {
	if e.OrderNumber != "" {
		c.OrderNumber = e.OrderNumber
	}
	if e.ProposedPrice != nil {
		c.ProposedPrice = cloneFloat(e.ProposedPrice)
	}
	if e.Followers != nil {
		c.Followers = cloneFloat(e.Followers)
	}
	if e.Engagement != "" {
		c.Engagement = e.Engagement
	}
	if e.Platform != "" {
		c.Platform = e.Platform
	}
	if e.ContentType != "" {
		c.ContentType = e.ContentType
	}
	if e.Niche != "" {
		c.Niche = e.Niche
	}
	if e.Demographics != "" {
		c.Demographics = e.Demographics
	}
	if e.ServiceType != "" {
		c.ServiceType = e.ServiceType
	}
}

// Extractor pulls persona-relevant entities out of free text.
type Extractor struct {
	kinds     map[EntityKind]bool
	platforms []string
	niches    []string
	services  []string
}

// NewExtractor enables the given kinds. Platform, niche and service lists are
// matched in order, first hit wins.
func NewExtractor(kinds []EntityKind, platforms, niches, services []string) *Extractor {
	enabled := make(map[EntityKind]bool, len(kinds))
	for _, k := range kinds {
		enabled[k] = true
	}
	return &Extractor{
		kinds:     enabled,
		platforms: lowerAll(platforms),
		niches:    lowerAll(niches),
		services:  lowerAll(services),
	}
}

// Extract never fails; malformed mentions are skipped.
func (x *Extractor) Extract(message string) Entities {
	var out Entities
	lower := strings.ToLower(message)

	if x.kinds[EntityOrderNumber] {
		if m := orderNumberRe.FindStringSubmatch(message); m != nil {
			out.OrderNumber = m[1]
		}
	}
	if x.kinds[EntityPrice] {
		if m := priceRe.FindStringSubmatch(message); m != nil {
			if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
				out.ProposedPrice = &v
			}
		}
	}
	if x.kinds[EntityFollowers] {
		if m := followersRe.FindStringSubmatch(message); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				switch strings.ToLower(m[2]) {
				case "k":
					v *= 1_000
				case "m":
					v *= 1_000_000
				}
				out.Followers = &v
			}
		}
	}
	if x.kinds[EntityEngagement] {
		if m := engagementRe.FindStringSubmatch(message); m != nil {
			rate := m[1]
			if rate == "" {
				rate = m[2]
			}
			out.Engagement = rate + "%"
		}
	}
	if x.kinds[EntityPlatform] {
		out.Platform = firstContained(lower, x.platforms)
	}
	if x.kinds[EntityContentType] {
		for _, ct := range contentTypeKeywords {
			if strings.Contains(lower, ct.keyword) {
				out.ContentType = ct.contentType
				break
			}
		}
	}
	if x.kinds[EntityNiche] {
		out.Niche = firstContained(lower, x.niches)
	}
	if x.kinds[EntityDemographics] {
		out.Demographics = extractDemographics(lower)
	}
	if x.kinds[EntityServiceType] {
		out.ServiceType = firstContained(lower, x.services)
	}
	return out
}

func extractDemographics(lower string) string {
	parts := make([]string, 0, 2)
	if age := firstContained(lower, ageMarkers); age != "" {
		parts = append(parts, age)
	}
	// "female" contains "male", so it is checked first.
	switch {
	case strings.Contains(lower, "female"):
		parts = append(parts, "female_majority")
	case strings.Contains(lower, "male"):
		parts = append(parts, "male_majority")
	}
	return strings.Join(parts, " ")
}

func firstContained(lower string, candidates []string) string {
	for _, c := range candidates {
		if strings.Contains(lower, c) {
			return c
		}
	}
	return ""
}
