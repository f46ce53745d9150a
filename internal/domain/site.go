package domain

// BillingCycle selects which price column a plan shows.
type BillingCycle string

const (
	BillingMonthly   BillingCycle = "monthly"
	BillingQuarterly BillingCycle = "quarterly"
	BillingYearly    BillingCycle = "yearly"
)

// Suffix is the short period label shown after a price.
func (b BillingCycle) Suffix() string {
	switch b {
	case BillingQuarterly:
		return "qtr"
	case BillingYearly:
		return "yr"
	default:
		return "mo"
	}
}

// PlanPrices holds one value per billing cycle.
type PlanPrices struct {
	Monthly   string `json:"monthly"`
	Quarterly string `json:"quarterly"`
	Yearly    string `json:"yearly"`
}

func (p PlanPrices) For(b BillingCycle) string {
	switch b {
	case BillingQuarterly:
		return p.Quarterly
	case BillingYearly:
		return p.Yearly
	default:
		return p.Monthly
	}
}

type PlanFeature struct {
	Text     string `json:"text"`
	Included bool   `json:"included"`
}

// Plan is a membership tier. Married prices are optional.
type Plan struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Prices       PlanPrices    `json:"prices"`
	URLs         PlanPrices    `json:"urls"`
	MarriedPrice *PlanPrices   `json:"married_prices,omitempty"`
	MarriedURLs  *PlanPrices   `json:"married_urls,omitempty"`
	Features     []PlanFeature `json:"features"`
	IsPopular    bool          `json:"is_popular"`
}

// PlanQuote is a plan resolved for one billing cycle.
type PlanQuote struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Price        string        `json:"price"`
	Period       string        `json:"period"`
	SignupURL    string        `json:"signup_url"`
	MarriedPrice string        `json:"married_price,omitempty"`
	MarriedURL   string        `json:"married_url,omitempty"`
	Features     []PlanFeature `json:"features"`
	IsPopular    bool          `json:"is_popular"`
}

// Pass is a drop-in or pickleball-only rate.
type Pass struct {
	Name   string `json:"name"`
	Detail string `json:"detail"`
	Price  string `json:"price"`
	URL    string `json:"url"`
}

type Amenity struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type StaffMember struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
	Image string   `json:"image"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Hours struct {
	Days string `json:"days"`
	Time string `json:"time"`
}

// ContactInfo is the public address block shown in the footer and contact page.
type ContactInfo struct {
	Street  string  `json:"street"`
	City    string  `json:"city"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email"`
	Hours   []Hours `json:"hours"`
	MapsURL string  `json:"maps_url"`
}

// PlansRequest is the query for GET /v1/plans.
type PlansRequest struct {
	Billing string `form:"billing" validate:"omitempty,oneof=monthly quarterly yearly"`
}

// SiteUsecase serves the static content catalog.
type SiteUsecase interface {
	Plans(billing BillingCycle) []PlanQuote
	DropInPasses() []Pass
	PickleballRates() []Pass
	Amenities() []Amenity
	Gallery() []string
	Owners() []StaffMember
	Staff() []StaffMember
	PickleballFAQ() []FAQ
	Contact() ContactInfo
}
