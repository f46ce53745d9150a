package usecase

import "zephyrs-web/internal/domain"

const (
	portalBase = "https://zfitness.gymmasteronline.com/portal"
	signupBase = portalBase + "/signup/details/"
)

var _ domain.SiteUsecase = (*siteUsecase)(nil)

type siteUsecase struct {
	plans []domain.Plan
}

// NewSiteUsecase returns the content catalog.
func NewSiteUsecase() domain.SiteUsecase {
	return &siteUsecase{plans: catalogPlans}
}

// Plans resolves every plan for the given cycle; unknown cycles read as monthly.
func (uc *siteUsecase) Plans(billing domain.BillingCycle) []domain.PlanQuote {
	switch billing {
	case domain.BillingMonthly, domain.BillingQuarterly, domain.BillingYearly:
	default:
		billing = domain.BillingMonthly
	}

	quotes := make([]domain.PlanQuote, 0, len(uc.plans))
	for _, p := range uc.plans {
		q := domain.PlanQuote{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Prices.For(billing),
			Period:      billing.Suffix(),
			SignupURL:   p.URLs.For(billing),
			Features:    p.Features,
			IsPopular:   p.IsPopular,
		}
		if p.MarriedPrice != nil && p.MarriedURLs != nil {
			q.MarriedPrice = p.MarriedPrice.For(billing)
			q.MarriedURL = p.MarriedURLs.For(billing)
		}
		quotes = append(quotes, q)
	}
	return quotes
}

func (uc *siteUsecase) DropInPasses() []domain.Pass { return dropInPasses }
func (uc *siteUsecase) PickleballRates() []domain.Pass { return pickleballRates }
func (uc *siteUsecase) Amenities() []domain.Amenity { return amenities }
func (uc *siteUsecase) Gallery() []string { return gallery }
func (uc *siteUsecase) Owners() []domain.StaffMember { return owners }
func (uc *siteUsecase) Staff() []domain.StaffMember { return staff }
func (uc *siteUsecase) PickleballFAQ() []domain.FAQ { return pickleballFAQ }
func (uc *siteUsecase) Contact() domain.ContactInfo { return contactInfo }

var (
	gymAccess      = domain.PlanFeature{Text: "24/7 access to Zephyrs Fitness", Included: true}
	pickleballDisc = domain.PlanFeature{Text: "Discounted Pickleball ($13.31/hr)", Included: true}
	noOpenGym      = domain.PlanFeature{Text: "Unlimited CrossFit Open Gym"}
	noClasses      = domain.PlanFeature{Text: "Coach-led CrossFit classes"}
	noRecovery     = domain.PlanFeature{Text: "Recovery Room access"}
	openGym        = domain.PlanFeature{Text: "Unlimited CrossFit Open Gym", Included: true}
	recovery       = domain.PlanFeature{Text: "Unlimited Recovery Room access", Included: true}
)

func signup(monthly, quarterly, yearly string) domain.PlanPrices {
	return domain.PlanPrices{
		Monthly:   signupBase + monthly,
		Quarterly: signupBase + quarterly,
		Yearly:    signupBase + yearly,
	}
}

var catalogPlans = []domain.Plan{
	{
		ID:          "bronze",
		Name:        "Zephyrs Bronze",
		Description: "Standard 24/7 gym access for the independent fitness enthusiast.",
		Prices:      domain.PlanPrices{Monthly: "$45.80", Quarterly: "$122.48", Yearly: "$346.12"},
		URLs: signup(
			"fdd3f8e7b7b665f88fb3722d81785a37",
			"abf458fb4405c6713c878ff0800776a6",
			"3184baa5a0ccf53a8b1021ea9fb66c71",
		),
		Features: []domain.PlanFeature{gymAccess, pickleballDisc, noOpenGym, noClasses, noRecovery},
	},
	{
		ID:          "silver",
		Name:        "Zephyrs Silver",
		Description: "The perfect balance of class training and open gym freedom.",
		Prices:      domain.PlanPrices{Monthly: "$131.53", Quarterly: "$333.88", Yearly: "$1,092.69"},
		URLs: signup(
			"8426ca46d0fcd50a36def1bdd49ca1e2",
			"5846131a7778b85ed9ad8fd38bde2c05",
			"ea79b0b203d2ba9764735c604c050e9a",
		),
		MarriedPrice: &domain.PlanPrices{Monthly: "$197.29", Quarterly: "$500.82", Yearly: "$1,639.04"},
		MarriedURLs: &domain.PlanPrices{
			Monthly:   signupBase + "4de52c3f4d733f39fd9c17b0cf682354",
			Quarterly: signupBase + "144d5b90aef43acca5fbcc3720d02853",
			Yearly:    signupBase + "c20babc70ada2dd154f3febee0082ac0",
		},
		Features: []domain.PlanFeature{
			{Text: "5 CrossFit classes per month", Included: true},
			openGym, gymAccess, recovery, pickleballDisc,
		},
	},
	{
		ID:          "gold",
		Name:        "Zephyrs Gold",
		Description: "The ultimate all-inclusive experience. No limits.",
		Prices:      domain.PlanPrices{Monthly: "$151.76", Quarterly: "$424.94", Yearly: "$1,456.92"},
		URLs: signup(
			"45a5568562ec9a69418a9061473f77c4",
			"c335d4bc7fe91f112d6f94f534406cc2",
			"1d1f00fd74e7aeba336d860af22def73",
		),
		MarriedPrice: &domain.PlanPrices{Monthly: "$227.64", Quarterly: "$637.40", Yearly: "$2,185.38"},
		MarriedURLs: &domain.PlanPrices{
			Monthly:   signupBase + "1316caff197b2a2116d4bfb676085c78",
			Quarterly: signupBase + "a70a1067666a95c217f72c96649319ab",
			Yearly:    signupBase + "ae25f096a042dd85b82b851b4669d3ff",
		},
		Features: []domain.PlanFeature{
			{Text: "Unlimited CrossFit classes", Included: true},
			openGym, gymAccess, recovery, pickleballDisc,
		},
		IsPopular: true,
	},
	{
		ID:          "youth",
		Name:        "Youth (18 & Under)",
		Description: "Building healthy habits early. 24/7 access for ages 18 & under.",
		Prices:      domain.PlanPrices{Monthly: "$31.95", Quarterly: "$79.88", Yearly: "$255.60"},
		URLs: signup(
			"d18c8c50e1abd980c5fe2482b0627fab",
			"a790703560d0d9b8fc774a44a8adfc4f",
			"552166d15eabfab67a31caa25d0d94a9",
		),
		Features: []domain.PlanFeature{gymAccess, pickleballDisc, noOpenGym, noClasses, noRecovery},
	},
}

var dropInPasses = []domain.Pass{
	{Name: "Bronze Day Pass", Detail: "Gym Access Only", Price: "$15.00", URL: portalBase + "/login"},
	{Name: "Gold Day Pass", Detail: "Gym + CrossFit Class", Price: "$25.00", URL: portalBase + "/login"},
	{Name: "Bronze Week Pass", Detail: "7 Days Gym Access", Price: "$35.00", URL: portalBase + "/login"},
	{Name: "Gold Week Pass", Detail: "7 Days Gym + Classes", Price: "$80.00", URL: portalBase + "/login"},
}

var pickleballRates = []domain.Pass{
	{Name: "Court Rental", Detail: "Per hour, non-member rate. Split the cost with up to 3 friends.", Price: "$25.56", URL: portalBase + "/signup"},
	{Name: "Member Court Rental", Detail: "Per hour for Zephyrs members.", Price: "$13.31", URL: portalBase + "/login"},
}

var amenities = []domain.Amenity{
	{Title: "Strength Training", Description: "Massive selection of free weights, power racks, and plate-loaded machines for serious lifters."},
	{Title: "Cardio Zone", Description: "State-of-the-art treadmills, rowers, bikes, and ellipticals to keep your heart rate up."},
	{Title: "Functional Fitness", Description: "Dedicated turf area, sleds, kettlebells, and rigs for functional movement and CrossFit."},
	{Title: "Pickleball Courts", Description: "Indoor professional-grade courts available for booking and league play."},
	{Title: "Recovery Room", Description: "Sauna, cold plunge, and mobility tools to help you recover faster and train harder."},
	{Title: "Power Bar", Description: "Protein smoothies, recovery drinks, and supplements available at our in-house Power Bar."},
	{Title: "24/7 + Essentials", Description: "24-hour access, clean lockers and showers, plus free Wi-Fi for members."},
}

const cdn = "https://images.squarespace-cdn.com/content/v1/637259c1a02be518e8a5e14c/"

var gallery = []string{
	cdn + "76d2f848-6433-4b39-9724-d3a28b6d93b0/1A1A2233.jpg?format=1500w",
	cdn + "83babead-acd4-480d-97b9-48bb246bbbb3/1A1A2398.jpg?format=1500w",
	cdn + "9da04d26-30c3-4166-bc06-45e632573607/1A1A2499.jpg?format=1500w",
	cdn + "013e4dda-5742-4ae3-a61c-ae01454eeb5f/1A1A2549.jpg?format=1500w",
	cdn + "46431f1a-5898-4489-a897-24521dfe0108/1A1A2555.jpg?format=1500w",
	cdn + "64d0e6fa-39b6-482c-b5e5-727b081d533b/1A1A2586.jpg?format=1500w",
	cdn + "9c5737b9-de53-4b07-aecc-fd5fabaf5c44/1A1A2597.jpg?format=1500w",
	cdn + "0ff514be-b504-448b-9713-2f0a4d381ae4/1A1A2616.jpg?format=1500w",
	cdn + "d1cb7f0c-df81-4e64-8d8c-9dab48e1a64a/1A1A2642.jpg?format=1500w",
}

var owners = []domain.StaffMember{
	{Name: "Mike Jarrett", Roles: []string{"Owner"}, Image: cdn + "2461c42b-601a-4512-b2f2-fc62c8f4456b/Mike+Jarrett.jpg?format=1000w"},
	{Name: "Diane Jarrett", Roles: []string{"Owner"}, Image: cdn + "fa19ba83-cf21-403e-a1f8-a31a66fd2e72/Diane+Jarrett.jpg?format=1000w"},
}

var staff = []domain.StaffMember{
	{
		Name:  "George Treadwell",
		Roles: []string{"CrossFit Manager", "CrossFit L-2 Trainer", "Certified Personal Trainer", "Certified Nutrition Coach"},
		Image: cdn + "f394cea6-fb30-4b87-88c2-3705f1886417/DSC_1363+2.jpg?format=1000w",
	},
	{
		Name:  "Maddie Fuller",
		Roles: []string{"Attorney by day", "CrossFit L-2 Trainer"},
		Image: cdn + "20f1d6cf-73fd-457f-9c88-f18bff9e3ed6/DSC_1375.jpg?format=1000w",
	},
	{
		Name:  "Micah",
		Roles: []string{"Facilities Leader", "Attendant"},
		Image: "https://images.unsplash.com/photo-1599058945522-28d584b6f0ff?q=80&w=2069&auto=format&fit=crop",
	},
}

var pickleballFAQ = []domain.FAQ{
	{
		Question: "How do I access the pickleball court when I arrive?",
		Answer:   "Use the GymMaster app to check in and unlock the entrance. You can access the facility 10 minutes before and 10 minutes after your booking.",
	},
	{
		Question: "Why do I see an error message about validating class booking?",
		Answer:   "Your existing Zephyrs account doesn't have access to Pickleball booking yet. Use the \"Current or Past Member\" button to add Pickleball booking access.",
	},
	{
		Question: "How do I update the card on file for my Zephyrs account?",
		Answer:   "Log in to the Zephyrs Fitness Member Portal and open Account > Update Billing Info.",
	},
	{
		Question: "Do you provide equipment such as paddles and balls?",
		Answer:   "No, we do not currently supply any player equipment (paddles, balls, etc). We supply the court and net.",
	},
	{
		Question: "Can I rent the entire facility for a private event or party?",
		Answer:   "Yes, we offer event and party rentals. Please contact Zephyrs staff at 866-414-5438 for details.",
	},
}

var contactInfo = domain.ContactInfo{
	Street: "1330 North Main Street",
	City:   "Orrville, OH 44667",
	Phone:  "(866) 414-5438",
	Email:  "info@zephyrs24.com",
	Hours: []domain.Hours{
		{Days: "Mon - Fri", Time: "7:00 AM - 7:00 PM"},
		{Days: "Saturday", Time: "7:00 AM - 1:00 PM"},
		{Days: "Sunday", Time: "12:30 PM - 4:30 PM"},
	},
	MapsURL: "https://www.google.com/maps/embed?pb=!1m18!1m12!1m3!1d3003.5662927681935!2d-81.76533838458135!3d40.85524287931654!2m3!1f0!2f0!3f0!3m2!1i1024!2i768!4f13.1!3m3!1m2!1s0x88376e0f60379775%3A0x1e9306083d25f2c2!2s1330%20N%20Main%20St%2C%20Orrville%2C%20OH%2044667!5e0!3m2!1sen!2sus!4v1679600000000!5m2!1sen!2sus",
}
