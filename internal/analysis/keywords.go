package analysis

// Role-cluster keyword sets. Matching is case-insensitive substring search
// over the connection's position; trailing spaces on short tokens ("ml ",
// "vp ") keep them from matching inside longer words.

var founderKeywords = []string{
	"founder", "co-founder", "cofounder", "ceo", "chief executive",
	"owner", "principal", "managing partner", "entrepreneur",
}

var techKeywords = []string{
	"engineer", "developer", "software", "swe", "devops", "sre",
	"architect", "cto", "tech lead", "data scientist", "ml ", "machine learning",
	"full stack", "fullstack", "frontend", "backend", "platform",
	"infrastructure", "security engineer",
}

var salesKeywords = []string{
	"sales", "account executive", "business development", "bdr", "sdr",
	"revenue", "partnerships", "ae ", "account manager",
}

var marketingKeywords = []string{
	"marketing", "brand", "content", "growth", "demand gen", "cmo",
	"communications", "social media", "digital marketing", "email marketing",
	"lifecycle", "crm", "retention", "acquisition", "performance marketing",
	"product marketing", "pmm",
}

var productKeywords = []string{
	"product manager", "product lead", "product director", "vp product",
	"head of product", "cpo", "product design", "ux", "ui/ux",
}

var designKeywords = []string{
	"designer", "design lead", "creative director", "art director",
	"visual design", "graphic design", "ux design", "ui design",
}

var recruitingKeywords = []string{
	"recruiter", "talent", "recruiting", "people ops", "hr ",
	"human resources", "head of people", "vp people",
}

var consultingKeywords = []string{
	"consultant", "advisor", "advisory", "freelance", "independent",
	"strategist", "strategy",
}

var executiveKeywords = []string{
	"vp ", "vice president", "svp", "evp", "director", "head of",
	"chief", "c-suite", "coo", "cfo", "cro", "cmo",
}

var operationsKeywords = []string{
	"operations", "ops ", "supply chain", "logistics", "fulfillment",
	"procurement", "project manager", "program manager",
}

// clusterDefinition pairs a cluster label with its keyword set. Order
// matters: the first matching cluster wins.
type clusterDefinition struct {
	name     string
	keywords []string
}

var clusterDefinitions = []clusterDefinition{
	{"Founders & CEOs", founderKeywords},
	{"Tech & Engineering", techKeywords},
	{"Sales & BD", salesKeywords},
	{"Marketing & Growth", marketingKeywords},
	{"Product", productKeywords},
	{"Design & Creative", designKeywords},
	{"Recruiting & HR", recruitingKeywords},
	{"Consulting & Strategy", consultingKeywords},
	{"Executive Leadership", executiveKeywords},
	{"Operations", operationsKeywords},
}

// unclassifiedCluster collects connections no keyword set matched.
const unclassifiedCluster = "Other / Unclassified"

// industryDefinition pairs an industry bucket with its keyword set for
// company-follow classification. First match wins, in this order.
type industryDefinition struct {
	name     string
	keywords []string
}

var industryDefinitions = []industryDefinition{
	{"DTC / E-commerce", []string{
		"beauty", "skin", "cosmetic", "fashion", "apparel", "clothing",
		"home", "decor", "food", "beverage", "wellness", "supplement",
		"jewelry", "accessories", "lifestyle", "retail", "shop", "store",
		"brand", "direct", "dtc", "d2c", "ecommerce", "e-commerce",
		"consumer", "subscription box",
	}},
	{"Martech / SaaS", []string{
		"klaviyo", "braze", "shopify", "attentive", "yotpo", "gorgias",
		"iterable", "sailthru", "segment", "amplitude", "mixpanel",
		"hubspot", "marketo", "salesforce", "platform", "saas", "software",
		"analytics", "data", "automation", "crm", "martech", "adtech",
	}},
	{"Tech", []string{
		"tech", "technology", "ai ", "artificial intelligence",
		"machine learning", "cloud", "cyber", "fintech", "biotech",
		"healthtech", "edtech", "proptech", "crypto", "blockchain",
		"computing", "digital",
	}},
	{"Recruiting / Staffing", []string{
		"recruiting", "staffing", "talent", "hiring", "recruitment",
		"headhunt", "career", "job", "workforce",
	}},
	{"Luxury / Premium", []string{
		"luxury", "premium", "high-end", "designer", "couture",
		"prestige", "artisan", "bespoke",
	}},
	{"Media / Publishing", []string{
		"media", "publish", "news", "content", "editorial",
		"journalism", "entertainment", "podcast", "video",
	}},
	{"Agency / Services", []string{
		"agency", "consulting", "consultancy", "service", "studio",
		"creative agency", "digital agency", "marketing agency",
	}},
	{"Finance / VC", []string{
		"venture", "capital", "investment", "fund", "finance", "banking",
		"private equity", "pe ", "vc ", "angel",
	}},
}

// uncategorisedIndustry collects follows no industry keyword matched.
const uncategorisedIndustry = "Other"

// spamIndicators flag templated outreach. Two hits classify a message as
// noise outright; one hit on a short message does too.
var spamIndicators = []string{
	"i noticed your profile",
	"i came across your profile",
	"i saw your profile",
	"limited time",
	"exclusive opportunity",
	"are you open to",
	"we're hiring",
	"we are hiring",
	"job opportunity",
	"perfect fit",
	"reaching out because",
	"thought you'd be interested",
	"hope this finds you well",
	"i'd love to connect",
	"open to exploring",
	"exciting opportunity",
	"top talent",
	"passive candidate",
	"impressive background",
	"quick question",
	"just following up",
	"checking in",
	"i help companies",
	"i help professionals",
	"revenue growth",
	"book a call",
	"schedule a chat",
	"free consultation",
	"free trial",
	"demo",
	"webinar",
	"download our",
	"unsubscribe",
	"opt out",
}

// actionableKeywords mark messages that ask for something concrete.
var actionableKeywords = []string{
	"meet", "coffee", "call", "chat", "discuss", "collaborate",
	"advice", "introduce", "referral", "recommend", "opportunity",
	"project", "role", "position", "offer", "proposal",
}

// seniorKeywords mark senders whose position suggests seniority.
var seniorKeywords = []string{
	"vp", "vice president", "director", "head of", "chief",
	"founder", "ceo", "cto", "cmo", "coo", "partner", "principal",
	"svp", "evp",
}
