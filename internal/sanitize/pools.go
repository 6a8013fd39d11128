package sanitize

// Fallback name pools used when building the real-to-fake name map. Pool
// order matters only before shuffling; the shuffled order drives assignment.

var fakeFirstNamesFeminine = []string{
	"Aria", "Nova", "Luna", "Sage", "Iris", "Wren", "Lyra",
	"Cleo", "Maren", "Thea", "Daphne", "Selene", "Freya", "Zara",
	"Nadia", "Vera", "Camille", "Elara", "Rowan", "Sable",
	"Astrid", "Briar", "Celeste", "Dahlia", "Esme", "Flora",
	"Gemma", "Haven", "Ivy", "Jade", "Kaia", "Lila", "Mila",
	"Nora", "Opal", "Petra", "Quinn", "Ren", "Stella", "Tessa",
	"Uma", "Viola", "Winter", "Xena", "Yara", "Zola",
}

var fakeFirstNamesMasculine = []string{
	"Kai", "Leo", "Atlas", "Orion", "Felix", "Jasper", "Ezra",
	"Milo", "Silas", "Ronan", "Axel", "Dante", "Ellis", "Forrest",
	"Griffin", "Hugo", "Ivan", "Jude", "Knox", "Leander",
	"Magnus", "Nash", "Oscar", "Pax", "Remy", "Sterling", "Tobias",
	"Viggo", "Wells", "Xander", "York", "Zane", "Arlo", "Beck",
	"Cade", "Drake", "Emmett", "Flynn", "Grant", "Heath",
	"Idris", "Jett", "Kieran", "Lachlan", "Marco", "Nico",
}

var fakeLastNames = []string{
	"Ashford", "Blackwell", "Calloway", "Devereaux", "Eastwood",
	"Fairchild", "Gallagher", "Hartwell", "Irvine", "Jameson",
	"Keating", "Lancaster", "Mercer", "Northwood", "Oconnell",
	"Prescott", "Quinlan", "Redmond", "Sinclair", "Thorne",
	"Underwood", "Voss", "Whitfield", "Ximenez", "Yardley", "Zhao",
	"Aldridge", "Brennan", "Carver", "Drake", "Everett", "Frost",
	"Gray", "Holmes", "Ingram", "Jensen", "Klein", "Lockwood",
	"Monroe", "Nolan", "Palmer", "Reed", "Stone", "Turner",
	"Vaughn", "Walsh",
}

// fakeCompanies holds replacement company names per industry bucket.
// Replacements are tier-matched so a skincare brand maps to a fake DTC
// name, a recruiting firm to a fake recruiting firm, and so on.
var fakeCompanies = map[string][]string{
	"dtc": {
		"Lumina Beauty", "Woven Home", "Cedarstone Goods",
		"Velvet & Vine", "Solstice Skincare", "Harbor + Thread",
		"Crestline Organics", "Wildbloom Botanicals", "Dusk & Co",
		"Ember & Oak", "Radiant Earth", "Moonstone Provisions",
		"Petal & Post", "Sunridge Essentials", "Verdant Living",
	},
	"tech": {
		"NexaFlow", "Prism Labs", "Vertex Systems", "Arcane Data",
		"Helix Cloud", "Quantum Leap AI", "Cobalt Logic",
		"Meridian Software", "Stratos Computing", "Vanguard Tech",
		"Zephyr Dynamics", "Pinnacle Digital", "Forge Analytics",
		"Skyward Platforms", "Atlas Intelligence",
	},
	"martech": {
		"SignalStack", "Engagify", "RetainIQ", "FlowMetrics",
		"Pulse Analytics", "Beacon CRM", "Orbit Engage",
		"TriggerPath", "Audience Labs", "Segment Pro",
		"Lifecycle AI", "Conversion Cloud", "Reach Engine",
		"Attribution Works", "DataBridge",
	},
	"agency": {
		"Kindling Creative", "Northstar Agency", "Bright Path Media",
		"Summit Strategy", "Redline Digital", "Clear Signal Group",
		"Horizon Partners", "Catalyst Collective", "Spark & Frame",
		"Mosaic Agency", "Craft & Commerce", "Blueprint Studio",
	},
	"recruiting": {
		"TalentForge", "Apex Recruiting", "Keystone Search",
		"Bridgepoint Talent", "Summit Staffing", "Compass Careers",
		"Elevate Recruiting", "Pathfinder HR", "PeakSearch",
		"Catalyst Talent Group",
	},
	"finance": {
		"Ironwood Capital", "Bluewater Ventures", "Crestview Partners",
		"Granite Equity", "Lighthouse Fund", "Sequoia Ridge VC",
		"Sterling Growth", "Timberline Investments", "Apex Fund",
		"Foundry Capital",
	},
	"luxury": {
		"Maison Lumiere", "Ateliers du Monde", "Prestige Collective",
		"Noir & Blanc", "Gilded Path", "Opulent & Co",
	},
	"media": {
		"Chronicle Media", "Narrative Labs", "Wavelength Publishing",
		"Aperture Content", "Storyforge", "Current Media Group",
	},
	"other": {
		"Greenfield Corp", "Ridgeline Industries", "Cornerstone Group",
		"Ironside Partners", "Bridgewater Associates", "Clearview Global",
		"Aspen Holdings", "Pinnacle Group", "Summit Enterprises",
		"Vantage Works", "Nexus Corp", "Horizon Global",
	},
}

// industryKeywords classifies real company names into the fakeCompanies
// buckets. First match wins, in this order. The keyword sets are coarser
// than the analysis package's buckets; they only need to pick a
// plausible-sounding replacement pool.
var industryKeywords = []struct {
	industry string
	keywords []string
}{
	{"dtc", []string{
		"beauty", "skin", "cosmetic", "fashion", "apparel", "clothing",
		"home", "food", "beverage", "wellness", "jewelry", "lifestyle",
		"retail", "brand", "dtc", "d2c", "ecommerce",
	}},
	{"tech", []string{
		"tech", "technology", "ai", "cloud", "cyber", "fintech",
		"computing", "digital", "software", "platform",
	}},
	{"martech", []string{
		"klaviyo", "braze", "shopify", "attentive", "yotpo",
		"analytics", "data", "automation", "crm", "martech", "saas",
	}},
	{"agency", []string{
		"agency", "consulting", "service", "studio", "creative",
	}},
	{"recruiting", []string{
		"recruiting", "staffing", "talent", "hiring", "workforce",
	}},
	{"finance", []string{
		"venture", "capital", "investment", "fund", "finance",
	}},
	{"luxury", []string{"luxury", "premium", "prestige", "designer"}},
	{"media", []string{"media", "publish", "news", "content", "entertainment"}},
}

// otherIndustry is the fallback bucket when no keyword matches.
const otherIndustry = "other"

var fakeEmailDomains = []string{
	"protonmail.com", "fastmail.com", "tutanota.com", "hey.com",
	"outlook.com", "icloud.com", "pm.me",
}

// Replacement message bodies. Genuine templates stand in for real
// correspondence, noise templates for templated outreach, so the inbox
// classification of the sanitized data matches the original's.

var genuineTemplates = []string{
	"Great to connect! Would love to chat about your work in the space.",
	"Thanks for reaching out. Happy to discuss further next week.",
	"Really enjoyed your recent post. Let me know if you want to collaborate.",
	"Following up on our conversation at the conference last month.",
	"Appreciate the introduction. Looking forward to connecting.",
	"Would you be open to a quick call? I think there could be some synergy.",
	"Thanks for the recommendation! Excited about the opportunity.",
	"Just saw your company announcement. Congratulations on the milestone!",
	"Been meaning to reach out. Your perspective on this would be valuable.",
	"Let me know when you have time for that coffee chat.",
}

var noiseTemplates = []string{
	"I noticed your profile and thought you might be interested in...",
	"We're hiring for a role that seems like a perfect fit for you.",
	"I'd love to connect and share an exciting opportunity.",
	"Hope this finds you well. I came across your profile and...",
	"Limited time offer: exclusive access to our platform.",
	"Are you open to exploring new opportunities?",
	"I help professionals like you achieve their career goals.",
	"Quick question: are you satisfied with your current CRM?",
	"Book a free consultation to learn how we can help.",
	"Just following up on my previous message about the opportunity.",
}

// feminineEndings drive the rough gender guess used to keep the name
// map's gender distribution close to the original. Used for nothing else.
var feminineEndings = []string{"a", "e", "i", "y", "ah", "ie", "na", "la", "ne"}
