package extract

import "regexp"

// fieldPattern maps one customer attribute to an ordered list of transcript
// patterns. Patterns are tried in order and the first capturing match wins;
// later mentions of the same field in a transcript are ignored for that pass.
// (For fields like customer_email this means a later self-correction loses to
// the first mention; that behavior is pinned by a test.)
type fieldPattern struct {
	Field    string
	Patterns []*regexp.Regexp
	Priority string
}

const usStates = `Alabama|Alaska|Arizona|Arkansas|California|Colorado|Connecticut|Delaware|Florida|Georgia|Hawaii|Idaho|Illinois|Indiana|Iowa|Kansas|Kentucky|Louisiana|Maine|Maryland|Massachusetts|Michigan|Minnesota|Mississippi|Missouri|Montana|Nebraska|Nevada|New Hampshire|New Jersey|New Mexico|New York|North Carolina|North Dakota|Ohio|Oklahoma|Oregon|Pennsylvania|Rhode Island|South Carolina|South Dakota|Tennessee|Texas|Utah|Vermont|Virginia|Washington|West Virginia|Wisconsin|Wyoming`

// stagePatterns is the per-stage extraction table. Pattern hits are treated as
// higher-confidence than model output and override it on merge.
var stagePatterns = map[int][]fieldPattern{
	1: {
		{
			Field: "customer_name",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?:[Mm]y name is|I'm|I am|[Tt]his is)\s+([A-Z][A-Za-z'-]+(?: [A-Z][A-Za-z'-]+)+)`),
				regexp.MustCompile(`[Nn]ame's\s+([A-Z][A-Za-z'-]+(?: [A-Z][A-Za-z'-]+)+)`),
			},
			Priority: "critical",
		},
		{
			Field: "customer_email",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`),
			},
			Priority: "critical",
		},
		{
			Field: "customer_phone",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:number is|call me at|reach me at|text me at)\s*(\(?\d{3}\)?[-. ]?\d{3}[-. ]?\d{4})`),
				regexp.MustCompile(`(\(?\d{3}\)?[-. ]\d{3}[-. ]\d{4})`),
			},
			Priority: "high",
		},
		{
			Field: "business_name",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?:called|named|business name is|company name is)\s+((?:[A-Z][\w&'.-]*)(?:\s+(?:[A-Z][\w&'.-]*|LLC|Inc\.?|Co\.?))*)`),
			},
			Priority: "critical",
		},
		{
			Field: "entity_type",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(?:start|form|set up|setting up|starting|forming)\s+(?:an?\s+)?(LLC|corporation|nonprofit|partnership|sole proprietorship)\b`),
				regexp.MustCompile(`(?i)\b(LLC|S[- ]?corp|C[- ]?corp|corporation|sole proprietorship|partnership|nonprofit)\b`),
			},
			Priority: "critical",
		},
		{
			Field: "state_of_operation",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(?:in|based in|operate in|operating in|out of)\s+(` + usStates + `)\b`),
			},
			Priority: "critical",
		},
		{
			Field: "industry",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\bin the ([A-Za-z &]+?) (?:industry|business|space)\b`),
			},
			Priority: "high",
		},
	},
	2: {
		{
			Field: "brand_personality",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:brand personality is|want (?:the|my) brand to feel|brand should feel)\s+([A-Za-z,' ]+)`),
			},
			Priority: "critical",
		},
		{
			Field: "color_preferences",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)colors? (?:I like|we like|would be|are)\s+([A-Za-z, ]+)`),
			},
			Priority: "high",
		},
		{
			Field: "domain_name",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b([a-z0-9][a-z0-9-]*\.(?:com|net|org|io|co|biz))\b`),
			},
			Priority: "critical",
		},
		{
			Field: "tagline",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)tagline (?:is|would be|could be)\s+"?([^".!?]+)"?`),
			},
			Priority: "medium",
		},
	},
	3: {
		{
			Field: "business_bank_account",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:bank (?:with|at)|opened? (?:a |an )?(?:business )?account (?:at|with))\s+([A-Z][A-Za-z ]+?)(?:[.,]|$)`),
			},
			Priority: "critical",
		},
		{
			Field: "accounting_software",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(QuickBooks|FreshBooks|Xero|Wave|Bench)\b`),
			},
			Priority: "high",
		},
		{
			Field: "pricing_structure",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:charge|charging|priced? at|rates? (?:are|is))\s+((?:about |around )?\$?\d[\d,.]*(?:\s?(?:per|an|a|/)\s?[A-Za-z]+)?)`),
			},
			Priority: "high",
		},
		{
			Field: "business_hours",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:open|hours (?:are|will be))\s+((?:from )?\d{1,2}(?::\d{2})?\s*(?:am|pm)?\s*(?:to|until|-)\s*\d{1,2}(?::\d{2})?\s*(?:am|pm)?)`),
			},
			Priority: "medium",
		},
	},
	4: {
		{
			Field: "launch_date",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:launch(?:ing)?|open(?:ing)?|go(?:ing)? live)\s+(?:on|in|by)\s+([A-Z][a-z]+(?: \d{1,2}(?:st|nd|rd|th)?)?(?:,? \d{4})?)`),
			},
			Priority: "critical",
		},
		{
			Field: "marketing_channels",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:market(?:ing)? (?:on|through|via)|advertis(?:e|ing) on)\s+([A-Za-z, ]+)`),
			},
			Priority: "high",
		},
		{
			Field: "growth_goals",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:goal is to|hoping to grow to|aiming for)\s+([^.!?]+)`),
			},
			Priority: "medium",
		},
	},
}

// PatternFields runs the stage's pattern table over a transcript.
func PatternFields(stageNum int, transcript string) map[string]string {
	out := make(map[string]string)
	for _, fp := range stagePatterns[stageNum] {
		for _, re := range fp.Patterns {
			m := re.FindStringSubmatch(transcript)
			if len(m) > 1 && m[1] != "" {
				out[fp.Field] = m[1]
				break
			}
		}
	}
	return out
}
