package scan

import (
	"regexp"
	"sort"
)

// riskCatalog maps each risk domain to the patterns that flag it. A domain
// is flagged when any of its patterns matches anywhere in the feature's
// combined content: set semantics, not match counts.
var riskCatalog = map[string][]*regexp.Regexp{
	"payments": {
		regexp.MustCompile(`(?i)\b(payment|billing|invoice|checkout|stripe|refund)\b`),
		regexp.MustCompile(`(?i)\b(price|amount|currency)\b`),
	},
	"cancellation": {
		regexp.MustCompile(`(?i)\b(cancel|cancellation|abort|terminate)\b`),
	},
	"timers": {
		regexp.MustCompile(`setTimeout\(|setInterval\(|debounceTime\(`),
		regexp.MustCompile(`(?i)\bcountdown\b`),
	},
	"async-flows": {
		regexp.MustCompile(`\basync\s|\bawait\s|new Promise\(`),
		regexp.MustCompile(`Observable|\.subscribe\(|\.then\(`),
	},
	"authentication": {
		regexp.MustCompile(`(?i)\b(auth|login|logout|token|session|jwt)\b`),
	},
	"data-mutation": {
		regexp.MustCompile(`\.(save|update|delete|create|remove)\(`),
		regexp.MustCompile(`(?i)\bmutation\b`),
	},
	"external-api": {
		regexp.MustCompile(`fetch\(|axios\.|HttpClient|http\.(get|post|put|delete)\(`),
	},
	"user-data": {
		regexp.MustCompile(`(?i)\b(profile|email|address|phone|personal)\b`),
	},
}

// ClassifyRiskDomains returns the sorted set of risk domains whose patterns
// match anywhere in the given content.
func ClassifyRiskDomains(content string) []string {
	if content == "" {
		return nil
	}

	var domains []string
	for domain, patterns := range riskCatalog {
		for _, p := range patterns {
			if p.MatchString(content) {
				domains = append(domains, domain)
				break
			}
		}
	}

	sort.Strings(domains)
	return domains
}
