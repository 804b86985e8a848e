package utils

import "regexp"

// Bot detection mirrors the exclusion rule used by the aggregation layer:
// anything matching these patterns is stored but never counted.
var botPattern = regexp.MustCompile(`(?i)(bot|crawl|spider|slurp|curl|wget|python-requests|httpclient|headless|lighthouse|pingdom|uptime|facebookexternalhit|preview)`)

var mobilePattern = regexp.MustCompile(`(?i)(mobile|android|iphone|ipad|ipod|windows phone|opera mini|blackberry)`)

// IsBotUserAgent reports whether a user-agent string looks like crawler or
// monitoring traffic. An empty user agent is treated as a bot.
func IsBotUserAgent(ua string) bool {
	if ua == "" {
		return true
	}
	return botPattern.MatchString(ua)
}

// IsMobileUserAgent reports whether a user-agent string looks like a phone
// or tablet browser.
func IsMobileUserAgent(ua string) bool {
	return mobilePattern.MatchString(ua)
}
