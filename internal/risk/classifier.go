// Package risk maps metadata field names to the kind of sensitive
// information they can expose
package risk

import "strings"

// Risk descriptions shown in the OSINT Risk column
const (
	Location  = "Could reveal location"
	Timestamp = "Reveals timestamp"
	Device    = "Device fingerprint"
	Software  = "Reveals software used"
	Low       = "Low"
	High      = "High"

	// UserActivity is used for the image capture time, which is more
	// specific than a generic timestamp
	UserActivity = "Reveals user activity timestamp"
)

// rule matches when the lower-cased field name contains any of its
// substrings. Rules are evaluated in order and the first match wins
type rule struct {
	substrings  []string
	description string
}

var rules = []rule{
	{substrings: []string{"gps", "location"}, description: Location},
	{substrings: []string{"date", "time", "timestamp"}, description: Timestamp},
	{substrings: []string{"make", "model", "camera", "device"}, description: Device},
	{substrings: []string{"software", "producer"}, description: Software},
}

// Classify returns the risk description for a metadata field name
func Classify(field string) string {
	name := strings.ToLower(field)
	for _, r := range rules {
		if ContainsAny(name, r.substrings...) {
			return r.description
		}
	}
	return Low
}

// ContainsAny reports whether s contains at least one of substrings
func ContainsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
