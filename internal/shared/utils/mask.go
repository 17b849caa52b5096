package utils

import "strings"

// MaskEmail hides the local part of an email for logging, keeping the first
// character and the domain: "reader@example.com" becomes "r***@example.com".
func MaskEmail(email string) string {
	local, domain, found := strings.Cut(email, "@")
	if !found {
		return "***"
	}
	if len(local) <= 1 {
		return local + "***@" + domain
	}
	return local[:1] + "***@" + domain
}
