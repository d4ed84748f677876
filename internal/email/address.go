package email

import "strings"

// FromAddress derives the sender address from the authenticated username:
// the local part is the username and the domain is fixed by configuration.
// A username that already carries a domain is returned unchanged.
func FromAddress(username, domain string) string {
	username = strings.TrimSpace(username)
	domain = strings.TrimPrefix(strings.TrimSpace(domain), "@")
	if domain == "" || strings.Contains(username, "@") {
		return username
	}
	return username + "@" + domain
}
