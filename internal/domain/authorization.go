package domain

import "time"

// Authorization is the gate record for a single client IP. A record is
// created in the pending state when a code is issued and flips to
// authenticated exactly once, when the code is approved from Discord.
// The meaning of ExpiresAt depends on the state: issuance+5m while
// pending, approval+7d once authenticated.
type Authorization struct {
	IP            string
	Code          string
	Authenticated bool
	ExpiresAt     time.Time
}

// ExpiredAt reports whether the record's expiry has passed at now.
func (a Authorization) ExpiredAt(now time.Time) bool {
	return !a.ExpiresAt.After(now)
}

// GrantsAccessAt reports whether the record admits the IP at now.
// Only an unexpired authenticated record grants access.
func (a Authorization) GrantsAccessAt(now time.Time) bool {
	return a.Authenticated && a.ExpiresAt.After(now)
}
