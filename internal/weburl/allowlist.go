package weburl

import (
	"net/url"
	"strings"
)

const wildcardPrefix = "*."

// Pattern is one allowlist entry. A wildcard pattern permits strict
// subdomains of Domain; a plain pattern permits Domain only.
type Pattern struct {
	Domain   string
	Wildcard bool
}

func (p Pattern) String() string {
	if p.Wildcard {
		return wildcardPrefix + p.Domain
	}

	return p.Domain
}

// Matches reports whether host is permitted by p.
func (p Pattern) Matches(host string) bool {
	if host == p.Domain && !p.Wildcard {
		return true
	}

	return p.Wildcard && strings.HasSuffix(host, "."+p.Domain)
}

// AllowList is the ordered set of target domains this server verifies and
// serves mentions for. It is built once from configuration and never mutated.
type AllowList struct {
	patterns []Pattern
}

// NewAllowList builds an allowlist from patterns such as "example.com" or
// "*.example.com". Blank entries are skipped.
func NewAllowList(patterns ...string) AllowList {
	out := make([]Pattern, 0, len(patterns))
	for _, raw := range patterns {
		raw = strings.ToLower(strings.TrimSpace(raw))
		if raw == "" {
			continue
		}

		p := Pattern{Domain: raw}
		if strings.HasPrefix(raw, wildcardPrefix) {
			p = Pattern{Domain: strings.TrimPrefix(raw, wildcardPrefix), Wildcard: true}
		}
		if p.Domain == "" {
			continue
		}
		out = append(out, p)
	}

	return AllowList{patterns: out}
}

// ParseAllowList reads the pipe-delimited form used in configuration, e.g.
// "example.com|*.example.org".
func ParseAllowList(s string) AllowList {
	return NewAllowList(strings.Split(s, "|")...)
}

// Patterns returns a copy of the configured patterns.
func (a AllowList) Patterns() []Pattern {
	return append([]Pattern(nil), a.patterns...)
}

// Len returns the number of patterns.
func (a AllowList) Len() int { return len(a.patterns) }

// Allows reports whether host (optionally with a port) is permitted. An empty
// allowlist permits nothing.
func (a AllowList) Allows(host string) bool {
	host = strings.ToLower((&url.URL{Host: host}).Hostname())
	if host == "" {
		return false
	}

	for _, p := range a.patterns {
		if p.Matches(host) {
			return true
		}
	}

	return false
}

// AllowsURL reports whether the host of u is permitted.
func (a AllowList) AllowsURL(u *url.URL) bool {
	return u != nil && a.Allows(u.Hostname())
}
