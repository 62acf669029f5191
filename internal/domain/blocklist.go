package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

var sitePrefix = regexp.MustCompile(`^(https?://)?(www\.)?`)

// NormalizeSite turns user input such as "https://www.Example.com/" into the
// stored blocklist form "example.com".
func NormalizeSite(raw string) string {
	site := strings.ToLower(strings.TrimSpace(raw))
	site = sitePrefix.ReplaceAllString(site, "")
	site = strings.TrimSuffix(site, "/")
	return toASCII(site)
}

// NormalizeHost lower-cases a hostname and strips a leading "www.".
func NormalizeHost(host string) string {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	host = strings.TrimPrefix(host, "www.")
	return toASCII(host)
}

// HostFromURL extracts the normalized hostname of a navigation target.
func HostFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", raw, err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("url %q has no host", raw)
	}
	return NormalizeHost(host), nil
}

// toASCII converts internationalized names to punycode. Fragments that are
// not valid domain names are kept as they are.
func toASCII(s string) string {
	if s == "" {
		return s
	}
	ascii, err := idna.Lookup.ToASCII(s)
	if err != nil {
		return s
	}
	return ascii
}

// Blocklist is the ordered list of normalized site fragments.
type Blocklist []string

// Contains reports whether site is present verbatim.
func (b Blocklist) Contains(site string) bool {
	for _, s := range b {
		if s == site {
			return true
		}
	}
	return false
}

// Add normalizes raw and appends it. It returns the new list and the
// normalized site.
func (b Blocklist) Add(raw string) (Blocklist, string, error) {
	site := NormalizeSite(raw)
	if site == "" {
		return b, "", ErrEmptySite
	}
	if b.Contains(site) {
		return b, site, ErrSiteExists
	}
	next := make(Blocklist, 0, len(b)+1)
	next = append(next, b...)
	return append(next, site), site, nil
}

// Remove drops the exact entry site.
func (b Blocklist) Remove(site string) (Blocklist, error) {
	next := make(Blocklist, 0, len(b))
	found := false
	for _, s := range b {
		if s == site {
			found = true
			continue
		}
		next = append(next, s)
	}
	if !found {
		return b, ErrSiteNotFound
	}
	return next, nil
}

// Match returns the first entry that matches host. A host matches when it
// contains the entry or the entry contains it, so "face" blocks
// "facebook.com" and "m.facebook.com" blocks "facebook.com".
func (b Blocklist) Match(host string) (string, bool) {
	if host == "" {
		return "", false
	}
	for _, site := range b {
		if site == "" {
			continue
		}
		if strings.Contains(host, site) || strings.Contains(site, host) {
			return site, true
		}
	}
	return "", false
}
