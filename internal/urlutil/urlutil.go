// Package urlutil contains URL helpers shared by the analyzers and the
// web layer: normalization, validation, domain extraction, and
// internal/external link classification.
package urlutil

import (
	"errors"
	"net/url"
	"strings"

	"github.com/asaskevich/govalidator"
	"golang.org/x/net/publicsuffix"
)

// ErrInvalidURL is returned when a URL fails validation.
var ErrInvalidURL = errors.New("invalid URL: must be an absolute http or https URL")

// Normalize prepares a user-supplied URL for analysis. A missing scheme
// defaults to https, and a trailing slash on the path is dropped so that
// https://example.com/ and https://example.com produce the same report.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	return strings.TrimSuffix(raw, "/")
}

// Validate reports whether raw is an absolute http(s) URL. It is applied
// after Normalize, so a bare domain like "example.com" passes.
func Validate(raw string) error {
	if raw == "" {
		return ErrInvalidURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidURL
	}
	if u.Host == "" || !govalidator.IsURL(raw) {
		return ErrInvalidURL
	}
	return nil
}

// Domain extracts the registrable domain (eTLD+1) from a URL, e.g.
// "https://blog.example.co.uk/post" -> "example.co.uk". Hosts without a
// public suffix (localhost, IPs) are returned as-is.
func Domain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if host == "" {
		return ""
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}

// Absolute resolves href against base, returning "" for unparseable or
// non-http(s) results (mailto:, javascript:, fragments).
func Absolute(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	abs.Fragment = ""
	return abs.String()
}

// IsInternal reports whether link belongs to the same registrable domain
// as the page under analysis.
func IsInternal(link, domain string) bool {
	if domain == "" {
		return false
	}
	return Domain(link) == domain
}
