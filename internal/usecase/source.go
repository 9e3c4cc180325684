package usecase

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateSourceURL checks that raw is an absolute http(s) URL. When
// allowedHosts is non-empty the host (or one of its parent domains) must
// be listed.
func ValidateSourceURL(raw string, allowedHosts []string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("source url is empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid source url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("invalid source url %q: absolute URL with host is required", raw)
	}
	if u.User != nil {
		return fmt.Errorf("invalid source url %q: userinfo is not allowed", raw)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("invalid source url %q: http or https is required", raw)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("invalid source url %q: host is required", raw)
	}

	allowed := normalizeAllowedHosts(allowedHosts)
	if len(allowed) == 0 {
		return nil
	}
	for h := host; h != ""; h = parentDomain(h) {
		if _, ok := allowed[h]; ok {
			return nil
		}
	}
	return fmt.Errorf("invalid source url %q: host %q is not allowed", raw, host)
}

func normalizeAllowedHosts(allowedHosts []string) map[string]struct{} {
	out := make(map[string]struct{}, len(allowedHosts))
	for _, h := range allowedHosts {
		v := strings.ToLower(strings.TrimSpace(h))
		v = strings.TrimPrefix(v, "http://")
		v = strings.TrimPrefix(v, "https://")
		v = strings.Trim(v, "/")
		if v == "" {
			continue
		}
		if i := strings.Index(v, ":"); i >= 0 {
			v = v[:i]
		}
		out[v] = struct{}{}
	}
	return out
}

func parentDomain(host string) string {
	i := strings.Index(host, ".")
	if i < 0 {
		return ""
	}
	return host[i+1:]
}
