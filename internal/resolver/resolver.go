// Package resolver provides reverse-DNS resolution with optional
// canonicalization of well-known crawler hostnames. Results go through
// an explicit Cache handed in by the caller, so independent resolvers
// never share hidden global state.
package resolver

import (
	"context"
	"net"
	"regexp"
	"strings"
	"time"
)

// Cache stores resolved names by IP address.
type Cache interface {
	// Get returns the cached name for ip, if any.
	Get(ip string) (string, bool)
	// Put records the resolved name for ip.
	Put(ip, name string)
	// IPs returns every cached IP that resolved to name.
	IPs(name string) []string
}

// crawlerPatterns maps a canonical crawler name to patterns matching
// its reverse-DNS hostnames. Smart resolution collapses matching hosts
// (e.g. crawl-66-249-68-33.googlebot.com) to the short name.
var crawlerPatterns = map[string]*regexp.Regexp{
	"googlebot":   regexp.MustCompile(`.*googlebot.*`),
	"yandex":      regexp.MustCompile(`.*yandex.*`),
	"baiduspider": regexp.MustCompile(`.*baiduspider.*`),
	"msnbot":      regexp.MustCompile(`.*msnbot.*`),
	"feedburner":  regexp.MustCompile(`.*rate-limited-proxy-.*\.google\.com.*`),
}

// LookupFunc performs one reverse lookup. It matches the signature of
// net.Resolver.LookupAddr.
type LookupFunc func(ctx context.Context, addr string) ([]string, error)

// Resolver resolves IP addresses to names through a Cache.
type Resolver struct {
	cache   Cache
	smart   bool
	timeout time.Duration
	lookup  LookupFunc
}

// New creates a Resolver backed by the given cache. With smart enabled,
// hostnames of known crawlers are collapsed to a canonical short name
// so multi-IP bots aggregate under one label. A non-positive timeout
// defaults to 5 seconds per lookup.
func New(cache Cache, smart bool, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Resolver{
		cache:   cache,
		smart:   smart,
		timeout: timeout,
		lookup:  net.DefaultResolver.LookupAddr,
	}
}

// Resolve returns the name for ip, consulting the cache first. Lookup
// failures are not errors: the IP itself is cached and returned, so a
// flaky DNS server cannot stall repeated processing of the same IP.
func (r *Resolver) Resolve(ctx context.Context, ip string) string {
	if name, ok := r.cache.Get(ip); ok {
		return name
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	name := ip
	if names, err := r.lookup(ctx, ip); err == nil && len(names) > 0 {
		name = strings.TrimSuffix(names[0], ".")
	}
	if r.smart {
		name = canonical(name)
	}

	r.cache.Put(ip, name)
	return name
}

// IPs returns the set of cached IP addresses that resolved to name.
// Useful after smart resolution to list the raw IPs behind a crawler.
func (r *Resolver) IPs(name string) []string {
	return r.cache.IPs(name)
}

func canonical(host string) string {
	for name, pattern := range crawlerPatterns {
		if pattern.MatchString(host) {
			return name
		}
	}
	return host
}
