package backend

import (
	"fmt"
	"net/url"
	"strings"
)

// Instance is one addressable upstream replica of a service.
type Instance struct {
	// Service is the name of the pool the instance belongs to.
	Service string

	// Address is the base URL as configured, without a trailing slash.
	Address string

	base *url.URL
}

// ParseInstance parses a base URL such as "http://10.0.0.5:5001".
func ParseInstance(service, raw string) (Instance, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Instance{}, fmt.Errorf("%w %q: %v", ErrInvalidInstance, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Instance{}, fmt.Errorf("%w %q: must be an absolute http or https URL", ErrInvalidInstance, raw)
	}

	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""

	return Instance{
		Service: service,
		Address: u.String(),
		base:    u,
	}, nil
}

// String returns the instance base URL.
func (i Instance) String() string {
	return i.Address
}

// IsZero reports whether the instance is unset.
func (i Instance) IsZero() bool {
	return i.base == nil
}

// URL returns the absolute URL for resourcePath on this instance, with
// rawQuery appended when non-empty. resourcePath is in escaped form and
// must start with "/"; its escapes are kept as given.
func (i Instance) URL(resourcePath, rawQuery string) string {
	if i.base == nil {
		return ""
	}
	u := *i.base
	u.RawQuery = rawQuery

	decoded, err := url.PathUnescape(resourcePath)
	if err != nil {
		u.Path = i.base.Path + resourcePath
		u.RawPath = ""
		return u.String()
	}
	u.Path = i.base.Path + decoded
	u.RawPath = i.base.EscapedPath() + resourcePath
	return u.String()
}

// key identifies the instance across pools.
func (i Instance) key() string {
	return i.Service + "|" + i.Address
}
