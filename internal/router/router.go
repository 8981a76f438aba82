package router

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/vyrodovalexey/poolgw/internal/config"
)

// Route is a compiled service route.
type Route struct {
	// Service is the name of the pool the route dispatches to.
	Service string

	// Title is the human readable service name.
	Title string

	// Prefix is the matched URL prefix.
	Prefix string

	// Base replaces Prefix in the upstream resource path.
	Base string

	methods map[string]bool
	allow   string
}

// Allows reports whether the route accepts method.
func (r *Route) Allows(method string) bool {
	return r.methods[method]
}

// Allow returns the value for the Allow header.
func (r *Route) Allow() string {
	return r.allow
}

// ResourcePath returns the upstream path for a request path that
// matched this route.
func (r *Route) ResourcePath(path string) string {
	return resourcePath(r.Prefix, r.Base, path)
}

func resourcePath(prefix, base, path string) string {
	rest := path
	if prefix != "/" {
		rest = strings.TrimPrefix(path, prefix)
	}
	resource := base + rest
	if resource == "" {
		return "/"
	}
	if !strings.HasPrefix(resource, "/") {
		resource = "/" + resource
	}
	return resource
}

func escapePath(p string) string {
	return (&url.URL{Path: p}).EscapedPath()
}

// MatchResult contains the result of a route match.
type MatchResult struct {
	Route        *Route
	ResourcePath string
}

// Router is the prefix routing table. A Router is immutable once built.
type Router struct {
	routes    []*Route
	byService map[string]*Route
}

// New compiles routes for the given services. stripPrefix is removed
// from a service prefix to form its default rewrite base.
func New(services []config.ServiceConfig, stripPrefix string) (*Router, error) {
	r := &Router{
		routes:    make([]*Route, 0, len(services)),
		byService: make(map[string]*Route, len(services)),
	}

	prefixes := make(map[string]string, len(services))
	for _, svc := range services {
		route, err := compileRoute(svc, stripPrefix)
		if err != nil {
			return nil, err
		}
		if owner, exists := prefixes[route.Prefix]; exists {
			return nil, fmt.Errorf("prefix %s of service %s already used by service %s",
				route.Prefix, svc.Name, owner)
		}
		if _, exists := r.byService[svc.Name]; exists {
			return nil, fmt.Errorf("duplicate service: %s", svc.Name)
		}
		prefixes[route.Prefix] = svc.Name
		r.byService[svc.Name] = route
		r.routes = append(r.routes, route)
	}

	// Longest prefix first so nested prefixes win over their parents.
	sort.SliceStable(r.routes, func(i, j int) bool {
		return len(r.routes[i].Prefix) > len(r.routes[j].Prefix)
	})

	return r, nil
}

func compileRoute(svc config.ServiceConfig, stripPrefix string) (*Route, error) {
	prefix := svc.Prefix
	if prefix == "" || !strings.HasPrefix(prefix, "/") {
		return nil, fmt.Errorf("service %s: prefix must start with '/'", svc.Name)
	}
	if prefix != "/" {
		prefix = strings.TrimRight(prefix, "/")
	}

	base := svc.Rewrite
	if base == "" {
		base = defaultBase(prefix, stripPrefix)
	}
	base = strings.TrimRight(base, "/")

	methods := svc.Methods
	if len(methods) == 0 {
		methods = config.DefaultMethods
	}
	set := make(map[string]bool, len(methods)+1)
	allowed := make([]string, 0, len(methods)+1)
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" || set[m] {
			continue
		}
		set[m] = true
		allowed = append(allowed, m)
	}
	// OPTIONS is answered by the CORS layer before routing.
	if !set[http.MethodOptions] {
		allowed = append(allowed, http.MethodOptions)
	}

	return &Route{
		Service: svc.Name,
		Title:   svc.Title(),
		Prefix:  prefix,
		Base:    base,
		methods: set,
		allow:   strings.Join(allowed, ", "),
	}, nil
}

func defaultBase(prefix, stripPrefix string) string {
	stripPrefix = strings.TrimRight(stripPrefix, "/")
	if stripPrefix == "" {
		return prefix
	}
	if prefix == stripPrefix {
		return ""
	}
	if strings.HasPrefix(prefix, stripPrefix+"/") {
		return prefix[len(stripPrefix):]
	}
	return prefix
}

// Match returns the route for path, if any.
func (r *Router) Match(path string) (*MatchResult, bool) {
	for _, route := range r.routes {
		if matchesPrefix(path, route.Prefix) {
			return &MatchResult{
				Route:        route,
				ResourcePath: route.ResourcePath(path),
			}, true
		}
	}
	return nil, false
}

// MatchURL routes u by its decoded path and returns the resource path in
// escaped form, so that encoded characters such as %2F reach the
// upstream unchanged.
func (r *Router) MatchURL(u *url.URL) (*MatchResult, bool) {
	match, ok := r.Match(u.Path)
	if !ok {
		return nil, false
	}

	route := match.Route
	escaped := u.EscapedPath()
	prefix := escapePath(route.Prefix)
	if matchesPrefix(escaped, prefix) {
		match.ResourcePath = resourcePath(prefix, escapePath(route.Base), escaped)
	} else {
		// The client encoded the prefix itself differently.
		match.ResourcePath = escapePath(match.ResourcePath)
	}
	return match, true
}

func matchesPrefix(path, prefix string) bool {
	if prefix == "/" {
		return strings.HasPrefix(path, "/")
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// Route returns the route for the named service.
func (r *Router) Route(service string) (*Route, bool) {
	route, ok := r.byService[service]
	return route, ok
}

// Routes returns the routes in match order.
func (r *Router) Routes() []*Route {
	out := make([]*Route, len(r.routes))
	copy(out, r.routes)
	return out
}
