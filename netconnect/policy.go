// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package netconnect

import (
	"net"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// A Policy decides whether a request to the given URL may be sent
// over the real network when no stub matches it.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
//
// Use the built-in policies Always, Never, and Localhost, and the
// constructor Hosts; or implement your own Policy. Use PolicyFunc to
// convert an ordinary function into a Policy, and to compose policies
// logically using PolicyFunc.And, PolicyFunc.Or, and PolicyFunc.Not.
type Policy interface {
	Allow(u *url.URL) bool
}

// The PolicyFunc type is an adapter to allow the use of ordinary
// functions as net-connect policies. It implements the Policy
// interface, and also provides the logical composition methods And,
// Or, and Not.
type PolicyFunc func(u *url.URL) bool

// Always is a policy which allows every request onto the network.
var Always PolicyFunc = func(_ *url.URL) bool { return true }

// Never is a policy which keeps every request off the network.
var Never PolicyFunc = func(_ *url.URL) bool { return false }

// Localhost is a policy allowing requests to the loopback interface:
// the host name "localhost" and any loopback IP address.
var Localhost PolicyFunc = localhost

// DefaultPolicy is the policy used when none is configured.
var DefaultPolicy Policy = Never

// Allow returns true if the request to u may use the real network.
func (f PolicyFunc) Allow(u *url.URL) bool {
	return f(u)
}

// And composes two policies into a new policy which allows a request
// only if both sub-policies allow it.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// false.
func (f PolicyFunc) And(g PolicyFunc) PolicyFunc {
	return func(u *url.URL) bool {
		return f(u) && g(u)
	}
}

// Or composes two policies into a new policy which allows a request if
// either sub-policy allows it.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// true.
func (f PolicyFunc) Or(g PolicyFunc) PolicyFunc {
	return func(u *url.URL) bool {
		return f(u) || g(u)
	}
}

// Not returns a policy which allows exactly the requests f rejects.
func (f PolicyFunc) Not() PolicyFunc {
	return func(u *url.URL) bool {
		return !f(u)
	}
}

// Hosts constructs a policy allowing requests whose host, or whose
// host and port, match one of the given glob patterns. Patterns use
// doublestar syntax, so "*.example.com" matches "api.example.com" and
// "example.com:*" matches the host on any explicit port. Matching is
// case-insensitive.
//
// Hosts panics if a pattern is malformed.
func Hosts(patterns ...string) PolicyFunc {
	ps := make([]string, len(patterns))
	for i, p := range patterns {
		p = strings.ToLower(p)
		if !doublestar.ValidatePattern(p) {
			panic("httpstub/netconnect: bad host pattern " + p)
		}
		ps[i] = p
	}
	return func(u *url.URL) bool {
		if u == nil {
			return false
		}
		host := strings.ToLower(u.Hostname())
		hostport := strings.ToLower(u.Host)
		for _, p := range ps {
			if match(p, host) || match(p, hostport) {
				return true
			}
		}
		return false
	}
}

func match(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

func localhost(u *url.URL) bool {
	if u == nil {
		return false
	}
	host := u.Hostname()
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
