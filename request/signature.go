// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/http/httpguts"
	"golang.org/x/net/idna"
)

// A Source is a snapshot of the request-describing fields of an
// in-flight request handle. NewSignature reads a Source but never
// retains or modifies any of its reference-typed fields.
type Source struct {
	// Method is the HTTP method in any case. An empty string means GET.
	Method string
	// URL is the raw request URL as configured on the handle. A URL
	// without a scheme is taken to be an http URL.
	URL string
	// Header contains the request headers, keyed by name exactly as
	// supplied by the caller.
	Header map[string]string
	// PostBody is the body sent with a POST. It is ignored for every
	// other method.
	PostBody []byte
	// PutData is the body sent with a PUT. It is ignored for every
	// other method.
	PutData []byte
	// UserPwd holds combined "user:password" credentials. If non-empty
	// it takes priority over Username and Password.
	UserPwd string
	// Username and Password hold separate credentials.
	Username string
	Password string
}

// A Signature is the canonical description of a request, used as the
// lookup key into a stub registry.
//
// A Signature is immutable once built by NewSignature. Callers must not
// modify its fields, including the contents of Body, Header, and URL.
type Signature struct {
	// Method is the lower-cased HTTP method, for example "get".
	Method string
	// URI is the normalized request URI, including any credentials as
	// user information.
	URI string
	// URL is the parsed form of URI.
	URL *url.URL
	// Body is the request body. It is nil unless Method is "post" or
	// "put".
	Body []byte
	// Header contains the request headers, with the case of each name
	// preserved as supplied.
	Header map[string]string
}

// NewSignature builds a request signature from a request handle
// snapshot.
//
// The method is lower-cased; the URL is parsed and normalized (see
// NormalizeURI); credentials are taken from src.UserPwd if it is set
// and otherwise from src.Username and src.Password; the body is taken
// from src.PostBody for POST, from src.PutData for PUT, and is absent
// for every other method.
//
// NewSignature fails with a *URLError if the URL cannot be parsed, and
// with a plain error if the method is not a valid HTTP token.
func NewSignature(src Source) (*Signature, error) {
	method := src.Method
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("httpstub/request: invalid method %q", method)
	}
	method = strings.ToLower(method)

	u, err := parseURI(src.URL)
	if err != nil {
		return nil, err
	}
	if src.UserPwd != "" {
		parts := strings.SplitN(src.UserPwd, ":", 2)
		if len(parts) == 2 {
			u.User = url.UserPassword(parts[0], parts[1])
		} else {
			u.User = url.User(parts[0])
		}
	} else if src.Username != "" || src.Password != "" {
		u.User = url.UserPassword(src.Username, src.Password)
	}

	var body []byte
	switch method {
	case "post":
		body = copyBytes(src.PostBody)
	case "put":
		body = copyBytes(src.PutData)
	}

	var header map[string]string
	if len(src.Header) > 0 {
		header = make(map[string]string, len(src.Header))
		for k, v := range src.Header {
			header[k] = v
		}
	}

	return &Signature{
		Method: method,
		URI:    u.String(),
		URL:    u,
		Body:   body,
		Header: header,
	}, nil
}

// Equal reports whether s and t describe the same request: same
// method, URI, body (absent and present bodies differ), and headers.
func (s *Signature) Equal(t *Signature) bool {
	if s == t {
		return true
	}
	if s == nil || t == nil {
		return false
	}
	if s.Method != t.Method || s.URI != t.URI {
		return false
	}
	if (s.Body == nil) != (t.Body == nil) || !bytes.Equal(s.Body, t.Body) {
		return false
	}
	if len(s.Header) != len(t.Header) {
		return false
	}
	for k, v := range s.Header {
		if w, ok := t.Header[k]; !ok || v != w {
			return false
		}
	}
	return true
}

// String returns a human-readable description of the signature, for
// example:
//
//	GET http://example.com/ with body 'a=b' with headers {'Accept'=>'*/*'}
//
// Headers are listed in name order.
func (s *Signature) String() string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(s.Method))
	b.WriteByte(' ')
	b.WriteString(s.URI)
	if s.Body != nil {
		b.WriteString(" with body '")
		b.Write(s.Body)
		b.WriteByte('\'')
	}
	if len(s.Header) > 0 {
		names := make([]string, 0, len(s.Header))
		for k := range s.Header {
			names = append(names, k)
		}
		sort.Strings(names)
		b.WriteString(" with headers {")
		for i, k := range names {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "'%s'=>'%s'", k, s.Header[k])
		}
		b.WriteByte('}')
	}
	return b.String()
}

// NormalizeURI heuristically parses raw and returns its normalized
// string form, as used in the URI field of a Signature.
//
// Normalization adds an http scheme if none is present, lower-cases
// the scheme and host, converts an internationalized host to its ASCII
// form, removes an empty or default port, replaces an empty path with
// "/", and collapses runs of "/" within the path.
func NormalizeURI(raw string) (string, error) {
	u, err := parseURI(raw)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func parseURI(raw string) (*url.URL, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, &URLError{URL: raw, Err: errEmptyURL}
	}
	if !strings.Contains(s, "://") {
		s = "http://" + strings.TrimPrefix(s, "//")
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, &URLError{URL: raw, Err: err}
	}
	if u.Host == "" {
		return nil, &URLError{URL: raw, Err: errNoHost}
	}
	u.Scheme = strings.ToLower(u.Scheme)
	host, port := splitHostPort(removeEmptyPort(u.Host))
	host = strings.ToLower(host)
	if !isASCII(host) {
		host, err = idna.Lookup.ToASCII(host)
		if err != nil {
			return nil, &URLError{URL: raw, Err: err}
		}
	}
	if port != "" && port != defaultPort(u.Scheme) {
		host += ":" + port
	}
	u.Host = host
	u.Path = collapseSlashes(u.Path)
	if u.RawPath != "" {
		u.RawPath = collapseSlashes(u.RawPath)
	}
	if u.Path == "" {
		u.Path = "/"
		u.RawPath = ""
	}
	return u, nil
}

func splitHostPort(hostport string) (host, port string) {
	if !hasPort(hostport) {
		return hostport, ""
	}
	i := strings.LastIndex(hostport, ":")
	return hostport[:i], hostport[i+1:]
}

func defaultPort(scheme string) string {
	switch scheme {
	case "http":
		return "80"
	case "https":
		return "443"
	default:
		return ""
	}
}

func collapseSlashes(path string) string {
	if !strings.Contains(path, "//") {
		return path
	}
	var b strings.Builder
	b.Grow(len(path))
	for i := 0; i < len(path); i++ {
		if path[i] == '/' && i > 0 && path[i-1] == '/' {
			continue
		}
		b.WriteByte(path[i])
	}
	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

// validMethod reports whether method is a valid HTTP token, which is
// the same grammar as a header field name.
func validMethod(method string) bool {
	return httpguts.ValidHeaderFieldName(method)
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
