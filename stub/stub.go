// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package stub

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gogama/httpstub/request"
	"github.com/gogama/httpstub/response"
)

// AnyMethod is the method of a stub matching requests of every method.
const AnyMethod = "any"

var errNoResponses = errors.New("httpstub/stub: stub has no responses")

// A Stub describes a set of requests and the responses returned for
// them.
//
// The request side of a Stub must not be modified once it is
// registered.
type Stub struct {
	// Method is the method matched, in any case. Empty or AnyMethod
	// matches every method.
	Method string
	// URI is the pattern matched against the normalized request URI.
	URI string
	// Body, if non-nil, must equal the request body exactly.
	Body []byte
	// Headers, if non-empty, must all be present in the request with
	// equal values. Header names are compared case-insensitively.
	Headers map[string]string
	// Responses is the sequence of responses returned by successive
	// matching requests. Once the sequence is exhausted its last
	// response is repeated.
	Responses []*response.Response

	pattern string
	glob    bool
	served  int
}

func (s *Stub) compile() error {
	if len(s.Responses) == 0 {
		return errNoResponses
	}
	for i, r := range s.Responses {
		if r == nil {
			return fmt.Errorf("httpstub/stub: nil response at index %d", i)
		}
	}

	i := strings.IndexAny(s.URI, globMeta)
	if i < 0 {
		uri, err := request.NormalizeURI(s.URI)
		if err != nil {
			return err
		}
		s.pattern = uri
		s.glob = false
		return nil
	}

	pattern := escapeQuery(normalizePrefix(s.URI[:i]) + s.URI[i:])
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("httpstub/stub: invalid uri pattern %q", s.URI)
	}
	s.pattern = pattern
	s.glob = true
	return nil
}

// globMeta are the characters that make a stub URI a pattern. A "?"
// in a stub URI always starts a query string.
const globMeta = "*[{"

// normalizePrefix normalizes the literal part of a URI pattern up to
// its last "/". The prefix is returned unchanged if that part is not a
// URI with a host.
func normalizePrefix(prefix string) string {
	j := strings.LastIndexByte(prefix, '/')
	if j < 0 {
		return prefix
	}
	uri, err := request.NormalizeURI(prefix[:j+1])
	if err != nil {
		return prefix
	}
	return uri + prefix[j+1:]
}

// escapeQuery escapes every unescaped "?" in pattern so it matches
// only itself.
func escapeQuery(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '\\':
			b.WriteByte(c)
			if i+1 < len(pattern) {
				i++
				b.WriteByte(pattern[i])
			}
		case '?':
			b.WriteString(`\?`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Matches reports whether the stub matches the request described by
// sig. The stub must have been registered in a Table.
func (s *Stub) Matches(sig *request.Signature) bool {
	if s.Method != "" && !strings.EqualFold(s.Method, AnyMethod) &&
		!strings.EqualFold(s.Method, sig.Method) {
		return false
	}

	if s.glob {
		if ok, _ := doublestar.Match(s.pattern, sig.URI); !ok {
			return false
		}
	} else if s.pattern != sig.URI {
		return false
	}

	if s.Body != nil && !bytes.Equal(s.Body, sig.Body) {
		return false
	}

	for name, want := range s.Headers {
		if got, ok := lookup(sig.Header, name); !ok || got != want {
			return false
		}
	}

	return true
}

func (s *Stub) next() *response.Response {
	i := s.served
	if i >= len(s.Responses) {
		i = len(s.Responses) - 1
	} else {
		s.served++
	}
	return s.Responses[i]
}

func lookup(header map[string]string, name string) (string, bool) {
	if v, ok := header[name]; ok {
		return v, true
	}
	for k, v := range header {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
