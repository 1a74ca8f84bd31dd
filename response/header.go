// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package response

import (
	"regexp"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// A Field is one named response header. A Field usually has a single
// value, but has several values when the same header name is repeated.
type Field struct {
	Name   string
	Values []string
}

// Value returns the field's values joined by ", ".
func (f Field) Value() string {
	return strings.Join(f.Values, ", ")
}

// A Header is an ordered list of response header fields. Unlike
// http.Header, names are kept exactly as given and the order of fields
// is significant.
type Header []Field

// NewHeader builds a header from alternating name and value arguments.
// It panics if given an odd number of arguments.
func NewHeader(nameValues ...string) Header {
	if len(nameValues)%2 != 0 {
		panic("httpstub/response: odd number of header arguments")
	}
	var h Header
	for i := 0; i < len(nameValues); i += 2 {
		h.Add(nameValues[i], nameValues[i+1])
	}
	return h
}

// Add appends value to the field named exactly name, or appends a new
// field if there is none. Adding a value to an existing field turns a
// single-valued field into a multi-valued one.
func (h *Header) Add(name, value string) {
	for i := range *h {
		if (*h)[i].Name == name {
			(*h)[i].Values = append((*h)[i].Values, value)
			return
		}
	}
	*h = append(*h, Field{Name: name, Values: []string{value}})
}

// Lookup returns the value of the first field whose name matches name
// case-insensitively, with multiple values joined by ", ". The boolean
// result reports whether such a field exists.
func (h Header) Lookup(name string) (string, bool) {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return f.Value(), true
		}
	}
	return "", false
}

// Get is like Lookup but returns only the value.
func (h Header) Get(name string) string {
	v, _ := h.Lookup(name)
	return v
}

var statusLine = regexp.MustCompile(`^HTTP/\d(?:\.\d)? \d\d\d(?: (.*))?$`)

// ParseHeaderString parses a raw header blob, as reported by a client
// library after a transfer, into a status text and an ordered header.
//
// The blob is split on CRLF. The first status line of the form
// "HTTP/1.1 200 OK" provides the status text. Every other line of the
// form "Name: Value" is added to the header, with surrounding
// whitespace trimmed from the value; repeated names accumulate values.
// Lines which are neither, including blank lines and lines whose name
// is not a valid header token, are skipped.
func ParseHeaderString(s string) (statusText string, h Header) {
	seenStatus := false
	for _, line := range strings.Split(s, "\r\n") {
		if m := statusLine.FindStringSubmatch(line); m != nil {
			if !seenStatus {
				statusText = m[1]
				seenStatus = true
			}
			continue
		}
		i := strings.IndexByte(line, ':')
		if i < 0 {
			continue
		}
		name := line[:i]
		if !httpguts.ValidHeaderFieldName(name) {
			continue
		}
		h.Add(name, strings.TrimSpace(line[i+1:]))
	}
	return
}
