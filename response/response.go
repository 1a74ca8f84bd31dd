// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package response

import (
	"errors"
	"strconv"
	"strings"
)

// ErrTimeout is returned by Synthesize when the response is configured
// to simulate a timeout.
var ErrTimeout = errors.New("httpstub/response: simulated timeout")

// A Response is a programmed HTTP response, as returned by a stub
// registry for a matching request signature.
//
// Responses are consumed read-only by the interception engine, so a
// single Response may safely be returned for many requests.
type Response struct {
	// Status is the numeric status code. Zero means 200.
	Status int
	// StatusText is the reason phrase sent after the status code on the
	// status line. It may be empty.
	StatusText string
	// Header contains the response headers in the order they are sent.
	Header Header
	// Body is the response body. It is ignored if Chunks is non-nil.
	Body string
	// Chunks is the response body as a sequence of parts. When Chunks
	// is non-nil and the response carries "Transfer-Encoding: chunked",
	// body callbacks receive each chunk separately.
	Chunks []string
	// ShouldTimeout directs the interception engine to fail the request
	// with a simulated timeout instead of delivering the response.
	ShouldTimeout bool
	// Err, if non-nil, is raised instead of delivering the response.
	Err error
}

// StatusCode returns the numeric status code, defaulting to 200.
func (r *Response) StatusCode() int {
	if r.Status == 0 {
		return 200
	}
	return r.Status
}

// BodyString returns the whole response body. If the body is chunked,
// the chunks are concatenated.
func (r *Response) BodyString() string {
	if r.Chunks != nil {
		return strings.Join(r.Chunks, "")
	}
	return r.Body
}

// HeaderString returns the raw header blob a client library would
// report for the response: a status line of the form
// "HTTP/1.1 <code> <text>\r\n" followed by one "Name: Value" line per
// header, separated by "\r\n". A header with several values is
// serialized on one line with the values joined by ", ".
func (r *Response) HeaderString() string {
	var b strings.Builder
	b.WriteString("HTTP/1.1 ")
	b.WriteString(strconv.Itoa(r.StatusCode()))
	b.WriteByte(' ')
	b.WriteString(r.StatusText)
	b.WriteString("\r\n")
	for i, f := range r.Header {
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value())
	}
	return b.String()
}

// Synthesized holds the client-visible fields derived from a Response.
type Synthesized struct {
	// Code is the numeric status code.
	Code int
	// HeaderStr is the raw header blob, as returned by HeaderString.
	HeaderStr string
	// ContentType is the value of the Content-Type header, if any.
	ContentType string
	// TransferEncoding is the value of the Transfer-Encoding header,
	// if any.
	TransferEncoding string
	// Location is the value of the Location header, if any.
	Location string
	// Body is the whole response body.
	Body string
	// Chunks holds the body parts of a chunked body, or nil.
	Chunks []string
}

// Chunked reports whether the body should be delivered in parts.
func (s *Synthesized) Chunked() bool {
	return s.TransferEncoding == "chunked" && s.Chunks != nil
}

// Synthesize converts r into the fields a client library exposes
// after a completed transfer.
//
// If r is configured to time out, Synthesize returns ErrTimeout. If r
// carries a terminal error, Synthesize returns that error. In both
// cases the returned Synthesized is nil.
func Synthesize(r *Response) (*Synthesized, error) {
	if r.ShouldTimeout {
		return nil, ErrTimeout
	}
	if r.Err != nil {
		return nil, r.Err
	}
	s := &Synthesized{
		Code:      r.StatusCode(),
		HeaderStr: r.HeaderString(),
		Body:      r.BodyString(),
	}
	s.ContentType, _ = r.Header.Lookup("Content-Type")
	s.TransferEncoding, _ = r.Header.Lookup("Transfer-Encoding")
	s.Location, _ = r.Header.Lookup("Location")
	if r.Chunks != nil {
		s.Chunks = append([]string(nil), r.Chunks...)
	}
	return s, nil
}

// FromHeaderString builds a Response from the raw results of a real
// transfer: its status code, raw header blob, and body. It is used to
// describe real responses to observers.
func FromHeaderString(code int, headerStr, body string) *Response {
	text, h := ParseHeaderString(headerStr)
	return &Response{
		Status:     code,
		StatusText: text,
		Header:     h,
		Body:       body,
	}
}
