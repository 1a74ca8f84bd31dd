// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpstub

import (
	"strings"

	"github.com/gogama/httpstub/response"
)

// A snapshot holds the client-visible results of one transfer.
type snapshot struct {
	code         int
	headerStr    string
	body         string
	contentType  string
	effectiveURL string
}

func newSnapshot(s *response.Synthesized, effectiveURL string) *snapshot {
	return &snapshot{
		code:         s.Code,
		headerStr:    s.HeaderStr,
		body:         s.Body,
		contentType:  s.ContentType,
		effectiveURL: effectiveURL,
	}
}

// dispatch invokes h's registered callbacks for the response s, in the
// order given by Callbacks. The redirect callback is never invoked.
func (h *Handle) dispatch(s *response.Synthesized) {
	cb := &h.cb

	if cb.progress != nil {
		cb.progress(0, 1, 0, 1)
	}

	if cb.header != nil {
		for _, line := range headerLines(s.HeaderStr) {
			cb.header(line)
		}
	}

	if cb.body != nil {
		if s.Chunked() {
			for _, chunk := range s.Chunks {
				cb.body(chunk)
			}
		} else {
			cb.body(s.Body)
		}
	}

	if cb.complete != nil {
		cb.complete(h)
	}

	switch {
	case s.Code >= 200 && s.Code <= 299:
		if cb.success != nil {
			cb.success(h)
		}
	case s.Code >= 400 && s.Code <= 499:
		if cb.missing != nil {
			cb.missing(h, s.Code)
		}
	case s.Code >= 500 && s.Code <= 599:
		if cb.failure != nil {
			cb.failure(h, s.Code)
		}
	}
}

// headerLines splits a header blob into physical lines, each keeping
// its line terminator. A final line without a terminator is kept; an
// empty blob has no lines.
func headerLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if n := len(lines); lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
