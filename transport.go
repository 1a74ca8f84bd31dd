// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpstub

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"golang.org/x/net/http/httpguts"
)

var defaultTransport = &HTTPTransport{}

// An HTTPTransport is a Transport which sends requests using an
// HTTPDoer. Its zero value is valid and uses http.DefaultClient.
//
// If the handle does not follow redirects and the HTTPDoer is an
// *http.Client, the client is shallow-copied with a CheckRedirect
// function which stops at the first response. Other HTTPDoer types
// are responsible for their own redirect policy.
type HTTPTransport struct {
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If HTTPDoer is nil, http.DefaultClient from the standard net/http
	// package is used.
	HTTPDoer HTTPDoer
}

// Perform sends the request described by h and buffers the whole
// response. Batch options are ignored.
func (t *HTTPTransport) Perform(h *Handle, _ *BatchOptions) (*Result, error) {
	r, err := toRequest(h)
	if err != nil {
		return nil, err
	}

	resp, err := t.doer(h.FollowLocation).Do(r)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	effectiveURL := r.URL.String()
	if resp.Request != nil && resp.Request.URL != nil {
		effectiveURL = resp.Request.URL.String()
	}

	return &Result{
		Code:         resp.StatusCode,
		HeaderStr:    headerBlob(resp),
		Body:         string(body),
		EffectiveURL: effectiveURL,
	}, nil
}

func (t *HTTPTransport) doer(followLocation bool) HTTPDoer {
	doer := t.HTTPDoer
	if doer == nil {
		doer = http.DefaultClient
	}

	if hc, ok := doer.(*http.Client); ok && !followLocation {
		noFollow := *hc
		noFollow.CheckRedirect = func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		}
		return &noFollow
	}

	return doer
}

func toRequest(h *Handle) (*http.Request, error) {
	method := h.Method()
	var body io.Reader
	switch method {
	case "POST":
		body = bytes.NewReader(h.postBody)
	case "PUT":
		body = bytes.NewReader(h.putData)
	}

	rawURL := h.URL
	if !strings.Contains(rawURL, "://") {
		rawURL = "http://" + rawURL
	}

	r, err := http.NewRequestWithContext(h.Context(), method, rawURL, body)
	if err != nil {
		return nil, err
	}

	for name, value := range h.Headers {
		if !httpguts.ValidHeaderFieldName(name) || !httpguts.ValidHeaderFieldValue(value) {
			return nil, fmt.Errorf("httpstub: invalid request header %q", name)
		}
		r.Header.Set(name, value)
	}

	if h.UserPwd != "" {
		user, password, _ := strings.Cut(h.UserPwd, ":")
		r.SetBasicAuth(user, password)
	} else if h.Username != "" || h.Password != "" {
		r.SetBasicAuth(h.Username, h.Password)
	}

	return r, nil
}

// headerBlob renders a response's status line and headers the way a
// client library reports them: one CRLF-terminated line each, sorted by
// header name, followed by an empty line.
func headerBlob(resp *http.Response) string {
	var b strings.Builder
	b.WriteString(resp.Proto)
	b.WriteByte(' ')
	b.WriteString(resp.Status)
	b.WriteString("\r\n")

	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range resp.Header[name] {
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(value)
			b.WriteString("\r\n")
		}
	}

	b.WriteString("\r\n")
	return b.String()
}
