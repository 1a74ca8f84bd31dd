// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpstub

import (
	"net/http"

	"github.com/gogama/httpstub/request"
	"github.com/gogama/httpstub/response"
)

// A Registry is the stub registry consulted for every intercepted
// request.
//
// ResponseFor returns the response to replay for the request described
// by sig, or nil if no stub matches. How a stub is matched against a
// signature is entirely up to the Registry. Package stub provides an
// implementation.
//
// Implementations of Registry must be safe for concurrent use by
// multiple goroutines if handles are performed concurrently.
type Registry interface {
	ResponseFor(sig *request.Signature) *response.Response
}

// A Recorder is notified of the signature of every intercepted request
// before the Registry is consulted, whether or not a stub matches.
// Package stub provides an implementation, stub.Journal.
type Recorder interface {
	Record(sig *request.Signature)
}

// A Transport performs a request for real, over the network.
//
// Perform sends the request described by h (its URL, method, headers,
// body, credentials, and follow-location flag) and returns the results
// of the completed transfer. It must not invoke h's callbacks: the
// interception engine replays the results through them exactly as it
// does for a stub response.
//
// When h is performed as part of a Batch, opts points to the batch
// options; otherwise it is nil. A Transport may use or ignore them.
type Transport interface {
	Perform(h *Handle, opts *BatchOptions) (*Result, error)
}

// A Result holds the raw results of a real transfer.
type Result struct {
	// Code is the response status code.
	Code int
	// HeaderStr is the raw header blob: the status line followed by
	// one line per header, each terminated by CRLF.
	HeaderStr string
	// Body is the complete response body.
	Body string
	// EffectiveURL is the URL of the last request made, after any
	// redirects followed by the transport.
	EffectiveURL string
}

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// Easy is the capability set of a callback-driven HTTP request handle:
// verb entry points, callback registration, and accessors for the
// results of the last transfer. Handle implements Easy.
type Easy interface {
	Get() error
	Head() error
	Delete() error
	Put(data interface{}) error
	Post(data ...string) error
	HTTP(method string) error
	Perform() error

	OnProgress(f ProgressFunc) *Handle
	OnHeader(f HeaderFunc) *Handle
	OnBody(f BodyFunc) *Handle
	OnComplete(f HandleFunc) *Handle
	OnSuccess(f HandleFunc) *Handle
	OnFailure(f StatusFunc) *Handle
	OnMissing(f StatusFunc) *Handle
	OnRedirect(f StatusFunc) *Handle

	BodyStr() string
	ResponseCode() int
	HeaderStr() string
	LastEffectiveURL() string
	ContentType() string
}

var _ Easy = (*Handle)(nil)
