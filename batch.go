// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpstub

import (
	"strings"

	"github.com/gogama/httpstub/request"
)

// BatchOptions holds the options of a batch. They are passed to the
// Transport for each handle in the batch which goes over the real
// network.
type BatchOptions struct {
	// Pipeline requests HTTP pipelining.
	Pipeline bool
	// MaxConnects is the maximum number of connections to keep open.
	// Zero means no preference.
	MaxConnects int
}

// A Batch is an ordered group of request handles performed together,
// in the style of a multi-handle client library.
//
// A Batch performs its handles one at a time, in order, on the calling
// goroutine. Each handle still runs all its own callbacks exactly as it
// would if performed alone. A Batch must not be used concurrently by
// multiple goroutines.
type Batch struct {
	// Options holds the batch options.
	Options BatchOptions

	client   *Client
	requests []*Handle
	next     int
	active   bool
}

// Add appends h to the batch and returns b. The same handle may be
// added more than once, and is then performed once per occurrence.
// Add panics if h is nil.
func (b *Batch) Add(h *Handle) *Batch {
	if h == nil {
		panic("httpstub: nil handle")
	}

	b.requests = append(b.requests, h)
	b.active = true
	return b
}

// Remove removes every occurrence of h from the batch and returns b.
// Removing a handle during Perform does not affect which of the other
// handles remain to be performed.
func (b *Batch) Remove(h *Handle) *Batch {
	kept := b.requests[:0]
	for i, r := range b.requests {
		if r != h {
			kept = append(kept, r)
		} else if i < b.next {
			b.next--
		}
	}
	for i := len(kept); i < len(b.requests); i++ {
		b.requests[i] = nil
	}
	b.requests = kept
	return b
}

// Cancel removes every handle from the batch and returns b.
func (b *Batch) Cancel() *Batch {
	b.requests = nil
	b.next = 0
	return b
}

// Requests returns a copy of the batch's handles, in order.
func (b *Batch) Requests() []*Handle {
	return append([]*Handle(nil), b.requests...)
}

// Idle reports whether the batch is idle. A new batch is idle. Adding
// a handle makes it busy, and it stays busy until Perform returns.
func (b *Batch) Idle() bool {
	return !b.active
}

// Perform performs each handle in the batch, in order.
//
// If checkpoint is not nil, it is called before each handle is
// performed and once more after the last, so a batch of K handles
// calls it K+1 times. Handles added during Perform, for example by a
// checkpoint or a callback, are performed in the same run.
//
// Perform stops at the first handle which returns an error and returns
// that error. The batch is idle when Perform returns.
func (b *Batch) Perform(checkpoint func()) error {
	b.active = true
	b.next = 0
	defer func() {
		b.active = false
		b.next = 0
	}()

	logger := b.owner().logger()
	logger.Debug().
		Int("handles", len(b.requests)).
		Msg("httpstub: batch started")

	for b.next < len(b.requests) {
		if checkpoint != nil {
			checkpoint()
		}
		if b.next >= len(b.requests) {
			break
		}
		h := b.requests[b.next]
		b.next++
		if err := b.perform(h); err != nil {
			logger.Debug().
				Int("handles", len(b.requests)).
				Err(err).
				Msg("httpstub: batch stopped")
			return err
		}
	}

	if checkpoint != nil {
		checkpoint()
	}

	logger.Debug().
		Int("handles", len(b.requests)).
		Msg("httpstub: batch finished")
	return nil
}

func (b *Batch) perform(h *Handle) error {
	h.batch = b
	defer func() { h.batch = nil }()
	return h.Perform()
}

func (b *Batch) owner() *Client {
	if b.client == nil {
		return &zeroClient
	}

	return b.client
}

// A RequestSpec describes one request of a batch built by the batch
// helper methods of Client.
type RequestSpec struct {
	// URL is the request URL.
	URL string
	// Method is the request method. Empty means GET.
	Method string
	// PostFields holds the form fields sent as a POST body.
	PostFields request.Fields
	// PutData is the PUT body. It may be any of the types supported by
	// request.BodyBytes.
	PutData interface{}
	// Headers contains the request headers.
	Headers map[string]string
	// FollowLocation directs the handle to follow redirects.
	FollowLocation bool

	// Callbacks registered on the handle. Any of them may be nil.
	OnProgress ProgressFunc
	OnHeader   HeaderFunc
	OnBody     BodyFunc
	OnComplete HandleFunc
	OnSuccess  HandleFunc
	OnMissing  StatusFunc
	OnFailure  StatusFunc
}

// A DoneFunc is called when a handle in a batch built by one of the
// batch helper methods completes, with the handle, its response code,
// and its upper-case method.
type DoneFunc func(h *Handle, code int, method string)

// BatchHTTP builds a batch with one handle per spec, performs it, and
// returns the handles in order. If done is not nil, it is called as
// each handle completes, after the handle's own completion callback.
//
// BatchHTTP stops at the first handle which fails and returns the
// handles built so far along with the error.
func (c *Client) BatchHTTP(specs []RequestSpec, opts BatchOptions, done DoneFunc) ([]*Handle, error) {
	b := c.NewBatch()
	b.Options = opts
	for i := range specs {
		h, err := c.handleFor(&specs[i], done)
		if err != nil {
			return b.Requests(), err
		}
		b.Add(h)
	}

	err := b.Perform(nil)
	return b.Requests(), err
}

// BatchGet performs a GET to each URL in a batch.
func (c *Client) BatchGet(urls []string, opts BatchOptions, done DoneFunc) ([]*Handle, error) {
	specs := make([]RequestSpec, len(urls))
	for i := range urls {
		specs[i] = RequestSpec{URL: urls[i], Method: "GET"}
	}
	return c.BatchHTTP(specs, opts, done)
}

// BatchPost performs a POST for each spec in a batch, ignoring the
// specs' Method fields.
func (c *Client) BatchPost(specs []RequestSpec, opts BatchOptions, done DoneFunc) ([]*Handle, error) {
	return c.BatchHTTP(withMethod(specs, "POST"), opts, done)
}

// BatchPut performs a PUT for each spec in a batch, ignoring the
// specs' Method fields.
func (c *Client) BatchPut(specs []RequestSpec, opts BatchOptions, done DoneFunc) ([]*Handle, error) {
	return c.BatchHTTP(withMethod(specs, "PUT"), opts, done)
}

func withMethod(specs []RequestSpec, method string) []RequestSpec {
	out := make([]RequestSpec, len(specs))
	for i := range specs {
		out[i] = specs[i]
		out[i].Method = method
	}
	return out
}

func (c *Client) handleFor(spec *RequestSpec, done DoneFunc) (*Handle, error) {
	h := c.NewHandle(spec.URL)
	h.Headers = spec.Headers
	h.FollowLocation = spec.FollowLocation

	method := strings.ToUpper(spec.Method)
	switch method {
	case "", "GET":
		method = "GET"
	case "POST":
		h.SetPostBody([]byte(spec.PostFields.Encode()))
	case "PUT":
		b, err := request.BodyBytes(spec.PutData)
		if err != nil {
			return nil, err
		}
		h.SetPutData(b)
	}
	h.method = method

	h.OnProgress(spec.OnProgress).
		OnHeader(spec.OnHeader).
		OnBody(spec.OnBody).
		OnSuccess(spec.OnSuccess).
		OnMissing(spec.OnMissing).
		OnFailure(spec.OnFailure)

	complete := spec.OnComplete
	if done == nil {
		h.OnComplete(complete)
	} else {
		h.OnComplete(func(h *Handle) {
			if complete != nil {
				complete(h)
			}
			done(h, h.ResponseCode(), method)
		})
	}

	return h, nil
}
