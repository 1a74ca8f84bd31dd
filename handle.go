// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpstub

import (
	"context"
	"strings"

	"github.com/gogama/httpstub/request"
	"golang.org/x/net/http/httpguts"
)

// A Handle is a single HTTP request handle in the style of a
// callback-driven client library: configure the request, register
// callbacks, then perform it with one of the verb methods or Perform.
//
// After a transfer, the accessor methods BodyStr, ResponseCode,
// HeaderStr, LastEffectiveURL, and ContentType report its results.
//
// A Handle may be performed any number of times, but must not be
// performed concurrently by multiple goroutines. Callbacks may perform
// other handles.
type Handle struct {
	// URL is the request URL. A URL without a scheme is taken to be an
	// http URL. URL is changed temporarily while a redirect is followed
	// and restored afterward.
	URL string
	// Headers contains the request headers.
	Headers map[string]string
	// FollowLocation directs the handle to follow the Location header
	// of a stub response.
	FollowLocation bool
	// UserPwd holds "user:password" credentials. If set, it takes
	// priority over Username and Password.
	UserPwd string
	// Username and Password hold credentials set separately.
	Username string
	Password string

	client   *Client
	ctx      context.Context
	method   string
	postBody []byte
	putData  []byte
	cb       callbacks
	stub     *snapshot
	real     *snapshot
	batch    *Batch
}

// Get performs the request as a GET.
func (h *Handle) Get() error {
	h.method = "GET"
	return h.Perform()
}

// Head performs the request as a HEAD.
func (h *Handle) Head() error {
	h.method = "HEAD"
	return h.Perform()
}

// Delete performs the request as a DELETE.
func (h *Handle) Delete() error {
	h.method = "DELETE"
	return h.Perform()
}

// Put performs the request as a PUT. If data is not nil, it replaces
// the pending PUT body. The data parameter may be any of the types
// supported by request.BodyBytes.
func (h *Handle) Put(data interface{}) error {
	b, err := request.BodyBytes(data)
	if err != nil {
		return err
	}
	h.method = "PUT"
	if b != nil {
		h.putData = b
	}
	return h.Perform()
}

// Post performs the request as a POST. If any data arguments are given,
// they are joined with "&" and replace the pending POST body.
func (h *Handle) Post(data ...string) error {
	h.method = "POST"
	if len(data) > 0 {
		h.postBody = []byte(strings.Join(data, "&"))
	}
	return h.Perform()
}

// PostFields performs the request as a POST with the given fields
// form-encoded as the body.
func (h *Handle) PostFields(fields request.Fields) error {
	return h.Post(fields.Encode())
}

// HTTP performs the request with an arbitrary method. It panics if
// method is not a valid HTTP token.
func (h *Handle) HTTP(method string) error {
	if !httpguts.ValidHeaderFieldName(method) {
		panic("httpstub: invalid method " + method)
	}
	h.method = method
	return h.Perform()
}

// SetPostBody sets the pending POST body and makes the method POST.
func (h *Handle) SetPostBody(body []byte) {
	h.method = "POST"
	h.postBody = body
}

// SetPutData sets the pending PUT body and makes the method PUT.
func (h *Handle) SetPutData(data []byte) {
	h.method = "PUT"
	h.putData = data
}

// SetDelete makes the method DELETE if value is true. A false value
// leaves the method unchanged.
func (h *Handle) SetDelete(value bool) {
	if value {
		h.method = "DELETE"
	}
}

// SetHead makes the method HEAD if value is true. A false value leaves
// the method unchanged.
func (h *Handle) SetHead(value bool) {
	if value {
		h.method = "HEAD"
	}
}

// Method returns the upper-case method the handle will use on its
// next transfer.
func (h *Handle) Method() string {
	return strings.ToUpper(h.methodOr("GET"))
}

// Context returns the handle's context. It never returns nil.
func (h *Handle) Context() context.Context {
	if h.ctx == nil {
		return context.Background()
	}

	return h.ctx
}

// PostBody returns the pending POST body.
func (h *Handle) PostBody() []byte {
	return h.postBody
}

// PutData returns the pending PUT body.
func (h *Handle) PutData() []byte {
	return h.putData
}

// OnProgress registers the progress callback, replacing any previous
// one, and returns h.
func (h *Handle) OnProgress(f ProgressFunc) *Handle {
	h.cb.progress = f
	return h
}

// OnHeader registers the header callback and returns h.
func (h *Handle) OnHeader(f HeaderFunc) *Handle {
	h.cb.header = f
	return h
}

// OnBody registers the body callback and returns h.
func (h *Handle) OnBody(f BodyFunc) *Handle {
	h.cb.body = f
	return h
}

// OnComplete registers the completion callback and returns h.
func (h *Handle) OnComplete(f HandleFunc) *Handle {
	h.cb.complete = f
	return h
}

// OnSuccess registers the callback for 2XX responses and returns h.
func (h *Handle) OnSuccess(f HandleFunc) *Handle {
	h.cb.success = f
	return h
}

// OnFailure registers the callback for 5XX responses and returns h.
func (h *Handle) OnFailure(f StatusFunc) *Handle {
	h.cb.failure = f
	return h
}

// OnMissing registers the callback for 4XX responses and returns h.
func (h *Handle) OnMissing(f StatusFunc) *Handle {
	h.cb.missing = f
	return h
}

// OnRedirect registers the redirect callback and returns h. Responses
// replayed from stubs never invoke it.
func (h *Handle) OnRedirect(f StatusFunc) *Handle {
	h.cb.redirect = f
	return h
}

// Registered reports whether a callback of the given kind is
// registered.
func (h *Handle) Registered(cb Callback) bool {
	return h.cb.registered(cb)
}

// BodyStr returns the body of the last transfer.
func (h *Handle) BodyStr() string {
	if s := h.snapshot(); s != nil {
		return s.body
	}
	return ""
}

// ResponseCode returns the status code of the last transfer, or zero
// if there has been none.
func (h *Handle) ResponseCode() int {
	if s := h.snapshot(); s != nil {
		return s.code
	}
	return 0
}

// HeaderStr returns the raw header blob of the last transfer.
func (h *Handle) HeaderStr() string {
	if s := h.snapshot(); s != nil {
		return s.headerStr
	}
	return ""
}

// LastEffectiveURL returns the URL the last transfer ended at, after
// following any redirects.
func (h *Handle) LastEffectiveURL() string {
	if s := h.snapshot(); s != nil {
		return s.effectiveURL
	}
	return ""
}

// ContentType returns the Content-Type of the last transfer's
// response.
func (h *Handle) ContentType() string {
	if s := h.snapshot(); s != nil {
		return s.contentType
	}
	return ""
}

func (h *Handle) snapshot() *snapshot {
	if h.stub != nil {
		return h.stub
	}
	return h.real
}

func (h *Handle) methodOr(def string) string {
	if h.method == "" {
		return def
	}
	return h.method
}

func (h *Handle) source() request.Source {
	return request.Source{
		Method:   h.methodOr("GET"),
		URL:      h.URL,
		Header:   h.Headers,
		PostBody: h.postBody,
		PutData:  h.putData,
		UserPwd:  h.UserPwd,
		Username: h.Username,
		Password: h.Password,
	}
}

func (h *Handle) owner() *Client {
	if h.client == nil {
		return &zeroClient
	}

	return h.client
}
