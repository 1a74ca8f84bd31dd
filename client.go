// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpstub

import (
	"context"
	"net/url"
	"strings"

	"github.com/gogama/httpstub/netconnect"
	"github.com/gogama/httpstub/request"
	"github.com/gogama/httpstub/response"
	"github.com/rs/zerolog"
)

// A Mode selects whether a Client intercepts the requests made through
// it.
type Mode int

const (
	// Intercept is the default mode. Every request is matched against
	// the stub registry, and unmatched requests are subject to the
	// net-connect policy.
	Intercept Mode = iota
	// Passthrough disables interception. Every request goes straight
	// to the Transport, without being recorded or matched against the
	// stub registry.
	Passthrough
)

var (
	emptyObservers = ObserverGroup{}
	noStubs        = noRegistry{}
	nopLogger      = zerolog.Nop()
	zeroClient     = Client{}
)

// A Client is the configuration shared by the request handles and
// batches created from it. Its zero value is a valid configuration.
//
// The zero value client intercepts every request, has no stubs,
// rejects every unmatched request (netconnect.DefaultPolicy), uses an
// HTTPTransport over http.DefaultClient for any request that is let
// through, has no observers, records nothing, and logs nothing.
//
// A Client should not be modified while handles created from it are
// being performed. Apart from that, Client is safe for concurrent use
// by multiple goroutines, provided its Registry, Recorder, Transport,
// and observers are.
type Client struct {
	// Mode selects whether requests are intercepted.
	//
	// The zero value is Intercept.
	Mode Mode
	// Registry supplies stub responses for intercepted requests.
	//
	// If Registry is nil, no request matches a stub.
	Registry Registry
	// NetConnect decides whether an intercepted request which matches
	// no stub may be sent over the real network.
	//
	// If NetConnect is nil, netconnect.DefaultPolicy is used.
	NetConnect netconnect.Policy
	// Transport sends requests over the real network.
	//
	// If Transport is nil, an HTTPTransport using http.DefaultClient
	// from the standard net/http package is used.
	Transport Transport
	// Observers is notified after each request answered by a stub, and
	// after each real request.
	//
	// If Observers is nil, no observers are run.
	Observers *ObserverGroup
	// Recorder is notified of the signature of every intercepted
	// request.
	//
	// If Recorder is nil, signatures are not recorded.
	Recorder Recorder
	// Logger receives debug-level events about interception decisions.
	//
	// If Logger is nil, nothing is logged.
	Logger *zerolog.Logger
}

// NewHandle returns a new request handle for the given URL which uses
// this client's configuration. The handle's method is GET until a verb
// method or setter changes it.
func (c *Client) NewHandle(url string) *Handle {
	return c.NewHandleWithContext(context.Background(), url)
}

// NewHandleWithContext is like NewHandle but the returned handle uses
// ctx for requests that go over the real network. NewHandleWithContext
// panics if ctx is nil.
func (c *Client) NewHandleWithContext(ctx context.Context, url string) *Handle {
	if ctx == nil {
		panic("httpstub: nil context")
	}

	return &Handle{
		URL:    url,
		client: c,
		ctx:    ctx,
	}
}

// NewBatch returns a new, empty batch.
func (c *Client) NewBatch() *Batch {
	return &Batch{client: c}
}

// Get performs a GET request to the given URL and returns the handle
// so its results can be inspected.
func (c *Client) Get(url string) (*Handle, error) {
	h := c.NewHandle(url)
	return h, h.Get()
}

// Head performs a HEAD request to the given URL.
func (c *Client) Head(url string) (*Handle, error) {
	h := c.NewHandle(url)
	return h, h.Head()
}

// Delete performs a DELETE request to the given URL.
func (c *Client) Delete(url string) (*Handle, error) {
	h := c.NewHandle(url)
	return h, h.Delete()
}

// Post performs a POST request to the given URL. The data arguments
// are joined with "&" to form the request body.
func (c *Client) Post(url string, data ...string) (*Handle, error) {
	h := c.NewHandle(url)
	return h, h.Post(data...)
}

// Put performs a PUT request to the given URL. The data parameter may
// be any of the types supported by request.BodyBytes.
func (c *Client) Put(url string, data interface{}) (*Handle, error) {
	h := c.NewHandle(url)
	return h, h.Put(data)
}

func (c *Client) registry() Registry {
	if c.Registry == nil {
		return noStubs
	}

	return c.Registry
}

func (c *Client) netConnect() netconnect.Policy {
	if c.NetConnect == nil {
		return netconnect.DefaultPolicy
	}

	return c.NetConnect
}

func (c *Client) transport() Transport {
	if c.Transport == nil {
		return defaultTransport
	}

	return c.Transport
}

func (c *Client) observers() *ObserverGroup {
	if c.Observers == nil {
		return &emptyObservers
	}

	return c.Observers
}

func (c *Client) logger() *zerolog.Logger {
	if c.Logger == nil {
		return &nopLogger
	}

	return c.Logger
}

type noRegistry struct{}

func (noRegistry) ResponseFor(_ *request.Signature) *response.Response {
	return nil
}

func urlErrorWrap(method, rawURL string, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(method),
		URL: rawURL,
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
