// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpstub

import (
	"errors"
	"net/url"

	"github.com/gogama/httpstub/request"
	"github.com/gogama/httpstub/response"
)

// Perform performs the request with the handle's current method, which
// is GET unless a verb method or setter has changed it.
//
// In Intercept mode, the request's signature is matched against the
// client's stub registry. A matching stub response is replayed through
// the handle's callbacks, following its Location header if the handle
// is configured to follow redirects. A request with no matching stub is
// sent over the real network if the client's net-connect policy allows
// it, and rejected with a *NetConnectNotAllowedError otherwise.
//
// A stub configured to time out produces a *TimeoutError, a stub
// configured with an error produces a *StubError, and a URL that cannot
// be parsed produces a *MalformedURLError. No callbacks run in any of
// these cases. Errors from the real transport are returned as a
// *url.Error. Use Categorize to classify a returned error.
func (h *Handle) Perform() error {
	c := h.owner()
	if c.Mode == Passthrough {
		return h.passthrough(c, nil)
	}

	return h.intercept(c)
}

func (h *Handle) intercept(c *Client) error {
	h.stub, h.real = nil, nil

	sig, err := request.NewSignature(h.source())
	if err != nil {
		var urlErr *request.URLError
		if errors.As(err, &urlErr) {
			return &MalformedURLError{URL: h.URL, Err: err}
		}
		return err
	}

	if c.Recorder != nil {
		c.Recorder.Record(sig)
	}

	if resp := c.registry().ResponseFor(sig); resp != nil {
		return h.replay(c, sig, resp)
	}

	if c.netConnect().Allow(sig.URL) {
		return h.passthrough(c, sig)
	}

	c.logger().Debug().
		Str("method", sig.Method).
		Str("uri", sig.URI).
		Msg("httpstub: rejected unregistered request")
	return &NetConnectNotAllowedError{Signature: sig}
}

func (h *Handle) replay(c *Client, sig *request.Signature, resp *response.Response) error {
	s, err := response.Synthesize(resp)
	if err == response.ErrTimeout {
		return &TimeoutError{Signature: sig}
	} else if err != nil {
		return &StubError{Signature: sig, Err: err}
	}

	logger := c.logger()
	logger.Debug().
		Str("method", sig.Method).
		Str("uri", sig.URI).
		Int("status", s.Code).
		Msg("httpstub: replaying stub response")

	h.stub = newSnapshot(s, h.URL)
	c.observers().run(&Observation{
		Handle:    h,
		Signature: sig,
		Response:  resp,
	})
	h.dispatch(s)

	if h.FollowLocation && s.Location != "" {
		return h.follow(c, sig.URL, s.Location)
	}

	return nil
}

// follow re-runs the interceptor against location, which may be
// relative to base, then restores the handle's URL. Credentials in
// base are not carried over to the new URL.
func (h *Handle) follow(c *Client, base *url.URL, location string) error {
	target := location
	if ref, err := url.Parse(location); err == nil {
		anon := *base
		anon.User = nil
		target = anon.ResolveReference(ref).String()
	}

	c.logger().Debug().
		Str("from", h.URL).
		Str("location", target).
		Msg("httpstub: following redirect")

	first := h.URL
	h.URL = target
	defer func() { h.URL = first }()

	return h.intercept(c)
}

// passthrough sends the request over the real network. If sig is nil,
// interception is disabled and observers are not notified.
func (h *Handle) passthrough(c *Client, sig *request.Signature) error {
	var opts *BatchOptions
	batch := h.batch
	if batch != nil {
		opts = &batch.Options
	}

	if sig != nil {
		c.logger().Debug().
			Str("method", sig.Method).
			Str("uri", sig.URI).
			Msg("httpstub: passing request through to network")
	}

	res, err := h.unbatched(func() (*Result, error) {
		return c.transport().Perform(h, opts)
	})
	if err != nil {
		return urlErrorWrap(h.Method(), h.URL, err)
	}

	_, header := response.ParseHeaderString(res.HeaderStr)
	s := &response.Synthesized{
		Code:        res.Code,
		HeaderStr:   res.HeaderStr,
		ContentType: header.Get("Content-Type"),
		Body:        res.Body,
	}
	effectiveURL := res.EffectiveURL
	if effectiveURL == "" {
		effectiveURL = h.URL
	}
	h.stub = nil
	h.real = newSnapshot(s, effectiveURL)
	h.dispatch(s)

	if sig != nil && c.observers().Any() {
		c.observers().run(&Observation{
			Handle:      h,
			Signature:   sig,
			Response:    response.FromHeaderString(res.Code, res.HeaderStr, res.Body),
			RealRequest: true,
		})
	}

	return nil
}

// unbatched runs f with the handle detached from its batch. The batch
// is reattached when f returns or panics.
func (h *Handle) unbatched(f func() (*Result, error)) (*Result, error) {
	batch := h.batch
	h.batch = nil
	defer func() { h.batch = batch }()
	return f()
}
