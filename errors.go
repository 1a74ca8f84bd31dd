// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpstub

import (
	"errors"

	"github.com/gogama/httpstub/request"
	"github.com/gogama/httpstub/response"
)

// An ErrorKind is the category of an error returned by the interception
// engine, as reported by function Categorize.
type ErrorKind int

const (
	// NotIntercepted indicates a nil error, or an error that did not
	// originate in the interception engine. Errors from the real
	// transport during a passthrough have this kind.
	NotIntercepted ErrorKind = iota
	// NetConnectNotAllowed indicates that no stub matched the request
	// and the net-connect policy kept it off the real network. The
	// error is a *NetConnectNotAllowedError.
	NetConnectNotAllowed
	// SimulatedTimeout indicates that the matching stub was configured
	// to time out. The error is a *TimeoutError.
	SimulatedTimeout
	// StubDefined indicates that the matching stub was configured to
	// raise an error. The error is a *StubError.
	StubDefined
	// MalformedURL indicates that the request URL could not be parsed
	// into a request signature. The error is a *MalformedURLError.
	MalformedURL
)

var errorKindNames = []string{
	"NotIntercepted",
	"NetConnectNotAllowed",
	"SimulatedTimeout",
	"StubDefined",
	"MalformedURL",
}

// String returns the name of the error kind.
func (k ErrorKind) String() string {
	return errorKindNames[int(k)]
}

// Categorize returns the kind of the given error. Categorize looks at
// wrapped cause errors contained within err, not just err itself, so
// an interception error wrapped by a callback or by the caller is
// still recognized.
func Categorize(err error) ErrorKind {
	if err == nil {
		return NotIntercepted
	}

	var netConnect *NetConnectNotAllowedError
	if errors.As(err, &netConnect) {
		return NetConnectNotAllowed
	}

	var timeout *TimeoutError
	if errors.As(err, &timeout) {
		return SimulatedTimeout
	}

	var stub *StubError
	if errors.As(err, &stub) {
		return StubDefined
	}

	var malformed *MalformedURLError
	if errors.As(err, &malformed) {
		return MalformedURL
	}

	return NotIntercepted
}

// A NetConnectNotAllowedError is returned when a request matches no
// stub and the net-connect policy does not allow it onto the real
// network.
type NetConnectNotAllowedError struct {
	// Signature is the signature of the rejected request.
	Signature *request.Signature
}

func (err *NetConnectNotAllowedError) Error() string {
	return "httpstub: real HTTP connections are disabled. Unregistered request: " +
		err.Signature.String()
}

// A TimeoutError is returned when the stub matching a request is
// configured to time out.
type TimeoutError struct {
	// Signature is the signature of the request that timed out.
	Signature *request.Signature
}

func (err *TimeoutError) Error() string {
	return "httpstub: simulated timeout: " + err.Signature.String()
}

// Timeout always returns true.
func (err *TimeoutError) Timeout() bool {
	return true
}

// Unwrap returns response.ErrTimeout.
func (err *TimeoutError) Unwrap() error {
	return response.ErrTimeout
}

// A StubError is returned when the stub matching a request is
// configured to raise an error instead of responding.
type StubError struct {
	// Signature is the signature of the request.
	Signature *request.Signature
	// Err is the error the stub was configured with.
	Err error
}

func (err *StubError) Error() string {
	return "httpstub: " + err.Signature.String() + ": " + err.Err.Error()
}

// Unwrap returns the error the stub was configured with.
func (err *StubError) Unwrap() error {
	return err.Err
}

// A MalformedURLError is returned when a request's URL cannot be parsed
// into a request signature. No callbacks run for such a request.
type MalformedURLError struct {
	// URL is the URL as configured on the request handle.
	URL string
	// Err is the underlying error, a *request.URLError.
	Err error
}

func (err *MalformedURLError) Error() string {
	cause := err.Err
	var urlErr *request.URLError
	if errors.As(cause, &urlErr) {
		cause = urlErr.Err
	}
	return "httpstub: malformed url \"" + err.URL + "\": " + cause.Error()
}

// Unwrap returns the underlying error.
func (err *MalformedURLError) Unwrap() error {
	return err.Err
}
