// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import "errors"

var (
	errEmptyURL = errors.New("empty url")
	errNoHost   = errors.New("missing host")
)

// A URLError reports a request URL that could not be parsed into a
// request signature.
type URLError struct {
	// URL is the raw URL as configured on the request handle.
	URL string
	// Err is the underlying parse error.
	Err error
}

func (err *URLError) Error() string {
	return "httpstub/request: malformed url " + quote(err.URL) + ": " + err.Err.Error()
}

func (err *URLError) Unwrap() error {
	return err.Err
}

func quote(s string) string {
	return "\"" + s + "\""
}
