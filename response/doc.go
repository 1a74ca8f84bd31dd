// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package response contains the type Response, a programmed HTTP response,
and the conversions between a Response and the raw fields a
callback-driven HTTP client reports after a transfer.

Synthesize turns a Response into those raw fields, including the header
blob replayed line by line through header callbacks:

	r := &response.Response{
		Status: 200,
		Header: response.NewHeader("Content-Type", "text/plain"),
		Body:   "ok",
	}
	s, err := response.Synthesize(r)
	// s.HeaderStr == "HTTP/1.1 200 \r\nContent-Type: text/plain"

ParseHeaderString goes the other way, and FromHeaderString uses it to
describe a real response.
*/
package response
