// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package httpstub intercepts HTTP requests made through callback-driven
request handles and answers them from programmable stubs, so code
written against a multi-handle HTTP client can be tested without a
network.

Create a Client with a stub registry, then create and perform handles:

	table := &stub.Table{}
	table.Register(&stub.Stub{
		Method: "get",
		URI:    "http://api.example.com/status",
		Responses: []*response.Response{{
			Status: 200,
			Header: response.NewHeader("Content-Type", "text/plain"),
			Body:   "ok",
		}},
	})
	client := &httpstub.Client{Registry: table}

	h := client.NewHandle("http://api.example.com/status").
		OnHeader(func(line string) { ... }).
		OnSuccess(func(h *httpstub.Handle) { ... })
	err := h.Get()
	fmt.Println(h.ResponseCode(), h.BodyStr()) // 200 ok

A stub response is replayed through the handle's callbacks in the same
order and granularity a real client library would use: progress, one
header callback per header line, one body callback (or one per chunk),
completion, and finally success, missing, or failure depending on the
status class.

A request that matches no stub is rejected with a
*NetConnectNotAllowedError unless the client's net-connect policy lets
it through to the real network:

	client := &httpstub.Client{
		Registry:   table,
		NetConnect: netconnect.Localhost,
	}

Requests let through are sent by the client's Transport, by default an
HTTPTransport over http.DefaultClient, and their results are replayed
through the same callbacks.

To perform several handles together, use a Batch:

	b := client.NewBatch()
	b.Add(h1).Add(h2)
	err := b.Perform(func() { ... }) // checkpoint

Use Categorize to tell the kinds of interception error apart.
*/
package httpstub
