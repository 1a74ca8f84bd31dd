// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core type Signature, the canonical and
comparable description of an intercepted HTTP request.

A Signature is built from a Source, which is a snapshot of the fields
of a request handle that describe the request: method, URL, headers,
body, and credentials.

	sig, err := request.NewSignature(request.Source{
		Method: "POST",
		URL:    "www.example.com//upload",
		Header: map[string]string{"Content-Type": "text/plain"},
		PostBody: []byte("hello"),
	})
	...
	fmt.Println(sig) // POST http://www.example.com/upload with body 'hello' ...

Signatures are lookup keys: the rules for matching a Signature against
registered stubs live with the stub registry, for example package stub.
*/
package request
