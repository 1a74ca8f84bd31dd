// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package stub provides a stub registry and a request journal for use
with an httpstub.Client.

A Table holds registered stubs. Each Stub describes the requests it
matches (method, URI pattern, body, and headers) and the sequence of
responses it returns. When several stubs match a request, the most
recently registered one wins.

	table := &stub.Table{}
	table.Register(&stub.Stub{
		Method:    "get",
		URI:       "http://api.example.com/users/*",
		Responses: []*response.Response{{Status: 200, Body: "[]"}},
	})
	client := &httpstub.Client{Registry: table}

URI patterns use the glob syntax of github.com/bmatcuk/doublestar, so
"*" matches within one path segment and "**" matches across segments.
A "?" always starts the query string and matches only itself. A URI
without "*", "[" or "{" is normalized and compared exactly; in a
pattern, the literal part up to its last "/" is normalized.

Stubs may also be loaded from YAML with Load or Table.Load.

A Journal records the signature of every intercepted request, so tests
can assert on what was requested:

	journal := &stub.Journal{}
	client := &httpstub.Client{Registry: table, Recorder: journal}
	...
	n := journal.Times(func(sig *request.Signature) bool { return sig.Method == "get" })
*/
package stub
