// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpstub

import (
	"testing"

	"github.com/gogama/httpstub/netconnect"
	"github.com/gogama/httpstub/request"
	"github.com/gogama/httpstub/response"
	"github.com/gogama/httpstub/stub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBatch(t *testing.T) {
	t.Run("collection", testBatchCollection)
	t.Run("checkpoints", testBatchCheckpoints)
	t.Run("idle", testBatchIdle)
	t.Run("order", testBatchOrder)
	t.Run("stops at first error", testBatchStopsAtFirstError)
	t.Run("options reach transport", testBatchOptionsReachTransport)
	t.Run("add during perform", testBatchAddDuringPerform)
	t.Run("remove during perform", testBatchRemoveDuringPerform)
}

func testBatchCollection(t *testing.T) {
	c := &Client{}
	b := c.NewBatch()
	h1, h2, h3 := c.NewHandle("http://x/1"), c.NewHandle("http://x/2"), c.NewHandle("http://x/3")

	assert.Empty(t, b.Requests())
	assert.Same(t, b, b.Add(h1).Add(h2).Add(h1).Add(h3))
	assert.Equal(t, []*Handle{h1, h2, h1, h3}, b.Requests())

	requests := b.Requests()
	requests[0] = nil
	assert.Same(t, h1, b.Requests()[0])

	assert.Same(t, b, b.Remove(h1))
	assert.Equal(t, []*Handle{h2, h3}, b.Requests())
	b.Remove(h1)
	assert.Equal(t, []*Handle{h2, h3}, b.Requests())

	assert.Same(t, b, b.Cancel())
	assert.Empty(t, b.Requests())

	assert.PanicsWithValue(t, "httpstub: nil handle", func() { b.Add(nil) })
}

func testBatchCheckpoints(t *testing.T) {
	for k := 0; k <= 4; k++ {
		table := &stub.Table{}
		require.NoError(t, table.Register(&stub.Stub{URI: "http://x/**", Responses: []*response.Response{{}}}))
		c := &Client{Registry: table}
		b := c.NewBatch()
		for i := 0; i < k; i++ {
			b.Add(c.NewHandle("http://x/a"))
		}
		calls := 0

		err := b.Perform(func() { calls++ })

		require.NoError(t, err)
		assert.Equal(t, k+1, calls, "batch of %d handles", k)
	}

	t.Run("nil checkpoint", func(t *testing.T) {
		table := &stub.Table{}
		require.NoError(t, table.Register(&stub.Stub{URI: "http://x/a", Responses: []*response.Response{{Body: "a"}}}))
		c := &Client{Registry: table}
		h := c.NewHandle("http://x/a")
		b := c.NewBatch().Add(h)

		require.NoError(t, b.Perform(nil))
		assert.Equal(t, "a", h.BodyStr())
	})
}

func testBatchIdle(t *testing.T) {
	table := &stub.Table{}
	require.NoError(t, table.Register(&stub.Stub{URI: "http://x/a", Responses: []*response.Response{{}}}))
	c := &Client{Registry: table}
	b := c.NewBatch()
	assert.True(t, b.Idle())

	h := c.NewHandle("http://x/a")
	var duringCheckpoint, duringCallback []bool
	h.OnComplete(func(*Handle) { duringCallback = append(duringCallback, b.Idle()) })
	b.Add(h)
	assert.False(t, b.Idle())
	b.Remove(h).Add(h)
	assert.False(t, b.Idle())

	require.NoError(t, b.Perform(func() { duringCheckpoint = append(duringCheckpoint, b.Idle()) }))

	assert.True(t, b.Idle())
	assert.Equal(t, []bool{false, false}, duringCheckpoint)
	assert.Equal(t, []bool{false}, duringCallback)

	t.Run("idle after error", func(t *testing.T) {
		b := (&Client{}).NewBatch().Add((&Client{}).NewHandle("http://unstubbed/"))
		assert.Error(t, b.Perform(nil))
		assert.True(t, b.Idle())
	})
	t.Run("cancel leaves busy batch busy", func(t *testing.T) {
		b := (&Client{}).NewBatch().Add((&Client{}).NewHandle("http://x/"))
		b.Cancel()
		assert.False(t, b.Idle())
		require.NoError(t, b.Perform(nil))
		assert.True(t, b.Idle())
	})
}

func testBatchOrder(t *testing.T) {
	table := &stub.Table{}
	require.NoError(t, table.Register(
		&stub.Stub{URI: "http://x/1", Responses: []*response.Response{{Body: "1"}}},
		&stub.Stub{URI: "http://x/2", Responses: []*response.Response{{
			Status: 302,
			Header: response.NewHeader("Location", "http://x/3"),
		}}},
		&stub.Stub{URI: "http://x/3", Responses: []*response.Response{{Body: "3"}}},
	))
	c := &Client{Registry: table}
	var events []string
	record := func(name string) HandleFunc {
		return func(h *Handle) { events = append(events, name+" "+h.BodyStr()) }
	}
	h1 := c.NewHandle("http://x/1").OnComplete(record("h1"))
	h2 := c.NewHandle("http://x/2").OnComplete(record("h2"))
	h2.FollowLocation = true
	b := c.NewBatch().Add(h1).Add(h2).Add(h1)

	err := b.Perform(func() { events = append(events, "checkpoint") })

	require.NoError(t, err)
	assert.Equal(t, []string{
		"checkpoint", "h1 1",
		"checkpoint", "h2 ", "h2 3",
		"checkpoint", "h1 1",
		"checkpoint",
	}, events)
	assert.Nil(t, h1.batch)
	assert.Nil(t, h2.batch)
}

func testBatchStopsAtFirstError(t *testing.T) {
	table := &stub.Table{}
	require.NoError(t, table.Register(&stub.Stub{URI: "http://x/ok", Responses: []*response.Response{{}}}))
	c := &Client{Registry: table}
	var completed []string
	ok1 := c.NewHandle("http://x/ok").OnComplete(func(*Handle) { completed = append(completed, "ok1") })
	bad := c.NewHandle("http://x/missing").OnComplete(func(*Handle) { completed = append(completed, "bad") })
	ok2 := c.NewHandle("http://x/ok").OnComplete(func(*Handle) { completed = append(completed, "ok2") })
	b := c.NewBatch().Add(ok1).Add(bad).Add(ok2)
	calls := 0

	err := b.Perform(func() { calls++ })

	assert.Equal(t, NetConnectNotAllowed, Categorize(err))
	assert.Equal(t, []string{"ok1"}, completed)
	assert.Equal(t, 2, calls)
	assert.Nil(t, bad.batch)
}

func testBatchOptionsReachTransport(t *testing.T) {
	transport := newMockTransport(t)
	c := &Client{NetConnect: netconnect.Always, Transport: transport}
	h := c.NewHandle("http://real/")
	b := c.NewBatch().Add(h)
	b.Options = BatchOptions{Pipeline: true, MaxConnects: 4}
	transport.On("Perform", h, &BatchOptions{Pipeline: true, MaxConnects: 4}).
		Run(func(args mock.Arguments) {
			assert.Nil(t, args.Get(0).(*Handle).batch)
		}).
		Return(&Result{Code: 200, HeaderStr: "HTTP/1.1 200 OK\r\n\r\n"}, nil).
		Once()

	require.NoError(t, b.Perform(nil))
	assert.Equal(t, 200, h.ResponseCode())
	assert.Nil(t, h.batch)
	transport.AssertExpectations(t)
}

func testBatchAddDuringPerform(t *testing.T) {
	table := &stub.Table{}
	require.NoError(t, table.Register(&stub.Stub{URI: "http://x/**", Responses: []*response.Response{{}}}))
	c := &Client{Registry: table}
	b := c.NewBatch()
	late := c.NewHandle("http://x/late")
	var lateDone bool
	late.OnComplete(func(*Handle) { lateDone = true })
	first := c.NewHandle("http://x/first").OnComplete(func(*Handle) { b.Add(late) })
	b.Add(first)
	calls := 0

	require.NoError(t, b.Perform(func() { calls++ }))
	assert.True(t, lateDone)
	assert.Equal(t, 3, calls)
}

func TestClient_BatchHTTP(t *testing.T) {
	t.Run("mixed", func(t *testing.T) {
		journal := &stub.Journal{}
		table := &stub.Table{}
		require.NoError(t, table.Register(
			&stub.Stub{Method: "get", URI: "http://x/get", Responses: []*response.Response{{Status: 200, Body: "g"}}},
			&stub.Stub{Method: "post", URI: "http://x/post", Responses: []*response.Response{{Status: 201}}},
			&stub.Stub{Method: "put", URI: "http://x/put", Responses: []*response.Response{{Status: 404}}},
			&stub.Stub{Method: "delete", URI: "http://x/delete", Responses: []*response.Response{{Status: 500}}},
		))
		c := &Client{Registry: table, Recorder: journal}
		type doneCall struct {
			code   int
			method string
		}
		var done []doneCall
		var order []string
		var missing, failure []int

		handles, err := c.BatchHTTP([]RequestSpec{
			{
				URL:        "http://x/get",
				Headers:    map[string]string{"Accept": "text/plain"},
				OnComplete: func(*Handle) { order = append(order, "complete") },
				OnSuccess:  func(*Handle) { order = append(order, "success") },
			},
			{URL: "http://x/post", Method: "post", PostFields: request.Fields{{Name: "a", Value: "1"}}},
			{URL: "http://x/put", Method: "PUT", PutData: []byte("data"), OnMissing: func(_ *Handle, code int) { missing = append(missing, code) }},
			{URL: "http://x/delete", Method: "DELETE", OnFailure: func(_ *Handle, code int) { failure = append(failure, code) }},
		}, BatchOptions{MaxConnects: 2}, func(h *Handle, code int, method string) {
			done = append(done, doneCall{code, method})
			order = append(order, "done")
		})

		require.NoError(t, err)
		require.Len(t, handles, 4)
		assert.Equal(t, "g", handles[0].BodyStr())
		assert.Equal(t, []doneCall{{200, "GET"}, {201, "POST"}, {404, "PUT"}, {500, "DELETE"}}, done)
		assert.Equal(t, []string{"complete", "done", "success", "done", "done", "done"}, order)
		assert.Equal(t, []int{404}, missing)
		assert.Equal(t, []int{500}, failure)

		entries := journal.Entries()
		require.Len(t, entries, 4)
		assert.Equal(t, map[string]string{"Accept": "text/plain"}, entries[0].Signature.Header)
		assert.Equal(t, []byte("a=1"), entries[1].Signature.Body)
		assert.Equal(t, []byte("data"), entries[2].Signature.Body)
		assert.Nil(t, entries[3].Signature.Body)
	})
	t.Run("bad put data", func(t *testing.T) {
		c := &Client{}
		handles, err := c.BatchHTTP([]RequestSpec{{URL: "http://x/", Method: "PUT", PutData: 3.14}}, BatchOptions{}, nil)
		assert.Error(t, err)
		assert.Empty(t, handles)
	})
	t.Run("stops at first error", func(t *testing.T) {
		c := &Client{}
		handles, err := c.BatchGet([]string{"http://unstubbed/1", "http://unstubbed/2"}, BatchOptions{}, nil)
		assert.Equal(t, NetConnectNotAllowed, Categorize(err))
		assert.Len(t, handles, 2)
		assert.Equal(t, 0, handles[1].ResponseCode())
	})
}

func TestClient_BatchHelpers(t *testing.T) {
	table := &stub.Table{}
	require.NoError(t, table.Register(
		&stub.Stub{Method: "get", URI: "http://x/**", Responses: []*response.Response{{Body: "get"}}},
		&stub.Stub{Method: "post", URI: "http://x/**", Responses: []*response.Response{{Body: "post"}}},
		&stub.Stub{Method: "put", URI: "http://x/**", Responses: []*response.Response{{Body: "put"}}},
	))
	c := &Client{Registry: table}
	var methods []string
	done := func(_ *Handle, _ int, method string) { methods = append(methods, method) }

	handles, err := c.BatchGet([]string{"http://x/a", "http://x/b"}, BatchOptions{}, done)
	require.NoError(t, err)
	require.Len(t, handles, 2)
	assert.Equal(t, "get", handles[1].BodyStr())

	specs := []RequestSpec{{URL: "http://x/c", Method: "DELETE"}}
	handles, err = c.BatchPost(specs, BatchOptions{}, done)
	require.NoError(t, err)
	assert.Equal(t, "post", handles[0].BodyStr())
	assert.Equal(t, "DELETE", specs[0].Method)

	handles, err = c.BatchPut(specs, BatchOptions{Pipeline: true}, done)
	require.NoError(t, err)
	assert.Equal(t, "put", handles[0].BodyStr())

	assert.Equal(t, []string{"GET", "GET", "POST", "PUT"}, methods)
}

func testBatchRemoveDuringPerform(t *testing.T) {
	table := &stub.Table{}
	require.NoError(t, table.Register(&stub.Stub{URI: "http://x/**", Responses: []*response.Response{{}}}))
	c := &Client{Registry: table}
	b := c.NewBatch()
	var completed []string
	record := func(name string) HandleFunc {
		return func(*Handle) { completed = append(completed, name) }
	}
	h1 := c.NewHandle("http://x/1").OnComplete(record("h1"))
	h4 := c.NewHandle("http://x/4").OnComplete(record("h4"))
	h2 := c.NewHandle("http://x/2").OnComplete(func(h *Handle) {
		completed = append(completed, "h2")
		b.Remove(h1).Remove(h).Remove(h4)
	})
	h3 := c.NewHandle("http://x/3").OnComplete(record("h3"))
	b.Add(h1).Add(h2).Add(h3).Add(h4)
	calls := 0

	require.NoError(t, b.Perform(func() { calls++ }))

	assert.Equal(t, []string{"h1", "h2", "h3"}, completed)
	assert.Equal(t, []*Handle{h3}, b.Requests())
	assert.Equal(t, 4, calls)
}
