// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package stub

import (
	"io"
	"sync"

	"github.com/gogama/httpstub/request"
	"github.com/gogama/httpstub/response"
)

// A Table is a stub registry. Its zero value is an empty table ready
// to use. A Table is safe for concurrent use by multiple goroutines.
type Table struct {
	mu    sync.Mutex
	stubs []*Stub
}

// Register adds stubs to the table. Later stubs take priority over
// earlier ones. Register returns an error, and registers none of the
// stubs, if any stub has no responses or an invalid URI.
func (t *Table) Register(stubs ...*Stub) error {
	for _, s := range stubs {
		if err := s.compile(); err != nil {
			return err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.stubs = append(t.stubs, stubs...)
	return nil
}

// Load reads stubs in YAML form from r, as described for the Load
// function, and registers them.
func (t *Table) Load(r io.Reader) error {
	stubs, err := Load(r)
	if err != nil {
		return err
	}
	return t.Register(stubs...)
}

// ResponseFor returns the next response of the most recently registered
// stub matching sig, or nil if no stub matches.
func (t *Table) ResponseFor(sig *request.Signature) *response.Response {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.stubs) - 1; i >= 0; i-- {
		if s := t.stubs[i]; s.Matches(sig) {
			return s.next()
		}
	}
	return nil
}

// Len returns the number of registered stubs.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.stubs)
}

// Reset removes every stub from the table.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stubs = nil
}
