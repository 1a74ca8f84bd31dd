// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package stub

import (
	"sync"

	"github.com/gogama/httpstub/request"
	"github.com/google/uuid"
)

// An Entry is one request recorded in a Journal.
type Entry struct {
	// ID uniquely identifies the entry.
	ID uuid.UUID
	// Signature is the recorded request signature.
	Signature *request.Signature
}

// A Journal records request signatures in the order they are made. Its
// zero value is an empty journal ready to use. A Journal is safe for
// concurrent use by multiple goroutines.
type Journal struct {
	mu      sync.Mutex
	entries []Entry
}

// Record appends sig to the journal.
func (j *Journal) Record(sig *request.Signature) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, Entry{ID: uuid.New(), Signature: sig})
}

// Entries returns a copy of the journal's entries, oldest first.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Entry(nil), j.entries...)
}

// Times returns the number of recorded signatures for which match
// returns true.
func (j *Journal) Times(match func(*request.Signature) bool) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := 0
	for _, e := range j.entries {
		if match(e.Signature) {
			n++
		}
	}
	return n
}

// TimesEqual returns the number of recorded signatures equal to sig.
func (j *Journal) TimesEqual(sig *request.Signature) int {
	return j.Times(sig.Equal)
}

// Reset removes every entry from the journal.
func (j *Journal) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}
