// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpstub

import (
	"github.com/gogama/httpstub/request"
	"github.com/gogama/httpstub/response"
)

// An Observation describes one request answered by the interception
// engine, either from a stub or from the real network.
type Observation struct {
	// Handle is the request handle that was performed.
	Handle *Handle
	// Signature is the request signature of the request.
	Signature *request.Signature
	// Response is the stub response replayed or, for a real request,
	// a response built from the real transfer's results.
	Response *response.Response
	// RealRequest is true if the request went over the real network.
	RealRequest bool
}

// An ObserverGroup is an ordered chain of observers which can be
// installed in a Client.
type ObserverGroup struct {
	observers []Observer
}

// PushBack adds an observer to the back of the chain.
func (g *ObserverGroup) PushBack(o Observer) {
	if o == nil {
		panic("httpstub: nil observer")
	}

	g.observers = append(g.observers, o)
}

// Any reports whether the group contains at least one observer. It is
// safe to call on a nil group.
func (g *ObserverGroup) Any() bool {
	return g != nil && len(g.observers) > 0
}

func (g *ObserverGroup) run(obs *Observation) {
	if g == nil {
		return
	}
	for _, o := range g.observers {
		o.Observe(obs)
	}
}

// An Observer is notified after the interception engine answers a
// request. Observers see requests but cannot change how they are
// answered.
type Observer interface {
	Observe(*Observation)
}

// The ObserverFunc type is an adapter to allow the use of ordinary
// functions as observers. If f is a function with appropriate
// signature, then ObserverFunc(f) is an Observer that calls f.
type ObserverFunc func(*Observation)

// Observe calls f(obs).
func (f ObserverFunc) Observe(obs *Observation) {
	f(obs)
}
