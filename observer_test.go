// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpstub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestObserverGroup(t *testing.T) {
	t.Run("nil group", func(t *testing.T) {
		var g *ObserverGroup
		assert.False(t, g.Any())
		assert.NotPanics(t, func() { g.run(&Observation{}) })
	})
	t.Run("zero group", func(t *testing.T) {
		var g ObserverGroup
		assert.False(t, g.Any())
		assert.NotPanics(t, func() { g.run(&Observation{}) })
	})
	t.Run("push nil", func(t *testing.T) {
		var g ObserverGroup
		assert.PanicsWithValue(t, "httpstub: nil observer", func() { g.PushBack(nil) })
	})
	t.Run("order", func(t *testing.T) {
		var g ObserverGroup
		obs := &Observation{RealRequest: true}
		var order []int
		first := newMockObserver(t)
		first.On("Observe", obs).Run(func(_ mock.Arguments) { order = append(order, 1) }).Once()
		g.PushBack(first)
		g.PushBack(ObserverFunc(func(o *Observation) {
			assert.Same(t, obs, o)
			order = append(order, 2)
		}))

		assert.True(t, g.Any())
		g.run(obs)

		assert.Equal(t, []int{1, 2}, order)
		first.AssertExpectations(t)
	})
}
