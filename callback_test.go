// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpstub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallbacks(t *testing.T) {
	callbacks := Callbacks()
	assert.Len(t, callbacks, numCallbacks)
	for i, cb := range callbacks {
		assert.Equal(t, Callback(i), cb)
	}
	assert.Equal(t, Progress, callbacks[0])
	assert.Equal(t, Redirect, callbacks[numCallbacks-1])
}

func TestCallbackNames(t *testing.T) {
	assert.Len(t, callbackNames, numCallbacks)
	for _, cb := range Callbacks() {
		assert.Equal(t, callbackNames[cb], cb.Name())
		assert.Equal(t, cb.Name(), cb.String())
	}
	assert.Equal(t, "Missing", Missing.Name())
	assert.Equal(t, "Complete", Complete.String())
}
