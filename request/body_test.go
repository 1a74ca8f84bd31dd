// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestFields_Encode(t *testing.T) {
	assert.Equal(t, "", Fields(nil).Encode())
	assert.Equal(t, "foo=bar&baz=quux", Fields{{"foo", "bar"}, {"baz", "quux"}}.Encode())
	assert.Equal(t, "a+b=c%26d&a+b=e", Fields{{"a b", "c&d"}, {"a b", "e"}}.Encode())
}

func TestBodyBytes(t *testing.T) {
	testCases := []struct {
		name     string
		data     interface{}
		expected []byte
	}{
		{"nil", nil, nil},
		{"string", "foo", []byte("foo")},
		{"bytes", []byte("bar"), []byte("bar")},
		{"fields", Fields{{"a", "1"}, {"b", "x y"}}, []byte("a=1&b=x+y")},
		{"reader", strings.NewReader("baz"), []byte("baz")},
		{"read closer", io.NopCloser(bytes.NewReader([]byte("qux"))), []byte("qux")},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			b, err := BodyBytes(testCase.data)
			assert.NoError(t, err)
			assert.Equal(t, testCase.expected, b)
		})
	}

	t.Run("unsupported type", func(t *testing.T) {
		b, err := BodyBytes(10)
		assert.Nil(t, b)
		assert.EqualError(t, err, "httpstub/request: unsupported body type int")
	})
	t.Run("reader errors", func(t *testing.T) {
		expectedErr := errors.New("ham")
		t.Run("Read", func(t *testing.T) {
			m := &mockReadCloser{}
			m.Test(t)
			m.On("Read", mock.Anything).Return(0, expectedErr).Once()
			m.On("Close").Return(nil).Once()
			b, err := BodyBytes(m)
			assert.Nil(t, b)
			assert.Same(t, expectedErr, err)
			m.AssertExpectations(t)
		})
		t.Run("Close", func(t *testing.T) {
			m := &mockReadCloser{}
			m.Test(t)
			m.On("Read", mock.Anything).Return(0, io.EOF).Once()
			m.On("Close").Return(expectedErr).Once()
			b, err := BodyBytes(m)
			assert.Nil(t, b)
			assert.Same(t, expectedErr, err)
			m.AssertExpectations(t)
		})
	})
}

type mockReadCloser struct {
	mock.Mock
}

func (m *mockReadCloser) Read(p []byte) (n int, err error) {
	args := m.Called(p)
	n = args.Int(0)
	err = args.Error(1)
	return
}

func (m *mockReadCloser) Close() error {
	args := m.Called()
	return args.Error(0)
}
