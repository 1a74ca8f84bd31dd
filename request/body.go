// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"io"
	"net/url"
	"strings"
)

// BodyBytes converts the data given to a PUT or POST to the bytes of
// the request body. The data may be nil, a string, a []byte, Fields, or
// an io.Reader. A reader is read to the end and closed if it is also an
// io.Closer; a read or close error is returned as is.
func BodyBytes(data interface{}) ([]byte, error) {
	switch x := data.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	case Fields:
		return []byte(x.Encode()), nil
	case io.Reader:
		b, err := io.ReadAll(x)
		if c, ok := x.(io.Closer); ok {
			if cerr := c.Close(); err == nil {
				err = cerr
			}
		}
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("httpstub/request: unsupported body type %T", data)
	}
}

// A Field is one name/value pair of a form-encoded POST body.
type Field struct {
	Name  string
	Value string
}

// Fields is an ordered list of form fields. Unlike url.Values, Fields
// keeps the order in which the fields were given, so the encoded body
// is predictable.
type Fields []Field

// Encode returns the fields URL-encoded as "name=value" pairs joined
// by "&", in order.
func (fs Fields) Encode() string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = url.QueryEscape(f.Name) + "=" + url.QueryEscape(f.Value)
	}
	return strings.Join(parts, "&")
}
