// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpstub

// A Callback identifies one of the kinds of callback that can be
// registered on a Handle.
type Callback int

const (
	// Progress identifies the progress callback. When a response is
	// replayed it is invoked exactly once, reporting a completed
	// transfer on both the download and upload axes.
	Progress Callback = iota
	// Header identifies the header callback. It is invoked once per
	// physical line of the response header blob, including the status
	// line.
	Header
	// Body identifies the body callback. It is invoked once with the
	// whole body or, for a chunked response, once per chunk.
	Body
	// Complete identifies the completion callback. It is invoked once
	// per completed transfer, regardless of status code.
	Complete
	// Success identifies the callback invoked after Complete when the
	// status code is in the range 200-299.
	Success
	// Missing identifies the callback invoked after Complete when the
	// status code is in the range 400-499.
	Missing
	// Failure identifies the callback invoked after Complete when the
	// status code is in the range 500-599.
	Failure
	// Redirect identifies the redirect callback. It may be registered
	// on a Handle, but response replay never invokes it.
	Redirect
	// callbackSentinel provides the total number of callback kinds
	// typed as a Callback.
	callbackSentinel

	// numCallbacks provides the total number of callback kinds as an
	// int.
	numCallbacks = int(callbackSentinel)
)

var callbackNames = []string{
	"Progress",
	"Header",
	"Body",
	"Complete",
	"Success",
	"Missing",
	"Failure",
	"Redirect",
}

// Callbacks returns a slice containing every callback kind, in the
// order in which replay invokes them. At most one of Success, Missing,
// and Failure is invoked for any one response.
func Callbacks() []Callback {
	return []Callback{
		Progress,
		Header,
		Body,
		Complete,
		Success,
		Missing,
		Failure,
		Redirect,
	}
}

// Name returns the name of the callback kind.
func (cb Callback) Name() string {
	return callbackNames[int(cb)]
}

// String returns the name of the callback kind.
func (cb Callback) String() string {
	return cb.Name()
}

// A ProgressFunc receives transfer progress as total and current
// download and upload amounts.
type ProgressFunc func(dlTotal, dlNow, ulTotal, ulNow float64)

// A HeaderFunc receives one raw header line, including its line
// terminator if it has one.
type HeaderFunc func(line string)

// A BodyFunc receives body data.
type BodyFunc func(data string)

// A HandleFunc receives the handle whose transfer completed.
type HandleFunc func(h *Handle)

// A StatusFunc receives the handle whose transfer completed together
// with the response status code.
type StatusFunc func(h *Handle, code int)

type callbacks struct {
	progress ProgressFunc
	header   HeaderFunc
	body     BodyFunc
	complete HandleFunc
	success  HandleFunc
	missing  StatusFunc
	failure  StatusFunc
	redirect StatusFunc
}

func (c *callbacks) registered(cb Callback) bool {
	switch cb {
	case Progress:
		return c.progress != nil
	case Header:
		return c.header != nil
	case Body:
		return c.body != nil
	case Complete:
		return c.complete != nil
	case Success:
		return c.success != nil
	case Missing:
		return c.missing != nil
	case Failure:
		return c.failure != nil
	case Redirect:
		return c.redirect != nil
	default:
		return false
	}
}
