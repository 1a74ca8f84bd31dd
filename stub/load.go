// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package stub

import (
	"errors"
	"fmt"
	"io"

	"github.com/gogama/httpstub/response"
	"gopkg.in/yaml.v3"
)

// Load reads stubs in YAML form from r. The document is either a single
// stub or a sequence of stubs:
//
//	# stubs.yaml
//	- request:
//	    method: get
//	    uri: http://api.example.com/users/*
//	    headers:
//	      Accept: application/json
//	  responses:
//	    - status: 200
//	      headers:
//	        Content-Type: application/json
//	        Set-Cookie: [a=1, b=2]
//	      body: '[]'
//	    - timeout: true
//
// A stub with a single response may use "response:" in place of
// "responses:". Response header order is preserved. A response may
// also set "statusText", "chunks" (a list of body parts), and "error"
// (a message raised instead of responding).
//
// The returned stubs are not yet registered; Register checks them.
func Load(r io.Reader) ([]*Stub, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("httpstub/stub: %w", err)
	}

	stubs := make([]*Stub, 0, len(doc.stubs))
	for i := range doc.stubs {
		s, err := doc.stubs[i].toStub()
		if err != nil {
			return nil, fmt.Errorf("httpstub/stub: stub %d: %w", i, err)
		}
		stubs = append(stubs, s)
	}
	return stubs, nil
}

type document struct {
	stubs []stubYAML
}

func (d *document) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		return node.Decode(&d.stubs)
	}

	var s stubYAML
	if err := node.Decode(&s); err != nil {
		return err
	}
	d.stubs = []stubYAML{s}
	return nil
}

type stubYAML struct {
	Request struct {
		Method  string            `yaml:"method"`
		URI     string            `yaml:"uri"`
		Body    *string           `yaml:"body"`
		Headers map[string]string `yaml:"headers"`
	} `yaml:"request"`
	Response  *responseYAML  `yaml:"response"`
	Responses []responseYAML `yaml:"responses"`
}

func (s *stubYAML) toStub() (*Stub, error) {
	if s.Request.URI == "" {
		return nil, errors.New("missing request uri")
	}

	rs := s.Responses
	if s.Response != nil {
		if len(rs) > 0 {
			return nil, errors.New("both response and responses given")
		}
		rs = []responseYAML{*s.Response}
	}

	out := &Stub{
		Method:    s.Request.Method,
		URI:       s.Request.URI,
		Headers:   s.Request.Headers,
		Responses: make([]*response.Response, len(rs)),
	}
	if s.Request.Body != nil {
		out.Body = []byte(*s.Request.Body)
	}
	for i := range rs {
		out.Responses[i] = rs[i].toResponse()
	}
	return out, nil
}

type responseYAML struct {
	Status     int        `yaml:"status"`
	StatusText string     `yaml:"statusText"`
	Headers    headerYAML `yaml:"headers"`
	Body       string     `yaml:"body"`
	Chunks     []string   `yaml:"chunks"`
	Timeout    bool       `yaml:"timeout"`
	Error      string     `yaml:"error"`
}

func (r *responseYAML) toResponse() *response.Response {
	out := &response.Response{
		Status:        r.Status,
		StatusText:    r.StatusText,
		Header:        response.Header(r.Headers),
		Body:          r.Body,
		Chunks:        r.Chunks,
		ShouldTimeout: r.Timeout,
	}
	if r.Error != "" {
		out.Err = errors.New(r.Error)
	}
	return out
}

// headerYAML decodes a mapping of header names to a value or a list of
// values, keeping the order of the mapping.
type headerYAML response.Header

func (h *headerYAML) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: headers must be a mapping", node.Line)
	}

	var header response.Header
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, value := node.Content[i].Value, node.Content[i+1]
		switch value.Kind {
		case yaml.ScalarNode:
			header.Add(name, value.Value)
		case yaml.SequenceNode:
			for _, v := range value.Content {
				if v.Kind != yaml.ScalarNode {
					return fmt.Errorf("line %d: header %q: values must be scalars", v.Line, name)
				}
				header.Add(name, v.Value)
			}
		default:
			return fmt.Errorf("line %d: header %q: value must be a scalar or a list", value.Line, name)
		}
	}
	*h = headerYAML(header)
	return nil
}
