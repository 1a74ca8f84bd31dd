// Copyright 2021 The httpstub Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package netconnect provides policies deciding whether an intercepted
// request that matches no stub may be sent over the real network.
//
// The interface Policy defines a net-connect policy. Built-in policies
// and constructors cover common use cases, and compose logically:
//
//     policy := netconnect.Localhost.
//                   Or(netconnect.Hosts("*.internal", "api.example.com:8443"))
//
// The zero-configuration default, DefaultPolicy, is Never: a stub miss
// is always rejected.
package netconnect
