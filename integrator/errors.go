// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrator

import "github.com/cpmech/gosl/chk"

var (
	errNoTable  = chk.Err("integrator: dtopt 0/3 requires a non-empty breakpoint table")
	errNoSeed   = chk.Err("integrator: dtopt 1/2 requires a positive DtSeed")
	errNoFloor  = chk.Err("integrator: dtopt 1/2 requires a positive DtMin")
	errBadMode  = chk.Err("integrator: unknown dtopt mode")
	errStalled  = chk.Err("integrator: integration stalled, Δt fell below the configured floor")
)
