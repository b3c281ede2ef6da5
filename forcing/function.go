// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package forcing implements the linear, cyclic piecewise interpolation of
// time-series forcing inputs: rainfall, snow, point/distributed loads and
// boundary conditions (spec §4.2).
//
// Function satisfies the same single-method contract as gosl/fun.Func
// (F(t float64, x []float64) float64), so a forcing.Function can be handed
// anywhere the wider gosl ecosystem expects a fun.Func -- e.g. as a stage
// duration or output-interval function the way inp.TimeControl.DtFunc is
// used in the teacher codebase.
package forcing

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Function satisfies fun.Func, so it can be handed directly to any gosl API
// that takes a time-dependent scalar function (e.g. a stage-duration or
// output-interval function the way inp.TimeControl.DtFunc is used in the
// teacher codebase).
var _ fun.Func = (*Function)(nil)

// Function is an ordered list of (time, value) break points, interpolated
// linearly between consecutive points and, optionally, treated as cyclic
// modulo the last break time (spec §4.2, §3 "Forcing function").
type Function struct {
	Times  []float64 // t_1..t_n, strictly increasing
	Values []float64 // value_1..value_n
	Cyclic bool      // treat the series as periodic with period Times[last]-Times[0]

	// cursor: Times[ip] <= last evaluated (reduced) t < Times[ip+1]
	ip   int
	m, b float64 // cached slope/intercept of the current interval
	nt   float64 // next breakpoint time (cache-invalidation hint)
	pt   float64 // prior breakpoint time
}

// New validates and builds a Function. n_pairs < 2 is a configuration error
// (spec §4.2).
func New(times, values []float64, cyclic bool) (*Function, error) {
	if len(times) < 2 {
		return nil, chk.Err("forcing: function needs at least 2 (time,value) pairs, got %d", len(times))
	}
	if len(times) != len(values) {
		return nil, chk.Err("forcing: times and values length mismatch: %d != %d", len(times), len(values))
	}
	for k := 1; k < len(times); k++ {
		if times[k] <= times[k-1] {
			return nil, chk.Err("forcing: times must be strictly increasing, got t[%d]=%g <= t[%d]=%g", k, times[k], k-1, times[k-1])
		}
	}
	f := &Function{Times: append([]float64{}, times...), Values: append([]float64{}, values...), Cyclic: cyclic}
	f.setInterval(0)
	return f, nil
}

// EndTime returns the last breakpoint time (the cyclic period end).
func (f *Function) EndTime() float64 { return f.Times[len(f.Times)-1] }

// setInterval recomputes the cached slope/intercept for interval ip.
func (f *Function) setInterval(ip int) {
	f.ip = ip
	t0, t1 := f.Times[ip], f.Times[ip+1]
	v0, v1 := f.Values[ip], f.Values[ip+1]
	f.m = (v1 - v0) / (t1 - t0)
	f.b = v0 - f.m*t0
	f.pt, f.nt = t0, t1
}

// reduce maps t into the representable range [Times[0], EndTime()], applying
// the cyclic wrap-around and the "step held" rule for t before Times[0]
// (spec §4.2 failure modes).
func (f *Function) reduce(t float64) float64 {
	t0, t1 := f.Times[0], f.EndTime()
	if t < t0 {
		return t0
	}
	if !f.Cyclic || t <= t1 {
		return t
	}
	period := t1 - t0
	if period <= 0 {
		return t0
	}
	k := int((t - t0) / period)
	tt := t - float64(k)*period
	// guard against floating point overshoot landing exactly on/after t1
	if tt > t1 {
		tt -= period
	}
	return tt
}

// locate finds the interval index ip such that Times[ip] <= tt <= Times[ip+1],
// using the current cursor as a hint so repeated calls with slowly
// increasing t are O(1) amortized, but always converges to the same
// interval regardless of where the cursor started (forcing idempotence,
// spec §8 "Forcing idempotence").
func (f *Function) locate(tt float64) int {
	ip := f.ip
	n := len(f.Times)
	// fast path: still inside the cached interval
	if tt >= f.Times[ip] && tt <= f.Times[ip+1] {
		return ip
	}
	// advance forward
	for ip < n-2 && tt > f.Times[ip+1] {
		ip++
	}
	// advance backward
	for ip > 0 && tt < f.Times[ip] {
		ip--
	}
	return ip
}

// F evaluates the function at time t, given in the same unit as Times
// (seconds for every series the inp readers build). The x argument
// is accepted for fun.Func-compatibility and ignored.
func (f *Function) F(t float64, x []float64) float64 {
	tt := f.reduce(t)
	ip := f.locate(tt)
	if ip != f.ip {
		f.setInterval(ip)
	}
	return f.m*tt + f.b
}

// NextBreak returns the next breakpoint time at or after the last evaluated
// t (reduced into the cyclic window), used by Set's vectorized early-out.
func (f *Function) NextBreak() float64 { return f.nt }

// Set is a named collection of forcing Functions (rainfall gauges, point
// loads, boundary conditions, ...). It implements the "vectorized update"
// described in spec §4.2: each step, a single comparison against the
// minimum next-update time across all functions lets the caller skip a full
// scan when nothing has changed interval.
type Set struct {
	names []string
	funcs []*Function
	index map[string]int
}

// NewSet returns an empty Set.
func NewSet() *Set { return &Set{index: make(map[string]int)} }

// Add registers a function under name. Re-adding the same name replaces it.
func (s *Set) Add(name string, f *Function) {
	if i, ok := s.index[name]; ok {
		s.funcs[i] = f
		return
	}
	s.index[name] = len(s.funcs)
	s.names = append(s.names, name)
	s.funcs = append(s.funcs, f)
}

// Get returns the named function, or nil if not present.
func (s *Set) Get(name string) *Function {
	if i, ok := s.index[name]; ok {
		return s.funcs[i]
	}
	return nil
}

// GetOrPanic returns the named function or panics (mirrors gofem's
// FuncsData.GetOrPanic convention for "this must exist" lookups).
func (s *Set) GetOrPanic(name string) *Function {
	f := s.Get(name)
	if f == nil {
		chk.Panic("forcing: function %q not found", name)
	}
	return f
}

// Len returns the number of registered functions.
func (s *Set) Len() int { return len(s.funcs) }

// MinNextBreak returns the smallest NextBreak() over every function in the
// set; callers may skip a per-function scan entirely while t < this value.
func (s *Set) MinNextBreak() float64 {
	if len(s.funcs) == 0 {
		return 0
	}
	min := s.funcs[0].nt
	for _, f := range s.funcs[1:] {
		if f.nt < min {
			min = f.nt
		}
	}
	return min
}

// Values evaluates every function in the set at time t, returning a map
// from name to value.
func (s *Set) Values(t float64) map[string]float64 {
	out := make(map[string]float64, len(s.funcs))
	for i, name := range s.names {
		out[name] = s.funcs[i].F(t, nil)
	}
	return out
}
