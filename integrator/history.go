// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrator

import (
	"bytes"
	"encoding/gob"
	goio "io"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// RingSize is the fixed ∆t-history buffer capacity (spec §4.6 "the buffer
// size is a fixed constant").
const RingSize = 4096

// Record is one accepted (∆t, t_reached) pair (spec §4.6, §9 "adaptive
// ∆t buffering").
type Record struct {
	Dt float64
	T  float64
}

// History buffers accepted (∆t, t) pairs and flushes them to a gob stream
// once the buffer fills, mirroring the teacher's Encoder/Decoder and
// save_file conventions (fem/fileio.go).
type History struct {
	buf      []Record
	sink     goio.Writer
	flushed  int // total records written to sink so far
}

// NewHistory allocates a History that flushes to sink (nil discards
// overflow silently, used by tests that only inspect Recent()).
func NewHistory(sink goio.Writer) *History {
	return &History{buf: make([]Record, 0, RingSize), sink: sink}
}

// Push appends an accepted (dt, t) pair, flushing to the sink when the
// ring fills.
func (h *History) Push(dt, t float64) error {
	h.buf = append(h.buf, Record{Dt: dt, T: t})
	if len(h.buf) >= RingSize {
		return h.Flush()
	}
	return nil
}

// Flush writes every buffered record to the sink (gob-encoded, one record
// per Encode call) and empties the buffer.
func (h *History) Flush() error {
	if len(h.buf) == 0 || h.sink == nil {
		h.buf = h.buf[:0]
		return nil
	}
	var out bytes.Buffer
	enc := gob.NewEncoder(&out)
	for _, r := range h.buf {
		if err := enc.Encode(r); err != nil {
			return chk.Err("integrator: cannot encode Δt history record: %v", err)
		}
	}
	if _, err := h.sink.Write(out.Bytes()); err != nil {
		return chk.Err("integrator: cannot flush Δt history: %v", err)
	}
	h.flushed += len(h.buf)
	h.buf = h.buf[:0]
	return nil
}

// Recent returns the records still held in the buffer (not yet flushed).
func (h *History) Recent() []Record { return h.buf }

// Flushed returns the total number of records written to the sink so far.
func (h *History) Flushed() int { return h.flushed }

// ReadHistory decodes every Record from r in order (round-trip companion
// to History.Flush).
func ReadHistory(r goio.Reader) ([]Record, error) {
	dec := gob.NewDecoder(r)
	var out []Record
	for {
		var rec Record
		err := dec.Decode(&rec)
		if err == goio.EOF {
			break
		}
		if err != nil {
			return nil, chk.Err("integrator: cannot decode Δt history record: %v", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// OpenHistoryFile creates (or truncates) filename and wraps it as a sink,
// matching the teacher's save_file convention of one writer per output
// stream (fem/fileio.go).
func OpenHistoryFile(filename string) (*os.File, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, chk.Err("integrator: cannot create Δt history file %q: %v", filename, err)
	}
	io.Pfblue2("Δt history file <%s> created\n", filename)
	return f, nil
}
