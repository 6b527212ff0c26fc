/*
 * Copyright (c) 2016 Salle, Alexandre <alex@alexsalle.com>
 * Author: Salle, Alexandre <alex@alexsalle.com>
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy of
 * this software and associated documentation files (the "Software"), to deal in
 * the Software without restriction, including without limitation the rights to
 * use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
 * the Software, and to permit persons to whom the Software is furnished to do so,
 * subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
 * FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
 * COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
 * IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
 * CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 */

// Package freqstore provides the frequency-accounting backend used while
// scanning a corpus to build a vocabulary. The in-memory implementation is
// the default; the LevelDB-backed one gives corpora too large to count in
// RAM an on-disk counting table.
package freqstore

// Store accumulates per-token occurrence counts during a corpus scan.
type Store interface {
	IncrBy(token string, n uint64)
	Get(token string) uint64
	// Iterate calls fn once per stored token, in unspecified order.
	Iterate(fn func(token string, count uint64))
	Close() error
}

// InMemory is a Store backed by a plain map, suitable for corpora whose
// distinct-token count comfortably fits in RAM.
type InMemory struct {
	counts map[string]uint64
}

// NewInMemory returns an empty InMemory store.
func NewInMemory() *InMemory {
	return &InMemory{counts: make(map[string]uint64)}
}

func (s *InMemory) IncrBy(token string, n uint64) { s.counts[token] += n }
func (s *InMemory) Get(token string) uint64       { return s.counts[token] }

func (s *InMemory) Iterate(fn func(token string, count uint64)) {
	for tok, c := range s.counts {
		fn(tok, c)
	}
}

func (s *InMemory) Close() error { return nil }

var _ Store = (*InMemory)(nil)
