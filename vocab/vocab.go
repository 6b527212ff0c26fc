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

// Package vocab builds and manages the bidirectional token/index mapping
// the training pipeline runs on, along with the frequency-derived
// probability tables (downsample, negative-sampling distribution) that
// depend only on a frozen vocabulary.
package vocab

import (
	"sort"

	"github.com/pkg/errors"
)

// Index is a vocabulary position. Kept as uint32 to match the training
// matrices' row stride arithmetic.
type Index = uint32

// UNK is the sentinel token used to replace out-of-vocabulary words when a
// reader is not configured to discard them. When present it is pinned to
// index 0.
const UNK = "___UNK___"

// Map is a bidirectional token<->index mapping, insertion order defining
// the index assignment (frequency-descending after Build's sort, or after
// Load of a file whose order Load has checked).
type Map struct {
	k2i map[string]Index
	i2k []string
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{k2i: make(map[string]Index)}
}

// Insert assigns tok the next free index if it isn't already present.
func (m *Map) Insert(tok string) Index {
	if idx, ok := m.k2i[tok]; ok {
		return idx
	}
	idx := Index(len(m.i2k))
	m.k2i[tok] = idx
	m.i2k = append(m.i2k, tok)
	return idx
}

// Lookup returns tok's index and whether it is present.
func (m *Map) Lookup(tok string) (Index, bool) {
	idx, ok := m.k2i[tok]
	return idx, ok
}

// ReverseLookup returns the token at idx. Panics if idx is out of range,
// a programmer error per spec's error taxonomy.
func (m *Map) ReverseLookup(idx Index) string {
	return m.i2k[idx]
}

// Contains reports whether tok is present.
func (m *Map) Contains(tok string) bool {
	_, ok := m.k2i[tok]
	return ok
}

// Size returns the number of distinct tokens.
func (m *Map) Size() int {
	return len(m.i2k)
}

// Tokens returns tokens in index order. The returned slice is owned by
// the caller.
func (m *Map) Tokens() []string {
	out := make([]string, len(m.i2k))
	copy(out, m.i2k)
	return out
}

// FreqTable maps a token to its raw occurrence count in the source corpus.
type FreqTable map[string]uint64

// entry pairs a token with its count for sorting.
type entry struct {
	tok   string
	count uint64
}

// sortDescending returns entries sorted by count descending, ties broken by
// insertion order via a stable sort so vocabulary construction is
// deterministic given a deterministic scan order.
func sortDescending(freq FreqTable, order []string) []entry {
	entries := make([]entry, 0, len(order))
	for _, tok := range order {
		entries = append(entries, entry{tok, freq[tok]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})
	return entries
}

// BuildOptions configures Build.
type BuildOptions struct {
	MinCount  uint64
	MaxVocab  int // 0 means unbounded
	AddUnk    bool
}

// Build turns a raw frequency table (as produced by a corpus scan, see
// corpus.CountTokens) into a frozen Map and pruned FreqTable: entries below
// MinCount are dropped, the result is capped at MaxVocab if positive, and
// sorted by descending frequency. If AddUnk is set, UNK is inserted at
// index 0 regardless of its corpus frequency.
func Build(freq FreqTable, scanOrder []string, opts BuildOptions) (*Map, FreqTable) {
	entries := sortDescending(freq, scanOrder)

	m := NewMap()
	pruned := make(FreqTable)

	if opts.AddUnk {
		m.Insert(UNK)
		pruned[UNK] = freq[UNK]
	}

	for _, e := range entries {
		if e.tok == UNK && opts.AddUnk {
			continue
		}
		if e.count < opts.MinCount {
			continue
		}
		if opts.MaxVocab > 0 && m.Size() >= opts.MaxVocab {
			break
		}
		m.Insert(e.tok)
		pruned[e.tok] = e.count
	}

	return m, pruned
}

// Total sums the counts in freq, used as the corpus size denominator for
// downsample and negative-sampling probabilities.
func Total(freq FreqTable) uint64 {
	var total uint64
	for _, c := range freq {
		total += c
	}
	return total
}

// ErrNotFound is an error value for an absent token. No function in this
// package returns it: Lookup reports absence through its boolean result
// and ReverseLookup panics on an out-of-range index.
var ErrNotFound = errors.New("vocab: token not found")
