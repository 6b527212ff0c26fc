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

// Package corpus reads pre-tokenized, one-sentence-per-line text corpora
// into vocabulary index sequences, in two access patterns: fully buffered
// in memory, and background-buffered for corpora too large to fit in RAM.
package corpus

import (
	"bufio"
	"strings"

	"github.com/vecforge/vecforge/vocab"
)

// MaxLineLength bounds a single line's byte length, matching koan's
// MAX_LINE_LEN. Longer lines are either truncated or rejected, depending
// on EnforceMaxLineLength.
const MaxLineLength = 1000000

// SplitLine splits a corpus line into tokens on the literal ASCII space
// byte (0x20) only; no other whitespace character is treated as a
// separator, matching koan's split() over ' '. Consecutive spaces
// produce no empty tokens.
func SplitLine(line string) []string {
	fields := strings.Split(line, " ")
	toks := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			toks = append(toks, f)
		}
	}
	return toks
}

// Sentence is a line of the corpus resolved to vocabulary indices, OOV
// tokens already replaced by vocab.UNK or dropped per Discard.
type Sentence []vocab.Index

// CountTokens scans r line by line, splitting each line with SplitLine, and
// accumulates raw occurrence counts into freq, returning first-seen token
// order (needed by vocab.Build/Merge for deterministic tie-breaking).
func CountTokens(r *bufio.Scanner, freq vocab.FreqTable) (order []string, err error) {
	for r.Scan() {
		for _, tok := range SplitLine(r.Text()) {
			if _, ok := freq[tok]; !ok {
				order = append(order, tok)
			}
			freq[tok]++
		}
	}
	return order, r.Err()
}

// ParseLine resolves a line's tokens against m, replacing OOV tokens with
// vocab.UNK (if present in m) or dropping them when discard is true.
func ParseLine(m *vocab.Map, line string, discard bool) Sentence {
	toks := SplitLine(line)
	s := make(Sentence, 0, len(toks))
	for _, tok := range toks {
		idx, ok := m.Lookup(tok)
		if !ok {
			if discard {
				continue
			}
			unkIdx, hasUnk := m.Lookup(vocab.UNK)
			if !hasUnk {
				continue
			}
			idx = unkIdx
		}
		s = append(s, idx)
	}
	return s
}

// NewLineScanner returns a bufio.Scanner splitting on lines, with a buffer
// large enough to read lines well past MaxLineLength; callers that need
// the enforce-max-line-length behavior check the returned line's length
// against MaxLineLength themselves (see readLine),
// matching koan's assert_no_long_lines check on a truncated fgets result.
func NewLineScanner(r interface {
	Read([]byte) (int, error)
}) *bufio.Scanner {
	s := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	s.Buffer(buf, MaxLineLength*4)
	return s
}
