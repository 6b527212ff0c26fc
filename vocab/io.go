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

package vocab

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Load reads a "TOKEN<SP>COUNT\n" vocabulary file. Lines must be in
// descending count order; a violation is a format error since a
// vocabulary file produced by Save (or by another compliant tool) is
// always sorted, and a non-monotonic file most likely indicates
// truncation or corruption. The UNK sentinel line is exempt from the
// ordering check: Build/Save emit it first with its own true count
// (often 0), which is unrelated to the descending-by-frequency order
// of the real vocabulary that follows.
func Load(r io.Reader) (*Map, FreqTable, error) {
	m := NewMap()
	freq := make(FreqTable)

	s := bufio.NewScanner(r)
	var prevCount uint64 = ^uint64(0)
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := s.Text()
		if line == "" {
			continue
		}
		sp := strings.LastIndexByte(line, ' ')
		if sp < 0 {
			return nil, nil, errors.Errorf("vocab: malformed line %d: %q", lineNo, line)
		}
		tok, countStr := line[:sp], line[sp+1:]
		count, err := strconv.ParseUint(countStr, 10, 64)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "vocab: malformed count on line %d", lineNo)
		}
		if tok != UNK {
			if count > prevCount {
				return nil, nil, errors.Errorf("vocab: line %d out of frequency order", lineNo)
			}
			prevCount = count
		}

		m.Insert(tok)
		freq[tok] = count
	}
	if err := s.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "vocab: reading vocabulary file")
	}
	return m, freq, nil
}

// Save writes m/freq back out in the same format Load reads, in m's index
// order (which Build already leaves sorted descending by count).
func Save(w io.Writer, m *Map, freq FreqTable) error {
	bw := bufio.NewWriter(w)
	for _, tok := range m.Tokens() {
		if _, err := fmt.Fprintf(bw, "%s %d\n", tok, freq[tok]); err != nil {
			return errors.Wrap(err, "vocab: writing vocabulary file")
		}
	}
	return bw.Flush()
}
