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

package embedding

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vecforge/vecforge/vocab"
)

// LoadPretrained parses a "TOKEN v1 v2 ... vd\n" text embedding file, the
// same format Save writes, reused as an optional pretrained input. Every
// row must carry exactly dim values; a mismatch or duplicate token is a
// format error.
func LoadPretrained(r io.Reader, dim int) (map[string][]float64, error) {
	out := make(map[string][]float64)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != dim+1 {
			return nil, errors.Errorf("embedding: line %d has %d values, want %d", lineNo, len(fields)-1, dim)
		}
		tok := fields[0]
		if _, dup := out[tok]; dup {
			return nil, errors.Errorf("embedding: duplicate token %q on line %d", tok, lineNo)
		}
		vec := make([]float64, dim)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "embedding: bad value on line %d", lineNo)
			}
			vec[i] = v
		}
		out[tok] = vec
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "embedding: reading pretrained file")
	}
	return out, nil
}

// Overlay bit-exactly replaces m's rows for every token in pretrained that
// also appears in vocab, leaving all other rows (random-initialized or
// otherwise) untouched.
func Overlay(m *Matrix, voc *vocab.Map, pretrained map[string][]float64) error {
	for tok, vec := range pretrained {
		idx, ok := voc.Lookup(tok)
		if !ok {
			continue
		}
		if len(vec) != m.Dim {
			return errors.Errorf("embedding: pretrained vector for %q has dim %d, want %d", tok, len(vec), m.Dim)
		}
		copy(m.Row(idx), vec)
	}
	return nil
}

// Save writes m out in vocab index order as "TOKEN v1 ... vd\n" lines.
func Save(w io.Writer, voc *vocab.Map, m *Matrix) error {
	bw := bufio.NewWriter(w)
	for i, tok := range voc.Tokens() {
		if _, err := bw.WriteString(tok); err != nil {
			return errors.Wrap(err, "embedding: writing vector file")
		}
		row := m.Row(uint32(i))
		for _, v := range row {
			if _, err := fmt.Fprintf(bw, " %f", v); err != nil {
				return errors.Wrap(err, "embedding: writing vector file")
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return errors.Wrap(err, "embedding: writing vector file")
		}
	}
	return bw.Flush()
}
