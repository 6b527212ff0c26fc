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

package corpus

import "github.com/pkg/errors"

// WholeInMemory reads every configured file fully into memory on the
// first call to GetNext, then alternates true/false on every subsequent
// call (never re-reading), matching koan's OnceReader. The alternation
// lets a driver loop of the shape "for GetNext(&batch) { train(batch) }"
// run one epoch per pair of calls without special-casing the first pass;
// callers that want to train epoch after epoch reuse the same Reader and
// call GetNext for as many epochs as they intend to run, treating each
// interleaved false return as the end of an epoch (see train.Driver's
// batch loop).
type WholeInMemory struct {
	opts    Options
	loaded  bool
	toggle  bool
	all     []Sentence
}

// NewWholeInMemory constructs a reader that will read opts.Files on its
// first GetNext call.
func NewWholeInMemory(opts Options) *WholeInMemory {
	return &WholeInMemory{opts: opts}
}

func (r *WholeInMemory) GetNext(batch *[]Sentence) (bool, error) {
	if !r.loaded {
		for _, fname := range r.opts.Files {
			if err := r.readFile(fname); err != nil {
				return false, err
			}
		}
		r.loaded = true
	}
	r.toggle = !r.toggle
	if r.toggle {
		*batch = append(*batch, r.all...)
	}
	return r.toggle, nil
}

func (r *WholeInMemory) readFile(fname string) error {
	fh, err := Open(fname, r.opts.ReadMode)
	if err != nil {
		return err
	}
	defer fh.Close()

	scanner := NewLineScanner(fh)
	for {
		line, ok, err := readLine(scanner, r.opts.EnforceMaxLineLength, fname)
		if err != nil {
			return errors.Wrapf(err, "corpus: reading %q", fname)
		}
		if !ok {
			break
		}
		r.all = append(r.all, ParseLine(r.opts.Vocab, line, r.opts.Discard))
	}
	return nil
}

func (r *WholeInMemory) Close() error { return nil }

var _ Reader = (*WholeInMemory)(nil)
