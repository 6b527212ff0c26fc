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

import (
	"bufio"
	"sync"

	"github.com/pkg/errors"
)

// Background is a producer/consumer corpus reader for datasets too large
// to hold in memory: a background goroutine fills the next batch while
// the caller trains on the previous one, wrapping around to the first
// file for continuous cross-epoch streaming. Grounded on koan's
// AsyncReader, including its two-flag (eofs/eofsPrev) EOF-signaling
// discipline.
type Background struct {
	opts       Options
	bufferSize int

	mu       sync.Mutex
	fileIdx  int
	fh       FileHandler
	scanner  *bufio.Scanner

	wg          sync.WaitGroup
	readBuf     []Sentence
	readErr     error
	eofs     bool // reached EOF of the last file during the just-finished fill
	eofsPrev bool // eofs from the previous GetNext call
}

// NewBackground opens the first file and starts filling the first batch
// in the background; bufferSize is the number of sentences buffered per
// batch.
func NewBackground(opts Options, bufferSize int) (*Background, error) {
	if len(opts.Files) == 0 {
		return nil, errors.New("corpus: Background requires at least one file")
	}
	r := &Background{opts: opts, bufferSize: bufferSize}
	fh, err := Open(opts.Files[0], opts.ReadMode)
	if err != nil {
		return nil, err
	}
	r.fh = fh
	r.scanner = NewLineScanner(fh)
	r.startFill()
	return r, nil
}

// startFill launches the background goroutine that fills r.readBuf up to
// bufferSize sentences, or until it reaches the end of the current file
// (after which it moves on to the next file, wrapping past the last one).
func (r *Background) startFill() {
	r.readBuf = make([]Sentence, 0, r.bufferSize)
	r.eofs = false
	r.readErr = nil
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for len(r.readBuf) < r.bufferSize {
			line, ok, err := readLine(r.scanner, r.opts.EnforceMaxLineLength, r.opts.Files[r.fileIdx])
			if err != nil {
				r.readErr = err
				return
			}
			if !ok {
				// EOF of current file: close it, advance (with wraparound),
				// reopen, and stop this fill early -- matches AsyncReader's
				// break after rolling to the next file.
				r.fh.Close()
				r.fileIdx = (r.fileIdx + 1) % len(r.opts.Files)
				if r.fileIdx == 0 {
					r.eofs = true
				}
				fh, err := Open(r.opts.Files[r.fileIdx], r.opts.ReadMode)
				if err != nil {
					r.readErr = err
					return
				}
				r.fh = fh
				r.scanner = NewLineScanner(fh)
				return
			}
			r.readBuf = append(r.readBuf, ParseLine(r.opts.Vocab, line, r.opts.Discard))
		}
	}()
}

// GetNext returns false exactly once per completed pass over the file
// list (when the previous fill wrapped around), then resumes streaming.
func (r *Background) GetNext(batch *[]Sentence) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.eofsPrev {
		r.eofsPrev = false
		return false, nil
	}

	r.wg.Wait()
	if r.readErr != nil {
		return false, r.readErr
	}

	r.eofsPrev = r.eofs
	*batch = append(*batch, r.readBuf...)
	r.startFill()

	return true, nil
}

// Close waits for any in-flight fill and closes the current file handle.
func (r *Background) Close() error {
	r.wg.Wait()
	return r.fh.Close()
}

var _ Reader = (*Background)(nil)
