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
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ReadMode selects how corpus files are decoded.
type ReadMode int

const (
	// ReadAuto treats files ending in ".gz" as gzip, everything else as
	// plain text.
	ReadAuto ReadMode = iota
	ReadText
	ReadGzip
)

// FileHandler abstracts over plain-text and gzip-compressed corpus files,
// grounded on koan's TrainFileHandler/TextFileHandler/GzipFileHandler.
type FileHandler interface {
	io.Reader
	Close() error
}

type textFileHandler struct {
	f *os.File
}

func (h *textFileHandler) Read(p []byte) (int, error) { return h.f.Read(p) }
func (h *textFileHandler) Close() error                { return h.f.Close() }

type gzipFileHandler struct {
	f  *os.File
	gz *gzip.Reader
}

func (h *gzipFileHandler) Read(p []byte) (int, error) { return h.gz.Read(p) }
func (h *gzipFileHandler) Close() error {
	gzErr := h.gz.Close()
	fErr := h.f.Close()
	if gzErr != nil {
		return gzErr
	}
	return fErr
}

// Open opens fname per mode, dispatching on the ".gz" suffix for
// ReadAuto, matching koan's getfilehandler.
func Open(fname string, mode ReadMode) (FileHandler, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrapf(err, "corpus: could not open input file %q", fname)
	}

	useGzip := mode == ReadGzip || (mode == ReadAuto && strings.HasSuffix(fname, ".gz"))
	if !useGzip {
		return &textFileHandler{f: f}, nil
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "corpus: could not open gzip input file %q", fname)
	}
	return &gzipFileHandler{f: f, gz: gz}, nil
}
