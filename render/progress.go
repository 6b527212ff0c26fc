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

// Package render holds progress display, help text, and tabular summary
// interfaces, with minimal default implementations built around a
// stderr-based progress printer.
package render

import (
	"fmt"
	"io"
)

// Stats is the subset of train.DriverStats a ProgressReporter polls.
// Defined here (rather than importing train) so render has no dependency
// on the training engine; its fields mirror train.DriverStats, which
// cmd/vecforge copies field by field.
type Stats struct {
	SentencesProcessed uint64
	TokensRetained      uint64
	CurrentLR           float64
}

// ProgressReporter renders periodic progress updates.
type ProgressReporter interface {
	Report(s Stats)
}

// NoOpProgress discards every update, used when progress display is
// disabled.
type NoOpProgress struct{}

func (NoOpProgress) Report(Stats) {}

// StderrProgress writes a single overwriting line to w on each Report
// call, matching alexandres-lexvec/utils.go's progressPrinter.
type StderrProgress struct {
	w io.Writer
}

// NewStderrProgress returns a StderrProgress writing to w.
func NewStderrProgress(w io.Writer) *StderrProgress {
	return &StderrProgress{w: w}
}

func (p *StderrProgress) Report(s Stats) {
	fmt.Fprintf(p.w, "\rsentences=%d tokens=%d lr=%.6f", s.SentencesProcessed, s.TokensRetained, s.CurrentLR)
}

var (
	_ ProgressReporter = NoOpProgress{}
	_ ProgressReporter = (*StderrProgress)(nil)
)
