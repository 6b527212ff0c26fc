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

package render

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Table renders a simple key/value configuration summary, used to print
// the run's resolved options at startup. Backed by text/tabwriter: no
// third-party tabular-output library appears anywhere in the retrieved
// example corpus, so this is a deliberate standard-library choice, like
// the flag package for CLI parsing (see DESIGN.md).
type Table struct {
	w *tabwriter.Writer
}

// NewTable wraps w for aligned key/value output.
func NewTable(w io.Writer) *Table {
	return &Table{w: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}
}

// Row writes one key/value pair.
func (t *Table) Row(key, value string) {
	fmt.Fprintf(t.w, "%s\t%s\n", key, value)
}

// Flush writes any buffered rows.
func (t *Table) Flush() error {
	return t.w.Flush()
}
