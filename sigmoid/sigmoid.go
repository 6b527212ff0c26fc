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

// Package sigmoid provides the nonlinearity used by the negative-sampling
// update rule: a fast table-based approximation for training, and an exact
// tanh-based variant for gradient checking.
package sigmoid

import "math"

const (
	tableMin = -8.0
	tableMax = 8.0
	// resolution is samples per unit of x.
	resolution = 64
	tableSize  = (tableMax-tableMin)*resolution + 1
)

// MinInLoss is the floor applied to a sigmoid value (sigma or 1-sigma)
// before taking its log when computing loss, so the loss never evaluates
// log(0); it equals the first nonzero table entry, matching koan's
// MIN_SIGMOID_IN_LOSS.
const MinInLoss = 3.40641e-4

// Func evaluates a sigmoid-shaped nonlinearity at x.
type Func func(x float64) float64

// Table is a precomputed lookup table over [-8, 8] at 1/64 resolution,
// clamped to exactly 0 and 1 at the ends. Values outside the domain
// saturate to the nearest endpoint.
type Table struct {
	values [tableSize]float64
}

// NewTable builds the lookup table once; reuse the returned value, do not
// rebuild it per goroutine.
func NewTable() *Table {
	t := &Table{}
	for i := 0; i < tableSize; i++ {
		x := tableMin + float64(i)/resolution
		t.values[i] = exact(x)
	}
	t.values[0] = 0
	t.values[tableSize-1] = 1
	return t
}

// At returns the table-approximated sigmoid of x.
func (t *Table) At(x float64) float64 {
	if x <= tableMin {
		return t.values[0]
	}
	if x >= tableMax {
		return t.values[tableSize-1]
	}
	idx := int((x - tableMin) * resolution)
	return t.values[idx]
}

// Exact computes the sigmoid directly via math.Tanh, used for gradient
// checking where the table's quantization would mask a bug.
func Exact(x float64) float64 {
	return exact(x)
}

func exact(x float64) float64 {
	return math.Tanh(x/2)/2 + 0.5
}
