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

// Package embedding manages the dense IN/OUT embedding matrices, their
// random initialization, pretrained-vector overlay, and text-format I/O.
package embedding

import "math/rand"

// Matrix is a flat, row-major store of n rows of dim floats each. Rows
// are returned as unsynchronized mutable slices: the training loop
// updates them without locking (Hogwild), so callers must respect the
// per-tid/per-row ownership discipline documented on train.Trainer.
type Matrix struct {
	Dim  int
	data []float64
}

// NewMatrix allocates a zeroed matrix with n rows of dim columns each.
func NewMatrix(n, dim int) *Matrix {
	return &Matrix{Dim: dim, data: make([]float64, n*dim)}
}

// NewRandom allocates a matrix with n rows of dim columns, each entry
// drawn uniformly from [-0.5/dim, 0.5/dim], matching koan/lexvec's init.
func NewRandom(n, dim int, rng *rand.Rand) *Matrix {
	m := NewMatrix(n, dim)
	for i := range m.data {
		m.data[i] = (rng.Float64() - 0.5) / float64(dim)
	}
	return m
}

// Row returns row i as a mutable slice sharing storage with the matrix.
func (m *Matrix) Row(i uint32) []float64 {
	off := int(i) * m.Dim
	return m.data[off : off+m.Dim]
}

// Rows returns the number of rows in the matrix.
func (m *Matrix) Rows() int {
	if m.Dim == 0 {
		return 0
	}
	return len(m.data) / m.Dim
}
