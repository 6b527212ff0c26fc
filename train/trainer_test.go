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

package train

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vecforge/vecforge/embedding"
	"github.com/vecforge/vecforge/sigmoid"
	"github.com/vecforge/vecforge/vocab"
)

func newTestTrainer(t *testing.T, params Params, vocabSize int, negProbs []float64) *Trainer {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	in := embedding.NewRandom(vocabSize, params.Dim, rng)
	out := embedding.NewMatrix(vocabSize, params.Dim)
	filterProbs := make([]float64, vocabSize)
	if negProbs == nil {
		negProbs = make([]float64, vocabSize)
		for i := range negProbs {
			negProbs[i] = 1.0 / float64(vocabSize)
		}
	}
	tr, err := New(params, in, out, filterProbs, negProbs, sigmoid.Exact)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tr
}

func TestTrainReturnsRetainedCount(t *testing.T) {
	params := Params{Dim: 8, Ctxs: 2, Negatives: 3, Threads: 1}
	tr := newTestTrainer(t, params, 10, nil)
	sent := []vocab.Index{1, 2, 3, 4, 5}
	retained := tr.Train(sent, 0, 0.025, false)
	if retained != len(sent) {
		t.Errorf("retained = %d, want %d (zero downsample probs)", retained, len(sent))
	}
}

func TestSGUpdateMovesVectorsTowardEachOther(t *testing.T) {
	params := Params{Dim: 4, Ctxs: 1, Negatives: 0, Threads: 1}
	tr := newTestTrainer(t, params, 5, nil)
	sent := []vocab.Index{0, 1, 2}

	before := dot(tr.in.Row(1), tr.out.Row(0))
	for i := 0; i < 50; i++ {
		tr.SGUpdate(sent, 1, 0, 3, 0, 0.05, false)
	}
	after := dot(tr.in.Row(1), tr.out.Row(0))
	if after <= before {
		t.Errorf("dot(center, target) did not increase: before=%v after=%v", before, after)
	}
}

func TestSGUpdateComputesPositiveLoss(t *testing.T) {
	params := Params{Dim: 4, Ctxs: 1, Negatives: 2, Threads: 1}
	tr := newTestTrainer(t, params, 6, nil)
	sent := []vocab.Index{0, 1, 2}
	loss := tr.SGUpdate(sent, 1, 0, 3, 0, 0.025, true)
	if loss < 0 {
		t.Errorf("loss = %v, want >= 0", loss)
	}
}

func TestCBOWUpdateSkipsWhenNoSources(t *testing.T) {
	params := Params{Dim: 4, Ctxs: 1, Negatives: 2, Threads: 1}
	tr := newTestTrainer(t, params, 6, nil)
	sent := []vocab.Index{0}
	loss := tr.CBOWUpdate(sent, 0, 0, 1, 0, 0.025, true)
	if loss != 0 {
		t.Errorf("loss = %v, want 0 with no context sources", loss)
	}
}

func TestCBOWUpdateNormalizedVsBadUpdateDiffer(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	dim := 4
	n := 6
	sent := []vocab.Index{0, 1, 2, 3}

	run := func(useBad bool) []float64 {
		in := embedding.NewRandom(n, dim, rand.New(rand.NewSource(42)))
		out := embedding.NewRandom(n, dim, rand.New(rand.NewSource(43)))
		filterProbs := make([]float64, n)
		negProbs := make([]float64, n)
		for i := range negProbs {
			negProbs[i] = 1.0 / float64(n)
		}
		tr, err := New(Params{Dim: dim, Ctxs: 1, Negatives: 1, Threads: 1, UseBadUpdate: useBad}, in, out, filterProbs, negProbs, sigmoid.Exact)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		tr.rngs[0] = rng
		tr.CBOWUpdate(sent, 2, 0, 4, 0, 0.1, false)
		return append([]float64{}, in.Row(1)...)
	}

	a := run(false)
	b := run(true)
	same := true
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-12 {
			same = false
		}
	}
	if same {
		t.Errorf("UseBadUpdate should change the source gradient normalization")
	}
}

func TestCBOWNegativeSkipTargetHonorsFixFlag(t *testing.T) {
	// centerIdx=1 is sentence position 1, whose vocab index is sent[1] == 3.
	// Every negative draw is index 1: the legacy comparison (against the
	// position) skips it, the fixed one (against the vocab index) does not.
	// OUT starts at zero, and row 1 is only touched by negative updates.
	sent := []vocab.Index{4, 3, 2, 1, 0}
	negProbs := []float64{0, 1, 0, 0, 0}
	for _, fix := range []bool{false, true} {
		params := Params{Dim: 4, Ctxs: 1, Negatives: 1, Threads: 1, FixCBOWNegativeSkip: fix}
		tr := newTestTrainer(t, params, 5, negProbs)
		tr.CBOWUpdate(sent, 1, 0, 5, 0, 0.025, false)
		touched := false
		for _, v := range tr.out.Row(1) {
			if v != 0 {
				touched = true
			}
		}
		if touched != fix {
			t.Errorf("FixCBOWNegativeSkip=%v: negative row updated = %v, want %v", fix, touched, fix)
		}
	}
}

// snapshotMatrix deep-copies every row of m so it can be restored after a
// destructive in-place update.
func snapshotMatrix(m *embedding.Matrix) [][]float64 {
	rows := m.Rows()
	snap := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		snap[i] = append([]float64{}, m.Row(uint32(i))...)
	}
	return snap
}

func restoreMatrix(m *embedding.Matrix, snap [][]float64) {
	for i, row := range snap {
		copy(m.Row(uint32(i)), row)
	}
}

// closeEnough compares an analytic gradient against a central-difference
// numeric estimate, tolerant of the truncation error the eps=1e-4 step
// introduces.
func closeEnough(analytic, numeric float64) bool {
	diff := math.Abs(analytic - numeric)
	if diff < 1e-6 {
		return true
	}
	scale := math.Max(math.Abs(analytic), math.Abs(numeric))
	return diff/scale < 1e-3
}

// numericGradCheck perturbs every entry of in and out by +-eps, comparing
// the resulting central-difference loss derivative against the analytic
// parameter delta an update already applied. update must be idempotent
// given restored matrices: it recomputes the loss and reapplies the same
// in-place gradient step every time it is called.
func numericGradCheck(t *testing.T, in, out *embedding.Matrix, update func() float64) {
	t.Helper()
	const eps = 1e-4

	inOrig := snapshotMatrix(in)
	outOrig := snapshotMatrix(out)

	update()
	inAfter := snapshotMatrix(in)
	outAfter := snapshotMatrix(out)

	restoreMatrix(in, inOrig)
	restoreMatrix(out, outOrig)

	targets := []struct {
		name  string
		m     *embedding.Matrix
		orig  [][]float64
		after [][]float64
	}{
		{"in", in, inOrig, inAfter},
		{"out", out, outOrig, outAfter},
	}

	for _, tgt := range targets {
		for row := range tgt.orig {
			for col := range tgt.orig[row] {
				original := tgt.orig[row][col]

				restoreMatrix(in, inOrig)
				restoreMatrix(out, outOrig)
				tgt.m.Row(uint32(row))[col] = original + eps
				lossUp := update()

				restoreMatrix(in, inOrig)
				restoreMatrix(out, outOrig)
				tgt.m.Row(uint32(row))[col] = original - eps
				lossDown := update()

				restoreMatrix(in, inOrig)
				restoreMatrix(out, outOrig)

				numeric := (lossUp - lossDown) / (2 * eps)
				analytic := original - tgt.after[row][col]

				if !closeEnough(analytic, numeric) {
					t.Errorf("%s[%d][%d]: analytic grad %.8f, numeric grad %.8f", tgt.name, row, col, analytic, numeric)
				}
			}
		}
	}
}

func TestSGUpdateMatchesNumericGradient(t *testing.T) {
	dim, n := 5, 4
	rng := rand.New(rand.NewSource(7))
	in := embedding.NewRandom(n, dim, rng)
	out := embedding.NewRandom(n, dim, rng)
	filterProbs := make([]float64, n)
	negProbs := []float64{0, 0, 0, 1} // always samples index 3
	params := Params{Dim: dim, Ctxs: 5, Negatives: 1, Threads: 1}
	tr, err := New(params, in, out, filterProbs, negProbs, sigmoid.Exact)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sent := []vocab.Index{0, 1}

	numericGradCheck(t, in, out, func() float64 {
		return tr.SGUpdate(sent, 1, 0, 2, 0, 1.0, true)
	})
}

func TestCBOWUpdateMatchesNumericGradient(t *testing.T) {
	dim, n := 5, 4
	rng := rand.New(rand.NewSource(11))
	in := embedding.NewRandom(n, dim, rng)
	out := embedding.NewRandom(n, dim, rng)
	filterProbs := make([]float64, n)
	negProbs := []float64{0, 0, 0, 1} // always samples index 3
	params := Params{Dim: dim, Ctxs: 5, Negatives: 1, Threads: 1}
	tr, err := New(params, in, out, filterProbs, negProbs, sigmoid.Exact)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sent := []vocab.Index{0, 1, 2}

	numericGradCheck(t, in, out, func() float64 {
		return tr.CBOWUpdate(sent, 1, 0, 3, 0, 1.0, true)
	})
}

func TestDotAndAxpy(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 5, 6}
	if got := dot(a, b); got != 32 {
		t.Errorf("dot = %v, want 32", got)
	}
	y := []float64{1, 1, 1}
	axpy(y, a, 2)
	want := []float64{3, 5, 7}
	for i := range y {
		if y[i] != want[i] {
			t.Errorf("axpy[%d] = %v, want %v", i, y[i], want[i])
		}
	}
}
