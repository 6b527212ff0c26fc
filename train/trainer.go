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

// Package train implements the Skip-Gram/CBOW negative-sampling SGD
// update rules and the driver that runs them across a corpus.
package train

import (
	"math"
	"math/rand"

	"github.com/vecforge/vecforge/embedding"
	"github.com/vecforge/vecforge/sample"
	"github.com/vecforge/vecforge/sigmoid"
	"github.com/vecforge/vecforge/vocab"
)

// Params are the salient hyperparameters of a training run, mirroring
// koan::Trainer::Params.
type Params struct {
	Dim       int
	Ctxs      int // one-sided context extension: up to Ctxs words each side
	Negatives int
	Threads   int

	// UseBadUpdate reproduces the widely-deployed but mathematically
	// incorrect CBOW gradient (omitting the 1/num_source_ids
	// normalization on the context-word update), matching word2vec.c and
	// gensim's behavior. Default false uses the normalized, correct form.
	UseBadUpdate bool

	// FixCBOWNegativeSkip switches the CBOW negative-sample skip test from
	// comparing a sampled vocabulary index against the center word's
	// *sentence position* (the reference implementation's long-standing
	// bug, preserved here by default for compatibility) to comparing it
	// against the center word's actual vocabulary index.
	FixCBOWNegativeSkip bool
}

// Trainer holds the shared IN/OUT embedding matrices and the per-thread
// scratch state (RNG, alias sampler, accumulator vectors) needed to run
// sg_update/cbow_update without any locking. Every exported method that
// takes a tid must only ever be called by the goroutine that owns that
// tid for the duration of the call: this is the Hogwild contract, not a
// runtime-enforced one.
type Trainer struct {
	params      Params
	filterProbs []float64
	sigmoidFn   sigmoid.Func

	in  *embedding.Matrix // table_: input/center-word embeddings
	out *embedding.Matrix // ctx_: output/context embeddings

	scratchAvg  [][]float64
	scratchGrad [][]float64
	scratchSent [][]vocab.Index
	rngs        []*rand.Rand
	negSamplers []*sample.Sampler
}

// New builds a Trainer. filterProbs and negProbs are indexed by
// vocabulary index; negProbs is the distribution the alias samplers are
// built from once per thread.
func New(params Params, in, out *embedding.Matrix, filterProbs, negProbs []float64, sigmoidFn sigmoid.Func) (*Trainer, error) {
	t := &Trainer{
		params:      params,
		filterProbs: filterProbs,
		sigmoidFn:   sigmoidFn,
		in:          in,
		out:         out,
		scratchAvg:  make([][]float64, params.Threads),
		scratchGrad: make([][]float64, params.Threads),
		scratchSent: make([][]vocab.Index, params.Threads),
		rngs:        make([]*rand.Rand, params.Threads),
		negSamplers: make([]*sample.Sampler, params.Threads),
	}
	for tid := 0; tid < params.Threads; tid++ {
		t.scratchAvg[tid] = make([]float64, params.Dim)
		t.scratchGrad[tid] = make([]float64, params.Dim)
		t.rngs[tid] = rand.New(rand.NewSource(int64(123457 + tid)))
		sampler, err := sample.New(negProbs)
		if err != nil {
			return nil, err
		}
		t.negSamplers[tid] = sampler
	}
	return t, nil
}

// Train updates embeddings for one sentence, treating each retained token
// (after downsampling) as the center in turn with an independently
// sampled context width, and returns how many tokens survived
// downsampling.
func (t *Trainer) Train(sentRaw []vocab.Index, tid int, lr float64, cbow bool) int {
	rng := t.rngs[tid]
	sent := t.scratchSent[tid][:0]
	for _, w := range sentRaw {
		if rng.Float64() >= t.filterProbs[w] {
			sent = append(sent, w)
		}
	}
	t.scratchSent[tid] = sent

	for centerIdx := 0; centerIdx < len(sent); centerIdx++ {
		ctxs := 1 + rng.Intn(t.params.Ctxs)
		left := 0
		if centerIdx > ctxs {
			left = centerIdx - ctxs
		}
		right := centerIdx + ctxs + 1
		if right > len(sent) {
			right = len(sent)
		}

		if cbow {
			t.CBOWUpdate(sent, centerIdx, left, right, tid, lr, false)
		} else {
			t.SGUpdate(sent, centerIdx, left, right, tid, lr, false)
		}
	}

	return len(sent)
}

// SGUpdate applies the Skip-Gram negative-sampling update for one center
// word against every context word in [left, right), predicting each
// context word from the center. Returns the loss when computeLoss is set,
// else 0.
func (t *Trainer) SGUpdate(sent []vocab.Index, centerIdx, left, right, tid int, lr float64, computeLoss bool) float64 {
	var loss float64
	centerWord := t.in.Row(sent[centerIdx])
	cwLocal := t.scratchAvg[tid]
	for i := range cwLocal {
		cwLocal[i] = 0
	}

	for targetIdx := left; targetIdx < right; targetIdx++ {
		if targetIdx == centerIdx {
			continue
		}
		targetWord := t.out.Row(sent[targetIdx])

		sigPos := t.sigmoidFn(dot(centerWord, targetWord))
		if computeLoss {
			loss -= math.Log(math.Max(sigPos, sigmoid.MinInLoss))
		}
		if sigPos < 1.0 {
			g := (sigPos - 1.0) * lr
			axpy(cwLocal, targetWord, -g)
			axpy(targetWord, centerWord, -g)
		}

		for i := 0; i < t.params.Negatives; i++ {
			randomIdx := t.negSamplers[tid].Sample(t.rngs[tid])
			randomWord := t.out.Row(randomIdx)

			sigNeg := t.sigmoidFn(dot(centerWord, randomWord))
			if computeLoss {
				loss -= math.Log(math.Max(1-sigNeg, sigmoid.MinInLoss))
			}
			if sigNeg > 0.0 {
				g := sigNeg * lr
				axpy(cwLocal, randomWord, -g)
				axpy(randomWord, centerWord, -g)
			}
		}
	}
	// cwLocal is already a descent direction.
	for i := range centerWord {
		centerWord[i] += cwLocal[i]
	}
	return loss
}

// CBOWUpdate applies the Continuous-Bag-of-Words negative-sampling update:
// the average of the context words in [left, right) (excluding the
// center) predicts the center word.
func (t *Trainer) CBOWUpdate(sent []vocab.Index, centerIdx, left, right, tid int, lr float64, computeLoss bool) float64 {
	var loss float64
	centerWord := t.out.Row(sent[centerIdx])
	avg := t.scratchAvg[tid]
	sourceGrad := t.scratchGrad[tid]
	for i := range avg {
		avg[i] = 0
		sourceGrad[i] = 0
	}

	var sources [][]float64
	for sourceIdx := left; sourceIdx < right; sourceIdx++ {
		if sourceIdx == centerIdx {
			continue
		}
		v := t.in.Row(sent[sourceIdx])
		axpy(avg, v, 1)
		sources = append(sources, v)
	}

	numSources := float64(len(sources))
	if numSources == 0 {
		return loss
	}
	for i := range avg {
		avg[i] /= numSources
	}

	sigPos := t.sigmoidFn(dot(avg, centerWord))
	if computeLoss {
		loss -= math.Log(math.Max(sigPos, sigmoid.MinInLoss))
	}
	if sigPos < 1.0 {
		g := (sigPos - 1.0) * lr
		if t.params.UseBadUpdate {
			axpy(sourceGrad, centerWord, g)
		} else {
			axpy(sourceGrad, centerWord, g/numSources)
		}
		axpy(centerWord, avg, -g)
	}

	negSkipTarget := vocab.Index(centerIdx)
	if t.params.FixCBOWNegativeSkip {
		negSkipTarget = sent[centerIdx]
	}

	for i := 0; i < t.params.Negatives; i++ {
		randomIdx := t.negSamplers[tid].Sample(t.rngs[tid])
		if randomIdx == negSkipTarget {
			continue
		}
		rw := t.out.Row(randomIdx)

		sigNeg := t.sigmoidFn(dot(avg, rw))
		if computeLoss {
			loss -= math.Log(math.Max(1-sigNeg, sigmoid.MinInLoss))
		}
		if sigNeg > 0.0 {
			g := sigNeg * lr
			if t.params.UseBadUpdate {
				axpy(sourceGrad, rw, g)
			} else {
				axpy(sourceGrad, rw, g/numSources)
			}
			axpy(rw, avg, -g)
		}
	}

	for _, src := range sources {
		for i := range src {
			src[i] -= sourceGrad[i]
		}
	}

	return loss
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// axpy adds alpha*x into y in place (y += alpha*x), the one vector
// primitive every update rule above is built from.
func axpy(y, x []float64, alpha float64) {
	for i := range y {
		y[i] += alpha * x[i]
	}
}
