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

// Package sample implements Vose's Alias Method for O(1) sampling from a
// fixed categorical distribution, used to draw negative samples from the
// smoothed unigram distribution.
package sample

import (
	"math/rand"

	"github.com/pkg/errors"
)

// Index identifies a bucket (a vocabulary entry) in the distribution the
// Sampler was built from.
type Index = uint32

// Sampler draws indices in [0, n) with probability proportional to the
// distribution it was constructed from, in O(1) per draw.
type Sampler struct {
	alias []Index
	prob  []float64
	n     int
}

// New builds the alias table for probs, which must sum to ~1 and contain no
// negative entries. New takes no seed: Sample draws from the *rand.Rand
// its caller passes in, so each caller's sequence follows that RNG's seed
// (see train.Trainer's per-tid scratch).
func New(probs []float64) (*Sampler, error) {
	n := len(probs)
	if n == 0 {
		return nil, errors.New("sample: empty distribution")
	}
	sum := 0.0
	for _, p := range probs {
		if p < 0 {
			return nil, errors.Errorf("sample: negative probability %v", p)
		}
		sum += p
	}
	if sum < 0.9999 || sum > 1.0001 {
		return nil, errors.Errorf("sample: probabilities sum to %v, want ~1", sum)
	}

	s := &Sampler{
		alias: make([]Index, n),
		prob:  make([]float64, n),
		n:     n,
	}

	scaled := make([]float64, n)
	for i, p := range probs {
		scaled[i] = p * float64(n)
	}

	var small, large []int
	for i, p := range scaled {
		if p < 1.0 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		l := small[len(small)-1]
		small = small[:len(small)-1]
		g := large[len(large)-1]
		large = large[:len(large)-1]

		s.prob[l] = scaled[l]
		s.alias[l] = Index(g)
		scaled[g] = (scaled[g] + scaled[l]) - 1
		if scaled[g] < 1.0 {
			small = append(small, g)
		} else {
			large = append(large, g)
		}
	}
	for _, g := range large {
		s.prob[g] = 1.0
	}
	for _, l := range small {
		s.prob[l] = 1.0
	}

	return s, nil
}

// Sample draws one index using rng, which callers own exclusively for the
// duration of the call (per the per-thread scratch discipline).
func (s *Sampler) Sample(rng *rand.Rand) Index {
	bucket := rng.Intn(s.n)
	r := rng.Float64()
	if r <= s.prob[bucket] {
		return Index(bucket)
	}
	return s.alias[bucket]
}

// NumClasses returns n, the number of buckets in the distribution.
func (s *Sampler) NumClasses() int {
	return s.n
}
