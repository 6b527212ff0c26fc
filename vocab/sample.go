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

package vocab

import "math"

// DownsampleProbs computes P_skip[w] = 1 - sqrt(t/p) - t/p, where p is w's
// relative frequency in the corpus, for every token in m's index order.
// t == 0 disables downsampling (every entry is 0). Negative results are
// clamped to 0, matching koan's subsample formula (def.h / sampling.go's
// subsampleP).
func DownsampleProbs(m *Map, freq FreqTable, total uint64, t float64) []float64 {
	out := make([]float64, m.Size())
	if t == 0 || total == 0 {
		return out
	}
	for i, tok := range m.Tokens() {
		p := float64(freq[tok]) / float64(total)
		if p == 0 {
			continue
		}
		ratio := t / p
		skip := 1 - math.Sqrt(ratio) - ratio
		if skip < 0 {
			skip = 0
		}
		out[i] = skip
	}
	return out
}

// NegativeDistribution computes Q[w] proportional to freq[w]^alpha,
// normalized to sum to 1, in m's index order, for use as the alias
// sampler's target distribution.
func NegativeDistribution(m *Map, freq FreqTable, alpha float64) []float64 {
	tokens := m.Tokens()
	raw := make([]float64, len(tokens))
	var sum float64
	for i, tok := range tokens {
		v := math.Pow(float64(freq[tok]), alpha)
		raw[i] = v
		sum += v
	}
	if sum == 0 {
		// Degenerate vocabulary (all zero counts): fall back to uniform so
		// the alias sampler still gets a valid distribution.
		uniform := 1.0 / float64(len(raw))
		for i := range raw {
			raw[i] = uniform
		}
		return raw
	}
	for i := range raw {
		raw[i] /= sum
	}
	return raw
}
