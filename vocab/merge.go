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

// MergePolicy controls how a freshly-scanned corpus frequency table is
// reconciled with a previously persisted vocabulary when continuing
// training.
type MergePolicy int

const (
	// PolicyOld keeps exactly the pretrained vocabulary's tokens and
	// counts, ignoring anything new in the corpus. Used when embeddings
	// must stay aligned to a fixed downstream consumer's index space.
	PolicyOld MergePolicy = iota
	// PolicyNew keeps exactly the freshly-scanned corpus vocabulary,
	// discarding the pretrained one entirely (equivalent to not merging).
	PolicyNew
	// PolicyUnion keeps every token appearing in either source, summing
	// counts for tokens present in both.
	PolicyUnion
)

// Merge reconciles corpusFreq (from a fresh scan) with pretrainedFreq (the
// pretrained vocabulary's tokens and counts; train.Driver builds it from
// the pretrained embedding file) according to policy, returning the
// frequency table Build should run over and the matching token order.
// scanOrder must be the corpus scan's first-seen order for corpusFreq
// entries, and pretrainedOrder must list every pretrainedFreq token; Build
// breaks count ties by the returned order.
func Merge(corpusFreq FreqTable, scanOrder []string, pretrainedFreq FreqTable, pretrainedOrder []string, policy MergePolicy) (FreqTable, []string) {
	switch policy {
	case PolicyOld:
		out := make(FreqTable, len(pretrainedFreq))
		for tok, c := range pretrainedFreq {
			out[tok] = c
		}
		return out, pretrainedOrder
	case PolicyNew:
		out := make(FreqTable, len(corpusFreq))
		for tok, c := range corpusFreq {
			out[tok] = c
		}
		return out, scanOrder
	default: // PolicyUnion
		out := make(FreqTable, len(corpusFreq)+len(pretrainedFreq))
		order := make([]string, 0, len(corpusFreq)+len(pretrainedFreq))
		seen := make(map[string]bool, len(corpusFreq)+len(pretrainedFreq))
		for _, tok := range pretrainedOrder {
			out[tok] = pretrainedFreq[tok]
			if !seen[tok] {
				seen[tok] = true
				order = append(order, tok)
			}
		}
		for _, tok := range scanOrder {
			out[tok] += corpusFreq[tok]
			if !seen[tok] {
				seen[tok] = true
				order = append(order, tok)
			}
		}
		return out, order
	}
}
