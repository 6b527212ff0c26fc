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
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vecforge/vecforge/vocab"
)

func writeTempCorpus(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.txt")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func buildTestVocab(toks ...string) *vocab.Map {
	m := vocab.NewMap()
	m.Insert(vocab.UNK)
	for _, tok := range toks {
		m.Insert(tok)
	}
	return m
}

func TestCountTokens(t *testing.T) {
	scanner := bufio.NewScanner(strings.NewReader("the cat sat\nthe dog ran"))
	freq := make(vocab.FreqTable)
	order, err := CountTokens(scanner, freq)
	if err != nil {
		t.Fatalf("CountTokens: %v", err)
	}
	if freq["the"] != 2 {
		t.Errorf("freq[the] = %d, want 2", freq["the"])
	}
	if len(order) != 5 {
		t.Errorf("order = %v, want 5 distinct tokens", order)
	}
}

func TestSplitLineOnlySpaceIsSignificant(t *testing.T) {
	toks := SplitLine("cat\tsat  on\tthe mat")
	want := []string{"cat\tsat", "on\tthe", "mat"}
	if len(toks) != len(want) {
		t.Fatalf("SplitLine = %v, want %v", toks, want)
	}
	for i, w := range want {
		if toks[i] != w {
			t.Errorf("toks[%d] = %q, want %q", i, toks[i], w)
		}
	}
}

func TestParseLineReplacesOOVWithUnk(t *testing.T) {
	m := buildTestVocab("cat", "sat")
	s := ParseLine(m, "cat sat mysteriously", false)
	if len(s) != 3 {
		t.Fatalf("len(s) = %d, want 3", len(s))
	}
	unkIdx, _ := m.Lookup(vocab.UNK)
	if s[2] != unkIdx {
		t.Errorf("s[2] = %d, want UNK index %d", s[2], unkIdx)
	}
}

func TestParseLineDiscardsOOV(t *testing.T) {
	m := buildTestVocab("cat")
	s := ParseLine(m, "cat mysteriously", true)
	if len(s) != 1 {
		t.Fatalf("len(s) = %d, want 1", len(s))
	}
}

func TestWholeInMemoryAlternatesTrueFalse(t *testing.T) {
	path := writeTempCorpus(t, "cat sat", "dog ran")
	m := buildTestVocab("cat", "sat", "dog", "ran")
	r := NewWholeInMemory(Options{Files: []string{path}, Vocab: m, ReadMode: ReadAuto})

	var batch []Sentence
	ok, err := r.GetNext(&batch)
	if err != nil {
		t.Fatalf("GetNext: %v", err)
	}
	if !ok {
		t.Fatal("first GetNext returned false, want true")
	}
	if len(batch) != 2 {
		t.Fatalf("len(batch) = %d, want 2", len(batch))
	}

	ok, err = r.GetNext(&batch)
	if err != nil {
		t.Fatalf("GetNext: %v", err)
	}
	if ok {
		t.Error("second GetNext returned true, want false")
	}

	ok, err = r.GetNext(&batch)
	if err != nil {
		t.Fatalf("GetNext: %v", err)
	}
	if !ok {
		t.Error("third GetNext returned false, want true")
	}
}

func TestBackgroundWrapsAroundAndSignalsEOF(t *testing.T) {
	path := writeTempCorpus(t, "cat sat", "dog ran")
	m := buildTestVocab("cat", "sat", "dog", "ran")
	r, err := NewBackground(Options{Files: []string{path}, Vocab: m, ReadMode: ReadAuto}, 1)
	if err != nil {
		t.Fatalf("NewBackground: %v", err)
	}
	defer r.Close()

	var totalBatches, falseCount int
	var sentences int
	for i := 0; i < 6; i++ {
		var batch []Sentence
		ok, err := r.GetNext(&batch)
		if err != nil {
			t.Fatalf("GetNext: %v", err)
		}
		totalBatches++
		if !ok {
			falseCount++
			continue
		}
		sentences += len(batch)
	}
	if falseCount == 0 {
		t.Error("Background never signaled EOF with a false return")
	}
	if sentences == 0 {
		t.Error("Background never returned any sentences")
	}
}

func TestOpenAutoPlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.txt")
	if err := os.WriteFile(path, []byte("cat sat\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fh, err := Open(path, ReadAuto)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer fh.Close()
}
