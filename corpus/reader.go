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

	"github.com/pkg/errors"
	"github.com/vecforge/vecforge/vocab"
)

// Options configure how corpus lines are read and resolved against a
// vocabulary.
type Options struct {
	Files                []string
	Vocab                *vocab.Map
	Discard              bool // drop OOV tokens instead of mapping to UNK
	ReadMode             ReadMode
	EnforceMaxLineLength bool
}

// Reader is the corpus-batch source the training driver pulls from.
// GetNext appends the next batch of sentences to batch; a false return
// marks the end of a pass over the corpus, and a true return may come
// with an empty batch. Both concrete variants define the exact
// alternation contract documented on their concrete type.
type Reader interface {
	GetNext(batch *[]Sentence) (bool, error)
	Close() error
}

func readLine(scanner *bufio.Scanner, enforceMax bool, fname string) (string, bool, error) {
	if !scanner.Scan() {
		return "", false, scanner.Err()
	}
	line := scanner.Text()
	if !enforceMax && len(line) > MaxLineLength {
		line = line[:MaxLineLength]
	}
	if enforceMax && len(line) >= MaxLineLength {
		return "", false, errors.Errorf("corpus: line too long in file %q (>= %d bytes)", fname, MaxLineLength)
	}
	return line, true, nil
}
