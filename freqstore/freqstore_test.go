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

package freqstore

import "testing"

func TestInMemoryIncrAndGet(t *testing.T) {
	s := NewInMemory()
	s.IncrBy("cat", 3)
	s.IncrBy("cat", 2)
	if got := s.Get("cat"); got != 5 {
		t.Errorf("Get(cat) = %d, want 5", got)
	}
	if got := s.Get("missing"); got != 0 {
		t.Errorf("Get(missing) = %d, want 0", got)
	}
}

func TestInMemoryIterate(t *testing.T) {
	s := NewInMemory()
	s.IncrBy("a", 1)
	s.IncrBy("b", 2)
	seen := make(map[string]uint64)
	s.Iterate(func(tok string, c uint64) { seen[tok] = c })
	if seen["a"] != 1 || seen["b"] != 2 {
		t.Errorf("Iterate produced %v", seen)
	}
}

func TestLevelDBIncrAndGet(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenLevelDB(dir)
	if err != nil {
		t.Fatalf("OpenLevelDB: %v", err)
	}
	defer s.Close()

	s.IncrBy("cat", 3)
	s.IncrBy("cat", 2)
	if got := s.Get("cat"); got != 5 {
		t.Errorf("Get(cat) = %d, want 5", got)
	}
}
