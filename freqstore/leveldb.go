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

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
)

// LevelDB is a Store backed by an on-disk goleveldb database, for corpora
// whose distinct-token count would otherwise exhaust memory. Grounded on
// alexandres-lexvec/storage.go's LevelDBStore, which serves the same role
// for LexVec's cooccurrence matrix.
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens (creating if absent) a leveldb database at dir.
func OpenLevelDB(dir string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "freqstore: opening leveldb at %q", dir)
	}
	return &LevelDB{db: db}, nil
}

func (s *LevelDB) IncrBy(token string, n uint64) {
	cur := s.Get(token)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], cur+n)
	// Errors here indicate a broken on-disk store; the counting loop has
	// no useful recovery, so surface it the way koan's KOAN_ASSERT would
	// have: fail the run rather than silently under-count.
	if err := s.db.Put([]byte(token), buf[:], nil); err != nil {
		panic(errors.Wrapf(err, "freqstore: writing count for %q", token))
	}
}

func (s *LevelDB) Get(token string) uint64 {
	v, err := s.db.Get([]byte(token), nil)
	if err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(v)
}

func (s *LevelDB) Iterate(fn func(token string, count uint64)) {
	iter := s.db.NewIterator(nil, nil)
	defer releaseIterator(iter)
	for iter.Next() {
		fn(string(iter.Key()), binary.LittleEndian.Uint64(iter.Value()))
	}
}

func (s *LevelDB) Close() error {
	return s.db.Close()
}

func releaseIterator(it iterator.Iterator) {
	it.Release()
}

var _ Store = (*LevelDB)(nil)
