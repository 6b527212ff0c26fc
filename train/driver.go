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
	"bufio"
	"context"
	"io"
	"math"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"

	"github.com/vecforge/vecforge/corpus"
	"github.com/vecforge/vecforge/embedding"
	"github.com/vecforge/vecforge/freqstore"
	"github.com/vecforge/vecforge/sigmoid"
	"github.com/vecforge/vecforge/vlog"
	"github.com/vecforge/vecforge/vocab"
)

func loadFloat64(addr *uint64) float64 {
	return math.Float64frombits(atomic.LoadUint64(addr))
}

func storeFloat64(addr *uint64, v float64) {
	atomic.StoreUint64(addr, math.Float64bits(v))
}

// checkVocabCapacity fails fast when a vocabulary is too large for
// vocab.Index (uint32) to address every entry.
func checkVocabCapacity(size int) error {
	if uint64(size) > math.MaxUint32 {
		return errors.Errorf("train: vocabulary size %d exceeds the %d entries a WordIndex can address", size, uint64(math.MaxUint32))
	}
	return nil
}

// Config gathers every driver-level knob exposed on the command line,
// grounded on koan.cpp's main().
type Config struct {
	Files []string
	Params

	Epochs               int
	MinCount             uint64
	Discard              bool
	CBOW                 bool
	DownsampleThreshold  float64
	InitLR               float64
	MinLR                float64
	NSExponent           float64
	VocabSize            int // 0 means unbounded
	VocabLoadPath        string
	TotalSentences       uint64
	BufferSize           int
	ShuffleSentences     bool
	Partitioned          bool
	PretrainedPath       string
	ContinueVocab        vocab.MergePolicy
	ReadMode             corpus.ReadMode
	EnforceMaxLineLength bool
	StartLRScheduleEpoch int
	MaxLRScheduleEpochs  int

	// EmbeddingSeed and ShuffleSeed seed the embedding-init RNG and the
	// per-epoch batch shuffle RNG respectively. Zero selects the default:
	// EmbeddingSeed defaults to 123457 and ShuffleSeed to 12345, matching
	// koan's fixed process-wide seeds. Set both explicitly to run two
	// Drivers deterministically side by side in a test.
	EmbeddingSeed int64
	ShuffleSeed   int64

	// UseExactSigmoid switches the update rules to sigmoid.Exact, used by
	// gradient-check style tests where the table's quantization would
	// mask a bug.
	UseExactSigmoid bool

	// FreqStore backs the corpus frequency scan; nil defaults to an
	// in-memory map (freqstore.InMemory).
	FreqStore freqstore.Store

	Logger vlog.Logger
}

// DriverStats is a snapshot of a run's progress, read via atomics so a
// concurrently-polling render.ProgressReporter never blocks training.
type DriverStats struct {
	SentencesProcessed uint64
	TokensRetained     uint64
	CurrentLR          float64
}

// Driver assembles a vocabulary, builds the probability tables and
// embedding matrices, and runs the SGD loop over one or more epochs.
type Driver struct {
	cfg Config
	log vlog.Logger

	vocabMap   *vocab.Map
	freq       vocab.FreqTable
	discard    bool // may differ from cfg.Discard when a loaded vocab pins UNK
	sigmoidFn  sigmoid.Func

	in      *embedding.Matrix
	out     *embedding.Matrix
	trainer *Trainer

	sentsProcessed uint64
	tokensRetained uint64
	currentLR      uint64 // math.Float64bits, accessed via atomic

	shuffleRNG *rand.Rand
}

// NewDriver assembles the vocabulary, probability tables, and embedding
// matrices, ready for Run.
func NewDriver(cfg Config) (*Driver, error) {
	if cfg.Epochs <= 0 {
		return nil, errors.New("train: Epochs must be positive")
	}
	if cfg.VocabLoadPath != "" && cfg.MinCount != 0 {
		return nil, errors.New("train: MinCount must be left unset together with VocabLoadPath; a loaded vocabulary is already pruned")
	}
	if cfg.NSExponent < 0 || cfg.NSExponent > 1 {
		return nil, errors.Errorf("train: NSExponent must be in [0,1], got %v", cfg.NSExponent)
	}
	if cfg.TotalSentences > 0 && cfg.VocabLoadPath == "" {
		return nil, errors.New("train: TotalSentences is only valid together with VocabLoadPath")
	}
	if cfg.MaxLRScheduleEpochs == 0 {
		cfg.MaxLRScheduleEpochs = cfg.StartLRScheduleEpoch + cfg.Epochs
	}
	if cfg.StartLRScheduleEpoch >= cfg.MaxLRScheduleEpochs {
		return nil, errors.New("train: StartLRScheduleEpoch must be less than MaxLRScheduleEpochs")
	}
	if cfg.Threads <= 0 {
		cfg.Threads = 1
	}
	if cfg.Ctxs <= 0 {
		cfg.Ctxs = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 100000
	}
	if cfg.VocabLoadPath == "" && cfg.MinCount == 0 {
		cfg.MinCount = 5
	}
	log := cfg.Logger
	if log == nil {
		log = vlog.NoOp()
	}

	var pretrained map[string][]float64
	if cfg.PretrainedPath != "" {
		f, err := openFile(cfg.PretrainedPath)
		if err != nil {
			return nil, err
		}
		pretrained, err = embedding.LoadPretrained(f, cfg.Dim)
		f.Close()
		if err != nil {
			return nil, err
		}
	}

	if cfg.EmbeddingSeed == 0 {
		cfg.EmbeddingSeed = 123457
	}
	if cfg.ShuffleSeed == 0 {
		cfg.ShuffleSeed = 12345
	}

	d := &Driver{cfg: cfg, log: log}

	if err := d.assembleVocabulary(pretrained); err != nil {
		return nil, err
	}

	total := vocab.Total(d.freq)
	filterProbs := vocab.DownsampleProbs(d.vocabMap, d.freq, total, cfg.DownsampleThreshold)
	negProbs := vocab.NegativeDistribution(d.vocabMap, d.freq, cfg.NSExponent)

	n := d.vocabMap.Size()
	rng := rand.New(rand.NewSource(cfg.EmbeddingSeed))
	d.in = embedding.NewRandom(n, cfg.Dim, rng)
	d.out = embedding.NewMatrix(n, cfg.Dim)
	if err := embedding.Overlay(d.in, d.vocabMap, pretrained); err != nil {
		return nil, err
	}

	if cfg.UseExactSigmoid {
		d.sigmoidFn = sigmoid.Exact
	} else {
		table := sigmoid.NewTable()
		d.sigmoidFn = table.At
	}

	trainer, err := New(cfg.Params, d.in, d.out, filterProbs, negProbs, d.sigmoidFn)
	if err != nil {
		return nil, err
	}
	d.trainer = trainer
	d.shuffleRNG = rand.New(rand.NewSource(cfg.ShuffleSeed))

	return d, nil
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "train: opening %q", path)
	}
	return f, nil
}

// assembleVocabulary either loads a previously saved vocabulary, or scans
// the corpus and merges it with any pretrained vocabulary per
// cfg.ContinueVocab.
func (d *Driver) assembleVocabulary(pretrained map[string][]float64) error {
	if d.cfg.VocabLoadPath != "" {
		f, err := openFile(d.cfg.VocabLoadPath)
		if err != nil {
			return err
		}
		defer f.Close()
		m, freq, err := vocab.Load(bufio.NewReader(f))
		if err != nil {
			return err
		}
		if err := checkVocabCapacity(m.Size()); err != nil {
			return err
		}
		d.vocabMap = m
		d.freq = freq
		d.discard = true
		if idx, ok := m.Lookup(vocab.UNK); ok && idx == 0 {
			d.discard = false
		}
		return nil
	}

	store := d.cfg.FreqStore
	if store == nil {
		store = freqstore.NewInMemory()
	}
	var scanOrder []string
	for _, fname := range d.cfg.Files {
		fh, err := corpus.Open(fname, d.cfg.ReadMode)
		if err != nil {
			return err
		}
		scanner := corpus.NewLineScanner(fh)
		for scanner.Scan() {
			for _, tok := range corpus.SplitLine(scanner.Text()) {
				if store.Get(tok) == 0 {
					scanOrder = append(scanOrder, tok)
				}
				store.IncrBy(tok, 1)
			}
		}
		err = scanner.Err()
		fh.Close()
		if err != nil {
			return errors.Wrapf(err, "train: scanning %q", fname)
		}
	}
	freq := make(vocab.FreqTable)
	store.Iterate(func(tok string, c uint64) { freq[tok] = c })

	if pretrained != nil && (d.cfg.ContinueVocab == vocab.PolicyOld || d.cfg.ContinueVocab == vocab.PolicyUnion) {
		pretrainedFreq := make(vocab.FreqTable, len(pretrained))
		pretrainedOrder := make([]string, 0, len(pretrained))
		for tok := range pretrained {
			if _, ok := freq[tok]; !ok {
				pretrainedFreq[tok] = d.cfg.MinCount
			} else {
				pretrainedFreq[tok] = freq[tok]
			}
			pretrainedOrder = append(pretrainedOrder, tok)
		}
		freq, scanOrder = vocab.Merge(freq, scanOrder, pretrainedFreq, pretrainedOrder, d.cfg.ContinueVocab)
	}

	m, pruned := vocab.Build(freq, scanOrder, vocab.BuildOptions{
		MinCount: d.cfg.MinCount,
		MaxVocab: d.cfg.VocabSize,
		AddUnk:   !d.cfg.Discard,
	})
	if err := checkVocabCapacity(m.Size()); err != nil {
		return err
	}
	d.vocabMap = m
	d.freq = pruned
	d.discard = d.cfg.Discard
	return nil
}

// Vocab returns the assembled vocabulary and frequency table, ready for
// vocab.Save during finalization.
func (d *Driver) Vocab() (*vocab.Map, vocab.FreqTable) { return d.vocabMap, d.freq }

// Embeddings returns the trained IN matrix (the one saved as the final
// embedding table); its rows follow Vocab's index order.
func (d *Driver) Embeddings() *embedding.Matrix { return d.in }

// Stats returns an atomic snapshot of training progress.
func (d *Driver) Stats() DriverStats {
	return DriverStats{
		SentencesProcessed: atomic.LoadUint64(&d.sentsProcessed),
		TokensRetained:     atomic.LoadUint64(&d.tokensRetained),
		CurrentLR:          loadFloat64(&d.currentLR),
	}
}

// Run streams the corpus through cfg.Epochs training passes, dispatching
// work across cfg.Threads goroutines per the selected regime.
func (d *Driver) Run(ctx context.Context) error {
	readWhole := d.cfg.TotalSentences > 0 && uint64(d.cfg.BufferSize) > d.cfg.TotalSentences
	if readWhole {
		d.log.Warnf("buffer-size %d exceeds total-sentences %d, switching to whole-in-memory reader",
			d.cfg.BufferSize, d.cfg.TotalSentences)
	}
	opts := corpus.Options{
		Files:                d.cfg.Files,
		Vocab:                d.vocabMap,
		Discard:              d.discard,
		ReadMode:             d.cfg.ReadMode,
		EnforceMaxLineLength: d.cfg.EnforceMaxLineLength,
	}

	var reader corpus.Reader
	var err error
	if readWhole {
		reader = corpus.NewWholeInMemory(opts)
	} else {
		reader, err = corpus.NewBackground(opts, d.cfg.BufferSize)
		if err != nil {
			return err
		}
	}
	defer reader.Close()

	d.log.Infof("training: vocab=%d dim=%d threads=%d epochs=%d partitioned=%v",
		d.vocabMap.Size(), d.cfg.Dim, d.cfg.Threads, d.cfg.Epochs, d.cfg.Partitioned)

	for e := 0; e < d.cfg.Epochs; e++ {
		if err := d.runEpoch(ctx, reader, e); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) runEpoch(ctx context.Context, reader corpus.Reader, epoch int) error {
	atomic.StoreUint64(&d.sentsProcessed, 0)
	atomic.StoreUint64(&d.tokensRetained, 0)
	var globalI uint64
	var totalTokensInEpoch uint64

	var batch []corpus.Sentence
	for {
		batch = batch[:0]
		ok, err := reader.GetNext(&batch)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if len(batch) == 0 {
			continue
		}

		perm := make([]int, len(batch))
		for i := range perm {
			perm[i] = i
		}
		if d.cfg.ShuffleSentences {
			d.shuffleRNG.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
		}

		work := func(i, tid int) {
			s := batch[perm[i]]
			lr := d.scheduleLR(epoch, i, globalI)
			storeFloat64(&d.currentLR, lr)
			retained := d.trainer.Train(s, tid, lr, d.cfg.CBOW)
			atomic.AddUint64(&d.sentsProcessed, 1)
			atomic.AddUint64(&d.tokensRetained, uint64(retained))
			atomic.AddUint64(&totalTokensInEpoch, uint64(len(s)))
		}

		if d.cfg.Partitioned {
			if err := runPartitioned(len(batch), d.cfg.Threads, work); err != nil {
				return err
			}
		} else {
			if err := runAtomicCounter(ctx, len(batch), d.cfg.Threads, work); err != nil {
				return err
			}
		}

		globalI += uint64(len(batch))
	}

	retained := atomic.LoadUint64(&d.tokensRetained)
	pct := 0.0
	if totalTokensInEpoch > 0 {
		pct = 100 * float64(retained) / float64(totalTokensInEpoch)
	}
	d.log.Infof("epoch %d: sentences=%d tokens_retained=%d/%d (%.1f%%) lr=%.6f",
		epoch, atomic.LoadUint64(&d.sentsProcessed), retained, totalTokensInEpoch, pct, loadFloat64(&d.currentLR))
	return nil
}

// scheduleLR implements koan.cpp's linear learning-rate schedule. When
// TotalSentences is unknown (0), the rate is pinned to InitLR for the
// whole run.
func (d *Driver) scheduleLR(epoch, i int, globalI uint64) float64 {
	if d.cfg.TotalSentences == 0 {
		return d.cfg.InitLR
	}
	e := float64(epoch + d.cfg.StartLRScheduleEpoch)
	maxEpochs := float64(d.cfg.MaxLRScheduleEpochs)
	progress := float64(uint64(i)+globalI) / float64(d.cfg.TotalSentences)
	lrSched := e/maxEpochs + progress/maxEpochs
	lr := d.cfg.InitLR - (d.cfg.InitLR-d.cfg.MinLR)*lrSched
	return lr
}

// runAtomicCounter mirrors koan's parallel_for: one goroutine is started
// per item, each borrowing a tid from a pool of numThreads and claiming the
// next unclaimed item index from a shared atomic counter. The semaphore
// bounds in-flight goroutines to numThreads.
func runAtomicCounter(ctx context.Context, n, numThreads int, work func(i, tid int)) error {
	sem := semaphore.NewWeighted(int64(numThreads))
	tids := make(chan int, numThreads)
	for t := 0; t < numThreads; t++ {
		tids <- t
	}

	var idx int64 = -1
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			return errors.Wrap(err, "train: acquiring worker slot")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			tid := <-tids
			defer func() { tids <- tid }()
			item := int(atomic.AddInt64(&idx, 1))
			work(item, tid)
		}()
	}
	wg.Wait()
	return nil
}

// runPartitioned mirrors koan's parallel_for_partitioned with
// consecutive_alloc=true: each of numThreads goroutines owns one
// contiguous block of indices and its own fixed tid for the block's
// duration.
func runPartitioned(n, numThreads int, work func(i, tid int)) error {
	if numThreads > n {
		numThreads = n
	}
	if numThreads == 0 {
		return nil
	}
	batchSize := n / numThreads
	var wg sync.WaitGroup
	for tid := 0; tid < numThreads; tid++ {
		start := tid * batchSize
		end := start + batchSize
		if tid == numThreads-1 {
			end = n
		}
		wg.Add(1)
		go func(tid, start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				work(i, tid)
			}
		}(tid, start, end)
	}
	wg.Wait()
	return nil
}

// Finalize writes the vocabulary and trained embeddings to the given
// writers.
func (d *Driver) Finalize(vocabW, embeddingW io.Writer) error {
	if err := vocab.Save(vocabW, d.vocabMap, d.freq); err != nil {
		return err
	}
	return embedding.Save(embeddingW, d.vocabMap, d.in)
}
