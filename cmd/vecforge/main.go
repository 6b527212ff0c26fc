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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vecforge/vecforge/corpus"
	"github.com/vecforge/vecforge/freqstore"
	"github.com/vecforge/vecforge/render"
	"github.com/vecforge/vecforge/train"
	"github.com/vecforge/vecforge/vlog"
	"github.com/vecforge/vecforge/vocab"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// run parses args, trains, and writes results, returning a non-nil error
// (already logged) on any failure. Split out from main so it can be driven
// directly in tests without an os.Exit in the way.
func run(args []string) error {
	flags := flag.NewFlagSet("vecforge", flag.ContinueOnError)

	filesRaw := flags.String("files", "", "comma-separated list of tokenized corpus files")
	dim := flags.Int("dim", 300, "number of dimensions of word vectors")
	ctxSize := flags.Int("context-size", 5, "one-sided context extension; actual width sampled uniformly in [1, context-size]")
	negatives := flags.Int("negatives", 5, "number of negative samples per positive update")
	lr := flags.Float64("learning-rate", 0.025, "initial learning rate")
	minLR := flags.Float64("min-learning-rate", 0.0001, "learning rate floor at the end of the schedule")
	minCount := flags.Uint64("min-count", 0, "drop tokens occurring fewer than this many times; 0 uses the built-in default of 5, and must be left at 0 when -vocab-load-path is set")
	discard := flags.Bool("discard", false, "drop out-of-vocabulary tokens instead of mapping them to ___UNK___")
	cbow := flags.Bool("cbow", false, "use CBOW instead of Skip-Gram")
	useBadUpdate := flags.Bool("use-bad-update", false, "reproduce word2vec.c's unnormalized CBOW context gradient")
	fixCBOWNegSkip := flags.Bool("fix-cbow-negative-skip", false, "compare negative samples against the true center word index instead of its sentence position")
	downsample := flags.Float64("downsample-threshold", 1e-4, "subsampling threshold for frequent words, 0 disables")
	nsExponent := flags.Float64("ns-exponent", 0.75, "exponent applied to raw counts for the negative-sampling distribution")
	epochs := flags.Int("epochs", 5, "number of passes over the corpus")
	startLRScheduleEpoch := flags.Int("start-lr-schedule-epoch", 0, "epoch offset the learning-rate schedule starts counting from")
	maxLRScheduleEpochs := flags.Int("max-lr-schedule-epochs", 0, "epoch count the learning rate decays to min-learning-rate over; 0 defaults to start-lr-schedule-epoch+epochs")
	vocabSize := flags.Int("vocab-size", 0, "cap vocabulary to this many entries, 0 for no limit")
	vocabLoadPath := flags.String("vocab-load-path", "", "load a previously saved vocabulary instead of scanning the corpus")
	totalSentences := flags.Uint64("total-sentences", 0, "corpus sentence count, enables the learning-rate schedule, the progress line, and buffered-vs-background reader selection; 0 disables all three")
	threads := flags.Int("threads", 4, "number of concurrent training goroutines")
	bufferSize := flags.Int("buffer-size", 100000, "sentences buffered per batch; exceeding total-sentences reads the whole corpus into memory once")
	shuffle := flags.Bool("shuffle-sentences", false, "shuffle each batch before training")
	partitioned := flags.Bool("partitioned", false, "dispatch batches in fixed contiguous per-thread blocks instead of a shared atomic work counter")
	pretrainedPath := flags.String("pretrained-path", "", "path to a pretrained embedding file to overlay onto random init")
	continueVocab := flags.String("continue-vocab", "new", "how to reconcile a fresh corpus scan with pretrained-path's vocabulary: old, new, or union")
	readMode := flags.String("read-mode", "auto", "corpus decoding: auto, text, or gzip")
	enforceMaxLineLength := flags.Bool("enforce-max-line-length", false, "reject corpus lines at or beyond the maximum line length instead of truncating them to it")
	embeddingPath := flags.String("embedding-path", "", "path to write the trained embeddings to (required)")
	vocabSavePath := flags.String("vocab-save-path", "", "path to write the assembled vocabulary to; defaults to embedding-path+\".vocab\"")
	noProgress := flags.Bool("no-progress", false, "suppress the stderr progress line")
	verbose := flags.Bool("verbose", false, "enable debug-level logging")
	embeddingSeed := flags.Int64("embedding-seed", 0, "seed for the random embedding initializer, 0 uses the built-in default")
	shuffleSeed := flags.Int64("shuffle-seed", 0, "seed for per-epoch batch shuffling, 0 uses the built-in default")
	largeCorpus := flags.String("large-corpus", "", "directory for an on-disk leveldb frequency store, used instead of an in-memory map when scanning a corpus too large to count in RAM")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vecforge -files a.txt,b.txt -embedding-path out.vec [options]\n\nOptions:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}

	level := logrus.InfoLevel
	if *verbose {
		level = logrus.DebugLevel
	}
	logger := vlog.NewLogrus(level)

	if *filesRaw == "" || *embeddingPath == "" {
		render.FlagUsage{}.PrintUsage(flags)
		err := fmt.Errorf("vecforge: -files and -embedding-path are required")
		logger.Errorf("%v", err)
		return err
	}

	files := strings.Split(*filesRaw, ",")

	policy, err := parseMergePolicy(*continueVocab)
	if err != nil {
		logger.Errorf("%v", err)
		return err
	}
	mode, err := parseReadMode(*readMode)
	if err != nil {
		logger.Errorf("%v", err)
		return err
	}

	cfg := train.Config{
		Files: files,
		Params: train.Params{
			Dim:                 *dim,
			Ctxs:                *ctxSize,
			Negatives:           *negatives,
			Threads:             *threads,
			UseBadUpdate:        *useBadUpdate,
			FixCBOWNegativeSkip: *fixCBOWNegSkip,
		},
		Epochs:               *epochs,
		MinCount:             *minCount,
		Discard:              *discard,
		CBOW:                 *cbow,
		DownsampleThreshold:  *downsample,
		InitLR:               *lr,
		MinLR:                *minLR,
		NSExponent:           *nsExponent,
		VocabSize:            *vocabSize,
		VocabLoadPath:        *vocabLoadPath,
		TotalSentences:       *totalSentences,
		BufferSize:           *bufferSize,
		ShuffleSentences:     *shuffle,
		Partitioned:          *partitioned,
		PretrainedPath:       *pretrainedPath,
		ContinueVocab:        policy,
		ReadMode:             mode,
		EnforceMaxLineLength: *enforceMaxLineLength,
		StartLRScheduleEpoch: *startLRScheduleEpoch,
		MaxLRScheduleEpochs:  *maxLRScheduleEpochs,
		EmbeddingSeed:        *embeddingSeed,
		ShuffleSeed:          *shuffleSeed,
		Logger:               logger,
	}

	if *largeCorpus != "" {
		store, err := freqstore.OpenLevelDB(*largeCorpus)
		if err != nil {
			logger.Errorf("opening large-corpus store: %v", err)
			return err
		}
		defer store.Close()
		cfg.FreqStore = store
	}

	table := render.NewTable(os.Stderr)
	table.Row("files", strings.Join(files, ", "))
	table.Row("dim", strconv.Itoa(*dim))
	table.Row("threads", strconv.Itoa(*threads))
	table.Row("epochs", strconv.Itoa(*epochs))
	objective := "skip-gram"
	if *cbow {
		objective = "cbow"
	}
	table.Row("objective", objective)
	table.Flush()

	driver, err := train.NewDriver(cfg)
	if err != nil {
		logger.Errorf("building trainer: %v", err)
		return err
	}

	stop := func() {}
	if !*noProgress && *totalSentences > 0 {
		reporter := render.NewStderrProgress(os.Stderr)
		ticker := time.NewTicker(time.Second)
		done := make(chan struct{})
		go func() {
			for {
				select {
				case <-ticker.C:
					s := driver.Stats()
					reporter.Report(render.Stats{
						SentencesProcessed: s.SentencesProcessed,
						TokensRetained:     s.TokensRetained,
						CurrentLR:          s.CurrentLR,
					})
				case <-done:
					ticker.Stop()
					return
				}
			}
		}()
		stop = func() { close(done) }
	}

	if err := driver.Run(context.Background()); err != nil {
		stop()
		logger.Errorf("training: %v", err)
		return err
	}
	stop()

	if *vocabSavePath == "" {
		*vocabSavePath = *embeddingPath + ".vocab"
	}
	vocabFile, err := os.Create(*vocabSavePath)
	if err != nil {
		logger.Errorf("creating vocabulary file: %v", err)
		return err
	}
	embeddingFile, err := os.Create(*embeddingPath)
	if err != nil {
		vocabFile.Close()
		logger.Errorf("creating embedding file: %v", err)
		return err
	}
	err = driver.Finalize(vocabFile, embeddingFile)
	vocabFile.Close()
	embeddingFile.Close()
	if err != nil {
		logger.Errorf("saving results: %v", err)
		return err
	}

	logger.Infof("finished!")
	return nil
}

func parseMergePolicy(s string) (vocab.MergePolicy, error) {
	switch s {
	case "old":
		return vocab.PolicyOld, nil
	case "new", "":
		return vocab.PolicyNew, nil
	case "union":
		return vocab.PolicyUnion, nil
	default:
		return 0, fmt.Errorf("vecforge: invalid -continue-vocab %q (want old, new, or union)", s)
	}
}

func parseReadMode(s string) (corpus.ReadMode, error) {
	switch s {
	case "auto", "":
		return corpus.ReadAuto, nil
	case "text":
		return corpus.ReadText, nil
	case "gzip":
		return corpus.ReadGzip, nil
	default:
		return 0, fmt.Errorf("vecforge: invalid -read-mode %q (want auto, text, or gzip)", s)
	}
}
