// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package switcherr

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	pkgerrors "github.com/pkg/errors"
)

// Problem:
// Given an estimated phasing and the true phasing of the same samples as two
// line-synchronized haplotype streams, count how often the correspondence
// between estimated and true homologs flips between consecutive
// heterozygous sites (switch errors).  Optionally exclude trio sites whose
// true phase is pedigree-ambiguous, and stratify the counts by local
// ancestry class.
//
// Implementation strategy:
// Everything is strictly sequential: one locus at a time, samples in
// ascending order within a locus, because the genotype streams and the
// per-sample ancestry streams are record-synchronized with no way to seek.
// Per-sample state is a single orientation enum plus diagnostics counters
// (see tracker.go); all totals accumulate into one Stats.  Any input
// inconsistency is a hard error: tolerating it silently would bias the
// reported rate.

// openInput opens path for reading, transparently decompressing if the file
// is compressed.
func openInput(ctx context.Context, path string) (io.Reader, io.Closer, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	r, _ := compress.NewReader(in.Reader(ctx))
	return r, &inputCloser{ctx: ctx, f: in, r: r}, nil
}

type inputCloser struct {
	ctx context.Context
	f   file.File
	r   io.ReadCloser
}

func (c *inputCloser) Close() error {
	err := c.r.Close()
	if e := c.f.Close(c.ctx); e != nil && err == nil {
		err = e
	}
	return err
}

// loadOmitSet parses a whitespace-separated list of non-negative sample
// indices to exclude from the estimated stream.
func loadOmitSet(r io.Reader) (map[int]bool, error) {
	omit := make(map[int]bool)
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		id, err := strconv.Atoi(sc.Text())
		if err != nil || id < 0 {
			return nil, pkgerrors.Errorf("omit list: bad sample index %q", sc.Text())
		}
		omit[id] = true
	}
	if err := sc.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "error reading omit list")
	}
	return omit, nil
}

// Compare reads the estimated and true phase streams locus by locus and
// returns the accumulated switch-error statistics.
func Compare(ctx context.Context, numSamples int, estPath, truePath string, opts *Opts) (*Stats, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if numSamples <= 0 {
		return nil, errors.E("numSamples must be positive")
	}
	if opts.TrioInSuccession && opts.TrioPairsPath != "" {
		return nil, errors.E("trio-in-succession and a trio pairs file are mutually exclusive")
	}

	estIn, estCloser, err := openInput(ctx, estPath)
	if err != nil {
		return nil, err
	}
	defer estCloser.Close() // nolint: errcheck
	trueIn, trueCloser, err := openInput(ctx, truePath)
	if err != nil {
		return nil, err
	}
	defer trueCloser.Close() // nolint: errcheck

	var omit map[int]bool
	if opts.OmitPath != "" {
		in, closer, err := openInput(ctx, opts.OmitPath)
		if err != nil {
			return nil, err
		}
		omit, err = loadOmitSet(in)
		if e := closer.Close(); e != nil && err == nil {
			err = e
		}
		if err != nil {
			return nil, err
		}
	}

	var trio *trioFilter
	if opts.TrioInSuccession {
		trio = &trioFilter{inSuccession: true}
	} else if opts.TrioPairsPath != "" {
		in, closer, err := openInput(ctx, opts.TrioPairsPath)
		if err != nil {
			return nil, err
		}
		partner, err := loadTrioPairs(in, numSamples)
		if e := closer.Close(); e != nil && err == nil {
			err = e
		}
		if err != nil {
			return nil, err
		}
		trio = &trioFilter{partner: partner}
	}

	var anc *ancestryOracle
	if opts.LocalAncPrefix != "" {
		if anc, err = openAncestry(ctx, opts.LocalAncPrefix, opts.Chrom, numSamples); err != nil {
			return nil, err
		}
		defer anc.close() // nolint: errcheck
	}

	var verbose io.Writer
	if opts.Verbose {
		verbose = opts.VerboseOut
		if verbose == nil {
			verbose = os.Stderr
		}
	}

	c := comparator{
		numSamples: numSamples,
		reader:     newSiteReader(estIn, trueIn, numSamples, opts.SkipNumInEst, omit),
		trio:       trio,
		anc:        anc,
		track:      newTracker(numSamples, verbose),
		skip:       make([]bool, numSamples),
	}
	return c.run()
}

type comparator struct {
	numSamples int
	reader     *siteReader
	trio       *trioFilter
	anc        *ancestryOracle
	track      *tracker
	skip       []bool

	stats Stats
	// warnedOneHapMissing limits the half-missing true genotype warning to
	// one occurrence per run.
	warnedOneHapMissing bool
}

func (c *comparator) run() (*Stats, error) {
	for {
		est, truth, done, err := c.reader.next(c.stats.Markers)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		if err := c.locus(c.stats.Markers, est, truth); err != nil {
			return nil, err
		}
		c.stats.Markers++
	}
	c.track.finish(&c.stats, c.stats.Markers-1)
	return &c.stats, nil
}

// locus compares the phase of every sample at one locus.
func (c *comparator) locus(locus int, est, truth []byte) error {
	if c.trio != nil {
		c.trio.markSkips(truth, c.skip)
	}
	for samp := 0; samp < c.numSamples; samp++ {
		ancClass := ancNone
		if c.anc != nil {
			// Consumed for every sample at every locus, counted or not, to
			// keep the ancestry streams synchronized.
			var err error
			if ancClass, err = c.anc.next(samp, locus); err != nil {
				return err
			}
		}
		t0, t1 := truth[2*samp], truth[2*samp+1]
		if t0 == missingTrue || t1 == missingTrue {
			if t0 != t1 && !c.warnedOneHapMissing {
				log.Error.Printf("warning: missing data for only one haplotype in truth set (sample %d locus %d)", samp, locus)
				c.warnedOneHapMissing = true
			}
			continue
		}
		e := [2]byte{est[2*samp], est[2*samp+1]}
		for h := 0; h < 2; h++ {
			if e[h] != alleleRef && e[h] != alleleAlt && e[h] != missingEst {
				return errors.E(fmt.Sprintf("sample %d locus %d: invalid estimated allele %c", samp, locus, e[h]))
			}
		}
		if c.trio != nil && c.skip[samp] {
			continue
		}
		if err := c.track.site(&c.stats, samp, locus, e, [2]byte{t0, t1}, ancClass); err != nil {
			return err
		}
	}
	return nil
}
