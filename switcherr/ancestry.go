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
	"strconv"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

// Local-ancestry posterior records.  One file per sample, one record per
// locus: an integer position followed by three posterior probabilities
// (homozygous popA, het, homozygous popB) summing to 1.  A class is called
// confident when its posterior exceeds ancConfidenceMin.

const (
	ancConfidenceMin = 0.9
	// The three posteriors must sum to 1 within this tolerance.
	ancSumTolerance = 0.003
)

// ancestryOracle serves per-sample, per-locus ancestry classes.  Its streams
// are record-synchronized with the genotype streams: next must be called
// exactly once per sample per locus, in ascending sample order, whether or
// not the locus ends up being counted.
type ancestryOracle struct {
	scanners []*bufio.Scanner
	closers  []io.Closer
	// prev[samp] is the previous locus's confident class, or ancNone.
	prev []int
}

// openAncestry opens one posterior stream per sample, named
// <prefix>.<sample>.<chrom>.
func openAncestry(ctx context.Context, prefix string, chrom, numSamples int) (*ancestryOracle, error) {
	if numSamples > 1000 {
		log.Error.Printf("warning: limitations on the number of open files may prevent opening all %d local ancestry files; try raising ulimit -n if this fails", numSamples)
	}
	o := &ancestryOracle{
		scanners: make([]*bufio.Scanner, numSamples),
		closers:  make([]io.Closer, 0, numSamples),
		prev:     make([]int, numSamples),
	}
	for i := 0; i < numSamples; i++ {
		path := fmt.Sprintf("%s.%d.%d", prefix, i, chrom)
		in, closer, err := openInput(ctx, path)
		if err != nil {
			o.close() // nolint: errcheck
			return nil, err
		}
		o.scanners[i] = bufio.NewScanner(in)
		o.closers = append(o.closers, closer)
		o.prev[i] = ancNone
	}
	return o, nil
}

// next consumes one record for samp and returns its confident-and-stable
// ancestry class: the current class if both the current and previous locus
// were confidently called the same, else ancNone.
func (o *ancestryOracle) next(samp, locus int) (int, error) {
	cur, err := o.read(samp, locus)
	if err != nil {
		return ancNone, err
	}
	stable := ancNone
	if cur == o.prev[samp] && cur >= 0 {
		stable = cur
	}
	o.prev[samp] = cur
	return stable, nil
}

// read parses one posterior record for samp and classifies it.
func (o *ancestryOracle) read(samp, locus int) (int, error) {
	sc := o.scanners[samp]
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return ancNone, errors.Wrapf(err, "sample %d: error reading local ancestry", samp)
		}
		return ancNone, errors.Errorf("sample %d: local ancestry input ended at locus %d", samp, locus)
	}
	fields := strings.Fields(sc.Text())
	if len(fields) != 4 {
		return ancNone, errors.Errorf("sample %d locus %d: malformed local ancestry record %q", samp, locus, sc.Text())
	}
	if _, err := strconv.Atoi(fields[0]); err != nil {
		return ancNone, errors.Errorf("sample %d locus %d: bad position in local ancestry record %q", samp, locus, sc.Text())
	}
	var p [3]float64
	sum := 0.0
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return ancNone, errors.Errorf("sample %d locus %d: bad posterior in local ancestry record %q", samp, locus, sc.Text())
		}
		p[i] = v
		sum += v
	}
	if sum < 1-ancSumTolerance || sum > 1+ancSumTolerance {
		return ancNone, errors.Errorf("sample %d locus %d: local ancestry posteriors sum to %f, want 1", samp, locus, sum)
	}
	switch {
	case p[0] > ancConfidenceMin:
		return AncHomozyPopA, nil
	case p[1] > ancConfidenceMin:
		return AncHet, nil
	case p[2] > ancConfidenceMin:
		return AncHomozyPopB, nil
	}
	return ancNone, nil
}

func (o *ancestryOracle) close() error {
	var err error
	for _, c := range o.closers {
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
