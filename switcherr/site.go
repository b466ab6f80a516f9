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
	"io"

	"github.com/pkg/errors"
)

// Allele codes used by the phgeno-style input streams.  One character per
// haplotype per locus, two characters per sample.
const (
	alleleRef = '0'
	alleleAlt = '1'
	// missingTrue marks a missing call in the true-phase stream.
	missingTrue = '9'
	// missingEst marks a missing call in the estimated-phase stream.  Must
	// appear in both haplotype positions of a sample together.
	missingEst = '?'
)

// siteReader reads one locus at a time from the estimated and true phase
// streams in lock-step.  Each locus is one line of 2*numSamples allele
// characters per stream; the estimated line may carry a fixed skip prefix
// and extra columns for omitted samples, both of which are dropped.
type siteReader struct {
	est   *bufio.Scanner
	truth *bufio.Scanner

	numSamples int
	skip       int
	omit       map[int]bool

	estBuf []byte
}

func newSiteReader(est, truth io.Reader, numSamples, skip int, omit map[int]bool) *siteReader {
	return &siteReader{
		est:        bufio.NewScanner(est),
		truth:      bufio.NewScanner(truth),
		numSamples: numSamples,
		skip:       skip,
		omit:       omit,
		estBuf:     make([]byte, 0, 2*numSamples),
	}
}

// next returns the aligned allele sequences for one locus, each of length
// 2*numSamples.  done is true (with nil slices) once the estimated stream is
// exhausted; the true stream ending first is an error.  The returned slices
// are only valid until the following call.
func (r *siteReader) next(locus int) (est, truth []byte, done bool, err error) {
	if !r.est.Scan() {
		if err := r.est.Err(); err != nil {
			return nil, nil, false, errors.Wrap(err, "error reading estimated haplotypes")
		}
		return nil, nil, true, nil
	}
	if est, err = r.filterEst(r.est.Bytes(), locus); err != nil {
		return nil, nil, false, err
	}
	if !r.truth.Scan() {
		if err := r.truth.Err(); err != nil {
			return nil, nil, false, errors.Wrap(err, "error reading true haplotypes")
		}
		return nil, nil, false, errors.Errorf("locus %d: true haplotype input ended before estimated input", locus)
	}
	truth = r.truth.Bytes()
	if len(truth) != 2*r.numSamples {
		return nil, nil, false, errors.Errorf("locus %d: true haplotype line has %d alleles, want %d", locus, len(truth), 2*r.numSamples)
	}
	for h, a := range truth {
		if a != alleleRef && a != alleleAlt && a != missingTrue {
			return nil, nil, false, errors.Errorf("locus %d: invalid true allele %q for sample %d", locus, a, h/2)
		}
	}
	return est, truth, false, nil
}

// filterEst strips the skip prefix and the omitted samples' columns from a
// raw estimated-phase line.
func (r *siteReader) filterEst(line []byte, locus int) ([]byte, error) {
	if len(line) < 2*r.skip {
		return nil, errors.Errorf("locus %d: estimated haplotype line has %d alleles, cannot skip %d samples", locus, len(line), r.skip)
	}
	line = line[2*r.skip:]
	out := r.estBuf[:0]
	for hap, a := range line {
		if r.omit[hap/2] {
			continue
		}
		if len(out) == 2*r.numSamples {
			return nil, errors.Errorf("locus %d: estimated haplotype line has more than %d alleles after skip and omissions", locus, 2*r.numSamples)
		}
		out = append(out, a)
	}
	if len(out) != 2*r.numSamples {
		return nil, errors.Errorf("locus %d: estimated haplotype line has %d alleles after skip and omissions, want %d", locus, len(out), 2*r.numSamples)
	}
	r.estBuf = out
	return out, nil
}
