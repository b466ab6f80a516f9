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
	"strconv"

	"github.com/pkg/errors"
)

// Trio-aware filtering.  When both parents of a trio are heterozygous at a
// site and their transmitted (first-listed) alleles differ, the child is
// heterozygous too and the pedigree carries no phase information, so the
// site is excluded from switch counting for the affected sample(s).

// trioFilter identifies phase-ambiguous triple-het sites.  Exactly one of
// the two conventions is active: inSuccession pairs sample 2k with 2k+1,
// otherwise partner holds an explicit pairing table.
type trioFilter struct {
	inSuccession bool
	// partner[samp] is the spouse's sample index, -1 if unpaired.  nil in
	// in-succession mode.
	partner []int
}

// loadTrioPairs parses a pairing table of whitespace-separated index pairs.
// Every sample must appear in exactly one pair.
func loadTrioPairs(r io.Reader, numSamples int) ([]int, error) {
	partner := make([]int, numSamples)
	for i := range partner {
		partner[i] = -1
	}
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	numPairs := 0
	for sc.Scan() {
		id1, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, errors.Errorf("trio pairs: bad sample index %q", sc.Text())
		}
		if !sc.Scan() {
			return nil, errors.Errorf("trio pairs: sample %d has no partner", id1)
		}
		id2, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, errors.Errorf("trio pairs: bad sample index %q", sc.Text())
		}
		if id1 == id2 || id1 < 0 || id2 < 0 || id1 >= numSamples || id2 >= numSamples {
			return nil, errors.Errorf("trio pairs: invalid pair %d %d for %d samples", id1, id2, numSamples)
		}
		if partner[id1] != -1 || partner[id2] != -1 {
			return nil, errors.Errorf("trio pairs: sample %d or %d already paired", id1, id2)
		}
		partner[id1] = id2
		partner[id2] = id1
		numPairs++
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading trio pairs")
	}
	if numPairs*2 != numSamples {
		return nil, errors.Errorf("trio pairs: %d pairs cover %d samples, want %d", numPairs, numPairs*2, numSamples)
	}
	return partner, nil
}

// tripleHet reports whether samp and its partner p are both heterozygous
// with differing transmitted alleles in the true haplotypes, implying an
// unphaseable heterozygous child.
func tripleHet(truth []byte, samp, p int) bool {
	return truth[2*samp] != truth[2*samp+1] &&
		truth[2*p] != truth[2*p+1] &&
		truth[2*samp] != truth[2*p]
}

// markSkips sets skip[samp] for every sample whose site must be excluded at
// this locus.  The two conventions differ deliberately: in-succession mode
// evaluates each pair once, at its even-indexed parent, and excludes both
// parents; table mode evaluates every sample against its own partner and
// excludes only that sample (the partner is excluded by its own symmetric
// evaluation when it is reached).  A pair whose even parent has a missing
// true genotype is not evaluated in in-succession mode, since that parent's
// site is dropped before the trio check, leaving the partner countable.
func (f *trioFilter) markSkips(truth []byte, skip []bool) {
	for i := range skip {
		skip[i] = false
	}
	n := len(skip)
	if f.inSuccession {
		for s := 0; s+1 < n; s += 2 {
			if truth[2*s] == missingTrue || truth[2*s+1] == missingTrue {
				continue
			}
			if tripleHet(truth, s, s+1) {
				skip[s] = true
				skip[s+1] = true
			}
		}
		return
	}
	for s := 0; s < n; s++ {
		p := f.partner[s]
		if p < 0 || truth[2*s] == missingTrue || truth[2*s+1] == missingTrue {
			continue
		}
		if tripleHet(truth, s, p) {
			skip[s] = true
		}
	}
}
