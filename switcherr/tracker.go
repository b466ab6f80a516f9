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
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
)

// orientation records which estimated homolog currently corresponds to
// true-homolog-0.  It starts orientUnset and is fixed at a sample's first
// informative heterozygous site; after that it only toggles between
// orientAligned and orientInverted, once per detected switch.
type orientation int8

const (
	orientUnset orientation = iota
	orientAligned
	orientInverted
)

type sampleState struct {
	orient orientation
	// lastSwitchLocus is the locus of this sample's most recent switch,
	// used for block-length diagnostics.
	lastSwitchLocus int
	switches        int
}

// tracker is the per-sample phase-tracking state machine.  It consumes one
// aligned (estimated, true) genotype pair per sample per locus and
// accumulates switch errors into a Stats.
type tracker struct {
	state []sampleState
	// verbose, when non-nil, receives one "<sample> <switches> <locus>
	// <blocklen>" record per detected switch.
	verbose io.Writer
}

func newTracker(numSamples int, verbose io.Writer) *tracker {
	return &tracker{
		state:   make([]sampleState, numSamples),
		verbose: verbose,
	}
}

// site processes one sample's genotypes at one locus, after the caller has
// dealt with missing true calls and trio exclusion.  ancClass is the
// confident-and-stable ancestry class for this locus, or ancNone.
func (t *tracker) site(stats *Stats, samp, locus int, est, truth [2]byte, ancClass int) error {
	// A missing estimated call must cover both haplotypes.
	if est[0] == missingEst || est[1] == missingEst {
		if est[0] != est[1] {
			return errors.E(fmt.Sprintf("sample %d locus %d: estimated genotype %c/%c missing on only one haplotype", samp, locus, est[0], est[1]))
		}
		stats.MissingEst++
		return nil
	}

	st := &t.state[samp]
	if st.orient == orientUnset {
		if truth[0] == truth[1] {
			// Homozygous sites carry no orientation information, but the
			// estimated genotype must agree exactly.
			if est[0] != est[1] || est[0] != truth[0] {
				return errors.E(fmt.Sprintf("sample %d locus %d: homozygous mismatch, est %c/%c true %c/%c", samp, locus, est[0], est[1], truth[0], truth[1]))
			}
			return nil
		}
		// First het site fixes the homolog correspondence.  It is not
		// counted as a het site: there is no previous locus to switch
		// relative to.
		if est[0] == truth[0] {
			if est[1] != truth[1] {
				return errors.E(fmt.Sprintf("sample %d locus %d: inconsistent genotypes, est %c/%c true %c/%c", samp, locus, est[0], est[1], truth[0], truth[1]))
			}
			st.orient = orientAligned
		} else {
			if est[0] != truth[1] || est[1] != truth[0] {
				return errors.E(fmt.Sprintf("sample %d locus %d: inconsistent genotypes, est %c/%c true %c/%c", samp, locus, est[0], est[1], truth[0], truth[1]))
			}
			st.orient = orientInverted
		}
		return nil
	}

	h0, h1 := 0, 1
	if st.orient == orientInverted {
		h0, h1 = 1, 0
	}
	if truth[0] != truth[1] {
		stats.HetSites++
		if ancClass >= 0 {
			stats.AncHetSites[ancClass]++
		} else {
			stats.AncHetSites[AncAmbiguous]++
		}
	}
	if est[h0] == truth[0] {
		if est[h1] != truth[1] {
			return errors.E(fmt.Sprintf("sample %d locus %d: inconsistent genotypes, est %c/%c true %c/%c", samp, locus, est[h0], est[h1], truth[0], truth[1]))
		}
		return nil
	}
	// Mismatch: the only permitted resolution is a clean switch.
	if est[h0] != truth[1] || est[h1] != truth[0] {
		return errors.E(fmt.Sprintf("sample %d locus %d: inconsistent genotypes, est %c/%c true %c/%c", samp, locus, est[h0], est[h1], truth[0], truth[1]))
	}
	stats.SwitchErrors++
	if ancClass >= 0 {
		stats.AncSwitchErrors[ancClass]++
	} else {
		stats.AncSwitchErrors[AncAmbiguous]++
	}
	if st.orient == orientAligned {
		st.orient = orientInverted
	} else {
		st.orient = orientAligned
	}
	if t.verbose != nil {
		fmt.Fprintf(t.verbose, "%d %d %d %d\n", samp, st.switches, locus, locus-st.lastSwitchLocus)
	}
	st.lastSwitchLocus = locus
	st.switches++
	return nil
}

// finish emits the final open block for every sample and copies per-sample
// switch counts into stats.  lastLocus is the index of the last locus read.
func (t *tracker) finish(stats *Stats, lastLocus int) {
	stats.SampleSwitches = make([]int, len(t.state))
	for samp := range t.state {
		st := &t.state[samp]
		stats.SampleSwitches[samp] = st.switches
		if t.verbose != nil {
			fmt.Fprintf(t.verbose, "%d %d %d %d\n", samp, st.switches, lastLocus, lastLocus-st.lastSwitchLocus)
		}
	}
}
