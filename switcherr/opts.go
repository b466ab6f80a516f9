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

import "io"

type Opts struct {
	// Commandline options.

	// SkipNumInEst is the number of leading samples in the estimated-phase
	// file to skip before the samples under comparison begin.
	SkipNumInEst int
	// TrioInSuccession indicates that trio parents appear in adjacent
	// sample slots (even index = first parent) with the transmitted
	// haplotype listed first; triple-het sites are then phase-ambiguous and
	// excluded.  Mutually exclusive with TrioPairsPath.
	TrioInSuccession bool
	// TrioPairsPath names a file of "parent spouse" index pairs.  Like
	// TrioInSuccession, enables triple-het exclusion, but with arbitrary
	// pairings.
	TrioPairsPath string
	// OmitPath names a file of sample indices (into the post-skip estimated
	// stream ordering) to exclude from comparison.
	OmitPath string
	// LocalAncPrefix enables local-ancestry stratification; per-sample
	// posterior files are named <prefix>.<sample>.<chrom>.
	LocalAncPrefix string
	// Chrom is the chromosome suffix for local-ancestry file names.
	Chrom int
	// Verbose enables per-switch block diagnostics.
	Verbose bool

	// VerboseOut receives the per-switch diagnostic records when Verbose is
	// set.  Defaults to os.Stderr.
	VerboseOut io.Writer
}

// DefaultOpts sets the default values for Opts.
var DefaultOpts = Opts{
	SkipNumInEst:     0,
	TrioInSuccession: false,
	TrioPairsPath:    "",
	OmitPath:         "",
	LocalAncPrefix:   "",
	Chrom:            0,
	Verbose:          false,
}
