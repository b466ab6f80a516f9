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

// Ancestry classes used to stratify switch errors.  The first three are
// confident calls; AncAmbiguous is the catch-all for low-confidence or
// class-straddling sites.
const (
	// AncHomozyPopA is homozygous ancestry from the first population.
	AncHomozyPopA = iota
	// AncHet is heterozygous ancestry.
	AncHet
	// AncHomozyPopB is homozygous ancestry from the second population.
	AncHomozyPopB
	// AncAmbiguous is the low-confidence catch-all.
	AncAmbiguous
	// NAncClass counts the ancestry classes, AncAmbiguous included.
	NAncClass
)

// ancNone marks a sample/locus with no confident-and-stable ancestry class.
// It is distinct from AncAmbiguous: ancNone is the oracle's "don't know",
// AncAmbiguous is the accumulator bucket it falls into.
const ancNone = -1

// Stats holds the counters accumulated over one run of Compare.
type Stats struct {
	// SwitchErrors is the total number of detected phase switches.
	SwitchErrors int
	// HetSites is the number of true-heterozygous sites seen after a
	// sample's orientation was fixed; the denominator of the switch rate.
	HetSites int
	// MissingEst is the number of sample/locus slots where the estimated
	// genotype was missing ("??").
	MissingEst int
	// Markers is the number of loci read from the estimated stream.
	Markers int
	// AncSwitchErrors and AncHetSites stratify SwitchErrors and HetSites by
	// ancestry class.  Without local ancestry every site lands in the
	// AncAmbiguous bucket.
	AncSwitchErrors [NAncClass]int
	AncHetSites     [NAncClass]int
	// SampleSwitches is the per-sample switch count, indexed by sample.
	SampleSwitches []int
}

// Merge adds the field values of the two Stats objects and creates new
// Stats.  Both inputs must describe the same sample set.
func (s Stats) Merge(o Stats) Stats {
	s.SwitchErrors += o.SwitchErrors
	s.HetSites += o.HetSites
	s.MissingEst += o.MissingEst
	s.Markers += o.Markers
	for i, n := range o.AncSwitchErrors {
		s.AncSwitchErrors[i] += n
	}
	for i, n := range o.AncHetSites {
		s.AncHetSites[i] += n
	}
	switch {
	case len(s.SampleSwitches) == 0:
		s.SampleSwitches = append([]int(nil), o.SampleSwitches...)
	case len(o.SampleSwitches) == 0:
		s.SampleSwitches = append([]int(nil), s.SampleSwitches...)
	default:
		merged := make([]int, len(s.SampleSwitches))
		for i := range merged {
			merged[i] = s.SampleSwitches[i] + o.SampleSwitches[i]
		}
		s.SampleSwitches = merged
	}
	return s
}

// SwitchRate returns SwitchErrors / HetSites.  NaN when there were no het
// sites.
func (s *Stats) SwitchRate() float64 {
	return float64(s.SwitchErrors) / float64(s.HetSites)
}

// MissingRate returns the fraction of sample/locus slots with a missing
// estimated genotype.
func (s *Stats) MissingRate(numSamples int) float64 {
	return float64(s.MissingEst) / float64(numSamples*s.Markers)
}

// AncSwitchRate returns the switch rate restricted to one ancestry class.
// NaN when the class had no het sites.
func (s *Stats) AncSwitchRate(class int) float64 {
	return float64(s.AncSwitchErrors[class]) / float64(s.AncHetSites[class])
}
