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
)

var ancClassLabels = [NAncClass]string{
	"Homozy_POP1: ",
	"Heterozygous:",
	"Homozy_POP2: ",
	"Ambiguous:   ",
}

// WriteSummary writes the human-readable rate summary.  The missing-rate
// line appears only when missing estimated genotypes were seen; the
// per-ancestry-class lines only when stratification was active.  Zero
// denominators print as NaN rather than failing.
func WriteSummary(w io.Writer, stats *Stats, numSamples int, localAnc bool) error {
	if _, err := fmt.Fprintf(w, "switch %d / %d = %f\n",
		stats.SwitchErrors, stats.HetSites, stats.SwitchRate()); err != nil {
		return err
	}
	if stats.MissingEst > 0 {
		if _, err := fmt.Fprintf(w, "missing %d / %d = %f\n",
			stats.MissingEst, numSamples*stats.Markers, stats.MissingRate(numSamples)); err != nil {
			return err
		}
	}
	if localAnc {
		for class := 0; class < NAncClass; class++ {
			if _, err := fmt.Fprintf(w, "%s %d / %d = %f\n",
				ancClassLabels[class], stats.AncSwitchErrors[class],
				stats.AncHetSites[class], stats.AncSwitchRate(class)); err != nil {
				return err
			}
		}
	}
	return nil
}
