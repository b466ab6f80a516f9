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
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/phase/switcherr"
)

var (
	skip             = flag.Int("skip", switcherr.DefaultOpts.SkipNumInEst, "Skip this many leading samples in the estimated file")
	trioInSuccession = flag.Bool("trio-in-succession", switcherr.DefaultOpts.TrioInSuccession, "Trio aware, trio parents in adjacent sample slots; omits triple hets")
	trioPairs        = flag.String("trio-pairs", switcherr.DefaultOpts.TrioPairsPath, "Trio aware, file of parent index pairs; omits triple hets")
	omitFile         = flag.String("omit", switcherr.DefaultOpts.OmitPath, "File of sample indices in the estimated file to omit from comparison")
	localAncPrefix   = flag.String("local-anc", switcherr.DefaultOpts.LocalAncPrefix, "Local ancestry aware; prefix of per-sample HAPMIX posterior files")
	chrom            = flag.Int("chrom", switcherr.DefaultOpts.Chrom, "Chromosome number suffix for local ancestry file names")
	verbose          = flag.Bool("v", switcherr.DefaultOpts.Verbose, "Verbose: print per-switch block records to stderr")
)

func bioSwitchErrUsage() {
	fmt.Printf("Usage: %s [OPTIONS] numsamples estpath truepath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioSwitchErrUsage
	shutdown := grail.Init()
	defer shutdown()

	allArgs := flag.Args()
	nPositionalArgs := flag.NArg()
	positionalArgs := allArgs[len(allArgs)-nPositionalArgs:]
	if nPositionalArgs != 3 {
		if nPositionalArgs < 3 {
			log.Fatalf("Missing positional arguments (numsamples, estpath and truepath required); please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
		} else {
			log.Fatalf("Too many positional arguments (only numsamples, estpath and truepath expected); please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
		}
	}
	numSamples, err := strconv.Atoi(positionalArgs[0])
	if err != nil || numSamples <= 0 {
		log.Fatalf("numsamples must be a positive integer, got '%s'", positionalArgs[0])
	}
	ctx := vcontext.Background()
	opts := switcherr.Opts{
		SkipNumInEst:     *skip,
		TrioInSuccession: *trioInSuccession,
		TrioPairsPath:    *trioPairs,
		OmitPath:         *omitFile,
		LocalAncPrefix:   *localAncPrefix,
		Chrom:            *chrom,
		Verbose:          *verbose,
	}
	stats, err := switcherr.Compare(ctx, numSamples, positionalArgs[1], positionalArgs[2], &opts)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := switcherr.WriteSummary(os.Stdout, stats, numSamples, opts.LocalAncPrefix != ""); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
