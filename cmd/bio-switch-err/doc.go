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

/*
Given an estimated phasing and the true phasing of the same diploid samples,
each as a phgeno-style text file with one line of 2*N allele characters per
locus, bio-switch-err reports the switch error rate: how often the
correspondence between estimated and true homologs flips between consecutive
heterozygous sites.

Trio-aware modes exclude sites where both parents and (implied) child are
heterozygous, since pedigree data cannot phase those.  With -local-anc, the
rate is additionally stratified by HAPMIX-style local ancestry class.

Sample usage:
bio-switch-err \
    -trio-in-succession \
    -v \
    120 \
    estimated.phgeno \
    truth.phgeno
*/
package main
