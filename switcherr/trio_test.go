package switcherr

import (
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func TestLoadTrioPairs(t *testing.T) {
	partner, err := loadTrioPairs(strings.NewReader("0 2\n1 3\n"), 4)
	require.NoError(t, err)
	expect.EQ(t, partner, []int{2, 3, 0, 1})
}

func TestLoadTrioPairsErrors(t *testing.T) {
	for _, tc := range []struct {
		name, in   string
		numSamples int
	}{
		{"self pair", "0 0\n", 2},
		{"out of range", "0 5\n", 2},
		{"repeated sample", "0 1\n1 0\n", 2},
		{"dangling index", "0 1\n2\n", 4},
		{"not an int", "0 x\n", 2},
		{"unpaired samples", "0 1\n", 4},
	} {
		_, err := loadTrioPairs(strings.NewReader(tc.in), tc.numSamples)
		require.Error(t, err, tc.name)
	}
}

func TestTripleHet(t *testing.T) {
	// Both parents het, transmitted alleles differ: ambiguous.
	expect.EQ(t, tripleHet([]byte("0110"), 0, 1), true)
	// Transmitted alleles agree: child is homozygous, phase resolvable.
	expect.EQ(t, tripleHet([]byte("0101"), 0, 1), false)
	// One parent homozygous: resolvable.
	expect.EQ(t, tripleHet([]byte("0011"), 0, 1), false)
	expect.EQ(t, tripleHet([]byte("1101"), 0, 1), false)
}

func TestMarkSkipsInSuccession(t *testing.T) {
	f := &trioFilter{inSuccession: true}
	skip := make([]bool, 4)

	// Pair (0,1) ambiguous, pair (2,3) not.
	f.markSkips([]byte("01100000"), skip)
	expect.EQ(t, skip, []bool{true, true, false, false})

	// Pair evaluation happens only at the even-indexed parent.
	f.markSkips([]byte("00011000"), skip)
	expect.EQ(t, skip, []bool{false, false, false, false})

	// An even parent with a missing true genotype suppresses the pair
	// check; the partner stays countable.
	f.markSkips([]byte("91100000"), skip)
	expect.EQ(t, skip, []bool{false, false, false, false})
}

func TestMarkSkipsPairTable(t *testing.T) {
	f := &trioFilter{partner: []int{2, 3, 0, 1}}
	skip := make([]bool, 4)

	// Samples 0 and 2 are spouses and triple-het; each is excluded by its
	// own evaluation.
	f.markSkips([]byte("01001000"), skip)
	expect.EQ(t, skip, []bool{true, false, true, false})

	f.markSkips([]byte("00000000"), skip)
	expect.EQ(t, skip, []bool{false, false, false, false})
}
