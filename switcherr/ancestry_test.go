package switcherr

import (
	"bufio"
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func testOracle(records ...string) *ancestryOracle {
	o := &ancestryOracle{
		scanners: make([]*bufio.Scanner, len(records)),
		prev:     make([]int, len(records)),
	}
	for i, r := range records {
		o.scanners[i] = bufio.NewScanner(strings.NewReader(r))
		o.prev[i] = ancNone
	}
	return o
}

func TestAncestryClassify(t *testing.T) {
	for _, tc := range []struct {
		record string
		class  int
	}{
		{"100 0.95 0.03 0.02", AncHomozyPopA},
		{"100 0.05 0.93 0.02", AncHet},
		{"100 0.02 0.03 0.95", AncHomozyPopB},
		// No posterior above the confidence threshold.
		{"100 0.5 0.3 0.2", ancNone},
		{"100 0.9 0.05 0.05", ancNone},
	} {
		o := testOracle(tc.record)
		class, err := o.read(0, 0)
		require.NoError(t, err, tc.record)
		expect.EQ(t, class, tc.class)
	}
}

func TestAncestryMalformed(t *testing.T) {
	for _, record := range []string{
		"100 0.95 0.03",          // missing posterior
		"pos 0.95 0.03 0.02",     // bad position
		"100 high 0.03 0.02",     // bad posterior
		"100 0.5 0.3 0.1",        // sums to 0.9
		"100 0.95 0.05 0.05",     // sums to 1.05
	} {
		o := testOracle(record)
		_, err := o.read(0, 0)
		require.Error(t, err, record)
	}
}

func TestAncestryStableClass(t *testing.T) {
	o := testOracle(strings.Join([]string{
		"100 0.95 0.03 0.02", // confident popA, but no previous locus
		"200 0.93 0.04 0.03", // confident popA again: stable
		"300 0.02 0.95 0.03", // class change: not stable
		"400 0.03 0.94 0.03", // het again: stable
		"500 0.40 0.30 0.30", // not confident
		"600 0.95 0.03 0.02", // confident, but previous was not
	}, "\n"))
	want := []int{ancNone, AncHomozyPopA, ancNone, AncHet, ancNone, ancNone}
	for locus, w := range want {
		class, err := o.next(0, locus)
		require.NoError(t, err)
		expect.EQ(t, class, w)
	}
}

func TestAncestryStreamEnds(t *testing.T) {
	o := testOracle("100 0.95 0.03 0.02")
	_, err := o.next(0, 0)
	require.NoError(t, err)
	_, err = o.next(0, 1)
	require.Error(t, err)
}
