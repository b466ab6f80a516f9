package switcherr

import (
	"bytes"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func feedSample(t *testing.T, tr *tracker, stats *Stats, est, truth []string) {
	require.Equal(t, len(est), len(truth))
	for locus := range est {
		e := [2]byte{est[locus][0], est[locus][1]}
		tv := [2]byte{truth[locus][0], truth[locus][1]}
		require.NoError(t, tr.site(stats, 0, locus, e, tv, ancNone))
	}
}

func TestSwitchDetection(t *testing.T) {
	tr := newTracker(1, nil)
	var stats Stats
	feedSample(t, tr, &stats,
		[]string{"01", "10", "01"},
		[]string{"01", "01", "10"})
	expect.EQ(t, stats.SwitchErrors, 1)
	expect.EQ(t, stats.HetSites, 2)
	expect.EQ(t, stats.SwitchRate(), 0.5)
	expect.EQ(t, tr.state[0].orient, orientInverted)
}

func TestFirstHetSiteNotCounted(t *testing.T) {
	tr := newTracker(1, nil)
	var stats Stats
	// Homozygous sites before the first het carry no orientation info.
	feedSample(t, tr, &stats,
		[]string{"00", "11", "01"},
		[]string{"00", "11", "01"})
	expect.EQ(t, stats.HetSites, 0)
	expect.EQ(t, stats.SwitchErrors, 0)
	expect.EQ(t, tr.state[0].orient, orientAligned)
}

func TestInvertedOrientation(t *testing.T) {
	tr := newTracker(1, nil)
	var stats Stats
	feedSample(t, tr, &stats,
		[]string{"10", "10", "01"},
		[]string{"01", "01", "10"})
	expect.EQ(t, tr.state[0].orient, orientInverted)
	expect.EQ(t, stats.SwitchErrors, 0)
	expect.EQ(t, stats.HetSites, 2)
}

func TestGlobalInversionSymmetry(t *testing.T) {
	// Swapping every estimated homolog pair is a relabeling, not an error.
	est := []string{"01", "10", "01", "11", "10"}
	truth := []string{"01", "01", "10", "11", "10"}
	var straight, flipped Stats
	feedSample(t, newTracker(1, nil), &straight, est, truth)
	inv := make([]string, len(est))
	for i, g := range est {
		inv[i] = string([]byte{g[1], g[0]})
	}
	feedSample(t, newTracker(1, nil), &flipped, inv, truth)
	expect.EQ(t, flipped.SwitchErrors, straight.SwitchErrors)
	expect.EQ(t, flipped.HetSites, straight.HetSites)
}

func TestMissingEstimated(t *testing.T) {
	tr := newTracker(1, nil)
	var stats Stats
	require.NoError(t, tr.site(&stats, 0, 0, [2]byte{'?', '?'}, [2]byte{'0', '1'}, ancNone))
	expect.EQ(t, stats.MissingEst, 1)
	expect.EQ(t, tr.state[0].orient, orientUnset)

	err := tr.site(&stats, 0, 1, [2]byte{'?', '0'}, [2]byte{'0', '1'}, ancNone)
	require.Error(t, err)
}

func TestHomozygousMismatchFatal(t *testing.T) {
	tr := newTracker(1, nil)
	var stats Stats
	err := tr.site(&stats, 0, 0, [2]byte{'1', '1'}, [2]byte{'0', '0'}, ancNone)
	require.Error(t, err)
}

func TestCorruptGenotypeFatal(t *testing.T) {
	tr := newTracker(1, nil)
	var stats Stats
	require.NoError(t, tr.site(&stats, 0, 0, [2]byte{'0', '1'}, [2]byte{'0', '1'}, ancNone))
	// est 00 vs true 01 cannot be explained by a switch.
	err := tr.site(&stats, 0, 1, [2]byte{'0', '0'}, [2]byte{'0', '1'}, ancNone)
	require.Error(t, err)
}

func TestInvalidEstimatedAllele(t *testing.T) {
	tr := newTracker(1, nil)
	var stats Stats
	err := tr.site(&stats, 0, 0, [2]byte{'9', '9'}, [2]byte{'0', '1'}, ancNone)
	require.Error(t, err)
}

func TestAncestryBuckets(t *testing.T) {
	tr := newTracker(1, nil)
	var stats Stats
	require.NoError(t, tr.site(&stats, 0, 0, [2]byte{'0', '1'}, [2]byte{'0', '1'}, ancNone))
	// Switch attributed to a confident stable class.
	require.NoError(t, tr.site(&stats, 0, 1, [2]byte{'1', '0'}, [2]byte{'0', '1'}, AncHomozyPopA))
	// Switch with no stable class lands in the ambiguous bucket.
	require.NoError(t, tr.site(&stats, 0, 2, [2]byte{'0', '1'}, [2]byte{'0', '1'}, ancNone))
	expect.EQ(t, stats.AncSwitchErrors, [NAncClass]int{1, 0, 0, 1})
	expect.EQ(t, stats.AncHetSites, [NAncClass]int{1, 0, 0, 1})
	expect.EQ(t, stats.SwitchErrors, 2)
}

func TestSwitchesNeverExceedHetSites(t *testing.T) {
	// Alternate orientation at every het site: every post-orientation het
	// site is a switch, and the counts stay equal.
	tr := newTracker(1, nil)
	var stats Stats
	est := []string{"01"}
	truth := []string{"01"}
	for i := 0; i < 10; i++ {
		if i%2 == 0 {
			est = append(est, "10")
		} else {
			est = append(est, "01")
		}
		truth = append(truth, "01")
	}
	feedSample(t, tr, &stats, est, truth)
	expect.EQ(t, stats.SwitchErrors, 10)
	expect.EQ(t, stats.HetSites, 10)
}

func TestVerboseBlocks(t *testing.T) {
	var buf bytes.Buffer
	tr := newTracker(1, &buf)
	var stats Stats
	feedSample(t, tr, &stats,
		[]string{"01", "10", "01"},
		[]string{"01", "01", "01"})
	tr.finish(&stats, 2)
	expect.EQ(t, buf.String(), "0 0 1 1\n0 1 2 1\n0 2 2 0\n")
	expect.EQ(t, stats.SampleSwitches, []int{2})
}
