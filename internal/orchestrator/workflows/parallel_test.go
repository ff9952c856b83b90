package workflows

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartitionRange_SplitsEvenlyWithRemainder(t *testing.T) {
	ranges := partitionRange(1, 10, 3)
	require.Len(t, ranges, 3)

	var total int
	for _, r := range ranges {
		total += r.end - r.start + 1
	}
	require.Equal(t, 10, total)
	require.Equal(t, 1, ranges[0].start)
	require.Equal(t, 10, ranges[len(ranges)-1].end)
}

func TestPartitionRange_FanoutLargerThanRangeClamps(t *testing.T) {
	ranges := partitionRange(1, 2, 5)
	require.Len(t, ranges, 2)
}

func TestPartitionPaths_DistributesAcrossBuckets(t *testing.T) {
	paths := []string{"a", "b", "c", "d", "e"}
	chunks := partitionPaths(paths, 2)
	require.Len(t, chunks, 2)

	var total int
	for _, c := range chunks {
		total += len(c)
	}
	require.Equal(t, len(paths), total)
}

func TestPartitionPaths_FanoutLargerThanPathsClamps(t *testing.T) {
	chunks := partitionPaths([]string{"a", "b"}, 10)
	require.Len(t, chunks, 2)
}
