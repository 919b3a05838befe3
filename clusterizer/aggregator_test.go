package clusterizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_RecordClusterFillsBothHistograms(t *testing.T) {
	a := newAggregator()
	require.NoError(t, a.recordCluster(3, 20))

	assert.EqualValues(t, 1, a.clusterHits[3])
	assert.EqualValues(t, 1, a.clusterTots[20+3*MaxTotBins])
	assert.EqualValues(t, 1, a.clusterTots[20])
}

func TestAggregator_RecordClusterOverflow(t *testing.T) {
	a := newAggregator()

	err := a.recordCluster(MaxClusterHitsBins, 0)
	require.Error(t, err)
	var overflow *ErrHistogramOverflow
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, "cluster_hits", overflow.Histogram)

	err = a.recordCluster(0, MaxTotBins)
	require.Error(t, err)
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, "cluster_tots", overflow.Histogram)
}

func TestAggregator_RecordPositionOverflow(t *testing.T) {
	a := newAggregator()
	err := a.recordPosition(-1, 0)
	require.Error(t, err)

	err = a.recordPosition(0, MaxPosYBins)
	require.Error(t, err)
}

func TestAggregator_ResetClearsAllHistograms(t *testing.T) {
	a := newAggregator()
	require.NoError(t, a.recordCluster(1, 1))
	require.NoError(t, a.recordCharge(1, 1))
	require.NoError(t, a.recordPosition(1, 1))

	a.reset()

	for _, v := range a.clusterHits {
		require.EqualValues(t, 0, v)
	}
	for _, v := range a.clusterTots {
		require.EqualValues(t, 0, v)
	}
	for _, v := range a.clusterCharges {
		require.EqualValues(t, 0, v)
	}
	for _, v := range a.clusterPosition {
		require.EqualValues(t, 0, v)
	}
}

func TestAggregator_BorrowOrCopy(t *testing.T) {
	a := newAggregator()
	require.NoError(t, a.recordCluster(2, 5))

	borrowed := a.ClusterSizeHist(false)
	borrowed[2] = 999
	assert.EqualValues(t, 999, a.clusterHits[2], "borrowed view shares backing storage")

	copied := a.ClusterSizeHist(true)
	copied[2] = 1
	assert.EqualValues(t, 999, a.clusterHits[2], "copy must not alias the aggregator's storage")
}
