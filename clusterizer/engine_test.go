package clusterizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClusterizer() (*Clusterizer, []ClusterInfo) {
	cfg := NewConfig()
	c := NewClusterizer(cfg)
	out := make([]ClusterInfo, 16)
	c.SetClusterInfoArray(out)
	return c, out
}

func TestClusterizer_SingleHit(t *testing.T) {
	c, out := newTestClusterizer()
	hits := []HitInfo{
		{EventNumber: 1, Column: 5, Row: 5, RelativeBCID: 0, Tot: 3},
	}
	require.NoError(t, c.AddHits(hits))
	require.Equal(t, 1, c.NClusters())

	cluster := out[0]
	assert.EqualValues(t, 1, cluster.Size)
	assert.EqualValues(t, 3, cluster.TotSum)
	assert.EqualValues(t, 5, cluster.SeedColumn)
	assert.EqualValues(t, 5, cluster.SeedRow)
	assert.EqualValues(t, 1, c.GetClusterSizeHist(false)[1])
}

func TestClusterizer_AdjacentColumnPairWithWiderDx(t *testing.T) {
	c, out := newTestClusterizer()
	c.Config().SetDx(2)

	hits := []HitInfo{
		{EventNumber: 1, Column: 5, Row: 5, RelativeBCID: 0, Tot: 3},
		{EventNumber: 1, Column: 6, Row: 5, RelativeBCID: 0, Tot: 5},
	}
	require.NoError(t, c.AddHits(hits))
	require.Equal(t, 1, c.NClusters())

	cluster := out[0]
	assert.EqualValues(t, 2, cluster.Size)
	assert.EqualValues(t, 8, cluster.TotSum)
	assert.EqualValues(t, 6, cluster.SeedColumn)
	assert.EqualValues(t, 5, cluster.SeedRow)
}

func TestClusterizer_BCIDWindowBoundary(t *testing.T) {
	c, out := newTestClusterizer()
	hits := []HitInfo{
		{EventNumber: 1, Column: 5, Row: 5, RelativeBCID: 0, Tot: 3},
		{EventNumber: 1, Column: 5, Row: 6, RelativeBCID: 4, Tot: 4},
	}
	require.NoError(t, c.AddHits(hits))
	require.Equal(t, 1, c.NClusters())

	cluster := out[0]
	assert.EqualValues(t, 2, cluster.Size)
	assert.EqualValues(t, 5, cluster.SeedColumn)
	assert.EqualValues(t, 6, cluster.SeedRow)
}

func TestClusterizer_BCIDWindowExceeded(t *testing.T) {
	c, out := newTestClusterizer()
	hits := []HitInfo{
		{EventNumber: 1, Column: 5, Row: 5, RelativeBCID: 0, Tot: 3},
		{EventNumber: 1, Column: 5, Row: 6, RelativeBCID: 5, Tot: 4},
	}
	require.NoError(t, c.AddHits(hits))
	require.Equal(t, 2, c.NClusters())
	assert.EqualValues(t, 1, out[0].Size)
	assert.EqualValues(t, 1, out[1].Size)
}

func TestClusterizer_PerHitTotDrop(t *testing.T) {
	c, out := newTestClusterizer()
	hits := []HitInfo{
		{EventNumber: 1, Column: 5, Row: 5, RelativeBCID: 0, Tot: 3},
		{EventNumber: 1, Column: 5, Row: 6, RelativeBCID: 0, Tot: 14},
	}
	require.NoError(t, c.AddHits(hits))
	require.Equal(t, 1, c.NClusters())
	assert.EqualValues(t, 1, out[0].Size)
	assert.EqualValues(t, 3, out[0].TotSum)
}

func TestClusterizer_ClusterTotAbortDrainsCells(t *testing.T) {
	c, out := newTestClusterizer()
	c.Config().SetMaxHitTot(20)

	hits := []HitInfo{
		{EventNumber: 1, Column: 5, Row: 5, RelativeBCID: 0, Tot: 5},
		{EventNumber: 1, Column: 6, Row: 5, RelativeBCID: 0, Tot: 14},
		{EventNumber: 1, Column: 7, Row: 5, RelativeBCID: 0, Tot: 5},
	}
	require.NoError(t, c.AddHits(hits))
	assert.Equal(t, 0, c.NClusters(), "aborted cluster must not be committed")

	// Running a subsequent event through the same cells confirms they
	// were fully drained rather than left resident from the aborted
	// cluster.
	hits2 := []HitInfo{
		{EventNumber: 2, Column: 5, Row: 5, RelativeBCID: 0, Tot: 3},
	}
	require.NoError(t, c.AddHits(hits2))
	require.Equal(t, 1, c.NClusters())
	assert.EqualValues(t, 1, out[0].Size)
}

func TestClusterizer_TwoEventsFramed(t *testing.T) {
	c, out := newTestClusterizer()
	hits := []HitInfo{
		{EventNumber: 1, Column: 5, Row: 5, RelativeBCID: 0, Tot: 3},
		{EventNumber: 2, Column: 5, Row: 5, RelativeBCID: 0, Tot: 3},
	}
	require.NoError(t, c.AddHits(hits))
	require.Equal(t, 2, c.NClusters())
	assert.EqualValues(t, 1, out[0].EventNumber)
	assert.EqualValues(t, 2, out[1].EventNumber)
	assert.EqualValues(t, 0, out[0].ClusterID, "cluster id counter resets at event boundary")
	assert.EqualValues(t, 0, out[1].ClusterID, "cluster id counter resets at event boundary")
}

func TestClusterizer_ClusterIDsAreDenseAndZeroBased(t *testing.T) {
	c, out := newTestClusterizer()
	hits := []HitInfo{
		{EventNumber: 1, Column: 5, Row: 5, RelativeBCID: 0, Tot: 3},
		{EventNumber: 1, Column: 20, Row: 20, RelativeBCID: 0, Tot: 3},
		{EventNumber: 1, Column: 40, Row: 40, RelativeBCID: 0, Tot: 3},
	}
	require.NoError(t, c.AddHits(hits))
	require.Equal(t, 3, c.NClusters())
	assert.EqualValues(t, 0, out[0].ClusterID)
	assert.EqualValues(t, 1, out[1].ClusterID)
	assert.EqualValues(t, 2, out[2].ClusterID)
}

func TestClusterizer_DiscardedClusterDoesNotConsumeID(t *testing.T) {
	c, out := newTestClusterizer()
	c.Config().SetMinClusterHits(2)

	hits := []HitInfo{
		// isolated single hit: discarded, must not consume a cluster id.
		{EventNumber: 1, Column: 5, Row: 5, RelativeBCID: 0, Tot: 3},
		// two-hit cluster: committed, must get id 0, not 1.
		{EventNumber: 1, Column: 20, Row: 20, RelativeBCID: 0, Tot: 3},
		{EventNumber: 1, Column: 20, Row: 21, RelativeBCID: 0, Tot: 3},
	}
	require.NoError(t, c.AddHits(hits))
	require.Equal(t, 1, c.NClusters())
	assert.EqualValues(t, 0, out[0].ClusterID)
	assert.EqualValues(t, 2, out[0].Size)
}

func TestClusterizer_DuplicateCellIsIgnoredNotFatal(t *testing.T) {
	c, out := newTestClusterizer()
	hits := []HitInfo{
		{EventNumber: 1, Column: 5, Row: 5, RelativeBCID: 0, Tot: 3},
		{EventNumber: 1, Column: 5, Row: 5, RelativeBCID: 0, Tot: 9},
	}
	require.NoError(t, c.AddHits(hits))
	require.Equal(t, 1, c.NClusters())
	assert.EqualValues(t, 3, out[0].TotSum, "the second write to the same cell is dropped, first tot wins")
}

func TestClusterizer_ResetIsIdempotent(t *testing.T) {
	c, out := newTestClusterizer()
	hits := []HitInfo{
		{EventNumber: 1, Column: 5, Row: 5, RelativeBCID: 0, Tot: 3},
	}
	require.NoError(t, c.AddHits(hits))
	first := out[0]

	c.Reset()
	out2 := make([]ClusterInfo, 16)
	c.SetClusterInfoArray(out2)
	require.NoError(t, c.AddHits(hits))
	require.Equal(t, 1, c.NClusters())
	assert.Equal(t, first.Size, out2[0].Size)
	assert.Equal(t, first.TotSum, out2[0].TotSum)
	assert.Equal(t, first.SeedColumn, out2[0].SeedColumn)
}

func TestClusterizer_MinClusterHitsFiltersSmallClusters(t *testing.T) {
	c, out := newTestClusterizer()
	c.Config().SetMinClusterHits(2)

	hits := []HitInfo{
		{EventNumber: 1, Column: 5, Row: 5, RelativeBCID: 0, Tot: 3},
	}
	require.NoError(t, c.AddHits(hits))
	assert.Equal(t, 0, c.NClusters())
	_ = out
}
