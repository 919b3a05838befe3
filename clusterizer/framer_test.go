package clusterizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddHits_ClusterHitInfoAnnotation(t *testing.T) {
	c := NewClusterizer(NewConfig())
	c.Config().SetClusterHitInfoEnabled(true)
	c.SetClusterInfoArray(make([]ClusterInfo, 4))
	hitInfoOut := make([]ClusterHitInfo, 4)
	c.SetClusterHitInfoArray(hitInfoOut)

	hits := []HitInfo{
		{EventNumber: 1, Column: 5, Row: 5, RelativeBCID: 0, Tot: 3},
		{EventNumber: 1, Column: 5, Row: 6, RelativeBCID: 0, Tot: 9},
	}
	require.NoError(t, c.AddHits(hits))

	assert.EqualValues(t, 2, hitInfoOut[0].ClusterSize)
	assert.EqualValues(t, 2, hitInfoOut[1].ClusterSize)
	assert.EqualValues(t, 1, hitInfoOut[0].NCluster)
	assert.EqualValues(t, 1, hitInfoOut[1].NCluster)

	seedCount := 0
	for _, h := range hitInfoOut[:2] {
		if h.IsSeed == 1 {
			seedCount++
		}
	}
	assert.Equal(t, 1, seedCount, "exactly one hit in the cluster is marked as seed")
}

func TestAddHits_HitIndexOutOfRangeIsFatal(t *testing.T) {
	c := NewClusterizer(NewConfig())
	c.Config().SetClusterHitInfoEnabled(true)
	c.SetClusterHitInfoArray(make([]ClusterHitInfo, 1))

	hits := []HitInfo{
		{EventNumber: 1, Column: 5, Row: 5, RelativeBCID: 0, Tot: 3},
		{EventNumber: 1, Column: 6, Row: 5, RelativeBCID: 0, Tot: 3},
	}
	err := c.AddHits(hits)
	require.Error(t, err)
	var target *ErrHitIndexOutOfRange
	require.ErrorAs(t, err, &target)
	assert.Equal(t, 1, target.Index)
}

func TestAddHits_OutputArrayFullIsFatal(t *testing.T) {
	c := NewClusterizer(NewConfig())
	c.SetClusterInfoArray(make([]ClusterInfo, 1))

	hits := []HitInfo{
		{EventNumber: 1, Column: 5, Row: 5, RelativeBCID: 0, Tot: 3},
		{EventNumber: 2, Column: 5, Row: 5, RelativeBCID: 0, Tot: 3},
	}
	err := c.AddHits(hits)
	require.Error(t, err)
	var target *ErrOutputFull
	require.ErrorAs(t, err, &target)
}

func TestAddHits_HitOutsideChipIsDroppedNotFatal(t *testing.T) {
	c := NewClusterizer(NewConfig())
	c.SetClusterInfoArray(make([]ClusterInfo, 4))

	hits := []HitInfo{
		{EventNumber: 1, Column: MaxCol + 10, Row: 5, RelativeBCID: 0, Tot: 3},
		{EventNumber: 1, Column: 5, Row: 5, RelativeBCID: 0, Tot: 3},
	}
	require.NoError(t, c.AddHits(hits))
	require.Equal(t, 1, c.NClusters())
}
