package clusterizer

// Clusterizer is the top-level, single-threaded event-wise hit
// clusterizer. The occupancy grid, charge calibration grid and result
// histograms are exclusively owned by a Clusterizer instance and
// allocated once; output arrays are borrowed from the caller for the
// duration of AddHits.
type Clusterizer struct {
	cfg   *Config
	grid  *occupancyGrid
	calib *chargeCalibration
	agg   *aggregator

	clusterInfoOut    []ClusterInfo
	clusterInfoLen    int
	clusterHitInfoOut []ClusterHitInfo

	currentEvent     uint64
	eventStatus      uint32
	clusterIDCounter uint32
	eventHitIndices  []uint32

	clusterScratch *clusterState
	frameScratch   []*frame
}

// NewClusterizer allocates the process-scoped grids and histograms and
// returns a Clusterizer ready to receive output-array registration and
// hits. Allocation failures in Go surface as a panic from make(), which
// this constructor does not attempt to recover from: an out-of-memory
// condition here is unrecoverable.
func NewClusterizer(cfg *Config) *Clusterizer {
	if cfg == nil {
		cfg = NewConfig()
	}
	c := &Clusterizer{
		cfg:            cfg,
		grid:           newOccupancyGrid(),
		calib:          newChargeCalibration(),
		agg:            newAggregator(),
		clusterScratch: &clusterState{},
	}
	logger.Info("clusterizer allocated", "clusterizer")
	return c
}

// Config returns the clusterizer's configuration for further validated
// mutation.
func (c *Clusterizer) Config() *Config { return c.cfg }

// SetClusterInfoArray registers the caller-owned output array for
// committed clusters. The core writes up to len(buf) entries; writing
// beyond that is fatal (ErrOutputFull).
func (c *Clusterizer) SetClusterInfoArray(buf []ClusterInfo) {
	c.clusterInfoOut = buf
	c.clusterInfoLen = 0
}

// SetClusterHitInfoArray registers the caller-owned, hit-index-addressed
// per-hit output array. Its length is the declared bound against which
// admitted hit indices are checked; exceeding it is fatal
// (ErrHitIndexOutOfRange).
func (c *Clusterizer) SetClusterHitInfoArray(buf []ClusterHitInfo) {
	c.clusterHitInfoOut = buf
}

// SetChargeCalibration installs a calibrated charge value for the
// 1-based (col, row) pixel at the given ToT. An explicit calibration
// source must be populated through this method before the
// charge-weighted histograms are enabled, or every cluster's charge sum
// stays zero.
func (c *Clusterizer) SetChargeCalibration(col, row uint16, tot uint16, charge float32) {
	c.calib.set(int(col)-1, int(row)-1, int(tot), charge)
}

// Reset restores the clusterizer to its post-construction state: the
// occupancy grid is emptied, histograms are cleared, and event/cluster
// accumulators are reset. Output arrays remain registered.
func (c *Clusterizer) Reset() {
	c.grid.reset()
	c.agg.reset()
	c.currentEvent = 0
	c.eventStatus = 0
	c.clusterIDCounter = 0
	c.clusterInfoLen = 0
	c.eventHitIndices = c.eventHitIndices[:0]
	logger.Info("reset()", "clusterizer")
}

// NClusters returns the number of committed clusters written so far
// into the registered cluster-info array.
func (c *Clusterizer) NClusters() int { return c.clusterInfoLen }

// GetClusterSizeHist returns the cluster_hits histogram.
func (c *Clusterizer) GetClusterSizeHist(copy bool) []uint32 { return c.agg.ClusterSizeHist(copy) }

// GetClusterTotHist returns the cluster_tots histogram.
func (c *Clusterizer) GetClusterTotHist(copy bool) []uint32 { return c.agg.ClusterTotHist(copy) }

// GetClusterChargeHist returns the cluster_charges histogram (reserved
// until charge histograms are enabled).
func (c *Clusterizer) GetClusterChargeHist(copy bool) []uint32 { return c.agg.ClusterChargeHist(copy) }

// GetClusterPositionHist returns the cluster_position histogram
// (reserved until charge histograms are enabled).
func (c *Clusterizer) GetClusterPositionHist(copy bool) []uint32 {
	return c.agg.ClusterPositionHist(copy)
}
