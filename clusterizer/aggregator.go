package clusterizer

// aggregator owns the four dense result histograms, accumulated across
// events until reset: cluster size, cluster ToT sum vs. size, cluster charge sum vs. size,
// and charge-weighted cluster position. cluster_tots and
// cluster_charges are row-major with cluster size as the outer index
// and size=0 acting as the size-marginal row.
type aggregator struct {
	clusterHits     []uint32
	clusterTots     []uint32
	clusterCharges  []uint32
	clusterPosition []uint32
}

func newAggregator() *aggregator {
	a := &aggregator{
		clusterHits:     make([]uint32, MaxClusterHitsBins),
		clusterTots:     make([]uint32, MaxClusterHitsBins*MaxTotBins),
		clusterCharges:  make([]uint32, MaxClusterHitsBins*MaxChargeBins),
		clusterPosition: make([]uint32, MaxPosYBins*MaxPosXBins),
	}
	return a
}

func (a *aggregator) reset() {
	for i := range a.clusterHits {
		a.clusterHits[i] = 0
	}
	for i := range a.clusterTots {
		a.clusterTots[i] = 0
	}
	for i := range a.clusterCharges {
		a.clusterCharges[i] = 0
	}
	for i := range a.clusterPosition {
		a.clusterPosition[i] = 0
	}
}

// recordCluster folds a committed cluster's size and ToT sum into the
// cluster_hits and cluster_tots histograms. size must be strictly less
// than MaxClusterHitsBins and totSum strictly less than MaxTotBins, or
// an ErrHistogramOverflow is returned and no partial write is made
// beyond whatever bins were already touched.
func (a *aggregator) recordCluster(size, totSum uint32) error {
	if int(size) >= MaxClusterHitsBins {
		return &ErrHistogramOverflow{Histogram: "cluster_hits", Value: int(size), Bound: MaxClusterHitsBins}
	}
	a.clusterHits[size]++

	if int(totSum) >= MaxTotBins {
		return &ErrHistogramOverflow{Histogram: "cluster_tots", Value: int(totSum), Bound: MaxTotBins}
	}
	a.clusterTots[int(totSum)+int(size)*MaxTotBins]++
	a.clusterTots[totSum]++ // size=0 row records the size-marginal
	return nil
}

// recordCharge folds a committed cluster's rounded charge sum into the
// cluster_charges histogram. Only called when charge histograms are
// enabled; see Config.SetEnableChargeHistograms.
func (a *aggregator) recordCharge(size uint32, chargeBin int) error {
	if chargeBin < 0 || chargeBin >= MaxChargeBins {
		return &ErrHistogramOverflow{Histogram: "cluster_charges", Value: chargeBin, Bound: MaxChargeBins}
	}
	if int(size) >= MaxClusterHitsBins {
		return &ErrHistogramOverflow{Histogram: "cluster_charges", Value: int(size), Bound: MaxClusterHitsBins}
	}
	a.clusterCharges[chargeBin+int(size)*MaxChargeBins]++
	a.clusterCharges[chargeBin]++
	return nil
}

// recordPosition folds a committed cluster's charge-weighted centroid
// bin into the cluster_position histogram.
func (a *aggregator) recordPosition(xBin, yBin int) error {
	if xBin < 0 || xBin >= MaxPosXBins || yBin < 0 || yBin >= MaxPosYBins {
		return &ErrHistogramOverflow{Histogram: "cluster_position", Value: xBin, Bound: MaxPosXBins}
	}
	a.clusterPosition[xBin+yBin*MaxPosXBins]++
	return nil
}

// ClusterSizeHist returns the cluster-size histogram. If copy is true a
// fresh slice is returned; otherwise the caller receives the
// aggregator's own backing slice and must not retain it past the next
// mutating call.
func (a *aggregator) ClusterSizeHist(copy bool) []uint32 {
	return borrowOrCopy(a.clusterHits, copy)
}

// ClusterTotHist returns the cluster-ToT-vs-size histogram, row-major
// with size as the outer index.
func (a *aggregator) ClusterTotHist(copy bool) []uint32 {
	return borrowOrCopy(a.clusterTots, copy)
}

// ClusterChargeHist returns the cluster-charge-vs-size histogram.
func (a *aggregator) ClusterChargeHist(copy bool) []uint32 {
	return borrowOrCopy(a.clusterCharges, copy)
}

// ClusterPositionHist returns the cluster-position histogram.
func (a *aggregator) ClusterPositionHist(copy bool) []uint32 {
	return borrowOrCopy(a.clusterPosition, copy)
}

func borrowOrCopy(src []uint32, doCopy bool) []uint32 {
	if !doCopy {
		return src
	}
	dst := make([]uint32, len(src))
	copy(dst, src)
	return dst
}
