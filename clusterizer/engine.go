package clusterizer

// placeholderClusterMeta is written into ClusterSize/NCluster when a hit
// is admitted, and overwritten once the hit's cluster is known: at
// commit time for ClusterSize, at event-finalize time for NCluster.
// NCluster is stamped on every hit admitted in the event; ClusterSize
// keeps the placeholder on hits whose cluster was discarded (too small,
// or aborted), flagging those hits as never assigned a final cluster.
const placeholderClusterMeta = 666

// direction indices for the 8-neighbor compass scan around a cell:
// up, up-right, right, down-right, down, down-left, left, up-left. The
// scan order matters because it determines which candidate neighbor is
// visited last, and the seed tie-break rule keeps the last hit visited
// at the running-maximum ToT.
const (
	dirUp = iota
	dirUpRight
	dirRight
	dirDownRight
	dirDown
	dirDownLeft
	dirLeft
	dirUpLeft
	numDirections
)

func dirOffset(dir, iX, iY int) (dcol, drow int) {
	switch dir {
	case dirUp:
		return 0, iY
	case dirUpRight:
		return iX, iY
	case dirRight:
		return iX, 0
	case dirDownRight:
		return iX, -iY
	case dirDown:
		return 0, -iY
	case dirDownLeft:
		return -iX, -iY
	case dirLeft:
		return -iX, 0
	case dirUpLeft:
		return -iX, iY
	}
	return 0, 0
}

// frame is one level of the flood-fill's explicit call stack. Growing a
// cluster recursively would visit a cell's 8 neighbors at each
// (relBCID, dx, dy) step and immediately descend into the first
// unvisited hit found, only resuming the outer loops on return from that
// descent; frame captures exactly that resumption point (iBCID, iX, iY,
// dir and the per-direction latch) so an explicit stack of frames can
// reproduce the same visitation order without recursion. Preserving that
// order is what makes the seed tie-break rule deterministic: which hit
// is "last visited" at the maximum ToT depends on this exact order.
type frame struct {
	col, row int

	iBCID, iX, iY, dir int
	latch              [numDirections]bool
}

func newFrame(col, row, bcidLow int) *frame {
	return &frame{col: col, row: row, iBCID: bcidLow, iX: 1, iY: 1}
}

// advance resumes this frame's search and returns the next unvisited
// neighbor to descend into, or ok=false once every direction at every
// (relBCID, dx, dy) step has been exhausted.
func (f *frame) advance(grid *occupancyGrid, bcidHigh int, dx, dy uint32) (col, row, bcid int, ok bool) {
	for f.iBCID <= bcidHigh {
		for f.iX <= int(dx) {
			for f.iY <= int(dy) {
				for f.dir < numDirections {
					if !f.latch[f.dir] {
						dcol, drow := dirOffset(f.dir, f.iX, f.iY)
						cc, cr := f.col+dcol, f.row+drow
						if _, _, exists := grid.probe(cc, cr, f.iBCID); exists {
							f.latch[f.dir] = true
							bcid := f.iBCID
							f.dir++
							return cc, cr, bcid, true
						}
					}
					f.dir++
				}
				f.dir = 0
				f.iY++
			}
			f.iY = 1
			f.iX++
		}
		f.iY = 1
		f.iX = 1
		f.iBCID++
	}
	return 0, 0, 0, false
}

// clusterState accumulates the running aggregates of a cluster while it
// grows: hit count, summed ToT and charge, the charge-weighted centroid
// numerators, and the running-maximum-ToT seed candidate.
type clusterState struct {
	size       uint32
	totSum     uint32
	chargeSum  float32
	xWeighted  float32
	yWeighted  float32
	maxTot     int32
	seedCol    int
	seedRow    int
	seedBCID   int
	anchorBCID int
	abort      bool

	hitIndices []uint32 // only populated when clusterHitInfoEnabled
}

func (s *clusterState) reset(anchorBCID int) {
	s.size = 0
	s.totSum = 0
	s.chargeSum = 0
	s.xWeighted = 0
	s.yWeighted = 0
	s.maxTot = 0
	s.seedCol = 0
	s.seedRow = 0
	s.seedBCID = 0
	s.anchorBCID = anchorBCID
	s.abort = false
	s.hitIndices = s.hitIndices[:0]
}

// visitCell folds the cell at (col, row, bcid) into the growing cluster
// and removes it from the occupancy grid. The caller has already
// confirmed the cell is occupied. Returns gridEmptied=true if removing
// this cell drained the grid, in which case the flood-fill must stop
// immediately without expanding neighbors: there is nothing left to
// visit.
func (e *Clusterizer) visitCell(s *clusterState, col, row, bcid int) (gridEmptied bool) {
	tot, hitIndex, _ := e.grid.probe(col, row, bcid)
	s.size++

	if tot >= s.maxTot && tot <= int32(e.cfg.maxHitTot) {
		s.seedCol, s.seedRow, s.seedBCID = col, row, bcid
		s.maxTot = tot
	}

	if e.cfg.clusterHitInfoEnabled {
		e.clusterHitInfoOut[hitIndex].ClusterID = e.clusterIDCounter
		s.hitIndices = append(s.hitIndices, hitIndex)
	}

	if tot > int32(e.cfg.maxClusterHitTot) {
		s.abort = true
	}
	if s.size > e.cfg.maxClusterHits {
		s.abort = true
	}

	s.totSum += uint32(tot)
	charge := e.calib.get(col, row, int(tot))
	s.chargeSum += charge
	s.xWeighted += (float32(col) + 0.5) * PixelPitchX * charge
	s.yWeighted += (float32(row) + 0.5) * PixelPitchY * charge

	return e.grid.remove(col, row, bcid)
}

// growCluster runs the flood-fill starting at (col, row, bcid) and
// returns the finished cluster state. The cluster's cells are always
// fully drained from the grid regardless of whether the cluster is
// later committed or discarded.
func (e *Clusterizer) growCluster(col, row, bcid int) *clusterState {
	s := e.clusterScratch
	s.reset(bcid)

	if e.visitCell(s, col, row, bcid) {
		return s
	}

	bcidHigh := bcid + int(e.cfg.dBCID)
	if e.grid.lastBCID < bcidHigh {
		bcidHigh = e.grid.lastBCID
	}

	stack := e.frameScratch[:0]
	stack = append(stack, newFrame(col, row, bcid))

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		cc, cr, cb, ok := top.advance(e.grid, bcidHigh, e.cfg.dx, e.cfg.dy)
		if !ok {
			stack = stack[:len(stack)-1]
			continue
		}
		if e.visitCell(s, cc, cr, cb) {
			stack = stack[:0]
			break
		}
		stack = append(stack, newFrame(cc, cr, bcid))
	}
	e.frameScratch = stack[:0]
	return s
}

// finishCluster decides whether a fully-grown cluster is committed or
// discarded, folds it into the result histograms, and stamps per-hit
// cluster membership onto the registered output arrays.
//
// A cluster is discarded, without error, if it was marked aborted while
// growing (a hit's ToT exceeded maxClusterHitTot, or its size exceeded
// maxClusterHits) or if its final size falls below minClusterHits. A
// discarded cluster's hits keep their placeholder ClusterSize; only a
// committed cluster's hits are stamped with the real size and marked
// with IsSeed.
func (e *Clusterizer) finishCluster(s *clusterState) error {
	if s.abort || s.size < e.cfg.minClusterHits {
		logger.Info("finishCluster: cluster discarded (aborted or below minClusterHits)", "engine")
		return nil
	}

	clusterID := e.clusterIDCounter
	e.clusterIDCounter++

	if err := e.agg.recordCluster(s.size, s.totSum); err != nil {
		return err
	}

	if e.cfg.enableChargeHistograms && s.chargeSum > 0 {
		chargeBin := int(s.chargeSum)
		if err := e.agg.recordCharge(s.size, chargeBin); err != nil {
			return err
		}
		xBin := int(s.xWeighted / s.chargeSum / (PixelPitchX * float32(MaxCol)) * float32(MaxPosXBins))
		yBin := int(s.yWeighted / s.chargeSum / (PixelPitchY * float32(MaxRow)) * float32(MaxPosYBins))
		if err := e.agg.recordPosition(xBin, yBin); err != nil {
			return err
		}
	}

	if e.cfg.clusterInfoEnabled {
		if e.clusterInfoLen >= len(e.clusterInfoOut) {
			return &ErrOutputFull{Array: "ClusterInfo", Size: len(e.clusterInfoOut)}
		}
		e.clusterInfoOut[e.clusterInfoLen] = ClusterInfo{
			EventNumber: e.currentEvent,
			ClusterID:   clusterID,
			Size:        s.size,
			TotSum:      s.totSum,
			ChargeSum:   s.chargeSum,
			SeedColumn:  uint16(s.seedCol + 1),
			SeedRow:     uint16(s.seedRow + 1),
			EventStatus: e.eventStatus,
		}
		e.clusterInfoLen++
	}

	if e.cfg.clusterHitInfoEnabled {
		seedHitIndex := e.grid.rawHitIndex(s.seedCol, s.seedRow, s.seedBCID)
		for _, idx := range s.hitIndices {
			if int(idx) >= len(e.clusterHitInfoOut) {
				continue
			}
			e.clusterHitInfoOut[idx].ClusterSize = s.size
			if idx == seedHitIndex {
				e.clusterHitInfoOut[idx].IsSeed = 1
			}
		}
	}

	return nil
}
