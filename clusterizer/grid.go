package clusterizer

// emptyTot is the sentinel ToT value for an unoccupied occupancy cell.
const emptyTot = int32(-1)

// occupancyGrid is a dense, sparse-in-dense 3D array indexed by
// (column, row, relativeBCID), 0-based internally. It answers presence,
// insert and delete in O(1) and tracks the minimal axis-aligned box
// enclosing all currently resident hits so the cluster engine can prune
// its outer scan to the region that actually holds hits.
type occupancyGrid struct {
	tot      []int32
	hitIndex []uint32
	nHits    int

	minCol, maxCol     int
	minRow, maxRow     int
	firstBCID, lastBCID int
}

func newOccupancyGrid() *occupancyGrid {
	g := &occupancyGrid{
		tot:      make([]int32, MaxCol*MaxRow*MaxBCID),
		hitIndex: make([]uint32, MaxCol*MaxRow*MaxBCID),
	}
	g.reset()
	return g
}

func gridIndex(col, row, bcid int) int {
	return col + row*MaxCol + bcid*MaxCol*MaxRow
}

// reset clears every cell to empty and resets the active bounding box
// to its sentinel extremes. Called on Clusterizer construction and on
// every event boundary.
func (g *occupancyGrid) reset() {
	for i := range g.tot {
		g.tot[i] = emptyTot
	}
	g.nHits = 0
	g.resetBounds()
}

func (g *occupancyGrid) resetBounds() {
	g.minCol = MaxCol - 1
	g.maxCol = 0
	g.minRow = MaxRow - 1
	g.maxRow = 0
	g.firstBCID = -1
	g.lastBCID = -1
}

// insert writes tot/hitIndex into the cell if empty and updates the
// active bounding box. Returns false without mutation if the cell was
// already occupied (a duplicate hit).
func (g *occupancyGrid) insert(col, row, bcid int, tot uint16, hitIndex uint32) bool {
	idx := gridIndex(col, row, bcid)
	if g.tot[idx] != emptyTot {
		return false
	}
	g.tot[idx] = int32(tot)
	g.hitIndex[idx] = hitIndex
	g.nHits++

	if g.nHits == 1 || bcid < g.firstBCID {
		g.firstBCID = bcid
	}
	if bcid > g.lastBCID {
		g.lastBCID = bcid
	}
	if col < g.minCol {
		g.minCol = col
	}
	if col > g.maxCol {
		g.maxCol = col
	}
	if row < g.minRow {
		g.minRow = row
	}
	if row > g.maxRow {
		g.maxRow = row
	}
	return true
}

// probe is a bounds-checked presence query. Out-of-range coordinates
// return ok=false, so a neighbor scan can probe past the chip edge
// without a separate bounds check.
func (g *occupancyGrid) probe(col, row, bcid int) (tot int32, hitIndex uint32, ok bool) {
	if col < 0 || col >= MaxCol || row < 0 || row >= MaxRow || bcid < 0 || bcid >= MaxBCID {
		return 0, 0, false
	}
	idx := gridIndex(col, row, bcid)
	if g.tot[idx] == emptyTot {
		return 0, 0, false
	}
	return g.tot[idx], g.hitIndex[idx], true
}

// remove empties the cell and returns true if the grid is now empty, in
// which case the active bounding box is reset to sentinel extremes.
func (g *occupancyGrid) remove(col, row, bcid int) (gridEmpty bool) {
	g.tot[gridIndex(col, row, bcid)] = emptyTot
	g.nHits--
	if g.nHits == 0 {
		g.resetBounds()
		return true
	}
	return false
}

// clearIfNonempty walks the previously-active bounding box and clears
// any residual cells. Used as a safety net on event boundaries so a
// misbehaving stream (hits that were never fully clustered) cannot leak
// occupancy into the next event.
func (g *occupancyGrid) clearIfNonempty() {
	if g.nHits == 0 {
		return
	}
	for b := 0; b < MaxBCID; b++ {
		for c := g.minCol; c <= g.maxCol; c++ {
			for r := g.minRow; r <= g.maxRow; r++ {
				idx := gridIndex(c, r, b)
				if g.tot[idx] != emptyTot {
					g.tot[idx] = emptyTot
					g.nHits--
				}
			}
		}
		if g.nHits == 0 {
			break
		}
	}
	g.resetBounds()
}

// rawHitIndex reads the hit-index slot for (col, row, bcid) regardless
// of whether the cell is currently occupied. The hit-index buffer is
// never cleared on remove (only the ToT sentinel is), so a cell's
// resident hit index remains readable after the cell has been drained —
// used to mark the seed hit once its cluster has already been fully
// removed from the grid.
func (g *occupancyGrid) rawHitIndex(col, row, bcid int) uint32 {
	return g.hitIndex[gridIndex(col, row, bcid)]
}

// chargeCalibration maps (column, row, tot) to charge. It is
// process-scoped and populated by an external calibration source; the
// core never mutates it, only reads.
type chargeCalibration struct {
	charge []float32
}

func newChargeCalibration() *chargeCalibration {
	return &chargeCalibration{charge: make([]float32, MaxCol*MaxRow*MaxTotLookup)}
}

func chargeIndex(col, row, tot int) int {
	return col + row*MaxCol + tot*MaxCol*MaxRow
}

func (m *chargeCalibration) get(col, row, tot int) float32 {
	if tot < 0 || tot >= MaxTotLookup {
		return 0
	}
	return m.charge[chargeIndex(col, row, tot)]
}

// set installs a calibrated charge value for (col, row, tot). Column and
// row are 0-based here.
func (m *chargeCalibration) set(col, row, tot int, charge float32) {
	if tot < 0 || tot >= MaxTotLookup {
		return
	}
	m.charge[chargeIndex(col, row, tot)] = charge
}
