package clusterizer

// AddHits feeds a contiguous run of hits into the clusterizer. Hits must
// already be grouped by event number; a new event number triggers a
// flush of the previous event's grid into committed clusters before the
// new hits are admitted. The final, still-open event is flushed before
// AddHits returns, so every call leaves no partial event pending.
//
// hits[i].EventNumber == 0 is reserved for "no event seen yet" and must
// never appear in real data; a leading run of hits sharing the
// clusterizer's currently-open event number is treated as a continuation
// of that event rather than a new one, even across separate AddHits
// calls.
func (c *Clusterizer) AddHits(hits []HitInfo) error {
	if len(hits) > 0 && c.currentEvent != 0 && hits[0].EventNumber == c.currentEvent {
		logger.Info("addHits: hits not aligned at events, clusterizer will not work properly", "framer")
	}
	for i := range hits {
		h := &hits[i]
		if c.currentEvent != 0 && h.EventNumber != c.currentEvent {
			if err := c.finalizeEvent(); err != nil {
				return err
			}
			c.beginEvent()
		}
		c.currentEvent = h.EventNumber
		if err := c.admit(h, i); err != nil {
			return err
		}
	}
	return c.finalizeEvent()
}

// beginEvent clears the occupancy grid and per-event bookkeeping ahead
// of admitting the next event's hits.
func (c *Clusterizer) beginEvent() {
	c.grid.reset()
	c.clusterIDCounter = 0
	c.eventStatus = 0
	c.eventHitIndices = c.eventHitIndices[:0]
}

// admit inserts one hit into the occupancy grid, dropping it with a
// logged warning if its ToT exceeds the per-hit cap, its cell is already
// occupied, or its coordinates fall outside the chip. hitIndex addresses
// the caller's per-hit output array and is stored in the occupancy grid
// alongside the hit's ToT.
func (c *Clusterizer) admit(h *HitInfo, hitIndex int) error {
	if h.Tot > c.cfg.maxHitTot {
		logger.Info("admit: hit dropped, tot above maxHitTot", "framer")
		return nil
	}
	c.eventStatus |= h.EventStatus
	col, row, bcid := int(h.Column)-1, int(h.Row)-1, int(h.RelativeBCID)
	if col < 0 || col >= MaxCol || row < 0 || row >= MaxRow || bcid < 0 || bcid >= MaxBCID {
		logger.Info("admit: hit dropped, coordinates out of range", "framer")
		return nil
	}
	if c.cfg.clusterHitInfoEnabled {
		if hitIndex >= len(c.clusterHitInfoOut) {
			return &ErrHitIndexOutOfRange{Index: hitIndex, Size: len(c.clusterHitInfoOut)}
		}
		c.clusterHitInfoOut[hitIndex] = ClusterHitInfo{
			HitInfo:     *h,
			ClusterID:   0,
			ClusterSize: placeholderClusterMeta,
			NCluster:    placeholderClusterMeta,
		}
		c.eventHitIndices = append(c.eventHitIndices, uint32(hitIndex))
	}
	if !c.grid.insert(col, row, bcid, h.Tot, uint32(hitIndex)) {
		logger.Info("admit: duplicate hit, cell already occupied", "framer")
	}
	return nil
}

// finalizeEvent drains every cluster remaining in the occupancy grid,
// committing or discarding each in turn, then stamps the final
// per-event cluster count onto every hit admitted this event. It is a
// no-op if no hits were admitted.
func (c *Clusterizer) finalizeEvent() error {
	if c.grid.nHits == 0 {
		return nil
	}
	bcidLow, bcidHigh := c.grid.firstBCID, c.grid.lastBCID
	minCol, maxCol := c.grid.minCol, c.grid.maxCol
	minRow, maxRow := c.grid.minRow, c.grid.maxRow

scan:
	for b := bcidLow; b <= bcidHigh; b++ {
		for col := minCol; col <= maxCol; col++ {
			for row := minRow; row <= maxRow; row++ {
				if _, _, exists := c.grid.probe(col, row, b); exists {
					s := c.growCluster(col, row, b)
					if err := c.finishCluster(s); err != nil {
						return err
					}
				}
				if c.grid.nHits == 0 {
					break scan
				}
			}
		}
	}

	if c.grid.nHits != 0 {
		logger.Error("finalizeEvent: residual hits left in grid after scan, clearing")
		c.grid.clearIfNonempty()
	}

	if c.cfg.clusterHitInfoEnabled {
		for _, idx := range c.eventHitIndices {
			if int(idx) < len(c.clusterHitInfoOut) {
				c.clusterHitInfoOut[idx].NCluster = c.clusterIDCounter
			}
		}
	}
	return nil
}
