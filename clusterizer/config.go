package clusterizer

// Config holds the validated, bounds-checked parameter set for a
// Clusterizer. It is built with NewConfig and mutated only through its
// validated setters, never by direct field assignment from untrusted
// input.
type Config struct {
	dx                      uint32
	dy                      uint32
	dBCID                   uint32
	minClusterHits          uint32
	maxClusterHits          uint32
	maxHitTot               uint16
	maxClusterHitTot        uint16
	clusterInfoEnabled      bool
	clusterHitInfoEnabled   bool
	enableChargeHistograms  bool
}

// NewConfig returns a Config populated with the standard defaults:
// dx=1, dy=2, dBCID=4, minClusterHits=1, maxClusterHits=9,
// maxHitTot=13, maxClusterHitTot=13, cluster-info enabled, per-hit
// cluster-info disabled.
func NewConfig() *Config {
	return &Config{
		dx:                    1,
		dy:                    2,
		dBCID:                 4,
		minClusterHits:        1,
		maxClusterHits:        9,
		maxHitTot:             13,
		maxClusterHitTot:      13,
		clusterInfoEnabled:    true,
		clusterHitInfoEnabled: false,
	}
}

// SetDx sets the column neighborhood half-width. Values of 1 are
// silently rejected (the strict '>' means callers must pass >= 2 for
// the setting to take effect); the previous value is kept.
func (c *Config) SetDx(dx uint32) {
	if dx > 1 && dx < MaxCol-1 {
		c.dx = dx
	} else {
		logger.Info("SetDx: value rejected, out of (1, MaxCol-1) range", "config")
	}
}

// SetDy sets the row neighborhood half-height. Same '>1' caveat as SetDx.
func (c *Config) SetDy(dy uint32) {
	if dy > 1 && dy < MaxRow-1 {
		c.dy = dy
	} else {
		logger.Info("SetDy: value rejected, out of (1, MaxRow-1) range", "config")
	}
}

// SetDBCID sets the relative-BCID window width.
func (c *Config) SetDBCID(dBCID uint32) {
	if dBCID < MaxBCID-1 {
		c.dBCID = dBCID
	} else {
		logger.Info("SetDBCID: value rejected, out of [0, MaxBCID-1) range", "config")
	}
}

// SetMinClusterHits sets the minimum cluster size accepted verbatim.
func (c *Config) SetMinClusterHits(n uint32) { c.minClusterHits = n }

// SetMaxClusterHits sets the maximum cluster size accepted verbatim.
func (c *Config) SetMaxClusterHits(n uint32) { c.maxClusterHits = n }

// SetMaxHitTot sets the per-hit ToT cap above which a hit is dropped at
// admission.
func (c *Config) SetMaxHitTot(tot uint16) { c.maxHitTot = tot }

// SetMaxClusterHitTot sets the per-hit ToT cap above which the whole
// cluster containing it is marked aborted.
func (c *Config) SetMaxClusterHitTot(tot uint16) { c.maxClusterHitTot = tot }

// SetClusterInfoEnabled toggles whether ClusterInfo rows are produced.
func (c *Config) SetClusterInfoEnabled(enabled bool) { c.clusterInfoEnabled = enabled }

// SetClusterHitInfoEnabled toggles whether per-hit ClusterHitInfo
// annotations are produced.
func (c *Config) SetClusterHitInfoEnabled(enabled bool) { c.clusterHitInfoEnabled = enabled }

// SetEnableChargeHistograms toggles the charge-weighted position and
// cluster-charge-vs-size histograms. These are specified but disabled
// by default pending an explicit charge-calibration source; see
// SetChargeCalibration.
func (c *Config) SetEnableChargeHistograms(enabled bool) { c.enableChargeHistograms = enabled }

func (c *Config) Dx() uint32                 { return c.dx }
func (c *Config) Dy() uint32                 { return c.dy }
func (c *Config) DBCID() uint32              { return c.dBCID }
func (c *Config) MinClusterHits() uint32     { return c.minClusterHits }
func (c *Config) MaxClusterHits() uint32     { return c.maxClusterHits }
func (c *Config) MaxHitTot() uint16          { return c.maxHitTot }
func (c *Config) MaxClusterHitTot() uint16   { return c.maxClusterHitTot }
func (c *Config) ClusterInfoEnabled() bool   { return c.clusterInfoEnabled }
func (c *Config) ClusterHitInfoEnabled() bool { return c.clusterHitInfoEnabled }
func (c *Config) ChargeHistogramsEnabled() bool { return c.enableChargeHistograms }
