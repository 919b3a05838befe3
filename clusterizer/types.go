// Package clusterizer groups spatially and temporally adjacent pixel
// hits from the same trigger event into clusters.
package clusterizer

// Geometry constants for the FEI4-class pixel chip this clusterizer was
// built for. These are compile-time parameters, not run-time config:
// changing them changes the size of the allocated grids and histograms.
const (
	MaxCol       = 80
	MaxRow       = 336
	MaxBCID      = 16
	MaxTotLookup = 16

	MaxTotBins         = 16
	MaxChargeBins      = 16
	MaxClusterHitsBins = 1000
	MaxPosXBins        = 100
	MaxPosYBins        = 100

	// PixelPitchX/Y are in micrometres.
	PixelPitchX float32 = 250.0
	PixelPitchY float32 = 50.0
)

// HitInfo is one pixel hit above threshold, read-only from the core's
// point of view. Column and Row are 1-based.
type HitInfo struct {
	EventNumber   uint64
	TriggerNumber uint32
	RelativeBCID  uint16
	LvlID         uint16
	Column        uint16
	Row           uint16
	Tot           uint16
	TDC           uint16
	BCID          uint16
	TriggerStatus uint32
	ServiceRecord uint32
	EventStatus   uint32
}

// ClusterInfo describes one committed cluster. SeedColumn/SeedRow are
// 1-based.
type ClusterInfo struct {
	EventNumber uint64
	ClusterID   uint32
	Size        uint32
	TotSum      uint32
	ChargeSum   float32
	SeedColumn  uint16
	SeedRow     uint16
	EventStatus uint32
}

// ClusterHitInfo is a per-hit annotation of cluster membership, indexed
// by the hit's position in the input slice passed to AddHits.
type ClusterHitInfo struct {
	HitInfo
	ClusterID   uint32
	IsSeed      uint8
	ClusterSize uint32
	NCluster    uint32
}
