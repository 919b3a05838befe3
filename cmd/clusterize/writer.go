package main

import (
	"fmt"
	"sort"

	hdf5 "github.com/jmbenlloch/go-hdf5"
	"golang.org/x/exp/maps"

	"github.com/pybar-go/clusterizer/clusterizer"
)

// clusterInfoHDF5 and clusterHitInfoHDF5 mirror clusterizer.ClusterInfo/
// ClusterHitInfo with fixed-size HDF5-compatible field layout (no
// embedded structs, since HDF5 compound types need flat fields).
type clusterInfoHDF5 struct {
	eventNumber uint64
	clusterID   uint32
	size        uint32
	totSum      uint32
	chargeSum   float32
	seedColumn  uint16
	seedRow     uint16
	eventStatus uint32
}

type clusterHitInfoHDF5 struct {
	eventNumber  uint64
	column       uint16
	row          uint16
	relativeBCID uint16
	tot          uint16
	clusterID    uint32
	isSeed       uint8
	clusterSize  uint32
	nCluster     uint32
}

// Writer owns the HDF5 output file and its tables/histogram arrays.
type Writer struct {
	File          *hdf5.File
	Filename      string
	ClusterGroup  *hdf5.Group
	HistGroup     *hdf5.Group
	ClusterTable  *hdf5.Dataset
	ClusterHits   *hdf5.Dataset
	SizeHistArr   *hdf5.Dataset
	TotHistArr    *hdf5.Dataset
	ChargeHistArr *hdf5.Dataset
	PosHistArr    *hdf5.Dataset
}

func openFile(fname string) *hdf5.File {
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		panic(err)
	}
	return f
}

func createGroup(file *hdf5.File, groupName string) *hdf5.Group {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		panic(err)
	}
	return g
}

func createTable(group *hdf5.Group, name string, datatype interface{}) *hdf5.Dataset {
	dims := []uint{0}
	maxDims := []uint{uint(^uint(0) >> 1)} // H5S_UNLIMITED sentinel accepted by CreateSimpleDataspace
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		panic(err)
	}

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		panic(err)
	}
	plist.SetChunk([]uint{4096})
	plist.SetDeflate(4)

	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		panic(fmt.Sprintf("could not create dtype for %s: %v", name, err))
	}

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		panic(err)
	}
	return dset
}

func writeArrayToTable[T any](dataset *hdf5.Dataset, data []T) {
	length := uint(len(data))
	if length == 0 {
		return
	}
	dataspace, err := hdf5.CreateSimpleDataspace([]uint{length}, nil)
	if err != nil {
		panic(err)
	}
	defer dataspace.Close()

	dimsGot, _, err := dataset.Space().SimpleExtentDims()
	if err != nil {
		panic(err)
	}
	written := dimsGot[0]
	dataset.Resize([]uint{written + length})

	filespace := dataset.Space()
	defer filespace.Close()
	filespace.SelectHyperslab([]uint{written}, nil, []uint{length}, nil)

	if err := dataset.WriteSubset(&data, dataspace, filespace); err != nil {
		panic(err)
	}
}

// createHistArray creates a fixed-size 1D uint32 dataset for a
// histogram snapshot, one row per flushed event.
func createHistArray(group *hdf5.Group, name string, nBins int) *hdf5.Dataset {
	dims := []uint{0, uint(nBins)}
	maxDims := []uint{uint(^uint(0) >> 1), uint(nBins)}
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		panic(err)
	}
	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		panic(err)
	}
	plist.SetChunk([]uint{1, uint(nBins)})
	plist.SetDeflate(4)
	dtype, err := hdf5.NewDatatypeFromValue(uint32(0))
	if err != nil {
		panic(err)
	}
	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		panic(err)
	}
	return dset
}

func writeHistRow(dataset *hdf5.Dataset, row []uint32) {
	dimsGot, _, err := dataset.Space().SimpleExtentDims()
	if err != nil {
		panic(err)
	}
	nBins := dimsGot[1]
	written := dimsGot[0]
	dataset.Resize([]uint{written + 1, nBins})

	dataspace, err := hdf5.CreateSimpleDataspace([]uint{1, nBins}, nil)
	if err != nil {
		panic(err)
	}
	defer dataspace.Close()
	filespace := dataset.Space()
	defer filespace.Close()
	filespace.SelectHyperslab([]uint{written, 0}, nil, []uint{1, nBins}, nil)

	if err := dataset.WriteSubset(&row, dataspace, filespace); err != nil {
		panic(err)
	}
}

// NewWriter creates the output file and its groups/tables.
func NewWriter(filename string) *Writer {
	w := &Writer{Filename: filename}
	w.File = openFile(filename)
	w.ClusterGroup = createGroup(w.File, "Clusters")
	w.HistGroup = createGroup(w.File, "Histograms")
	w.ClusterTable = createTable(w.ClusterGroup, "clusterInfo", clusterInfoHDF5{})
	w.ClusterHits = createTable(w.ClusterGroup, "clusterHitInfo", clusterHitInfoHDF5{})
	w.SizeHistArr = createHistArray(w.HistGroup, "clusterSize", clusterizer.MaxClusterHitsBins)
	w.TotHistArr = createHistArray(w.HistGroup, "clusterTot", clusterizer.MaxClusterHitsBins*clusterizer.MaxTotBins)
	w.ChargeHistArr = createHistArray(w.HistGroup, "clusterCharge", clusterizer.MaxClusterHitsBins*clusterizer.MaxChargeBins)
	w.PosHistArr = createHistArray(w.HistGroup, "clusterPosition", clusterizer.MaxPosXBins*clusterizer.MaxPosYBins)
	return w
}

// WriteClusters appends the given committed clusters to the clusterInfo
// table.
func (w *Writer) WriteClusters(clusters []clusterizer.ClusterInfo) {
	rows := make([]clusterInfoHDF5, len(clusters))
	for i, c := range clusters {
		rows[i] = clusterInfoHDF5{
			eventNumber: c.EventNumber,
			clusterID:   c.ClusterID,
			size:        c.Size,
			totSum:      c.TotSum,
			chargeSum:   c.ChargeSum,
			seedColumn:  c.SeedColumn,
			seedRow:     c.SeedRow,
			eventStatus: c.EventStatus,
		}
	}
	writeArrayToTable(w.ClusterTable, rows)
}

// WriteClusterHits appends the given per-hit cluster annotations to the
// clusterHitInfo table.
func (w *Writer) WriteClusterHits(hits []clusterizer.ClusterHitInfo) {
	rows := make([]clusterHitInfoHDF5, len(hits))
	for i, h := range hits {
		rows[i] = clusterHitInfoHDF5{
			eventNumber:  h.EventNumber,
			column:       h.Column,
			row:          h.Row,
			relativeBCID: h.RelativeBCID,
			tot:          h.Tot,
			clusterID:    h.ClusterID,
			isSeed:       h.IsSeed,
			clusterSize:  h.ClusterSize,
			nCluster:     h.NCluster,
		}
	}
	writeArrayToTable(w.ClusterHits, rows)
}

// WriteHistograms appends one snapshot row per histogram, taken from
// the clusterizer's current accumulators.
func (w *Writer) WriteHistograms(c *clusterizer.Clusterizer) {
	writeHistRow(w.SizeHistArr, c.GetClusterSizeHist(false))
	writeHistRow(w.TotHistArr, c.GetClusterTotHist(false))
	writeHistRow(w.ChargeHistArr, c.GetClusterChargeHist(false))
	writeHistRow(w.PosHistArr, c.GetClusterPositionHist(false))
}

// WriteCalibrationSummary logs the number of calibration entries that
// were installed. The keys are sorted by (column, row, tot) first; only
// the count is written to the log.
func WriteCalibrationSummary(calib map[[3]uint16]float32) {
	keys := maps.Keys(calib)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		if keys[i][1] != keys[j][1] {
			return keys[i][1] < keys[j][1]
		}
		return keys[i][2] < keys[j][2]
	})
	logger.Info(fmt.Sprintf("calibration entries: %d", len(keys)), "writer")
}

func (w *Writer) Close() {
	w.File.Close()
}
