package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/pybar-go/clusterizer/clusterizer"
)

// hitRecord is the fixed-width, little-endian on-disk representation of
// one HitInfo, one record per hit with no framing between them.
type hitRecord struct {
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

func (r hitRecord) toHitInfo() clusterizer.HitInfo {
	return clusterizer.HitInfo{
		EventNumber:   r.EventNumber,
		TriggerNumber: r.TriggerNumber,
		RelativeBCID:  r.RelativeBCID,
		LvlID:         r.LvlID,
		Column:        r.Column,
		Row:           r.Row,
		Tot:           r.Tot,
		TDC:           r.TDC,
		BCID:          r.BCID,
		TriggerStatus: r.TriggerStatus,
		ServiceRecord: r.ServiceRecord,
		EventStatus:   r.EventStatus,
	}
}

// FileReader streams fixed-width hit records from a raw hit file,
// skipping the first skip events entirely and stopping once maxEvents
// events beyond that have been yielded.
type FileReader struct {
	file      *os.File
	hitCount  int
	skip      int
	maxEvents int

	seenEvents int
	lastEvent  uint64
	haveLast   bool
	doneEvents bool
}

func NewFileReader(file *os.File, skip, maxEvents int) *FileReader {
	return &FileReader{file: file, skip: skip, maxEvents: maxEvents}
}

var hitRecordSize = binary.Size(hitRecord{})

func (f *FileReader) readRecord() (clusterizer.HitInfo, error) {
	buf := make([]byte, hitRecordSize)
	n, err := io.ReadFull(f.file, buf)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return clusterizer.HitInfo{}, io.EOF
		}
		return clusterizer.HitInfo{}, fmt.Errorf("error reading hit record: %w", err)
	}
	if n != hitRecordSize {
		return clusterizer.HitInfo{}, fmt.Errorf("short hit record: got %d bytes, want %d", n, hitRecordSize)
	}

	var rec hitRecord
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &rec); err != nil {
		return clusterizer.HitInfo{}, fmt.Errorf("error decoding hit record: %w", err)
	}
	return rec.toHitInfo(), nil
}

// getNextHit returns the next hit that belongs to a non-skipped,
// within-budget event, or io.EOF once the file or the maxEvents budget
// is exhausted.
func (f *FileReader) getNextHit() (clusterizer.HitInfo, error) {
	if f.doneEvents {
		return clusterizer.HitInfo{}, io.EOF
	}
	for {
		hit, err := f.readRecord()
		if err != nil {
			return clusterizer.HitInfo{}, err
		}
		if !f.haveLast || hit.EventNumber != f.lastEvent {
			f.lastEvent = hit.EventNumber
			f.haveLast = true
			f.seenEvents++
			if f.seenEvents > f.skip+f.maxEvents {
				f.doneEvents = true
				return clusterizer.HitInfo{}, io.EOF
			}
		}
		if f.seenEvents <= f.skip {
			continue
		}
		f.hitCount++
		return hit, nil
	}
}

// countHits reports the total number of hit records in the file, derived
// from the file size, then rewinds to the beginning.
func countHits(file *os.File) (int, error) {
	info, err := file.Stat()
	if err != nil {
		return 0, fmt.Errorf("error stating input file: %w", err)
	}
	count := int(info.Size()) / hitRecordSize
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("error rewinding input file: %w", err)
	}
	return count, nil
}
