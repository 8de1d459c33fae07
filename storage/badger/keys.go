package badger

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Key prefixes for different data types
const (
	entityRecordPrefix = "entrec"
	entityRegionPrefix = "entreg"
	tableRecordPrefix  = "tabrec"
	obsRecordPrefix    = "obsrec"
	obsTargetPrefix    = "obstgt"
	feedbackPrefix     = "fbktgt"
	runRecordPrefix    = "runrec"
	runTimePrefix      = "runtime"
)

// makeEntityKey generates a key for an entity by its canonical ID.
func makeEntityKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", entityRecordPrefix, id))
}

// makeEntityRegionKey generates a composite key for the region index.
// Format: prefix:region:id
func makeEntityRegionKey(region, id string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", entityRegionPrefix, region, id))
}

// makeEntityRegionScanPrefix generates the prefix for scanning one region.
func makeEntityRegionScanPrefix(region string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", entityRegionPrefix, region))
}

// makeTableKey generates a key for a normalized table by record ID.
func makeTableKey(recordID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", tableRecordPrefix, recordID))
}

// makeObservationKey generates a key for an observation by record ID.
func makeObservationKey(recordID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", obsRecordPrefix, recordID))
}

// makeObservationTargetsKey generates a key for an observation's target list.
func makeObservationTargetsKey(recordID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", obsTargetPrefix, recordID))
}

// makeFeedbackTargetsKey generates a key for a feedback row's target list.
func makeFeedbackTargetsKey(feedbackID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", feedbackPrefix, feedbackID))
}

// makeRunKey generates a key for an ingestion run result by record ID.
func makeRunKey(recordID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", runRecordPrefix, recordID))
}

// makeRunTimeKey generates a composite key for the run time index.
// Format: prefix:timestamp:recordID, timestamp in BigEndian so
// lexicographic sort matches chronological order.
func makeRunTimeKey(completedAt time.Time, recordID string) []byte {
	prefix := []byte(runTimePrefix + ":")
	buf := make([]byte, len(prefix)+8+len(recordID))
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(completedAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], recordID)
	return buf
}
