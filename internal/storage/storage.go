package storage

import "binscope/internal/model"

// SnapshotSink defines a sink for scanned position snapshots.
type SnapshotSink interface {
	PutSnapshotBatch(records []model.SnapshotRecord) error
}
