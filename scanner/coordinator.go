package scanner

import (
	"context"

	"github.com/astrolabe-cli/astrolabe/common"
	"github.com/astrolabe-cli/astrolabe/guard"
)

// ChunkSize is how many assets go into one bulk scan call. Chunks run in
// sequence, not in parallel, so at most one scan request is outstanding.
const ChunkSize = 10

// BulkScanner is the part of the scan client the coordinator needs.
type BulkScanner interface {
	ScanBulk(ctx context.Context, ids []string) (map[string]common.Verdict, error)
}

// Coordinator refines an already-published result set with security
// verdicts, chunk by chunk, emitting a growing superset after each chunk
// instead of waiting for the whole set.
type Coordinator struct {
	client BulkScanner
}

func NewCoordinator(client BulkScanner) *Coordinator {
	return &Coordinator{client: client}
}

// ScanIncrementally walks records in chunks of ChunkSize. For each chunk it
// checks tok for supersession, issues one bulk call, maps the returned
// verdicts back onto matching records by id, and emits the updated superset
// so far. When superseded it stops silently: already-emitted state belongs
// to an abandoned query and is the caller's to discard. A failed chunk
// keeps its records unscanned and does not abort later chunks.
func (co *Coordinator) ScanIncrementally(
	ctx context.Context,
	records []common.Asset,
	emit func(updated []common.Asset),
	g *guard.Guard,
	tok guard.Token,
) {
	// working copy: resolved record lists are rebuilt, never mutated in place
	updated := make([]common.Asset, len(records))
	copy(updated, records)

	for start := 0; start < len(updated); start += ChunkSize {
		end := start + ChunkSize
		if end > len(updated) {
			end = len(updated)
		}

		if !g.IsCurrent(tok) {
			return
		}

		ids := make([]string, 0, end-start)
		for _, rec := range updated[start:end] {
			ids = append(ids, rec.ID())
		}

		verdicts, err := co.client.ScanBulk(ctx, ids)
		if err == nil {
			for i := start; i < end; i++ {
				if verdict, found := verdicts[updated[i].ID()]; found {
					v := verdict
					updated[i].Verdict = &v
				}
			}
		}

		if !g.IsCurrent(tok) {
			return
		}
		snapshot := make([]common.Asset, len(updated))
		copy(snapshot, updated)
		emit(snapshot)
	}
}
