package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mbentes/conciliador/internal/store"
)

const (
	// How many external references go into a single dedup lookup.
	dedupChunkSize = 200

	// How many rows go into a single insert, to stay clear of statement
	// timeouts on large statements.
	insertBatchSize = 50
)

// ImportResult reports how a batch import went. Duplicate rows are skipped
// and counted, never treated as an error.
type ImportResult struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
}

// ProgressFunc receives per-batch progress for UI consumption.
type ProgressFunc func(percent int, message string)

// ImportBatch inserts the given rows into this machine's source table with
// status imported. Rows whose external_reference already exists in the table,
// or repeats within the batch itself, are deduplicated.
func (m *Machine) ImportBatch(ctx context.Context, rows []store.SourceTransaction, progress ProgressFunc) (ImportResult, error) {
	const component = "Import"

	if progress == nil {
		progress = func(int, string) {}
	}

	result := ImportResult{}
	if len(rows) == 0 {
		progress(100, "nothing to import")
		return result, nil
	}

	progress(0, "checking for duplicates")

	existing, err := m.existingReferences(ctx, rows)
	if err != nil {
		return result, err
	}

	now := time.Now().UTC()
	seen := make(map[string]struct{}, len(rows))
	fresh := make([]store.SourceTransaction, 0, len(rows))

	for _, row := range rows {
		if row.ExternalReference != "" {
			if _, dup := existing[row.ExternalReference]; dup {
				result.Duplicates++
				continue
			}
			if _, dup := seen[row.ExternalReference]; dup {
				result.Duplicates++
				continue
			}
			seen[row.ExternalReference] = struct{}{}
		}

		row.ID = uuid.New().String()
		row.Status = store.StatusImported
		row.CreatedAt = now
		row.UpdatedAt = now
		fresh = append(fresh, row)
	}

	for start := 0; start < len(fresh); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(fresh) {
			end = len(fresh)
		}

		if err := m.transactions.InsertBatch(ctx, m.adapter.Table(), fresh[start:end]); err != nil {
			return result, err
		}
		result.Imported += end - start

		percent := 100 * end / len(fresh)
		progress(percent, "importing transactions")
	}

	progress(100, "import complete")
	m.appLogger.Info(component, "Batch imported: origin=%s imported=%d duplicates=%d", m.adapter.Origin(), result.Imported, result.Duplicates)
	return result, nil
}

func (m *Machine) existingReferences(ctx context.Context, rows []store.SourceTransaction) (map[string]struct{}, error) {
	refs := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.ExternalReference != "" {
			refs = append(refs, row.ExternalReference)
		}
	}

	existing := make(map[string]struct{}, len(refs))
	for start := 0; start < len(refs); start += dedupChunkSize {
		end := start + dedupChunkSize
		if end > len(refs) {
			end = len(refs)
		}

		chunk, err := m.transactions.ExistingReferences(ctx, m.adapter.Table(), refs[start:end])
		if err != nil {
			return nil, err
		}
		for ref := range chunk {
			existing[ref] = struct{}{}
		}
	}

	return existing, nil
}
