package reconcile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mbentes/conciliador/internal/store"
)

func importRow(externalReference string) store.SourceTransaction {
	return store.SourceTransaction{
		CompanyID:         "c1",
		TransactionDate:   time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC),
		Description:       "PIX RECEBIDO",
		Amount:            120.00,
		LineDirection:     store.LineCredit,
		ExternalReference: externalReference,
	}
}

func TestImportBatchDeduplicates(t *testing.T) {
	machine, transactions, _ := testMachine(BankAdapter{})

	rows := make([]store.SourceTransaction, 0, 10)
	for i := 0; i < 10; i++ {
		rows = append(rows, importRow(fmt.Sprintf("ext-%d", i)))
	}
	// ext-0 through ext-2 already live in the table
	for i := 0; i < 3; i++ {
		transactions.existing[fmt.Sprintf("ext-%d", i)] = struct{}{}
	}

	result, err := machine.ImportBatch(context.Background(), rows, nil)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if result.Imported != 7 {
		t.Errorf("expected 7 imported, got %d", result.Imported)
	}
	if result.Duplicates != 3 {
		t.Errorf("expected 3 duplicates, got %d", result.Duplicates)
	}
	if len(transactions.inserted) != 7 {
		t.Fatalf("expected 7 inserted rows, got %d", len(transactions.inserted))
	}
	for _, row := range transactions.inserted {
		if row.Status != store.StatusImported {
			t.Errorf("row %s: expected status imported, got %s", row.ExternalReference, row.Status)
		}
		if row.ID == "" {
			t.Errorf("row %s: expected a generated id", row.ExternalReference)
		}
	}
}

func TestImportBatchInBatchDuplicates(t *testing.T) {
	machine, transactions, _ := testMachine(BankAdapter{})

	rows := []store.SourceTransaction{
		importRow("ext-1"),
		importRow("ext-1"),
		importRow("ext-1"),
		importRow("ext-2"),
	}

	result, err := machine.ImportBatch(context.Background(), rows, nil)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if result.Imported != 2 {
		t.Errorf("expected 2 imported, got %d", result.Imported)
	}
	if result.Duplicates != 2 {
		t.Errorf("expected 2 duplicates, got %d", result.Duplicates)
	}
	if len(transactions.inserted) != 2 {
		t.Errorf("expected 2 inserted rows, got %d", len(transactions.inserted))
	}
}

func TestImportBatchEmptyReferenceNeverDeduplicated(t *testing.T) {
	machine, transactions, _ := testMachine(ManualAdapter{})

	rows := []store.SourceTransaction{
		importRow(""),
		importRow(""),
	}

	result, err := machine.ImportBatch(context.Background(), rows, nil)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if result.Imported != 2 || result.Duplicates != 0 {
		t.Errorf("expected 2 imported / 0 duplicates, got %d / %d", result.Imported, result.Duplicates)
	}
	if len(transactions.inserted) != 2 {
		t.Errorf("expected 2 inserted rows, got %d", len(transactions.inserted))
	}
}

func TestImportBatchSplitsInserts(t *testing.T) {
	machine, transactions, _ := testMachine(BankAdapter{})

	rows := make([]store.SourceTransaction, 0, insertBatchSize+10)
	for i := 0; i < insertBatchSize+10; i++ {
		rows = append(rows, importRow(fmt.Sprintf("ext-%d", i)))
	}

	result, err := machine.ImportBatch(context.Background(), rows, nil)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if result.Imported != insertBatchSize+10 {
		t.Errorf("expected %d imported, got %d", insertBatchSize+10, result.Imported)
	}
	if transactions.batches != 2 {
		t.Errorf("expected 2 insert batches, got %d", transactions.batches)
	}
}

func TestImportBatchProgressReachesCompletion(t *testing.T) {
	machine, _, _ := testMachine(BankAdapter{})

	var percents []int
	progress := func(percent int, message string) {
		percents = append(percents, percent)
	}

	rows := []store.SourceTransaction{importRow("ext-1"), importRow("ext-2")}
	if _, err := machine.ImportBatch(context.Background(), rows, progress); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if len(percents) == 0 {
		t.Fatal("expected progress callbacks")
	}
	if percents[len(percents)-1] != 100 {
		t.Errorf("expected final progress 100, got %d", percents[len(percents)-1])
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Errorf("progress went backwards: %v", percents)
			break
		}
	}
}

func TestImportBatchEmpty(t *testing.T) {
	machine, _, _ := testMachine(BankAdapter{})

	result, err := machine.ImportBatch(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Imported != 0 || result.Duplicates != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}
