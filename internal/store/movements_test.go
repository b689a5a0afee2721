package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func mockMovementStore(t *testing.T) (*MovementStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &MovementStore{db: sqlx.NewDb(db, "postgres")}, mock
}

func sampleMovement() *FinancialMovement {
	now := time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)
	return &FinancialMovement{
		ID:                "m1",
		MovementDate:      now,
		Direction:         DirectionOut,
		Origin:            OriginBank,
		Description:       "Tarifa bancária",
		Amount:            45.50,
		CompanyID:         "c1",
		SourceReferenceID: "b1",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestUpsertReturnsRowID(t *testing.T) {
	ms, mock := mockMovementStore(t)

	mock.ExpectQuery("INSERT INTO movimentos_financeiros").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("m1"))

	id, err := ms.Upsert(context.Background(), sampleMovement())
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if id != "m1" {
		t.Errorf("expected id m1, got %q", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpsertSurfacesRowIterationError(t *testing.T) {
	ms, mock := mockMovementStore(t)

	rows := sqlmock.NewRows([]string{"id"}).
		AddRow("m1").
		RowError(0, errors.New("connection reset"))
	mock.ExpectQuery("INSERT INTO movimentos_financeiros").WillReturnRows(rows)

	if _, err := ms.Upsert(context.Background(), sampleMovement()); err == nil {
		t.Fatal("expected the row iteration error to surface")
	}
}
