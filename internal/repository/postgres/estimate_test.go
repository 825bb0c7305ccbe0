package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Datavoxx/daglig-rad-sub001/internal/domain"
	"github.com/Datavoxx/daglig-rad-sub001/internal/service/estimate"
)

func setupTestDB(t *testing.T) (*EstimateRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	return NewEstimateRepo(db), mock, func() { db.Close() }
}

func TestInsertEstimate_AssignsID(t *testing.T) {
	repo, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO estimates").
		WillReturnResult(sqlmock.NewResult(1, 1))

	total := 12500.50
	id, err := repo.InsertEstimate(context.Background(), &domain.Estimate{
		OrganizationID: "org-1",
		Number:         "T-100",
		Name:           "Garasje",
		CustomerName:   "Hansen Bygg",
		Status:         domain.StatusDraft,
		Total:          &total,
	})
	if err != nil {
		t.Fatalf("InsertEstimate: %v", err)
	}
	if id == "" {
		t.Error("expected generated id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestInsertLines_SingleTransaction(t *testing.T) {
	repo, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO estimate_lines").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO estimate_lines").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	lines := []domain.EstimateLine{
		{Position: 0, Description: "Graving"},
		{Position: 1, Description: "Fundament"},
	}
	if err := repo.InsertLines(context.Background(), "est-1", lines); err != nil {
		t.Fatalf("InsertLines: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestInsertLines_RollsBackOnFailure(t *testing.T) {
	repo, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO estimate_lines").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.InsertLines(context.Background(), "est-1",
		[]domain.EstimateLine{{Position: 0, Description: "Graving"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestInsertLines_EmptyBatchIsNoop(t *testing.T) {
	repo, mock, cleanup := setupTestDB(t)
	defer cleanup()

	if err := repo.InsertLines(context.Background(), "est-1", nil); err != nil {
		t.Fatalf("InsertLines: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestExistingNumbers(t *testing.T) {
	repo, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT number FROM estimates").
		WithArgs("org-1").
		WillReturnRows(sqlmock.NewRows([]string{"number"}).AddRow("T-100").AddRow("T-200"))

	numbers, err := repo.ExistingNumbers(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("ExistingNumbers: %v", err)
	}
	if len(numbers) != 2 || numbers[0] != "T-100" {
		t.Errorf("numbers = %v", numbers)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM estimates").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), "org-1", "missing")
	if !errors.Is(err, estimate.ErrNotFound) {
		t.Errorf("err = %v, want estimate.ErrNotFound", err)
	}
}
