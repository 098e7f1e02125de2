package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sony/gobreaker"
)

func newMockBreaker(t *testing.T) (*DBCircuitBreaker, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewDBCircuitBreaker(db), mock
}

func trippableConfig(timeout time.Duration) Config {
	return Config{
		Name:             "feeds-db",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          timeout,
		FailureThreshold: 1.0,
		MinRequests:      5,
	}
}

func TestNewDBCircuitBreaker_StartsClosed(t *testing.T) {
	dcb, _ := newMockBreaker(t)

	if dcb.State() != gobreaker.StateClosed {
		t.Errorf("expected initial state Closed, got %s", dcb.State())
	}
	if dcb.IsOpen() {
		t.Error("fresh breaker reported open")
	}
}

func TestDBCircuitBreaker_QueryContext(t *testing.T) {
	dcb, mock := newMockBreaker(t)

	rows := sqlmock.NewRows([]string{"id", "slug"}).AddRow(1, "gabon-review")
	mock.ExpectQuery("SELECT (.+) FROM feeds").WillReturnRows(rows)

	result, err := dcb.QueryContext(context.Background(), "SELECT id, slug FROM feeds WHERE id = $1", 1)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	defer func() { _ = result.Close() }()

	if !result.Next() {
		t.Fatal("expected one row")
	}
	var id int
	var slug string
	if err := result.Scan(&id, &slug); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if id != 1 || slug != "gabon-review" {
		t.Errorf("got id=%d slug=%q", id, slug)
	}

	if dcb.State() != gobreaker.StateClosed {
		t.Errorf("state changed after success: %s", dcb.State())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDBCircuitBreaker_SingleFailureKeepsCircuitClosed(t *testing.T) {
	dcb, mock := newMockBreaker(t)

	mock.ExpectQuery("SELECT (.+) FROM feeds").WillReturnError(errors.New("connection refused"))

	if _, err := dcb.QueryContext(context.Background(), "SELECT id FROM feeds"); err == nil {
		t.Fatal("expected error")
	}
	if dcb.State() == gobreaker.StateOpen {
		t.Error("circuit opened after one failure")
	}
}

func TestDBCircuitBreaker_ExecContext(t *testing.T) {
	dcb, mock := newMockBreaker(t)

	mock.ExpectExec("UPDATE feeds SET error_count").
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := dcb.ExecContext(context.Background(), "UPDATE feeds SET error_count = 0 WHERE id = $1", 3)
	if err != nil {
		t.Fatalf("exec failed: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		t.Fatalf("rows affected: %v", err)
	}
	if affected != 1 {
		t.Errorf("expected 1 row affected, got %d", affected)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDBCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	dcb := NewDBCircuitBreakerWithConfig(db, trippableConfig(100*time.Millisecond))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		mock.ExpectQuery("SELECT (.+)").WillReturnError(errors.New("connection refused"))
	}
	for i := 0; i < 5; i++ {
		if _, err := dcb.QueryContext(ctx, "SELECT id FROM feeds"); err == nil {
			t.Errorf("attempt %d: expected error", i+1)
		}
	}

	if !dcb.IsOpen() {
		t.Fatalf("expected open circuit after 5 failures, state: %s", dcb.State())
	}

	// Open circuit rejects without touching the database.
	_, err = dcb.QueryContext(ctx, "SELECT id FROM feeds")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDBCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	dcb := NewDBCircuitBreakerWithConfig(db, trippableConfig(50*time.Millisecond))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		mock.ExpectQuery("SELECT (.+)").WillReturnError(errors.New("connection refused"))
	}
	for i := 0; i < 5; i++ {
		_, _ = dcb.QueryContext(ctx, "SELECT id FROM feeds")
	}
	if !dcb.IsOpen() {
		t.Fatal("expected open circuit")
	}

	time.Sleep(100 * time.Millisecond)

	mock.ExpectQuery("SELECT (.+)").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	result, err := dcb.QueryContext(ctx, "SELECT id FROM feeds")
	if err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	_ = result.Close()
}

func TestDBCircuitBreaker_QueryRowContext(t *testing.T) {
	dcb, mock := newMockBreaker(t)

	mock.ExpectQuery("SELECT (.+) FROM articles WHERE identity_hash").
		WithArgs("abc123").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	row := dcb.QueryRowContext(context.Background(),
		"SELECT id FROM articles WHERE identity_hash = $1", "abc123")

	var id int
	if err := row.Scan(&id); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if id != 42 {
		t.Errorf("expected id 42, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDBCircuitBreaker_DBAccessor(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	if NewDBCircuitBreaker(db).DB() != db {
		t.Error("DB() did not return the wrapped connection")
	}
}

func TestDBConfig_Defaults(t *testing.T) {
	cfg := DBConfig()

	if cfg.Name != "database" {
		t.Errorf("unexpected name %q", cfg.Name)
	}
	if cfg.MaxRequests != 3 || cfg.MinRequests != 5 {
		t.Errorf("unexpected request limits: max=%d min=%d", cfg.MaxRequests, cfg.MinRequests)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Timeout)
	}
	if cfg.FailureThreshold != 1.0 {
		t.Errorf("unexpected failure threshold %f", cfg.FailureThreshold)
	}
}
