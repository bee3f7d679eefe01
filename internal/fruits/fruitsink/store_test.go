package fruitsink

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fruitdb/etl/internal/fruits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errConnReset = errors.New("connection reset by peer")

func name(s string) *string { return &s }

func newMockHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// a single connection makes the mock serve one insert at a time
	db.SetMaxOpenConns(1)
	mock.MatchExpectationsInOrder(false)
	return &Handler{DB: db}, mock
}

func TestStoreAll(t *testing.T) {
	h, mock := newMockHandler(t)

	mock.ExpectExec("INSERT INTO fruit_table(name) VALUES($1)").
		WithArgs("apple").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO fruit_table(name) VALUES($1)").
		WithArgs("banana").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := h.StoreAll(context.Background(), []fruits.Fruit{{Name: name("apple")}, {Name: name("banana")}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreAllNullName(t *testing.T) {
	h, mock := newMockHandler(t)

	mock.ExpectExec("INSERT INTO fruit_table(name) VALUES($1)").
		WithArgs(nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, h.StoreAll(context.Background(), []fruits.Fruit{{Name: nil}}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreAllNothingToStore(t *testing.T) {
	h, mock := newMockHandler(t)

	require.NoError(t, h.StoreAll(context.Background(), []fruits.Fruit{}))
	assert.NoError(t, mock.ExpectationsWereMet(), "no statement may be issued")
}

func TestStoreAllPartialFailure(t *testing.T) {
	h, mock := newMockHandler(t)

	mock.ExpectExec("INSERT INTO fruit_table(name) VALUES($1)").
		WithArgs("apple").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO fruit_table(name) VALUES($1)").
		WithArgs("banana").
		WillReturnError(errors.New("value too long for type character varying(5)"))
	mock.ExpectExec("INSERT INTO fruit_table(name) VALUES($1)").
		WithArgs("cherry").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := h.StoreAll(context.Background(), []fruits.Fruit{
		{Name: name("apple")},
		{Name: name("banana")},
		{Name: name("cherry")},
	})
	require.Error(t, err)

	var insertErr *InsertError
	require.True(t, errors.As(err, &insertErr))
	assert.Equal(t, 1, insertErr.Index)
	assert.Equal(t, "banana", *insertErr.Name)
	assert.Contains(t, err.Error(), `insert #1 ("banana"): value too long`)

	// the rows on either side were still written; nothing is rolled back
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreAllCollectsEveryFailure(t *testing.T) {
	h, mock := newMockHandler(t)

	mock.ExpectExec("INSERT INTO fruit_table(name) VALUES($1)").
		WithArgs("apple").
		WillReturnError(errConnReset)
	mock.ExpectExec("INSERT INTO fruit_table(name) VALUES($1)").
		WithArgs(nil).
		WillReturnError(errors.New("null value in column \"name\""))

	err := h.StoreAll(context.Background(), []fruits.Fruit{{Name: name("apple")}, {Name: nil}})
	require.Error(t, err)

	assert.ErrorIs(t, err, errConnReset)
	assert.Contains(t, err.Error(), `insert #0 ("apple")`)
	assert.Contains(t, err.Error(), "insert #1 (null name)")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreAllStartsInsertsInInputOrder(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(4)
	mock.MatchExpectationsInOrder(true)

	records := make([]fruits.Fruit, 20)
	for i := range records {
		fruit := fmt.Sprintf("fruit-%02d", i)
		records[i] = fruits.Fruit{Name: &fruit}
		mock.ExpectExec("INSERT INTO fruit_table(name) VALUES($1)").
			WithArgs(fruit).
			WillDelayFor(5 * time.Millisecond).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	h := &Handler{DB: db}
	require.NoError(t, h.StoreAll(context.Background(), records))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreAllRunsInsertsConcurrently(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	mock.MatchExpectationsInOrder(false)

	const (
		count = 5
		delay = 200 * time.Millisecond
	)
	records := make([]fruits.Fruit, count)
	for i := range records {
		fruit := fmt.Sprintf("fruit-%d", i)
		records[i] = fruits.Fruit{Name: &fruit}
		mock.ExpectExec("INSERT INTO fruit_table(name) VALUES($1)").
			WithArgs(fruit).
			WillDelayFor(delay).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	h := &Handler{DB: db}
	start := time.Now()
	require.NoError(t, h.StoreAll(context.Background(), records))
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 3*delay, "inserts ran one after another")
	assert.NoError(t, mock.ExpectationsWereMet())
}
