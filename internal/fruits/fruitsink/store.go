package fruitsink

import (
	"context"
	"errors"
	"sync"

	"github.com/fruitdb/etl/internal/fruits"
	"golang.org/x/exp/slog"
)

const insertQuery = "INSERT INTO " + TableName + "(name) VALUES($1)"

// StoreAll issues one INSERT per fruit, all in flight at once, and waits
// for every one of them to settle. Inserts are started in input order;
// they may complete in any order. Failed rows come back as *InsertError
// values joined together; rows that did commit are left in place.
func (h *Handler) StoreAll(ctx context.Context, records []fruits.Fruit) error {
	errs := make([]error, len(records))

	previous := make(chan struct{})
	close(previous)

	var wg sync.WaitGroup
	for i, record := range records {
		started := make(chan struct{})
		wg.Add(1)
		go func(i int, record fruits.Fruit, previous <-chan struct{}, started chan<- struct{}) {
			defer wg.Done()
			<-previous
			if err := h.insert(ctx, record, started); err != nil {
				slog.Error("Failed to insert fruit", "index", i, "name", record.NameOrEmpty(), "error", err)
				errs[i] = &InsertError{Index: i, Name: record.Name, Err: err}
			}
		}(i, record, previous, started)
		previous = started
	}
	wg.Wait()

	return errors.Join(errs...)
}

// insert takes a connection before letting the next insert go, so
// statements reach the driver in the order they were handed out.
func (h *Handler) insert(ctx context.Context, record fruits.Fruit, started chan<- struct{}) error {
	conn, err := h.DB.Conn(ctx)
	close(started)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, insertQuery, record.Name)
	return err
}
