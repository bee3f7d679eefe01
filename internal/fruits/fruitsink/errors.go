package fruitsink

import "fmt"

// InsertError reports one failed row of a StoreAll batch.
type InsertError struct {
	Index int
	Name  *string
	Err   error
}

func (e *InsertError) Error() string {
	if e.Name == nil {
		return fmt.Sprintf("insert #%d (null name): %s", e.Index, e.Err)
	}
	return fmt.Sprintf("insert #%d (%q): %s", e.Index, *e.Name, e.Err)
}

func (e *InsertError) Unwrap() error {
	return e.Err
}
