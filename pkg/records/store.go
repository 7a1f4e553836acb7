package records

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Store is a document collection with generated ids. Implementations are
// safe for concurrent use and do not retry failed calls.
type Store interface {
	Add(ctx context.Context, doc Document) (string, error)
	Query(ctx context.Context, field string, value interface{}) ([]StoredDocument, error)
	All(ctx context.Context) ([]StoredDocument, error)
	Delete(ctx context.Context, id string) error
}

var ErrStoreUnavailable = errors.New("record store unavailable")

// StoreError records which user action failed against the store.
type StoreError struct {
	Action string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStoreUnavailable, e.Action, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

func storeError(action string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Action: action, Err: err}
}

// sameValue compares document values the way a JSON store would: numbers by
// value regardless of their Go type, everything else by string form.
func sameValue(a, b interface{}) bool {
	af, aNum := asNumber(a)
	bf, bNum := asNumber(b)
	if aNum || bNum {
		return aNum && bNum && af == bf
	}
	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr || bStr {
		return aStr && bStr && as == bs
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func asNumber(v interface{}) (float64, bool) {
	switch typed := v.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	default:
		return 0, false
	}
}

// queryText renders a match value the way jsonb text extraction does.
func queryText(v interface{}) string {
	switch typed := v.(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
