package records

import (
	"context"
	"errors"
	"testing"

	"github.com/cardiocare/platform/pkg/ml/classifier"
	"github.com/cardiocare/platform/pkg/patient"
	"github.com/cardiocare/platform/pkg/patient/patienttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addRecord(t *testing.T, store Store, name string) string {
	t.Helper()
	id, err := store.Add(context.Background(), NewRecord(patienttest.Input(name), classifier.NoElevatedRisk).Document())
	require.NoError(t, err)
	return id
}

func TestFindByNameAfterAdd(t *testing.T) {
	store := NewMemoryStore()
	browser := NewBrowser(store)
	id := addRecord(t, store, "Alice")
	addRecord(t, store, "Bob")

	found, err := browser.FindByName(context.Background(), "Alice")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, id, found[0].ID)
	assert.Equal(t, "Alice", found[0].Name())
	require.NotNil(t, found[0].Prediction)
	assert.Equal(t, classifier.NoElevatedRisk, *found[0].Prediction)
}

func TestFindByNameIsExact(t *testing.T) {
	store := NewMemoryStore()
	browser := NewBrowser(store)
	addRecord(t, store, "Alice")

	for _, name := range []string{"alice", "Ali", "Alice "} {
		found, err := browser.FindByName(context.Background(), name)
		require.NoError(t, err)
		assert.Empty(t, found, "name %q", name)
	}
}

func TestDeleteByNameRemovesEveryMatch(t *testing.T) {
	store := NewMemoryStore()
	browser := NewBrowser(store)
	for i := 0; i < 3; i++ {
		addRecord(t, store, "Alice")
	}
	addRecord(t, store, "Bob")

	deleted, err := browser.DeleteByName(context.Background(), "Alice")
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	assert.Equal(t, MsgRecordsDeleted, DeleteMessage(deleted))

	found, err := browser.FindByName(context.Background(), "Alice")
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Equal(t, 1, store.Len())
}

func TestDeleteByNameWithoutMatches(t *testing.T) {
	browser := NewBrowser(NewMemoryStore())
	deleted, err := browser.DeleteByName(context.Background(), "Nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
	assert.Equal(t, MsgNoRecordsToDelete, DeleteMessage(deleted))
}

func TestEmptyNameIsRejected(t *testing.T) {
	browser := NewBrowser(NewMemoryStore())
	_, err := browser.FindByName(context.Background(), "")
	assert.ErrorIs(t, err, ErrNameRequired)
	_, err = browser.DeleteByName(context.Background(), "")
	assert.ErrorIs(t, err, ErrNameRequired)
}

type flakyStore struct {
	*MemoryStore
	failDeleteAfter int
	failAll         bool
	deletes         int
}

func (s *flakyStore) Delete(ctx context.Context, id string) error {
	if s.deletes >= s.failDeleteAfter {
		return errors.New("connection reset")
	}
	s.deletes++
	return s.MemoryStore.Delete(ctx, id)
}

func (s *flakyStore) All(ctx context.Context) ([]StoredDocument, error) {
	if s.failAll {
		return nil, errors.New("quota exceeded")
	}
	return s.MemoryStore.All(ctx)
}

func TestDeleteByNamePartialFailure(t *testing.T) {
	store := &flakyStore{MemoryStore: NewMemoryStore(), failDeleteAfter: 2}
	for i := 0; i < 3; i++ {
		addRecord(t, store.MemoryStore, "Alice")
	}
	browser := NewBrowser(store)

	deleted, err := browser.DeleteByName(context.Background(), "Alice")
	assert.Equal(t, 2, deleted)
	require.ErrorIs(t, err, ErrStoreUnavailable)

	var storeErr *StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "delete records", storeErr.Action)
	assert.Equal(t, 1, store.Len())
}

func TestListAllSurfacesStoreErrors(t *testing.T) {
	browser := NewBrowser(&flakyStore{MemoryStore: NewMemoryStore(), failAll: true})
	_, err := browser.ListAll(context.Background())
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "list records")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestRowsUseDisplayOrderAndTolerateLegacyData(t *testing.T) {
	store := NewMemoryStore()
	addRecord(t, store, "Alice")
	_, err := store.Add(context.Background(), Document{"name": "Legacy", "age": "70"})
	require.NoError(t, err)

	records, err := NewBrowser(store).ListAll(context.Background())
	require.NoError(t, err)
	rows := Rows(records)
	require.Len(t, rows, 2)

	keys := make([]string, 0, len(rows[0].Columns))
	for _, c := range rows[0].Columns {
		keys = append(keys, c.Key)
	}
	expected := append([]string{"name"}, patient.FieldNames()...)
	expected = append(expected, "prediction_result")
	assert.Equal(t, expected, keys)
	assert.Equal(t, 0, rows[0].Columns[len(keys)-1].Value)
	assert.Equal(t, "1.0", rows[0].Columns[1+patient.Oldpeak.Index()].Value)

	legacy := rows[1].Columns
	assert.Equal(t, "Legacy", legacy[0].Value)
	assert.Equal(t, "70", legacy[1].Value)
	assert.Equal(t, "", legacy[2].Value)
	assert.Equal(t, "", legacy[len(legacy)-1].Value)
	assert.Equal(t, "Prediction Result", legacy[len(legacy)-1].Label)
}
