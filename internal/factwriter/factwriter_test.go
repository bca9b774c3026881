package factwriter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holmes/internal/catalog"
	"holmes/internal/vtr"
)

// fakeExecStore records Exec calls and returns a scripted rows-affected
// count.
type fakeExecStore struct {
	lastSQL    string
	lastArgs   []any
	rowsResult int64
	execErr    error
}

func (f *fakeExecStore) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	f.lastSQL = query
	f.lastArgs = args
	if f.execErr != nil {
		return 0, f.execErr
	}
	return f.rowsResult, nil
}

// fakeCatalog is a minimal stand-in satisfying catalogView without a store.
type fakeCatalog struct {
	preds   map[string]*catalog.Predicate
	inserts map[string]string
}

func (f *fakeCatalog) GetPredicate(name string) *catalog.Predicate { return f.preds[name] }

func (f *fakeCatalog) InsertSQL(predName string) (string, bool) {
	s, ok := f.inserts[predName]
	return s, ok
}

func newFixture(rowsResult int64) (*fakeExecStore, *fakeCatalog, *Writer) {
	reg := vtr.NewWithBuiltins()
	pred := &catalog.Predicate{Name: "test_pred", Types: []vtr.Type{reg.Lookup("text"), reg.Lookup("bytes"), reg.Lookup("uint64")}}
	cat := &fakeCatalog{
		preds:   map[string]*catalog.Predicate{"test_pred": pred},
		inserts: map[string]string{"test_pred": "INSERT IGNORE INTO `facts`.`test_pred` VALUES (?, ?, ?)"},
	}
	st := &fakeExecStore{rowsResult: rowsResult}
	return st, cat, New(st, cat)
}

func TestInsertReportsNewRow(t *testing.T) {
	_, _, w := newFixture(1)
	inserted, err := w.Insert(context.Background(), catalog.Fact{
		PredName: "test_pred",
		Args: []vtr.Value{
			{Type: vtr.NewWithBuiltins().Lookup("text"), Data: "foo"},
			{Type: vtr.NewWithBuiltins().Lookup("bytes"), Data: []byte{0x00}},
			{Type: vtr.NewWithBuiltins().Lookup("uint64"), Data: uint64(16)},
		},
	})
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestInsertReportsDuplicateAbsorbed(t *testing.T) {
	_, _, w := newFixture(0)
	inserted, err := w.Insert(context.Background(), catalog.Fact{
		PredName: "test_pred",
		Args: []vtr.Value{
			{Type: vtr.NewWithBuiltins().Lookup("text"), Data: "foo"},
			{Type: vtr.NewWithBuiltins().Lookup("bytes"), Data: []byte{0x00}},
			{Type: vtr.NewWithBuiltins().Lookup("uint64"), Data: uint64(16)},
		},
	})
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestInsertUnregisteredPredicate(t *testing.T) {
	_, _, w := newFixture(1)
	_, err := w.Insert(context.Background(), catalog.Fact{PredName: "unknown_pred"})
	require.Error(t, err)
	var target *ErrPredicateUnregistered
	assert.ErrorAs(t, err, &target)
}

func TestInsertArityMismatch(t *testing.T) {
	_, _, w := newFixture(1)
	_, err := w.Insert(context.Background(), catalog.Fact{
		PredName: "test_pred",
		Args:     []vtr.Value{{Type: vtr.NewWithBuiltins().Lookup("text"), Data: "foo"}},
	})
	require.Error(t, err)
}

func TestInsertTypeMismatch(t *testing.T) {
	_, _, w := newFixture(1)
	reg := vtr.NewWithBuiltins()
	_, err := w.Insert(context.Background(), catalog.Fact{
		PredName: "test_pred",
		Args: []vtr.Value{
			{Type: reg.Lookup("uint64"), Data: uint64(1)},
			{Type: reg.Lookup("bytes"), Data: []byte{0x00}},
			{Type: reg.Lookup("uint64"), Data: uint64(16)},
		},
	})
	require.Error(t, err)
}
