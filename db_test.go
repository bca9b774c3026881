package holmes

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holmes/internal/catalog"
	"holmes/internal/query"
	"holmes/internal/vtr"
)

func TestRegisterAndLookupType(t *testing.T) {
	db := &DB{reg: vtr.New()}
	assert.Nil(t, db.LookupType("point2d"))

	custom := vtr.Builtins()[0]
	require.NoError(t, db.RegisterType(custom))
	require.Equal(t, custom.Name(), db.LookupType(custom.Name()).Name())

	err := db.RegisterType(custom)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindType))
	assert.True(t, IsReason(err, ReasonAlreadyRegistered))
}

// sqlmockStore adapts a sqlmock-backed *sql.DB to store.Store, letting
// catalog logic run against real SQL text and a scripted driver instead of
// a hand-rolled fake.
type sqlmockStore struct{ db *sql.DB }

func (s sqlmockStore) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s sqlmockStore) Query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, q, args...)
}

func (s sqlmockStore) Close() error { return s.db.Close() }

func expectEmptyCatalogOpen(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	mock.MatchExpectationsInOrder(false)
	mock.ExpectExec("CREATE SCHEMA").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS `predicates`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS `rules`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT `pred_name`").WillReturnRows(sqlmock.NewRows([]string{"pred_name", "ordinal", "type_name"}))
}

func TestClassifyCatalogErrInvalidName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectEmptyCatalogOpen(t, mock)
	reg := vtr.NewWithBuiltins()
	m, err := catalog.Open(context.Background(), sqlmockStore{db}, reg)
	require.NoError(t, err)

	createErr := m.CreatePredicate(context.Background(), "Bad_Name", []vtr.Type{reg.Lookup("text")})
	require.Error(t, createErr)

	classified := classifyCatalogErr(createErr, nil)
	assert.True(t, IsKind(classified, KindArgument))
	assert.True(t, IsReason(classified, ReasonInvalidName))
}

func TestClassifyCatalogErrTypeMismatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectEmptyCatalogOpen(t, mock)
	mock.ExpectExec("INSERT INTO `predicates`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("CREATE TABLE").WillReturnResult(sqlmock.NewResult(0, 0))

	reg := vtr.NewWithBuiltins()
	m, err := catalog.Open(context.Background(), sqlmockStore{db}, reg)
	require.NoError(t, err)

	require.NoError(t, m.CreatePredicate(context.Background(), "test_pred", []vtr.Type{reg.Lookup("text")}))

	createErr := m.CreatePredicate(context.Background(), "test_pred", []vtr.Type{reg.Lookup("uint64")})
	require.Error(t, createErr)

	classified := classifyCatalogErr(createErr, nil)
	assert.True(t, IsKind(classified, KindType))
	assert.True(t, IsReason(classified, ReasonTypeMismatch))
}

func TestClassifyCatalogErrUnknownType(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.MatchExpectationsInOrder(false)
	mock.ExpectExec("CREATE SCHEMA").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS `predicates`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS `rules`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT `pred_name`").WillReturnRows(
		sqlmock.NewRows([]string{"pred_name", "ordinal", "type_name"}).
			AddRow("test_pred", 0, "mystery_type"))

	_, openErr := catalog.Open(context.Background(), sqlmockStore{db}, vtr.NewWithBuiltins())
	require.Error(t, openErr)

	classified := classifyCatalogErr(openErr, nil)
	assert.True(t, IsKind(classified, KindType))
	assert.True(t, IsReason(classified, ReasonUnknownType))
}

func TestClassifyCatalogErrFoldsCloseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectEmptyCatalogOpen(t, mock)
	reg := vtr.NewWithBuiltins()
	m, err := catalog.Open(context.Background(), sqlmockStore{db}, reg)
	require.NoError(t, err)

	createErr := m.CreatePredicate(context.Background(), "Bad_Name", []vtr.Type{reg.Lookup("text")})
	require.Error(t, createErr)

	classified := classifyCatalogErr(createErr, errors.New("boom"))
	assert.Contains(t, classified.Message, "boom")
}

type fakeCatalogForClassify struct{}

func (f *fakeCatalogForClassify) GetPredicate(name string) *catalog.Predicate { return nil }

func TestClassifyQueryErr(t *testing.T) {
	cat := &fakeCatalogForClassify{}

	_, err := query.Compile(query.Query{}, cat)
	classified := classifyQueryErr(err)
	assert.True(t, IsKind(classified, KindArgument))
	assert.True(t, IsReason(classified, ReasonEmptyQuery))

	_, err = query.Compile(query.Query{{PredName: "nope", Slots: []query.MatchSlot{query.Wildcard()}}}, cat)
	classified = classifyQueryErr(err)
	assert.True(t, IsReason(classified, ReasonUnknownPredicate))
}
