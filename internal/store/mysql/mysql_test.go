package mysql

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecDelegatesToUnderlyingDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO foo").WillReturnResult(sqlmock.NewResult(1, 1))

	st := &Store{db: db}
	rows, err := st.Exec(context.Background(), "INSERT INTO foo VALUES (?)", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryDelegatesToUnderlyingDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"a"}).AddRow(1))

	st := &Store{db: db}
	rows, err := st.Query(context.Background(), "SELECT a FROM foo")
	require.NoError(t, err)
	defer rows.Close()
	assert.True(t, rows.Next())
}

func TestCloseHandlesNilDB(t *testing.T) {
	st := &Store{}
	assert.NoError(t, st.Close())
}
