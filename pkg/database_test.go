package bbox

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wireMappingColumns = []string{"Channel", "Cryostat", "TPC", "Plane", "Wire", "SignalType"}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func TestLoadChannelMapFromDB(t *testing.T) {
	db, mock := newMockDB(t)
	rows := sqlmock.NewRows(wireMappingColumns).
		AddRow(int64(0), int64(0), int64(0), int64(0), int64(0), int64(Induction)).
		AddRow(int64(1), int64(0), int64(0), int64(0), int64(1), int64(Induction)).
		AddRow(int64(2), int64(0), int64(0), int64(1), int64(0), int64(Collection)).
		AddRow(int64(3), int64(0), int64(0), int64(1), int64(2), int64(Collection))
	mock.ExpectQuery(wireMappingQuery).WithArgs(8123, 8123).WillReturnRows(rows)

	cm, err := LoadChannelMapFromDB(db, 8123)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 4, cm.NChannels())
	assert.Equal(t, []PlaneID{{Plane: 0}, {Plane: 1}}, cm.Planes())
	assert.Equal(t, 2, cm.NWires(PlaneID{Plane: 0}))
	assert.Equal(t, 3, cm.NWires(PlaneID{Plane: 1}))

	wid, ok := cm.ChannelToWire(3)
	require.True(t, ok)
	assert.Equal(t, WireID{PlaneID: PlaneID{Plane: 1}, Wire: 2}, wid)
	assert.Equal(t, Collection, cm.SignalType(3))
	assert.Equal(t, Induction, cm.SignalType(1))
}

func TestLoadChannelMapFromDB_NoRows(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(wireMappingQuery).WithArgs(42, 42).WillReturnRows(sqlmock.NewRows(wireMappingColumns))

	_, err := LoadChannelMapFromDB(db, 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no wire mapping found for run 42")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadChannelMapFromDB_QueryError(t *testing.T) {
	db, mock := newMockDB(t)
	lost := errors.New("connection lost")
	mock.ExpectQuery(wireMappingQuery).WithArgs(7, 7).WillReturnError(lost)

	_, err := LoadChannelMapFromDB(db, 7)
	assert.ErrorIs(t, err, lost)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadChannelMapFromDB_MissingPlane(t *testing.T) {
	db, mock := newMockDB(t)
	rows := sqlmock.NewRows(wireMappingColumns).
		AddRow(int64(0), int64(0), int64(0), int64(0), int64(0), int64(Induction)).
		AddRow(int64(1), int64(0), int64(0), int64(0), int64(1), int64(Induction))
	mock.ExpectQuery(wireMappingQuery).WithArgs(5, 5).WillReturnRows(rows)

	_, err := LoadChannelMapFromDB(db, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Collection plane")
}

func TestLoadChannelMapFromDB_InvalidEntry(t *testing.T) {
	db, mock := newMockDB(t)
	rows := sqlmock.NewRows(wireMappingColumns).
		AddRow(int64(0), int64(0), int64(0), int64(0), int64(-1), int64(Induction))
	mock.ExpectQuery(wireMappingQuery).WithArgs(5, 5).WillReturnRows(rows)

	_, err := LoadChannelMapFromDB(db, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid wire mapping entry")
}
