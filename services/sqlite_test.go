package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillside-labs/questly_api/model"
)

// Either driver can back SQL_SVC; consumers only see the SqlService seam.
func TestSqlServiceSeam(t *testing.T) {
	assert.Equal(t, SQL_SVC, PostgresService{}.Id())
	assert.Equal(t, SQL_SVC, SqliteService{}.Id())

	var _ SqlService = &PostgresService{}
	var _ SqlService = &SqliteService{}
}

func TestSqliteServiceStartMigrates(t *testing.T) {
	svc := &SqliteService{database: ":memory:"}
	require.NoError(t, svc.Start())

	var badges int64
	require.NoError(t, svc.Db().Model(&model.Badge{}).Count(&badges).Error)
	assert.Equal(t, int64(0), badges)
}
