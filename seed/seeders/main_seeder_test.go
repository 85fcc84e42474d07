package seeders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skillside-labs/questly_api/model"
	"github.com/skillside-labs/questly_api/shared"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

// Seeding must bootstrap a database the server has never migrated.
func TestSeedAllFreshDatabase(t *testing.T) {
	db := newSeedDB(t)

	require.NoError(t, NewMainSeeder(db).SeedAll())

	var badges int64
	require.NoError(t, db.Model(&model.Badge{}).Count(&badges).Error)
	assert.Equal(t, int64(len(DefaultBadges())), badges)

	var challenges int64
	require.NoError(t, db.Model(&model.DailyChallenge{}).Count(&challenges).Error)
	assert.Equal(t, int64(len(DefaultChallenges())), challenges)

	var admins int64
	require.NoError(t, db.Model(&model.User{}).Where("role = ?", shared.RoleAdmin).Count(&admins).Error)
	assert.Equal(t, int64(1), admins)
}

func TestSeedAllIdempotentAdmin(t *testing.T) {
	db := newSeedDB(t)

	seeder := NewMainSeeder(db)
	require.NoError(t, seeder.SeedAll())
	require.NoError(t, seeder.SeedAll())

	var admins int64
	require.NoError(t, db.Model(&model.User{}).Where("role = ?", shared.RoleAdmin).Count(&admins).Error)
	assert.Equal(t, int64(1), admins)
}

func TestSeedChallengesOnlyFreshDatabase(t *testing.T) {
	db := newSeedDB(t)

	require.NoError(t, NewMainSeeder(db).SeedChallengesOnly())

	var challenges int64
	require.NoError(t, db.Model(&model.DailyChallenge{}).Count(&challenges).Error)
	assert.Equal(t, int64(len(DefaultChallenges())), challenges)
}
