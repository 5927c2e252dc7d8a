package database_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutriplan/backend/internal/database"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
)

const migrationsDir = "../../migrations"

func TestAutoMigrateCreatesTables(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)

	for _, model := range database.Models() {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}
	assert.True(t, db.Migrator().HasIndex(&models.MealPlan{}, "idx_meal_plans_user_week"))
	assert.True(t, db.Migrator().HasIndex(&models.MealSlot{}, "idx_meal_slots_plan_day_meal"))
}

func TestIsUniqueViolation(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)

	user := models.User{Name: "Test User", Email: "test@example.com", PasswordHash: "hashedpassword"}
	require.NoError(t, db.Create(&user).Error)

	dup := models.User{Name: "Other", Email: "test@example.com", PasswordHash: "hashedpassword"}
	err := db.Create(&dup).Error
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))

	assert.True(t, database.IsUniqueViolation(fmt.Errorf("wrapped: %w", &pq.Error{Code: "23505"})))
	assert.False(t, database.IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, database.IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, database.IsUniqueViolation(nil))
}

func TestPostgresMigrationsAndRollback(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t, migrationsDir)

	var applied int64
	require.NoError(t, db.Table("schema_migrations").Count(&applied).Error)
	assert.Equal(t, int64(1), applied)

	// A second run is a no-op.
	require.NoError(t, database.RunMigrations(db, migrationsDir))
	require.NoError(t, db.Table("schema_migrations").Count(&applied).Error)
	assert.Equal(t, int64(1), applied)

	name, err := database.RollbackLast(db, migrationsDir)
	require.NoError(t, err)
	assert.Equal(t, "0001_init.sql", name)
	assert.False(t, db.Migrator().HasTable("meal_slots"))

	_, err = database.RollbackLast(db, migrationsDir)
	assert.Error(t, err)

	require.NoError(t, database.RunMigrations(db, migrationsDir))
	assert.True(t, db.Migrator().HasTable("meal_slots"))
}
