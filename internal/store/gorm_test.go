package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pav-beep/calorie.app/internal/models"
	"github.com/pav-beep/calorie.app/internal/store"
)

func setupStore(t *testing.T) *store.GormStore {
	// A named shared-memory database keeps gorm's pooled connections on
	// the same data while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	st, err := store.NewGormStoreWithDB(db)
	require.NoError(t, err)
	return st
}

func TestAuthorizedEmailsEmpty(t *testing.T) {
	st := setupStore(t)

	emails, err := st.AuthorizedEmails(context.Background())
	require.NoError(t, err)
	assert.Empty(t, emails)
}

func TestAddThenListAuthorizedEmails(t *testing.T) {
	st := setupStore(t)

	require.NoError(t, st.AddAuthorizedEmail(context.Background(), "alice@example.com"))
	require.NoError(t, st.AddAuthorizedEmail(context.Background(), "bob@example.com"))

	emails, err := st.AuthorizedEmails(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice@example.com", "bob@example.com"}, emails)
}

func TestAppendThenEntriesRoundTrip(t *testing.T) {
	st := setupStore(t)

	in := models.LogEntry{
		Identity:  "alice@example.com",
		Timestamp: time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC),
		FoodName:  "Chicken salad",
		Calories:  "450",
		Protein:   "30g",
		Carbs:     "12",
		Fat:       "28",
		Micros:    "iron",
	}
	require.NoError(t, st.Append(context.Background(), in))

	entries, err := st.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, in.Identity, got.Identity)
	assert.Equal(t, in.FoodName, got.FoodName)
	// Macro cells come back exactly as written, unit suffix included.
	assert.Equal(t, in.Protein, got.Protein)
	assert.True(t, in.Timestamp.Equal(got.Timestamp))
}

func TestEntriesOrderedByTimestamp(t *testing.T) {
	st := setupStore(t)
	base := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)

	for i, name := range []string{"Lunch", "Breakfast", "Dinner"} {
		offsets := []time.Duration{4 * time.Hour, 0, 10 * time.Hour}
		require.NoError(t, st.Append(context.Background(), models.LogEntry{
			Identity:  "alice@example.com",
			Timestamp: base.Add(offsets[i]),
			FoodName:  name,
			Calories:  "100",
		}))
	}

	entries, err := st.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Breakfast", entries[0].FoodName)
	assert.Equal(t, "Lunch", entries[1].FoodName)
	assert.Equal(t, "Dinner", entries[2].FoodName)
}
