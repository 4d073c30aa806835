package service_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pav-beep/calorie.app/internal/models"
	"github.com/pav-beep/calorie.app/internal/service"
)

// setupDraftService needs a real Redis; set TEST_REDIS_ADDR to run it.
func setupDraftService(t *testing.T) *service.DraftService {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping Redis integration test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis at %s not reachable: %v", addr, err)
	}
	t.Cleanup(func() { client.Close() })

	return service.NewDraftService(client)
}

func TestDraftLifecycle(t *testing.T) {
	drafts := setupDraftService(t)
	ctx := context.Background()

	draft := &service.PendingDraft{
		Identity: "a@x.com",
		Record: models.NutritionRecord{
			FoodName: "Oatmeal",
			Calories: 320,
			Protein:  11,
			Carbs:    54,
			Fat:      6,
		},
	}
	require.NoError(t, drafts.SaveDraft(ctx, draft))
	require.NotEmpty(t, draft.ID)

	loaded, err := drafts.GetDraft(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", loaded.Identity)
	assert.Equal(t, "Oatmeal", loaded.Record.FoodName)

	loaded.Record.Calories = 400
	require.NoError(t, drafts.UpdateDraft(ctx, loaded))

	reloaded, err := drafts.GetDraft(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Amount(400), reloaded.Record.Calories)
	assert.True(t, reloaded.UpdatedAt.After(reloaded.CreatedAt) || reloaded.UpdatedAt.Equal(reloaded.CreatedAt))

	require.NoError(t, drafts.DeleteDraft(ctx, draft.ID))

	_, err = drafts.GetDraft(ctx, draft.ID)
	assert.True(t, errors.Is(err, models.ErrDraftNotFound))
}

func TestGetMissingDraftIsNotFound(t *testing.T) {
	drafts := setupDraftService(t)

	_, err := drafts.GetDraft(context.Background(), "no-such-draft")
	assert.ErrorIs(t, err, models.ErrDraftNotFound)
}
