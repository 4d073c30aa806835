package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pav-beep/calorie.app/internal/models"
)

// draftTTL bounds how long an analyzed meal can sit unconfirmed before
// the user has to re-scan it.
const draftTTL = 24 * time.Hour

// PendingDraft is an analyzed meal waiting for the user to adjust the
// numbers and confirm. Drafts live in Redis; nothing reaches the ledger
// until commit.
type PendingDraft struct {
	ID        string                 `json:"id"`
	Identity  string                 `json:"identity"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
	Record    models.NutritionRecord `json:"record"`
	PhotoURL  string                 `json:"photo_url,omitempty"`
}

// DraftStore is the pending-draft boundary the HTTP layer depends on.
type DraftStore interface {
	SaveDraft(ctx context.Context, draft *PendingDraft) error
	GetDraft(ctx context.Context, id string) (*PendingDraft, error)
	UpdateDraft(ctx context.Context, draft *PendingDraft) error
	DeleteDraft(ctx context.Context, id string) error
}

// DraftService stores pending analysis drafts in Redis.
type DraftService struct {
	redis *redis.Client
}

func NewDraftService(client *redis.Client) *DraftService {
	return &DraftService{redis: client}
}

func draftKey(id string) string {
	return fmt.Sprintf("meal:draft:%s", id)
}

// SaveDraft assigns the draft an ID and stores it with a TTL.
func (s *DraftService) SaveDraft(ctx context.Context, draft *PendingDraft) error {
	draft.ID = uuid.New().String()
	draft.CreatedAt = time.Now()
	draft.UpdatedAt = draft.CreatedAt

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	if err := s.redis.Set(ctx, draftKey(draft.ID), data, draftTTL).Err(); err != nil {
		return fmt.Errorf("%w: saving draft: %v", models.ErrStore, err)
	}
	return nil
}

// GetDraft retrieves a pending draft.
func (s *DraftService) GetDraft(ctx context.Context, id string) (*PendingDraft, error) {
	data, err := s.redis.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading draft: %v", models.ErrStore, err)
	}

	var draft PendingDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

// UpdateDraft overwrites an existing draft, refreshing its TTL.
func (s *DraftService) UpdateDraft(ctx context.Context, draft *PendingDraft) error {
	draft.UpdatedAt = time.Now()

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	if err := s.redis.Set(ctx, draftKey(draft.ID), data, draftTTL).Err(); err != nil {
		return fmt.Errorf("%w: updating draft: %v", models.ErrStore, err)
	}
	return nil
}

// DeleteDraft removes a pending draft.
func (s *DraftService) DeleteDraft(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("%w: deleting draft: %v", models.ErrStore, err)
	}
	return nil
}
