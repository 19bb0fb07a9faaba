package store

import "context"

// Activity is a lightweight log row recording something that happened to an
// entity. Activities linked to a schedule block are removed with it.
type Activity struct {
	ID        int32
	CreatorID int32
	CreatedTs int64
	Type      string
	Payload   string // JSON string
	BlockID   *int32
}

// FindActivity is the find condition for activity.
type FindActivity struct {
	ID        *int32
	CreatorID *int32
	Type      *string
	BlockID   *int32
	Limit     *int
}

func (s *Store) CreateActivity(ctx context.Context, create *Activity) (*Activity, error) {
	return s.driver.CreateActivity(ctx, create)
}

func (s *Store) ListActivities(ctx context.Context, find *FindActivity) ([]*Activity, error) {
	return s.driver.ListActivities(ctx, find)
}
