package store

import "context"

// HubKind is the kind of hub.
type HubKind string

const (
	HubKindClass   HubKind = "CLASS"
	HubKindWorkout HubKind = "WORKOUT"
)

// Hub is a long-lived container (a class or a workout program) that schedule
// blocks and tasks may link to.
type Hub struct {
	ID          int32
	UID         string
	CreatorID   int32
	CreatedTs   int64
	Kind        HubKind
	Name        string
	Description string
}

// FindHub is the find condition for hub.
type FindHub struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	Kind      *HubKind
}

func (s *Store) CreateHub(ctx context.Context, create *Hub) (*Hub, error) {
	return s.driver.CreateHub(ctx, create)
}

func (s *Store) ListHubs(ctx context.Context, find *FindHub) ([]*Hub, error) {
	return s.driver.ListHubs(ctx, find)
}
