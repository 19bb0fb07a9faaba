package store

import "context"

// Group is a shared space owned by its members.
type Group struct {
	ID        int32
	UID       string
	CreatedTs int64
	Name      string
}

// FindGroup is the find condition for group.
type FindGroup struct {
	ID       *int32
	UID      *string
	MemberID *int32
}

// GroupMember links a user to a group.
type GroupMember struct {
	GroupID   int32
	UserID    int32
	Role      string
	CreatedTs int64
}

func (s *Store) CreateGroup(ctx context.Context, create *Group) (*Group, error) {
	return s.driver.CreateGroup(ctx, create)
}

func (s *Store) ListGroups(ctx context.Context, find *FindGroup) ([]*Group, error) {
	return s.driver.ListGroups(ctx, find)
}

func (s *Store) UpsertGroupMember(ctx context.Context, upsert *GroupMember) error {
	return s.driver.UpsertGroupMember(ctx, upsert)
}

// IsGroupMember reports whether the user belongs to the group.
func (s *Store) IsGroupMember(ctx context.Context, groupID, userID int32) (bool, error) {
	return s.driver.IsGroupMember(ctx, groupID, userID)
}
