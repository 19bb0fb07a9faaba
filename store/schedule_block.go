package store

import (
	"context"
	"time"
)

// BlockCategory classifies a schedule block.
type BlockCategory string

const (
	BlockCategoryClass   BlockCategory = "CLASS"
	BlockCategoryWork    BlockCategory = "WORK"
	BlockCategoryHealth  BlockCategory = "HEALTH"
	BlockCategoryMeeting BlockCategory = "MEETING"
	BlockCategoryPrep    BlockCategory = "PREP"
	BlockCategoryStudy   BlockCategory = "STUDY"
	BlockCategoryLife    BlockCategory = "LIFE"
	BlockCategoryFree    BlockCategory = "FREE"
)

// IsValidBlockCategory reports whether the value is a known category.
func IsValidBlockCategory(v string) bool {
	switch BlockCategory(v) {
	case BlockCategoryClass, BlockCategoryWork, BlockCategoryHealth, BlockCategoryMeeting,
		BlockCategoryPrep, BlockCategoryStudy, BlockCategoryLife, BlockCategoryFree:
		return true
	}
	return false
}

// ScheduleBlock is a single time-boxed calendar entry. EndTs is always after
// StartTs; the invariant is validated before the write, not by the schema.
type ScheduleBlock struct {
	ID          int32
	UID         string
	CreatorID   int32
	RowStatus   RowStatus
	CreatedTs   int64
	UpdatedTs   int64
	Title       string
	Category    BlockCategory
	StartTs     int64
	EndTs       int64
	Location    string
	Description string
	HubID       *int32
}

// FindScheduleBlock is the find condition for schedule block.
// StartTsAfter/StartTsBefore bound the block's start timestamp inclusively,
// so a range query returns exactly the blocks starting inside the window.
type FindScheduleBlock struct {
	ID            *int32
	UID           *string
	CreatorID     *int32
	RowStatus     *RowStatus
	StartTsAfter  *int64
	StartTsBefore *int64
	Limit         *int
	Offset        *int
}

// UpdateScheduleBlock is the patch request for schedule block. A nil field is
// left unchanged; ClearHub severs the hub link explicitly since a nil HubID
// cannot distinguish "absent" from "clear".
type UpdateScheduleBlock struct {
	ID          int32
	UpdatedTs   *int64
	RowStatus   *RowStatus
	Title       *string
	Category    *BlockCategory
	StartTs     *int64
	EndTs       *int64
	Location    *string
	Description *string
	HubID       *int32
	ClearHub    bool
}

// DeleteScheduleBlock is the delete request for schedule block. The driver
// cascades the delete to the block's notes, tasks, files, and activities.
type DeleteScheduleBlock struct {
	ID int32
}

func (s *Store) CreateScheduleBlock(ctx context.Context, create *ScheduleBlock) (*ScheduleBlock, error) {
	return s.driver.CreateScheduleBlock(ctx, create)
}

func (s *Store) ListScheduleBlocks(ctx context.Context, find *FindScheduleBlock) ([]*ScheduleBlock, error) {
	return s.driver.ListScheduleBlocks(ctx, find)
}

// GetScheduleBlock gets a single block, or nil if none matches.
func (s *Store) GetScheduleBlock(ctx context.Context, find *FindScheduleBlock) (*ScheduleBlock, error) {
	list, err := s.driver.ListScheduleBlocks(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateScheduleBlock(ctx context.Context, update *UpdateScheduleBlock) error {
	return s.driver.UpdateScheduleBlock(ctx, update)
}

func (s *Store) DeleteScheduleBlock(ctx context.Context, delete *DeleteScheduleBlock) error {
	return s.driver.DeleteScheduleBlock(ctx, delete)
}

// StartTime returns the block start as time.Time.
func (b *ScheduleBlock) StartTime() time.Time {
	return time.Unix(b.StartTs, 0)
}

// EndTime returns the block end as time.Time.
func (b *ScheduleBlock) EndTime() time.Time {
	return time.Unix(b.EndTs, 0)
}

// Duration returns the block length.
func (b *ScheduleBlock) Duration() time.Duration {
	return b.EndTime().Sub(b.StartTime())
}
