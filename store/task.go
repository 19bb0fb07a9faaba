package store

import "context"

// TaskType classifies a task.
type TaskType string

const (
	TaskTypeTask       TaskType = "TASK"
	TaskTypeAssignment TaskType = "ASSIGNMENT"
	TaskTypeGoal       TaskType = "GOAL"
)

// IsValidTaskType reports whether the value is a known task type.
func IsValidTaskType(v string) bool {
	switch TaskType(v) {
	case TaskTypeTask, TaskTypeAssignment, TaskTypeGoal:
		return true
	}
	return false
}

// TaskPriority is the priority of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// IsValidTaskPriority reports whether the value is a known priority.
func IsValidTaskPriority(v string) bool {
	switch TaskPriority(v) {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is a unit of work.
type Task struct {
	ID        int32
	UID       string
	CreatorID int32
	RowStatus RowStatus
	CreatedTs int64
	UpdatedTs int64
	Title     string
	Type      TaskType
	Done      bool
	DueTs     *int64
	Priority  *TaskPriority
	Points    *int32
	BlockID   *int32
	HubID     *int32
	GroupID   *int32
}

// FindTask is the find condition for task.
type FindTask struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	RowStatus *RowStatus
	Done      *bool
	BlockID   *int32
	GroupID   *int32
	// OrderByDue orders results by due timestamp ascending with null due
	// dates last, then by id ascending. Default ordering is by id.
	OrderByDue bool
	Limit      *int
	Offset     *int
}

// UpdateTask is the patch request for task. Nil fields are left unchanged.
// ClearDue and ClearPriority null out their columns; the pointer fields alone
// cannot express that.
type UpdateTask struct {
	ID            int32
	UpdatedTs     *int64
	RowStatus     *RowStatus
	Title         *string
	Type          *TaskType
	Done          *bool
	DueTs         *int64
	ClearDue      bool
	Priority      *TaskPriority
	ClearPriority bool
	Points        *int32
	BlockID       *int32
	ClearBlock    bool
}

// DeleteTask is the delete request for task.
type DeleteTask struct {
	ID int32
}

func (s *Store) CreateTask(ctx context.Context, create *Task) (*Task, error) {
	return s.driver.CreateTask(ctx, create)
}

func (s *Store) ListTasks(ctx context.Context, find *FindTask) ([]*Task, error) {
	return s.driver.ListTasks(ctx, find)
}

// GetTask gets a single task, or nil if none matches.
func (s *Store) GetTask(ctx context.Context, find *FindTask) (*Task, error) {
	list, err := s.driver.ListTasks(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateTask(ctx context.Context, update *UpdateTask) error {
	return s.driver.UpdateTask(ctx, update)
}

func (s *Store) DeleteTask(ctx context.Context, delete *DeleteTask) error {
	return s.driver.DeleteTask(ctx, delete)
}
