// Package storetest provides an in-memory store.Driver for unit tests. It
// mirrors the SQL drivers' observable behavior: ordering, cascades, patch
// semantics, and the one-group-AI-conversation uniqueness rule.
package storetest

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/daykeep/daykeep/store"
)

// MemoryDriver is an in-memory implementation of store.Driver. Safe for
// concurrent use.
type MemoryDriver struct {
	mu sync.Mutex

	nextID int32
	nowFn  func() int64

	users         map[int32]*store.User
	onboardings   map[int32]*store.Onboarding
	blocks        map[int32]*store.ScheduleBlock
	tasks         map[int32]*store.Task
	reminders     map[int32]*store.Reminder
	medications   map[int32]*store.Medication
	notes         map[int32]*store.Note
	files         map[int32]*store.File
	groups        map[int32]*store.Group
	groupMembers  map[[2]int32]*store.GroupMember
	hubs          map[int32]*store.Hub
	conversations map[int32]*store.Conversation
	messages      map[int32]*store.Message
	activities    map[int32]*store.Activity
}

// NewMemoryDriver creates an empty driver.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{
		nowFn:         func() int64 { return time.Now().Unix() },
		users:         map[int32]*store.User{},
		onboardings:   map[int32]*store.Onboarding{},
		blocks:        map[int32]*store.ScheduleBlock{},
		tasks:         map[int32]*store.Task{},
		reminders:     map[int32]*store.Reminder{},
		medications:   map[int32]*store.Medication{},
		notes:         map[int32]*store.Note{},
		files:         map[int32]*store.File{},
		groups:        map[int32]*store.Group{},
		groupMembers:  map[[2]int32]*store.GroupMember{},
		hubs:          map[int32]*store.Hub{},
		conversations: map[int32]*store.Conversation{},
		messages:      map[int32]*store.Message{},
		activities:    map[int32]*store.Activity{},
	}
}

// SetNowFunc overrides the timestamp source for deterministic tests.
func (d *MemoryDriver) SetNowFunc(fn func() int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nowFn = fn
}

func (d *MemoryDriver) GetDB() *sql.DB { return nil }

func (d *MemoryDriver) Close() error { return nil }

func (d *MemoryDriver) Migrate(_ context.Context) error { return nil }

func (d *MemoryDriver) id() int32 {
	d.nextID++
	return d.nextID
}

// User.

func (d *MemoryDriver) CreateUser(_ context.Context, create *store.User) (*store.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.nowFn()
	user := *create
	user.ID = d.id()
	user.RowStatus = store.Normal
	user.CreatedTs = now
	user.UpdatedTs = now
	d.users[user.ID] = &user
	out := user
	return &out, nil
}

func (d *MemoryDriver) ListUsers(_ context.Context, find *store.FindUser) ([]*store.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var list []*store.User
	for _, user := range d.users {
		if find.ID != nil && user.ID != *find.ID {
			continue
		}
		if find.UID != nil && user.UID != *find.UID {
			continue
		}
		if find.RowStatus != nil && user.RowStatus != *find.RowStatus {
			continue
		}
		out := *user
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (d *MemoryDriver) UpdateUser(_ context.Context, update *store.UpdateUser) (*store.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[update.ID]
	if !ok {
		return nil, fmt.Errorf("user not found: %d", update.ID)
	}
	if update.RowStatus != nil {
		user.RowStatus = *update.RowStatus
	}
	if update.Nickname != nil {
		user.Nickname = *update.Nickname
	}
	if update.Timezone != nil {
		user.Timezone = *update.Timezone
	}
	user.UpdatedTs = d.nowFn()
	out := *user
	return &out, nil
}

func (d *MemoryDriver) DeleteUser(_ context.Context, delete *store.DeleteUser) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete2(d.users, delete.ID)
	return nil
}

// Onboarding.

func (d *MemoryDriver) UpsertOnboarding(_ context.Context, upsert *store.Onboarding) (*store.Onboarding, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	row := *upsert
	row.UpdatedTs = d.nowFn()
	d.onboardings[row.UserID] = &row
	out := row
	return &out, nil
}

func (d *MemoryDriver) GetOnboarding(_ context.Context, find *store.FindOnboarding) (*store.Onboarding, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	row, ok := d.onboardings[find.UserID]
	if !ok {
		return nil, nil
	}
	out := *row
	return &out, nil
}

// ScheduleBlock.

func (d *MemoryDriver) CreateScheduleBlock(_ context.Context, create *store.ScheduleBlock) (*store.ScheduleBlock, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.nowFn()
	block := *create
	block.ID = d.id()
	block.RowStatus = store.Normal
	block.CreatedTs = now
	block.UpdatedTs = now
	d.blocks[block.ID] = &block
	out := block
	return &out, nil
}

func (d *MemoryDriver) ListScheduleBlocks(_ context.Context, find *store.FindScheduleBlock) ([]*store.ScheduleBlock, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var list []*store.ScheduleBlock
	for _, block := range d.blocks {
		if find.ID != nil && block.ID != *find.ID {
			continue
		}
		if find.UID != nil && block.UID != *find.UID {
			continue
		}
		if find.CreatorID != nil && block.CreatorID != *find.CreatorID {
			continue
		}
		if find.RowStatus != nil && block.RowStatus != *find.RowStatus {
			continue
		}
		if find.StartTsAfter != nil && block.StartTs < *find.StartTsAfter {
			continue
		}
		if find.StartTsBefore != nil && block.StartTs > *find.StartTsBefore {
			continue
		}
		out := *block
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].StartTs != list[j].StartTs {
			return list[i].StartTs < list[j].StartTs
		}
		return list[i].ID < list[j].ID
	})
	return window(list, find.Limit, find.Offset), nil
}

func (d *MemoryDriver) UpdateScheduleBlock(_ context.Context, update *store.UpdateScheduleBlock) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	block, ok := d.blocks[update.ID]
	if !ok {
		return fmt.Errorf("schedule block not found: %d", update.ID)
	}
	if update.RowStatus != nil {
		block.RowStatus = *update.RowStatus
	}
	if update.Title != nil {
		block.Title = *update.Title
	}
	if update.Category != nil {
		block.Category = *update.Category
	}
	if update.StartTs != nil {
		block.StartTs = *update.StartTs
	}
	if update.EndTs != nil {
		block.EndTs = *update.EndTs
	}
	if update.Location != nil {
		block.Location = *update.Location
	}
	if update.Description != nil {
		block.Description = *update.Description
	}
	if update.ClearHub {
		block.HubID = nil
	} else if update.HubID != nil {
		block.HubID = update.HubID
	}
	block.UpdatedTs = d.nowFn()
	return nil
}

func (d *MemoryDriver) DeleteScheduleBlock(_ context.Context, delete *store.DeleteScheduleBlock) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id, note := range d.notes {
		if note.BlockID != nil && *note.BlockID == delete.ID {
			for fileID, file := range d.files {
				if file.NoteID != nil && *file.NoteID == id {
					delete2(d.files, fileID)
				}
			}
			delete2(d.notes, id)
		}
	}
	for id, task := range d.tasks {
		if task.BlockID != nil && *task.BlockID == delete.ID {
			delete2(d.tasks, id)
		}
	}
	for id, file := range d.files {
		if file.BlockID != nil && *file.BlockID == delete.ID {
			delete2(d.files, id)
		}
	}
	for id, activity := range d.activities {
		if activity.BlockID != nil && *activity.BlockID == delete.ID {
			delete2(d.activities, id)
		}
	}
	delete2(d.blocks, delete.ID)
	return nil
}

// Task.

func (d *MemoryDriver) CreateTask(_ context.Context, create *store.Task) (*store.Task, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.nowFn()
	task := *create
	task.ID = d.id()
	task.RowStatus = store.Normal
	task.CreatedTs = now
	task.UpdatedTs = now
	if task.Type == "" {
		task.Type = store.TaskTypeTask
	}
	d.tasks[task.ID] = &task
	out := task
	return &out, nil
}

func (d *MemoryDriver) ListTasks(_ context.Context, find *store.FindTask) ([]*store.Task, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var list []*store.Task
	for _, task := range d.tasks {
		if find.ID != nil && task.ID != *find.ID {
			continue
		}
		if find.UID != nil && task.UID != *find.UID {
			continue
		}
		if find.CreatorID != nil && task.CreatorID != *find.CreatorID {
			continue
		}
		if find.RowStatus != nil && task.RowStatus != *find.RowStatus {
			continue
		}
		if find.Done != nil && task.Done != *find.Done {
			continue
		}
		if find.BlockID != nil && (task.BlockID == nil || *task.BlockID != *find.BlockID) {
			continue
		}
		if find.GroupID != nil && (task.GroupID == nil || *task.GroupID != *find.GroupID) {
			continue
		}
		out := *task
		list = append(list, &out)
	}
	if find.OrderByDue {
		sort.Slice(list, func(i, j int) bool {
			di, dj := list[i].DueTs, list[j].DueTs
			if (di == nil) != (dj == nil) {
				return di != nil
			}
			if di != nil && *di != *dj {
				return *di < *dj
			}
			return list[i].ID < list[j].ID
		})
	} else {
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}
	return window(list, find.Limit, find.Offset), nil
}

func (d *MemoryDriver) UpdateTask(_ context.Context, update *store.UpdateTask) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	task, ok := d.tasks[update.ID]
	if !ok {
		return fmt.Errorf("task not found: %d", update.ID)
	}
	if update.RowStatus != nil {
		task.RowStatus = *update.RowStatus
	}
	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Type != nil {
		task.Type = *update.Type
	}
	if update.Done != nil {
		task.Done = *update.Done
	}
	if update.ClearDue {
		task.DueTs = nil
	} else if update.DueTs != nil {
		task.DueTs = update.DueTs
	}
	if update.ClearPriority {
		task.Priority = nil
	} else if update.Priority != nil {
		task.Priority = update.Priority
	}
	if update.Points != nil {
		task.Points = update.Points
	}
	if update.ClearBlock {
		task.BlockID = nil
	} else if update.BlockID != nil {
		task.BlockID = update.BlockID
	}
	task.UpdatedTs = d.nowFn()
	return nil
}

func (d *MemoryDriver) DeleteTask(_ context.Context, delete *store.DeleteTask) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete2(d.tasks, delete.ID)
	return nil
}

// Reminder.

func (d *MemoryDriver) CreateReminder(_ context.Context, create *store.Reminder) (*store.Reminder, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.nowFn()
	reminder := *create
	reminder.ID = d.id()
	reminder.CreatedTs = now
	reminder.UpdatedTs = now
	d.reminders[reminder.ID] = &reminder
	out := reminder
	return &out, nil
}

func (d *MemoryDriver) ListReminders(_ context.Context, find *store.FindReminder) ([]*store.Reminder, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var list []*store.Reminder
	for _, reminder := range d.reminders {
		if find.ID != nil && reminder.ID != *find.ID {
			continue
		}
		if find.UID != nil && reminder.UID != *find.UID {
			continue
		}
		if find.CreatorID != nil && reminder.CreatorID != *find.CreatorID {
			continue
		}
		if find.Enabled != nil && reminder.Enabled != *find.Enabled {
			continue
		}
		out := *reminder
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (d *MemoryDriver) UpdateReminder(_ context.Context, update *store.UpdateReminder) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	reminder, ok := d.reminders[update.ID]
	if !ok {
		return fmt.Errorf("reminder not found: %d", update.ID)
	}
	if update.Title != nil {
		reminder.Title = *update.Title
	}
	if update.Enabled != nil {
		reminder.Enabled = *update.Enabled
	}
	if update.Recurrence != nil {
		reminder.Recurrence = *update.Recurrence
	}
	if update.TimeOfDay != nil {
		reminder.TimeOfDay = update.TimeOfDay
	}
	if update.Date != nil {
		reminder.Date = update.Date
	}
	if update.Weekdays != nil {
		reminder.Weekdays = update.Weekdays
	}
	reminder.UpdatedTs = d.nowFn()
	return nil
}

func (d *MemoryDriver) DeleteReminder(_ context.Context, delete *store.DeleteReminder) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete2(d.reminders, delete.ID)
	return nil
}

// Medication.

func (d *MemoryDriver) CreateMedication(_ context.Context, create *store.Medication) (*store.Medication, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.nowFn()
	medication := *create
	medication.ID = d.id()
	medication.RowStatus = store.Normal
	medication.CreatedTs = now
	medication.UpdatedTs = now
	d.medications[medication.ID] = &medication
	out := medication
	return &out, nil
}

func (d *MemoryDriver) ListMedications(_ context.Context, find *store.FindMedication) ([]*store.Medication, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var list []*store.Medication
	for _, medication := range d.medications {
		if find.ID != nil && medication.ID != *find.ID {
			continue
		}
		if find.UID != nil && medication.UID != *find.UID {
			continue
		}
		if find.CreatorID != nil && medication.CreatorID != *find.CreatorID {
			continue
		}
		if find.RowStatus != nil && medication.RowStatus != *find.RowStatus {
			continue
		}
		out := *medication
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (d *MemoryDriver) UpdateMedication(_ context.Context, update *store.UpdateMedication) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	medication, ok := d.medications[update.ID]
	if !ok {
		return fmt.Errorf("medication not found: %d", update.ID)
	}
	if update.RowStatus != nil {
		medication.RowStatus = *update.RowStatus
	}
	if update.Name != nil {
		medication.Name = *update.Name
	}
	if update.Dosage != nil {
		medication.Dosage = *update.Dosage
	}
	if update.Recurrence != nil {
		medication.Recurrence = *update.Recurrence
	}
	if update.Times != nil {
		medication.Times = *update.Times
	}
	if update.Pharmacy != nil {
		medication.Pharmacy = *update.Pharmacy
	}
	if update.Quantity != nil {
		medication.Quantity = update.Quantity
	}
	if update.Refills != nil {
		medication.Refills = update.Refills
	}
	if update.Notes != nil {
		medication.Notes = *update.Notes
	}
	medication.UpdatedTs = d.nowFn()
	return nil
}

func (d *MemoryDriver) DeleteMedication(_ context.Context, delete *store.DeleteMedication) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete2(d.medications, delete.ID)
	return nil
}

// Note and File.

func (d *MemoryDriver) CreateNote(_ context.Context, create *store.Note) (*store.Note, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.nowFn()
	note := *create
	note.ID = d.id()
	note.RowStatus = store.Normal
	note.CreatedTs = now
	note.UpdatedTs = now
	d.notes[note.ID] = &note

	noteID := note.ID
	file := &store.File{
		ID:        d.id(),
		UID:       note.UID + "-file",
		CreatorID: note.CreatorID,
		CreatedTs: now,
		Name:      note.Title,
		Type:      store.FileTypeNote,
		NoteID:    &noteID,
		BlockID:   note.BlockID,
	}
	d.files[file.ID] = file

	out := note
	return &out, nil
}

func (d *MemoryDriver) ListNotes(_ context.Context, find *store.FindNote) ([]*store.Note, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var list []*store.Note
	for _, note := range d.notes {
		if find.ID != nil && note.ID != *find.ID {
			continue
		}
		if find.UID != nil && note.UID != *find.UID {
			continue
		}
		if find.CreatorID != nil && note.CreatorID != *find.CreatorID {
			continue
		}
		if find.RowStatus != nil && note.RowStatus != *find.RowStatus {
			continue
		}
		if find.BlockID != nil && (note.BlockID == nil || *note.BlockID != *find.BlockID) {
			continue
		}
		if find.GroupID != nil && (note.GroupID == nil || *note.GroupID != *find.GroupID) {
			continue
		}
		out := *note
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].UpdatedTs != list[j].UpdatedTs {
			return list[i].UpdatedTs > list[j].UpdatedTs
		}
		return list[i].ID > list[j].ID
	})
	return window(list, find.Limit, find.Offset), nil
}

func (d *MemoryDriver) UpdateNote(_ context.Context, update *store.UpdateNote) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	note, ok := d.notes[update.ID]
	if !ok {
		return fmt.Errorf("note not found: %d", update.ID)
	}
	if update.RowStatus != nil {
		note.RowStatus = *update.RowStatus
	}
	if update.Title != nil {
		note.Title = *update.Title
		for _, file := range d.files {
			if file.NoteID != nil && *file.NoteID == note.ID {
				file.Name = *update.Title
			}
		}
	}
	if update.Content != nil {
		note.Content = *update.Content
	}
	note.UpdatedTs = d.nowFn()
	return nil
}

func (d *MemoryDriver) DeleteNote(_ context.Context, delete *store.DeleteNote) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for fileID, file := range d.files {
		if file.NoteID != nil && *file.NoteID == delete.ID {
			delete2(d.files, fileID)
		}
	}
	delete2(d.notes, delete.ID)
	return nil
}

func (d *MemoryDriver) ListFiles(_ context.Context, find *store.FindFile) ([]*store.File, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var list []*store.File
	for _, file := range d.files {
		if find.ID != nil && file.ID != *find.ID {
			continue
		}
		if find.UID != nil && file.UID != *find.UID {
			continue
		}
		if find.CreatorID != nil && file.CreatorID != *find.CreatorID {
			continue
		}
		if find.NoteID != nil && (file.NoteID == nil || *file.NoteID != *find.NoteID) {
			continue
		}
		if find.BlockID != nil && (file.BlockID == nil || *file.BlockID != *find.BlockID) {
			continue
		}
		out := *file
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedTs != list[j].CreatedTs {
			return list[i].CreatedTs > list[j].CreatedTs
		}
		return list[i].ID > list[j].ID
	})
	return window(list, find.Limit, find.Offset), nil
}

func (d *MemoryDriver) DeleteFile(_ context.Context, delete *store.DeleteFile) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	file, ok := d.files[delete.ID]
	if !ok || file.NoteID != nil {
		return fmt.Errorf("file not found: %d", delete.ID)
	}
	delete2(d.files, delete.ID)
	return nil
}

// Group.

func (d *MemoryDriver) CreateGroup(_ context.Context, create *store.Group) (*store.Group, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	group := *create
	group.ID = d.id()
	group.CreatedTs = d.nowFn()
	d.groups[group.ID] = &group
	out := group
	return &out, nil
}

func (d *MemoryDriver) ListGroups(_ context.Context, find *store.FindGroup) ([]*store.Group, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var list []*store.Group
	for _, group := range d.groups {
		if find.ID != nil && group.ID != *find.ID {
			continue
		}
		if find.UID != nil && group.UID != *find.UID {
			continue
		}
		if find.MemberID != nil {
			if _, ok := d.groupMembers[[2]int32{group.ID, *find.MemberID}]; !ok {
				continue
			}
		}
		out := *group
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (d *MemoryDriver) UpsertGroupMember(_ context.Context, upsert *store.GroupMember) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	member := *upsert
	if member.CreatedTs == 0 {
		member.CreatedTs = d.nowFn()
	}
	d.groupMembers[[2]int32{member.GroupID, member.UserID}] = &member
	return nil
}

func (d *MemoryDriver) IsGroupMember(_ context.Context, groupID, userID int32) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.groupMembers[[2]int32{groupID, userID}]
	return ok, nil
}

// Hub.

func (d *MemoryDriver) CreateHub(_ context.Context, create *store.Hub) (*store.Hub, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	hub := *create
	hub.ID = d.id()
	hub.CreatedTs = d.nowFn()
	d.hubs[hub.ID] = &hub
	out := hub
	return &out, nil
}

func (d *MemoryDriver) ListHubs(_ context.Context, find *store.FindHub) ([]*store.Hub, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var list []*store.Hub
	for _, hub := range d.hubs {
		if find.ID != nil && hub.ID != *find.ID {
			continue
		}
		if find.UID != nil && hub.UID != *find.UID {
			continue
		}
		if find.CreatorID != nil && hub.CreatorID != *find.CreatorID {
			continue
		}
		if find.Kind != nil && hub.Kind != *find.Kind {
			continue
		}
		out := *hub
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// Conversation and Message.

func (d *MemoryDriver) CreateConversation(_ context.Context, create *store.Conversation) (*store.Conversation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if create.Kind == store.ConversationKindGroupAI && create.GroupID != nil {
		for _, existing := range d.conversations {
			if existing.Kind == store.ConversationKindGroupAI &&
				existing.GroupID != nil && *existing.GroupID == *create.GroupID {
				return nil, fmt.Errorf("conversation exists: %w", store.ErrAlreadyExists)
			}
		}
	}

	now := d.nowFn()
	conversation := *create
	conversation.ID = d.id()
	conversation.RowStatus = store.Normal
	conversation.CreatedTs = now
	conversation.UpdatedTs = now
	if conversation.Title == "" {
		conversation.Title = store.DefaultConversationTitle
	}
	d.conversations[conversation.ID] = &conversation
	out := conversation
	return &out, nil
}

func (d *MemoryDriver) ListConversations(_ context.Context, find *store.FindConversation) ([]*store.Conversation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var list []*store.Conversation
	for _, conversation := range d.conversations {
		if find.ID != nil && conversation.ID != *find.ID {
			continue
		}
		if find.UID != nil && conversation.UID != *find.UID {
			continue
		}
		if find.CreatorID != nil && conversation.CreatorID != *find.CreatorID {
			continue
		}
		if find.GroupID != nil && (conversation.GroupID == nil || *conversation.GroupID != *find.GroupID) {
			continue
		}
		if find.Kind != nil && conversation.Kind != *find.Kind {
			continue
		}
		if find.RowStatus != nil && conversation.RowStatus != *find.RowStatus {
			continue
		}
		out := *conversation
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].UpdatedTs != list[j].UpdatedTs {
			return list[i].UpdatedTs > list[j].UpdatedTs
		}
		return list[i].ID > list[j].ID
	})
	return window(list, find.Limit, nil), nil
}

func (d *MemoryDriver) UpdateConversation(_ context.Context, update *store.UpdateConversation) (*store.Conversation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	conversation, ok := d.conversations[update.ID]
	if !ok {
		return nil, fmt.Errorf("conversation not found: %d", update.ID)
	}
	if update.RowStatus != nil {
		conversation.RowStatus = *update.RowStatus
	}
	if update.Title != nil {
		conversation.Title = *update.Title
	}
	conversation.UpdatedTs = d.nowFn()
	out := *conversation
	return &out, nil
}

func (d *MemoryDriver) DeleteConversation(_ context.Context, delete *store.DeleteConversation) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id, message := range d.messages {
		if message.ConversationID == delete.ID {
			delete2(d.messages, id)
		}
	}
	delete2(d.conversations, delete.ID)
	return nil
}

func (d *MemoryDriver) CreateMessage(_ context.Context, create *store.Message) (*store.Message, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	message := *create
	message.ID = d.id()
	if message.CreatedTs == 0 {
		message.CreatedTs = d.nowFn()
	}
	d.messages[message.ID] = &message
	out := message
	return &out, nil
}

func (d *MemoryDriver) ListMessages(_ context.Context, find *store.FindMessage) ([]*store.Message, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var list []*store.Message
	for _, message := range d.messages {
		if find.ID != nil && message.ID != *find.ID {
			continue
		}
		if find.UID != nil && message.UID != *find.UID {
			continue
		}
		if find.ConversationID != nil && message.ConversationID != *find.ConversationID {
			continue
		}
		out := *message
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool {
		less := list[i].CreatedTs < list[j].CreatedTs
		if list[i].CreatedTs == list[j].CreatedTs {
			less = list[i].ID < list[j].ID
		}
		if find.Descending {
			return !less
		}
		return less
	})
	return window(list, find.Limit, nil), nil
}

// Activity.

func (d *MemoryDriver) CreateActivity(_ context.Context, create *store.Activity) (*store.Activity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	activity := *create
	activity.ID = d.id()
	activity.CreatedTs = d.nowFn()
	d.activities[activity.ID] = &activity
	out := activity
	return &out, nil
}

func (d *MemoryDriver) ListActivities(_ context.Context, find *store.FindActivity) ([]*store.Activity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var list []*store.Activity
	for _, activity := range d.activities {
		if find.ID != nil && activity.ID != *find.ID {
			continue
		}
		if find.CreatorID != nil && activity.CreatorID != *find.CreatorID {
			continue
		}
		if find.Type != nil && activity.Type != *find.Type {
			continue
		}
		if find.BlockID != nil && (activity.BlockID == nil || *activity.BlockID != *find.BlockID) {
			continue
		}
		out := *activity
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedTs != list[j].CreatedTs {
			return list[i].CreatedTs > list[j].CreatedTs
		}
		return list[i].ID > list[j].ID
	})
	return window(list, find.Limit, nil), nil
}

// window applies limit/offset to an already-sorted slice.
func window[T any](list []T, limit, offset *int) []T {
	if offset != nil {
		if *offset >= len(list) {
			return nil
		}
		list = list[*offset:]
	}
	if limit != nil && *limit < len(list) {
		list = list[:*limit]
	}
	return list
}

// delete2 is the builtin delete; named so methods can shadow the builtin with
// their request parameter.
func delete2[K comparable, V any](m map[K]V, key K) {
	delete(m, key)
}
