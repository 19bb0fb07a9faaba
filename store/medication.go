package store

import "context"

// Medication is purely informational; the assistant reads it into context but
// never mutates it through tool calls.
type Medication struct {
	ID         int32
	UID        string
	CreatorID  int32
	RowStatus  RowStatus
	CreatedTs  int64
	UpdatedTs  int64
	Name       string
	Dosage     string
	Recurrence string
	Times      string // comma-separated "HH:MM" entries
	Pharmacy   string
	Quantity   *int32
	Refills    *int32
	Notes      string
}

// FindMedication is the find condition for medication.
type FindMedication struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	RowStatus *RowStatus
}

// UpdateMedication is the patch request for medication.
type UpdateMedication struct {
	ID         int32
	UpdatedTs  *int64
	RowStatus  *RowStatus
	Name       *string
	Dosage     *string
	Recurrence *string
	Times      *string
	Pharmacy   *string
	Quantity   *int32
	Refills    *int32
	Notes      *string
}

// DeleteMedication is the delete request for medication.
type DeleteMedication struct {
	ID int32
}

func (s *Store) CreateMedication(ctx context.Context, create *Medication) (*Medication, error) {
	return s.driver.CreateMedication(ctx, create)
}

func (s *Store) ListMedications(ctx context.Context, find *FindMedication) ([]*Medication, error) {
	return s.driver.ListMedications(ctx, find)
}

func (s *Store) UpdateMedication(ctx context.Context, update *UpdateMedication) error {
	return s.driver.UpdateMedication(ctx, update)
}

func (s *Store) DeleteMedication(ctx context.Context, delete *DeleteMedication) error {
	return s.driver.DeleteMedication(ctx, delete)
}
