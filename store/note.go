package store

import "context"

// FileType is the kind of entry in the unified file listing.
type FileType string

const (
	FileTypeNote   FileType = "NOTE"
	FileTypeUpload FileType = "UPLOAD"
)

// Note is a piece of text attached to at most one of a schedule block or a
// group; with neither link it is personal. Every note owns a shadow File row
// representing it in the unified file listing, created and deleted together
// with the note by the driver.
type Note struct {
	ID        int32
	UID       string
	CreatorID int32
	RowStatus RowStatus
	CreatedTs int64
	UpdatedTs int64
	Title     string
	Content   string
	BlockID   *int32
	GroupID   *int32
}

// FindNote is the find condition for note.
type FindNote struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	RowStatus *RowStatus
	BlockID   *int32
	GroupID   *int32
	Limit     *int
	Offset    *int
}

// UpdateNote is the patch request for note.
type UpdateNote struct {
	ID        int32
	UpdatedTs *int64
	RowStatus *RowStatus
	Title     *string
	Content   *string
}

// DeleteNote is the delete request for note. The driver cascades the delete
// to the note's shadow File.
type DeleteNote struct {
	ID int32
}

// File is an entry in the unified file listing. A File with Type NOTE is the
// shadow of a Note and shares its lifecycle.
type File struct {
	ID        int32
	UID       string
	CreatorID int32
	CreatedTs int64
	Name      string
	Type      FileType
	NoteID    *int32
	BlockID   *int32
}

// FindFile is the find condition for file.
type FindFile struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	NoteID    *int32
	BlockID   *int32
	Limit     *int
	Offset    *int
}

// DeleteFile is the delete request for file.
type DeleteFile struct {
	ID int32
}

func (s *Store) CreateNote(ctx context.Context, create *Note) (*Note, error) {
	return s.driver.CreateNote(ctx, create)
}

func (s *Store) ListNotes(ctx context.Context, find *FindNote) ([]*Note, error) {
	return s.driver.ListNotes(ctx, find)
}

// GetNote gets a single note, or nil if none matches.
func (s *Store) GetNote(ctx context.Context, find *FindNote) (*Note, error) {
	list, err := s.driver.ListNotes(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateNote(ctx context.Context, update *UpdateNote) error {
	return s.driver.UpdateNote(ctx, update)
}

func (s *Store) DeleteNote(ctx context.Context, delete *DeleteNote) error {
	return s.driver.DeleteNote(ctx, delete)
}

func (s *Store) ListFiles(ctx context.Context, find *FindFile) ([]*File, error) {
	return s.driver.ListFiles(ctx, find)
}

func (s *Store) DeleteFile(ctx context.Context, delete *DeleteFile) error {
	return s.driver.DeleteFile(ctx, delete)
}
