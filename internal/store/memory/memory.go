// Package memory is an in-process record store used by unit tests. It keeps
// the same single-call write semantics as the postgres implementation and
// exposes failure hooks so callers can exercise error paths such as the
// routine-assignment rollback.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rehabworks/rehab_backend/internal/store"
)

type Store struct {
	mu sync.Mutex

	profiles  map[uuid.UUID]store.Profile
	exercises map[int64]store.Exercise
	routines  map[int64]store.Routine
	links     map[int64]store.RoutineExercise
	progress  map[int64]store.ProgressEntry

	nextExerciseID int64
	nextRoutineID  int64
	nextLinkID     int64
	nextProgressID int64

	// Failure hooks. When set, the corresponding call returns the error
	// instead of writing.
	FailInsertRoutine error
	FailInsertBatch   error
	FailDeleteRoutine error
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		profiles:  make(map[uuid.UUID]store.Profile),
		exercises: make(map[int64]store.Exercise),
		routines:  make(map[int64]store.Routine),
		links:     make(map[int64]store.RoutineExercise),
		progress:  make(map[int64]store.ProgressEntry),
	}
}

// ---------------------------------------------------------------------------
// Profiles
// ---------------------------------------------------------------------------

func (s *Store) InsertProfile(_ context.Context, p store.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
	return nil
}

func (s *Store) GetProfileByEmail(_ context.Context, email string) (*store.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.Email == email {
			cp := p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetProfile(_ context.Context, id uuid.UUID) (*store.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := p
	return &cp, nil
}

// ---------------------------------------------------------------------------
// Exercises
// ---------------------------------------------------------------------------

func (s *Store) InsertExercise(_ context.Context, e store.Exercise) (*store.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextExerciseID++
	e.ID = s.nextExerciseID
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	s.exercises[e.ID] = e
	return &e, nil
}

func (s *Store) GetExercise(_ context.Context, id int64) (*store.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.exercises[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &e, nil
}

func (s *Store) ListExercises(_ context.Context) ([]store.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Exercise, 0, len(s.exercises))
	for _, e := range s.exercises {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) ListExercisesByCategory(_ context.Context, category string) ([]store.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.Exercise
	for _, e := range s.exercises {
		if e.Category == category {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdateExercise(_ context.Context, e store.Exercise) (*store.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.exercises[e.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	e.CreatedBy = cur.CreatedBy
	e.CreatedAt = cur.CreatedAt
	s.exercises[e.ID] = e
	return &e, nil
}

func (s *Store) DeleteExercise(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.exercises[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.exercises, id)
	return nil
}

// ---------------------------------------------------------------------------
// Routines
// ---------------------------------------------------------------------------

func (s *Store) InsertRoutine(_ context.Context, r store.Routine) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInsertRoutine != nil {
		return 0, s.FailInsertRoutine
	}
	s.nextRoutineID++
	r.ID = s.nextRoutineID
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	s.routines[r.ID] = r
	return r.ID, nil
}

func (s *Store) GetRoutine(_ context.Context, id int64) (*store.Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.routines[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (s *Store) GetRoutineDetail(ctx context.Context, id int64) (*store.RoutineDetail, error) {
	r, err := s.GetRoutine(ctx, id)
	if err != nil {
		return nil, err
	}
	links, err := s.ListRoutineExercises(ctx, id)
	if err != nil {
		return nil, err
	}
	return &store.RoutineDetail{Routine: *r, Exercises: links}, nil
}

func (s *Store) ListRoutines(_ context.Context) ([]store.Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Routine, 0, len(s.routines))
	for _, r := range s.routines {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListRoutinesByPatient(_ context.Context, patientID uuid.UUID) ([]store.Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.Routine
	for _, r := range s.routines {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateRoutine(_ context.Context, r store.Routine) (*store.Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.routines[r.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	r.ProfessionalID = cur.ProfessionalID
	r.CreatedAt = cur.CreatedAt
	s.routines[r.ID] = r
	return &r, nil
}

func (s *Store) DeleteRoutine(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDeleteRoutine != nil {
		return s.FailDeleteRoutine
	}
	if _, ok := s.routines[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.routines, id)
	return nil
}

// ---------------------------------------------------------------------------
// Routine exercises
// ---------------------------------------------------------------------------

func (s *Store) InsertRoutineExercise(_ context.Context, l store.RoutineExercise) (*store.RoutineExercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextLinkID++
	l.ID = s.nextLinkID
	s.links[l.ID] = l
	return &l, nil
}

func (s *Store) InsertRoutineExerciseBatch(_ context.Context, links []store.RoutineExercise) ([]store.RoutineExercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInsertBatch != nil {
		return nil, s.FailInsertBatch
	}
	out := make([]store.RoutineExercise, 0, len(links))
	for _, l := range links {
		s.nextLinkID++
		l.ID = s.nextLinkID
		s.links[l.ID] = l
		out = append(out, l)
	}
	return out, nil
}

func (s *Store) GetRoutineExercise(_ context.Context, id int64) (*store.RoutineExercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &l, nil
}

func (s *Store) GetRoutineExerciseOwner(_ context.Context, id int64) (*store.RoutineExerciseOwner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	r, ok := s.routines[l.RoutineID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &store.RoutineExerciseOwner{
		RoutineExerciseID: l.ID,
		RoutineID:         r.ID,
		PatientID:         r.PatientID,
		ProfessionalID:    r.ProfessionalID,
	}, nil
}

func (s *Store) ListRoutineExercises(_ context.Context, routineID int64) ([]store.RoutineExerciseDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.RoutineExerciseDetail
	for _, l := range s.links {
		if l.RoutineID != routineID {
			continue
		}
		d := store.RoutineExerciseDetail{RoutineExercise: l}
		if e, ok := s.exercises[l.ExerciseID]; ok {
			d.Exercise = store.ExerciseSummary{
				ID:          e.ID,
				Name:        e.Name,
				Category:    e.Category,
				BodyPart:    e.BodyPart,
				Description: e.Description,
			}
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateRoutineExercise(_ context.Context, l store.RoutineExercise) (*store.RoutineExercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.links[l.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	l.RoutineID = cur.RoutineID
	l.ExerciseID = cur.ExerciseID
	s.links[l.ID] = l
	return &l, nil
}

func (s *Store) DeleteRoutineExercise(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.links, id)
	return nil
}

// ---------------------------------------------------------------------------
// Progress
// ---------------------------------------------------------------------------

func (s *Store) InsertProgress(_ context.Context, p store.ProgressEntry) (*store.ProgressEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProgressID++
	p.ID = s.nextProgressID
	s.progress[p.ID] = p
	return &p, nil
}

func (s *Store) ListProgressByPatient(_ context.Context, patientID uuid.UUID, asc bool) ([]store.ProgressEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.ProgressEntry
	for _, p := range s.progress {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if asc {
			return out[i].CompletedAt.Before(out[j].CompletedAt)
		}
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out, nil
}

func (s *Store) ListProgressByRoutine(_ context.Context, routineID int64, patientID uuid.UUID) ([]store.ProgressEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.ProgressEntry
	for _, p := range s.progress {
		if p.PatientID != patientID {
			continue
		}
		l, ok := s.links[p.RoutineExerciseID]
		if !ok || l.RoutineID != routineID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}

// CountProgress reports the number of stored entries; used by tests to
// assert that denied creations wrote nothing.
func (s *Store) CountProgress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.progress)
}

// HasRoutine reports whether the routine id is present; used by tests to
// observe the compensating delete.
func (s *Store) HasRoutine(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.routines[id]
	return ok
}
