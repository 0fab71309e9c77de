package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrDuplicateID is returned when adding a goal whose id is already stored.
var ErrDuplicateID = errors.New("duplicate goal id")

// ErrNotFound is returned by lookups that require an existing goal.
var ErrNotFound = errors.New("goal not found")

// Store is the ordered in-memory goal collection, mirrored to a blob slot
// after every mutation. It is not safe for concurrent use; all access is
// expected from a single event loop.
type Store struct {
	blob   BlobStore
	slot   string
	now    func() time.Time
	newID  func() string
	logger *slog.Logger

	goals    []Goal
	byID     map[string]int
	children map[string][]string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc overrides uuid generation for new goals and reviews.
func WithIDFunc(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the logger used for recoverable load problems.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithSlot overrides the blob slot name.
func WithSlot(slot string) Option {
	return func(s *Store) { s.slot = slot }
}

// Open loads the collection from blob. An absent or empty slot yields the
// seed goal; a corrupt slot is discarded and also yields the seed goal.
func Open(blob BlobStore, opts ...Option) (*Store, error) {
	s := &Store{
		blob:   blob,
		slot:   SlotName,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the blob slot, replacing the in-memory collection.
func (s *Store) Reload() error {
	data, err := s.blob.Read(s.slot)
	if err != nil {
		return err
	}

	var goals []Goal
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &goals); err != nil {
			s.logger.Warn("discarding corrupt goal data", "slot", s.slot, "err", err)
			goals = nil
		}
	}
	if len(goals) == 0 {
		goals = []Goal{SeedGoal(s.now())}
	}

	s.goals = dedupe(goals)
	s.rebuildIndex()
	return nil
}

// dedupe keeps the first record for each id so a hand-edited slot cannot
// break id uniqueness.
func dedupe(goals []Goal) []Goal {
	seen := make(map[string]bool, len(goals))
	out := goals[:0]
	for _, g := range goals {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		out = append(out, g)
	}
	return out
}

func (s *Store) rebuildIndex() {
	s.byID = make(map[string]int, len(s.goals))
	s.children = make(map[string][]string)
	for i, g := range s.goals {
		s.byID[g.ID] = i
		if g.ParentID != "" {
			s.children[g.ParentID] = append(s.children[g.ParentID], g.ID)
		}
	}
}

// save writes the whole collection. An empty collection is never persisted,
// so deleting every goal brings the seed goal back on the next load.
func (s *Store) save() error {
	if len(s.goals) == 0 {
		return nil
	}
	data, err := json.Marshal(s.goals)
	if err != nil {
		return fmt.Errorf("serializing goals: %w", err)
	}
	return s.blob.Write(s.slot, data)
}

// NewID returns a fresh identifier from the store's id source.
func (s *Store) NewID() string {
	return s.newID()
}

// Now returns the store's clock reading.
func (s *Store) Now() time.Time {
	return s.now()
}

// Len returns the number of stored goals.
func (s *Store) Len() int {
	return len(s.goals)
}

// All returns a snapshot of every goal in insertion order.
func (s *Store) All() []Goal {
	out := make([]Goal, len(s.goals))
	for i, g := range s.goals {
		out[i] = cloneGoal(g)
	}
	return out
}

// Get returns the goal with id.
func (s *Store) Get(id string) (Goal, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Goal{}, false
	}
	return cloneGoal(s.goals[i]), true
}

// Add appends one goal. A goal without an id is assigned one.
func (s *Store) Add(g Goal) (Goal, error) {
	added, err := s.AddAll([]Goal{g})
	if err != nil {
		return Goal{}, err
	}
	return added[0], nil
}

// AddAll appends a batch of goals in one mutation. Either every goal is
// added or none is.
func (s *Store) AddAll(goals []Goal) ([]Goal, error) {
	batch := make([]Goal, 0, len(goals))
	seen := make(map[string]bool, len(goals))
	for _, g := range goals {
		g = cloneGoal(g)
		if g.ID == "" {
			g.ID = s.newID()
		}
		if _, exists := s.byID[g.ID]; exists || seen[g.ID] {
			return nil, fmt.Errorf("adding goal %s: %w", g.ID, ErrDuplicateID)
		}
		if g.Status == "" {
			g.Status = StatusNotStarted
		}
		g.Progress = clampProgress(g.Progress)
		seen[g.ID] = true
		batch = append(batch, g)
	}

	prev := len(s.goals)
	s.goals = append(s.goals, batch...)
	s.rebuildIndex()
	if err := s.save(); err != nil {
		s.goals = s.goals[:prev]
		s.rebuildIndex()
		return nil, err
	}
	return batch, nil
}

// Update replaces the stored goal whose id matches g.ID. Unknown ids are
// silently ignored. A goal's horizon is fixed when it is added, so the
// stored horizon is kept whatever g carries.
func (s *Store) Update(g Goal) error {
	i, ok := s.byID[g.ID]
	if !ok {
		return nil
	}
	prev := s.goals[i]
	g = cloneGoal(g)
	g.Horizon = prev.Horizon
	g.Progress = clampProgress(g.Progress)
	s.goals[i] = g
	s.rebuildIndex()
	if err := s.save(); err != nil {
		s.goals[i] = prev
		s.rebuildIndex()
		return err
	}
	return nil
}

// Merge updates the goals whose id is already stored and appends the rest,
// as one mutation. Stored horizons are kept. The batch must not repeat an
// id; on any error the collection is left as it was.
func (s *Store) Merge(goals []Goal) (added, updated int, err error) {
	next := make([]Goal, len(s.goals), len(s.goals)+len(goals))
	copy(next, s.goals)
	seen := make(map[string]bool, len(goals))
	for _, g := range goals {
		g = cloneGoal(g)
		if g.ID == "" {
			g.ID = s.newID()
		}
		if seen[g.ID] {
			return 0, 0, fmt.Errorf("merging goal %s: %w", g.ID, ErrDuplicateID)
		}
		seen[g.ID] = true
		if g.Status == "" {
			g.Status = StatusNotStarted
		}
		g.Progress = clampProgress(g.Progress)
		if i, ok := s.byID[g.ID]; ok {
			g.Horizon = next[i].Horizon
			next[i] = g
			updated++
			continue
		}
		next = append(next, g)
		added++
	}

	prev := s.goals
	s.goals = next
	s.rebuildIndex()
	if err := s.save(); err != nil {
		s.goals = prev
		s.rebuildIndex()
		return 0, 0, err
	}
	return added, updated, nil
}

// Delete removes the goal with id. Children are left in place with their
// parent id untouched. Unknown ids are silently ignored.
func (s *Store) Delete(id string) error {
	i, ok := s.byID[id]
	if !ok {
		return nil
	}
	prev := s.goals
	goals := make([]Goal, 0, len(prev)-1)
	goals = append(goals, prev[:i]...)
	s.goals = append(goals, prev[i+1:]...)
	s.rebuildIndex()
	if err := s.save(); err != nil {
		s.goals = prev
		s.rebuildIndex()
		return err
	}
	return nil
}

// ByHorizon returns goals with horizon h in insertion order.
func (s *Store) ByHorizon(h Horizon) []Goal {
	var out []Goal
	for _, g := range s.goals {
		if g.Horizon == h {
			out = append(out, cloneGoal(g))
		}
	}
	return out
}

// ByParent returns goals whose parent id equals parentID in insertion order.
func (s *Store) ByParent(parentID string) []Goal {
	ids := s.children[parentID]
	out := make([]Goal, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneGoal(s.goals[s.byID[id]]))
	}
	return out
}

// Parent returns the goal referenced by g's parent id, if it still exists.
func (s *Store) Parent(g Goal) (Goal, bool) {
	if g.ParentID == "" {
		return Goal{}, false
	}
	return s.Get(g.ParentID)
}

// SetStatus moves a goal to status, forcing progress to 100 on completion.
func (s *Store) SetStatus(id string, status GoalStatus) (Goal, error) {
	g, ok := s.Get(id)
	if !ok {
		return Goal{}, fmt.Errorf("setting status of %s: %w", id, ErrNotFound)
	}
	if !status.Valid() {
		return Goal{}, fmt.Errorf("invalid status %q", status)
	}
	g = g.WithStatus(status)
	if err := s.Update(g); err != nil {
		return Goal{}, err
	}
	return g, nil
}

// ToggleStatus cycles a goal through not_started → in_progress → completed.
func (s *Store) ToggleStatus(id string) (Goal, error) {
	g, ok := s.Get(id)
	if !ok {
		return Goal{}, fmt.Errorf("toggling status of %s: %w", id, ErrNotFound)
	}
	return s.SetStatus(id, g.NextStatus())
}

// SetProgress sets a goal's progress, clamped to [0,100].
func (s *Store) SetProgress(id string, progress int) (Goal, error) {
	g, ok := s.Get(id)
	if !ok {
		return Goal{}, fmt.Errorf("setting progress of %s: %w", id, ErrNotFound)
	}
	g.Progress = clampProgress(progress)
	if err := s.Update(g); err != nil {
		return Goal{}, err
	}
	return g, nil
}

// AddReview appends a review note to a goal. Blank notes are ignored.
func (s *Store) AddReview(id, note string) (Goal, error) {
	g, ok := s.Get(id)
	if !ok {
		return Goal{}, fmt.Errorf("reviewing %s: %w", id, ErrNotFound)
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return g, nil
	}
	g.Reviews = append(g.Reviews, Review{ID: s.newID(), Date: s.now(), Note: note})
	if err := s.Update(g); err != nil {
		return Goal{}, err
	}
	return g, nil
}

// Resolve finds a goal by full id or by a unique id prefix.
func (s *Store) Resolve(ref string) (Goal, error) {
	if g, ok := s.Get(ref); ok {
		return g, nil
	}
	var match []Goal
	for _, g := range s.goals {
		if ref != "" && strings.HasPrefix(g.ID, ref) {
			match = append(match, g)
		}
	}
	switch len(match) {
	case 1:
		return cloneGoal(match[0]), nil
	case 0:
		return Goal{}, fmt.Errorf("goal %s: %w", ref, ErrNotFound)
	default:
		return Goal{}, fmt.Errorf("goal prefix %s is ambiguous (%d matches)", ref, len(match))
	}
}
