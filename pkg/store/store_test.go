package store

import (
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func setupTestStore(t *testing.T) (*Store, *MemoryBlobStore) {
	t.Helper()
	blob := NewMemoryBlobStore()
	s, err := Open(blob, WithClock(func() time.Time { return testNow }), WithIDFunc(sequentialIDs()))
	require.NoError(t, err)
	return s, blob
}

// emptyStore returns a store with the seed goal removed from memory.
func emptyStore(t *testing.T) (*Store, *MemoryBlobStore) {
	t.Helper()
	s, blob := setupTestStore(t)
	require.NoError(t, s.Delete(SeedID))
	require.Equal(t, 0, s.Len())
	return s, blob
}

func TestOpenSeedsEmptyStore(t *testing.T) {
	s, _ := setupTestStore(t)

	goals := s.All()
	require.Len(t, goals, 1)
	seed := goals[0]
	assert.Equal(t, SeedID, seed.ID)
	assert.Equal(t, HorizonAnnual, seed.Horizon)
	assert.Equal(t, StatusInProgress, seed.Status)
	assert.Equal(t, 25, seed.Progress)
	assert.Equal(t, testNow.AddDate(1, 0, 0), seed.DueDate)
}

func TestOpenDiscardsCorruptData(t *testing.T) {
	blob := NewMemoryBlobStore()
	blob.Slots[SlotName] = []byte("{not json")

	s, err := Open(blob)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, SeedID, s.All()[0].ID)
}

func TestOpenLoadsSavedGoals(t *testing.T) {
	blob := NewMemoryBlobStore()
	data, err := json.Marshal([]Goal{
		{ID: "a", Title: "A", Horizon: HorizonWeekly, Status: StatusNotStarted},
		{ID: "b", Title: "B", Horizon: HorizonDaily, Status: StatusCompleted, Progress: 100},
	})
	require.NoError(t, err)
	blob.Slots[SlotName] = data

	s, err := Open(blob)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	_, ok := s.Get(SeedID)
	assert.False(t, ok)
}

func TestOpenDropsDuplicateIDs(t *testing.T) {
	blob := NewMemoryBlobStore()
	blob.Slots[SlotName] = []byte(`[{"id":"a","title":"first"},{"id":"a","title":"second"}]`)

	s, err := Open(blob)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	g, _ := s.Get("a")
	assert.Equal(t, "first", g.Title)
}

func TestAddPersists(t *testing.T) {
	s, blob := setupTestStore(t)

	g, err := s.Add(Goal{Title: "Run a marathon", Horizon: HorizonAnnual})
	require.NoError(t, err)
	assert.Equal(t, "id-1", g.ID)
	assert.Equal(t, StatusNotStarted, g.Status)

	var saved []Goal
	require.NoError(t, json.Unmarshal(blob.Slots[SlotName], &saved))
	require.Len(t, saved, 2)
	assert.Equal(t, "Run a marathon", saved[1].Title)
}

func TestAddDuplicateID(t *testing.T) {
	s, _ := setupTestStore(t)

	_, err := s.Add(Goal{ID: SeedID, Title: "clash"})
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 1, s.Len())
}

func TestAddAllIsAtomic(t *testing.T) {
	s, blob := setupTestStore(t)
	writes := blob.Writes

	_, err := s.AddAll([]Goal{{ID: "x"}, {ID: "y"}, {ID: "x"}})
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, writes, blob.Writes)

	added, err := s.AddAll([]Goal{{ID: "x"}, {ID: "y"}})
	require.NoError(t, err)
	assert.Len(t, added, 2)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, writes+1, blob.Writes)
}

// failingBlob rejects writes once fail is set.
type failingBlob struct {
	*MemoryBlobStore
	fail bool
}

func (f *failingBlob) Write(slot string, data []byte) error {
	if f.fail {
		return os.ErrPermission
	}
	return f.MemoryBlobStore.Write(slot, data)
}

func TestAddAllRollsBackOnWriteError(t *testing.T) {
	s, err := Open(&failingBlob{MemoryBlobStore: NewMemoryBlobStore(), fail: true})
	require.NoError(t, err)

	_, err = s.AddAll([]Goal{{ID: "x", Horizon: HorizonDaily}})
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("x")
	assert.False(t, ok)
}

func TestIDsStayUnique(t *testing.T) {
	s, _ := setupTestStore(t)

	ops := []func(){
		func() { s.Add(Goal{Title: "a"}) },
		func() { s.Add(Goal{ID: "fixed"}) },
		func() { s.Add(Goal{ID: "fixed"}) },
		func() { s.Update(Goal{ID: "fixed", Title: "renamed"}) },
		func() { s.Delete("id-1") },
		func() { s.Add(Goal{ID: "id-1"}) },
		func() { s.AddAll([]Goal{{ID: "fixed"}, {ID: "z"}}) },
		func() { s.Update(Goal{ID: "missing"}) },
	}
	for _, op := range ops {
		op()
		seen := map[string]bool{}
		for _, g := range s.All() {
			require.False(t, seen[g.ID], "duplicate id %s", g.ID)
			seen[g.ID] = true
		}
	}
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	s, blob := setupTestStore(t)
	writes := blob.Writes

	err := s.Update(Goal{ID: "nope", Title: "ghost"})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, writes, blob.Writes)
}

func TestUpdateReplacesRecord(t *testing.T) {
	s, _ := setupTestStore(t)

	g, _ := s.Get(SeedID)
	g.Title = "Launch v2"
	g.Progress = 140
	require.NoError(t, s.Update(g))

	got, ok := s.Get(SeedID)
	require.True(t, ok)
	assert.Equal(t, "Launch v2", got.Title)
	assert.Equal(t, 100, got.Progress)
}

func TestUpdateKeepsHorizon(t *testing.T) {
	s, _ := setupTestStore(t)

	g, _ := s.Get(SeedID)
	g.Title = "Retitled"
	g.Horizon = HorizonDaily
	require.NoError(t, s.Update(g))

	got, _ := s.Get(SeedID)
	assert.Equal(t, "Retitled", got.Title)
	assert.Equal(t, HorizonAnnual, got.Horizon)
	assert.Len(t, s.ByHorizon(HorizonDaily), 0)
}

func TestMutationsRollBackOnWriteError(t *testing.T) {
	blob := &failingBlob{MemoryBlobStore: NewMemoryBlobStore()}
	s, err := Open(blob, WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	_, err = s.Add(Goal{ID: "m1", ParentID: SeedID, Horizon: HorizonMonthly})
	require.NoError(t, err)
	saved := append([]byte(nil), blob.Slots[SlotName]...)
	blob.fail = true

	_, err = s.SetStatus(SeedID, StatusCompleted)
	assert.ErrorIs(t, err, os.ErrPermission)
	seed, _ := s.Get(SeedID)
	assert.Equal(t, StatusInProgress, seed.Status)
	assert.Equal(t, 25, seed.Progress)

	_, err = s.AddReview(SeedID, "blocked")
	assert.ErrorIs(t, err, os.ErrPermission)
	seed, _ = s.Get(SeedID)
	assert.Empty(t, seed.Reviews)

	assert.ErrorIs(t, s.Delete(SeedID), os.ErrPermission)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, []string{SeedID, "m1"}, []string{s.All()[0].ID, s.All()[1].ID})
	assert.Len(t, s.ByParent(SeedID), 1)

	assert.Equal(t, saved, blob.Slots[SlotName])
}

func TestMerge(t *testing.T) {
	s, blob := setupTestStore(t)
	writes := blob.Writes

	seed, _ := s.Get(SeedID)
	seed.Title = "Renamed"
	seed.Horizon = HorizonWeekly
	added, updated, err := s.Merge([]Goal{seed, {Title: "New", Horizon: HorizonDaily}})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, updated)
	assert.Equal(t, writes+1, blob.Writes)

	got, _ := s.Get(SeedID)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, HorizonAnnual, got.Horizon)
	require.Len(t, s.ByHorizon(HorizonDaily), 1)
	assert.Equal(t, "id-1", s.ByHorizon(HorizonDaily)[0].ID)
}

func TestMergeRejectsRepeatedIDs(t *testing.T) {
	s, blob := setupTestStore(t)
	writes := blob.Writes

	_, _, err := s.Merge([]Goal{
		{ID: SeedID, Title: "CHANGED", Horizon: HorizonAnnual},
		{ID: "n", Title: "a"},
		{ID: "n", Title: "b"},
	})
	assert.ErrorIs(t, err, ErrDuplicateID)
	seed, _ := s.Get(SeedID)
	assert.Equal(t, "Launch my Dream Startup", seed.Title)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, writes, blob.Writes)
}

func TestMergeRollsBackOnWriteError(t *testing.T) {
	blob := &failingBlob{MemoryBlobStore: NewMemoryBlobStore(), fail: true}
	s, err := Open(blob)
	require.NoError(t, err)

	_, _, err = s.Merge([]Goal{{ID: SeedID, Title: "CHANGED"}, {ID: "n", Title: "a"}})
	assert.ErrorIs(t, err, os.ErrPermission)
	seed, _ := s.Get(SeedID)
	assert.Equal(t, "Launch my Dream Startup", seed.Title)
	assert.Equal(t, 1, s.Len())
}

func TestDeleteDoesNotCascade(t *testing.T) {
	s, _ := setupTestStore(t)

	_, err := s.AddAll([]Goal{
		{ID: "m1", ParentID: SeedID, Horizon: HorizonMonthly},
		{ID: "m2", ParentID: SeedID, Horizon: HorizonMonthly},
	})
	require.NoError(t, err)

	require.NoError(t, s.Delete(SeedID))
	require.NoError(t, s.Delete("unknown"))

	assert.Equal(t, 2, s.Len())
	for _, g := range s.All() {
		assert.Equal(t, SeedID, g.ParentID)
	}
	assert.Len(t, s.ByParent(SeedID), 2)
	_, ok := s.Parent(s.All()[0])
	assert.False(t, ok)
}

func TestDeleteAllRevertsToSeedOnReload(t *testing.T) {
	s, blob := setupTestStore(t)
	_, err := s.Add(Goal{ID: "a"})
	require.NoError(t, err)

	require.NoError(t, s.Delete("a"))
	require.NoError(t, s.Delete(SeedID))
	assert.Equal(t, 0, s.Len())

	// The last non-empty snapshot still holds the seed goal only.
	var saved []Goal
	require.NoError(t, json.Unmarshal(blob.Slots[SlotName], &saved))
	require.Len(t, saved, 1)

	require.NoError(t, s.Reload())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, SeedID, s.All()[0].ID)
}

func TestByHorizonAndByParent(t *testing.T) {
	s, _ := emptyStore(t)

	_, err := s.AddAll([]Goal{
		{ID: "a", Horizon: HorizonAnnual},
		{ID: "m1", Horizon: HorizonMonthly, ParentID: "a"},
		{ID: "w1", Horizon: HorizonWeekly, ParentID: "m1"},
		{ID: "m2", Horizon: HorizonMonthly, ParentID: "a"},
	})
	require.NoError(t, err)

	monthly := s.ByHorizon(HorizonMonthly)
	require.Len(t, monthly, 2)
	assert.Equal(t, "m1", monthly[0].ID)
	assert.Equal(t, "m2", monthly[1].ID)

	kids := s.ByParent("a")
	require.Len(t, kids, 2)
	assert.Equal(t, "m1", kids[0].ID)
	assert.Equal(t, "m2", kids[1].ID)

	// Snapshots are not live views
	monthly[0].Title = "changed"
	g, _ := s.Get("m1")
	assert.Empty(t, g.Title)

	assert.Empty(t, s.ByHorizon(HorizonDaily))
	assert.Empty(t, s.ByParent("nobody"))
}

func TestSetStatusCompletedForcesProgress(t *testing.T) {
	for _, prior := range []int{0, 25, 99, 100} {
		t.Run(fmt.Sprintf("from %d", prior), func(t *testing.T) {
			s, _ := setupTestStore(t)
			_, err := s.SetProgress(SeedID, prior)
			require.NoError(t, err)

			g, err := s.SetStatus(SeedID, StatusCompleted)
			require.NoError(t, err)
			assert.Equal(t, 100, g.Progress)
		})
	}
}

func TestSetStatusInvalid(t *testing.T) {
	s, _ := setupTestStore(t)

	_, err := s.SetStatus(SeedID, "paused")
	assert.Error(t, err)

	_, err = s.SetStatus("missing", StatusCompleted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleStatus(t *testing.T) {
	s, _ := setupTestStore(t)
	g, err := s.Add(Goal{Title: "test", Progress: 40})
	require.NoError(t, err)

	// not_started → in_progress
	g, err = s.ToggleStatus(g.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, g.Status)
	assert.Equal(t, 40, g.Progress)

	// in_progress → completed
	g, err = s.ToggleStatus(g.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, g.Status)
	assert.Equal(t, 100, g.Progress)

	// completed → not_started
	g, err = s.ToggleStatus(g.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusNotStarted, g.Status)

	// cancelled → not_started
	_, err = s.SetStatus(g.ID, StatusCancelled)
	require.NoError(t, err)
	g, err = s.ToggleStatus(g.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusNotStarted, g.Status)
}

func TestSetProgressClamps(t *testing.T) {
	s, _ := setupTestStore(t)

	g, err := s.SetProgress(SeedID, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Progress)

	g, err = s.SetProgress(SeedID, 250)
	require.NoError(t, err)
	assert.Equal(t, 100, g.Progress)
}

func TestAddReview(t *testing.T) {
	s, _ := setupTestStore(t)

	g, err := s.AddReview(SeedID, "Shipped the landing page")
	require.NoError(t, err)
	require.Len(t, g.Reviews, 1)
	assert.Equal(t, "id-1", g.Reviews[0].ID)
	assert.Equal(t, testNow, g.Reviews[0].Date)

	g, err = s.AddReview(SeedID, "   ")
	require.NoError(t, err)
	assert.Len(t, g.Reviews, 1)

	g, err = s.AddReview(SeedID, "Talked to ten users")
	require.NoError(t, err)
	require.Len(t, g.Reviews, 2)
	assert.Equal(t, "Shipped the landing page", g.Reviews[0].Note)
	assert.Equal(t, "Talked to ten users", g.Reviews[1].Note)
}

func TestResolvePrefix(t *testing.T) {
	s, _ := emptyStore(t)
	_, err := s.AddAll([]Goal{{ID: "abc123"}, {ID: "abd456"}})
	require.NoError(t, err)

	g, err := s.Resolve("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc123", g.ID)

	_, err = s.Resolve("ab")
	assert.Error(t, err)

	_, err = s.Resolve("zzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileBlobStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	blob, err := NewFileBlobStore(dir)
	require.NoError(t, err)

	data, err := blob.Read(SlotName)
	require.NoError(t, err)
	assert.Nil(t, data)

	s, err := Open(blob)
	require.NoError(t, err)
	_, err = s.Add(Goal{Title: "Read 20 books", Horizon: HorizonAnnual})
	require.NoError(t, err)

	_, err = os.Stat(blob.Path(SlotName))
	require.NoError(t, err)

	reopened, err := Open(blob)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Len())
	assert.Equal(t, "Read 20 books", reopened.All()[1].Title)
}
