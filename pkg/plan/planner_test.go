package plan

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stefanpenner/stratlife/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

var testNow = time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)

// fakeGenerator returns a canned response and records every request.
type fakeGenerator struct {
	response string
	err      error
	calls    []Request
}

func (f *fakeGenerator) Generate(_ context.Context, req Request) (string, error) {
	f.calls = append(f.calls, req)
	return f.response, f.err
}

func newTestPlanner(gen Generator) *Planner {
	n := 0
	return New(gen,
		WithClock(func() time.Time { return testNow }),
		WithIDFunc(func() string {
			n++
			return fmt.Sprintf("g%d", n)
		}),
	)
}

const planJSON = `{
  "annual": {
    "title": "Run a marathon",
    "description": "Finish a full marathon under 4 hours.",
    "smart": {"specific": "Full marathon", "measurable": "Sub 4h", "achievable": "Train 5x/week", "relevant": "Health", "timeBound": "By December"}
  },
  "monthly": [
    {"title": "Build base", "description": "Run 100km"},
    {"title": "Half marathon", "description": "Race a half"},
    {"title": "Peak block", "description": "Long runs"},
    {"title": "Extra", "description": "Should be trimmed"}
  ],
  "weekly": [
    {"title": "Three easy runs", "description": "Zone 2"},
    {"title": "Long run", "description": "18km"}
  ],
  "daily": [
    {"title": "Stretch", "description": "10 minutes"},
    {"title": "Hydrate", "description": "3 litres"},
    {"title": "Sleep 8h", "description": "Lights out at 10"}
  ]
}`

func TestStrategicPlanTree(t *testing.T) {
	gen := &fakeGenerator{response: planJSON}
	p := newTestPlanner(gen)

	goals, err := p.StrategicPlan(context.Background(), "Get fit", "Health")
	require.NoError(t, err)
	require.Len(t, goals, 1+PlanMonthlyCount+PlanWeeklyCount+PlanDailyCount)

	byHorizon := map[store.Horizon][]store.Goal{}
	for _, g := range goals {
		byHorizon[g.Horizon] = append(byHorizon[g.Horizon], g)
		assert.Equal(t, store.StatusNotStarted, g.Status)
		assert.Equal(t, 0, g.Progress)
		assert.Equal(t, "Health", g.Category)
		assert.NotNil(t, g.SmartCriteria)
	}

	require.Len(t, byHorizon[store.HorizonAnnual], 1)
	require.Len(t, byHorizon[store.HorizonMonthly], 3)
	require.Len(t, byHorizon[store.HorizonWeekly], 2)
	require.Len(t, byHorizon[store.HorizonDaily], 3)

	annual := byHorizon[store.HorizonAnnual][0]
	assert.Empty(t, annual.ParentID)
	assert.Equal(t, testNow.AddDate(1, 0, 0), annual.DueDate)
	assert.Equal(t, "Sub 4h", annual.SmartCriteria.Measurable)

	firstMonth := byHorizon[store.HorizonMonthly][0]
	firstWeek := byHorizon[store.HorizonWeekly][0]
	for i, g := range byHorizon[store.HorizonMonthly] {
		assert.Equal(t, annual.ID, g.ParentID)
		assert.Equal(t, testNow.AddDate(0, i+1, 0), g.DueDate)
		assert.Equal(t, g.Description, g.SmartCriteria.Specific)
	}
	for i, g := range byHorizon[store.HorizonWeekly] {
		assert.Equal(t, firstMonth.ID, g.ParentID)
		assert.Equal(t, testNow.AddDate(0, 0, (i+1)*7), g.DueDate)
	}
	for i, g := range byHorizon[store.HorizonDaily] {
		assert.Equal(t, firstWeek.ID, g.ParentID)
		assert.Equal(t, testNow.AddDate(0, 0, i+1), g.DueDate)
	}

	// Request carries the plan schema and the fixed counts
	require.Len(t, gen.calls, 1)
	schema := gen.calls[0].Schema
	require.NotNil(t, schema)
	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.Equal(t, int64(PlanWeeklyCount), *schema.Properties["weekly"].MaxItems)
	assert.Contains(t, gen.calls[0].Prompt, "Get fit")
}

func TestStrategicPlanIsDeterministic(t *testing.T) {
	a, err := newTestPlanner(&fakeGenerator{response: planJSON}).StrategicPlan(context.Background(), "v", "c")
	require.NoError(t, err)
	b, err := newTestPlanner(&fakeGenerator{response: planJSON}).StrategicPlan(context.Background(), "v", "c")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStrategicPlanFailures(t *testing.T) {
	tests := []struct {
		name    string
		gen     *fakeGenerator
		wantErr error
	}{
		{"missing credential", &fakeGenerator{err: ErrMissingCredential}, ErrMissingCredential},
		{"empty response", &fakeGenerator{response: "  "}, ErrGeneration},
		{"malformed JSON", &fakeGenerator{response: "{annual"}, ErrGeneration},
		{"too few weekly", &fakeGenerator{response: `{"annual":{"title":"x","description":"y"},
			"monthly":[{"title":"a"},{"title":"b"},{"title":"c"}],
			"weekly":[{"title":"a"}],
			"daily":[{"title":"a"},{"title":"b"},{"title":"c"}]}`}, ErrGeneration},
		{"missing annual", &fakeGenerator{response: `{"monthly":[]}`}, ErrGeneration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goals, err := newTestPlanner(tt.gen).StrategicPlan(context.Background(), "v", "c")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, goals)
		})
	}
}

func TestBreakdown(t *testing.T) {
	gen := &fakeGenerator{response: `[
		{"title": "Week 1", "description": "Set up", "dueDateOffset": 3},
		{"title": "Week 2", "description": "Build"},
		{"title": "Week 3", "description": "Test", "dueDateOffset": 0.5},
		{"title": "Week 4", "description": "Ship", "dueDateOffset": 28},
		{"title": "Week 5", "description": "Trimmed"}
	]`}
	p := newTestPlanner(gen)
	parent := store.Goal{
		ID:            "m-1",
		Title:         "Ship beta",
		Horizon:       store.HorizonMonthly,
		Category:      "Career",
		SmartCriteria: &store.SmartCriteria{Specific: "Beta", Measurable: "50 users"},
	}

	kids, err := p.Breakdown(context.Background(), parent)
	require.NoError(t, err)
	require.Len(t, kids, 4)

	wantDue := []time.Time{
		testNow.AddDate(0, 0, 3),
		testNow.AddDate(0, 0, DefaultDueDateOffset),
		testNow,
		testNow.AddDate(0, 0, 28),
	}
	for i, k := range kids {
		assert.Equal(t, "m-1", k.ParentID)
		assert.Equal(t, store.HorizonWeekly, k.Horizon)
		assert.Equal(t, store.StatusNotStarted, k.Status)
		assert.Equal(t, 0, k.Progress)
		assert.Equal(t, "Career", k.Category)
		assert.Equal(t, "Supports Ship beta", k.SmartCriteria.Relevant)
		assert.Equal(t, k.Description, k.SmartCriteria.Specific)
		assert.Equal(t, wantDue[i], k.DueDate)
	}

	require.Len(t, gen.calls, 1)
	assert.Contains(t, gen.calls[0].Prompt, "Ship beta")
	assert.Contains(t, gen.calls[0].Prompt, "50 users")
	assert.Contains(t, gen.calls[0].Prompt, "4 weekly")
}

func TestBreakdownDueDatesKeepLocalTimeAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tz database unavailable")
	}
	now := time.Date(2026, 3, 5, 9, 0, 0, 0, loc)
	gen := &fakeGenerator{response: `[{"title": "Week 1", "description": "a"}]`}
	p := New(gen, WithClock(func() time.Time { return now }))

	kids, err := p.Breakdown(context.Background(), store.Goal{ID: "m-1", Horizon: store.HorizonMonthly})
	require.NoError(t, err)
	require.Len(t, kids, 1)
	assert.Equal(t, time.Date(2026, 3, 12, 9, 0, 0, 0, loc), kids[0].DueDate)
}

func TestBreakdownFanout(t *testing.T) {
	tests := []struct {
		parent store.Horizon
		child  store.Horizon
		count  int
	}{
		{store.HorizonAnnual, store.HorizonMonthly, 4},
		{store.HorizonMonthly, store.HorizonWeekly, 4},
		{store.HorizonWeekly, store.HorizonDaily, 5},
	}
	for _, tt := range tests {
		t.Run(string(tt.parent), func(t *testing.T) {
			gen := &fakeGenerator{response: `[{"title":"a","description":"b"}]`}
			kids, err := newTestPlanner(gen).Breakdown(context.Background(), store.Goal{ID: "p", Horizon: tt.parent})
			require.NoError(t, err)
			require.Len(t, kids, 1)
			assert.Equal(t, tt.child, kids[0].Horizon)
			assert.Equal(t, int64(tt.count), *gen.calls[0].Schema.MaxItems)
		})
	}
}

func TestBreakdownDailyYieldsNothing(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("must not be called")}
	kids, err := newTestPlanner(gen).Breakdown(context.Background(), store.Goal{ID: "d", Horizon: store.HorizonDaily})
	require.NoError(t, err)
	assert.Empty(t, kids)
	assert.Empty(t, gen.calls)
}

func TestBreakdownFailures(t *testing.T) {
	parent := store.Goal{ID: "a", Horizon: store.HorizonAnnual}

	_, err := newTestPlanner(&fakeGenerator{response: "[]"}).Breakdown(context.Background(), parent)
	assert.ErrorIs(t, err, ErrGeneration)

	_, err = newTestPlanner(&fakeGenerator{err: ErrMissingCredential}).Breakdown(context.Background(), parent)
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestRefineToSmart(t *testing.T) {
	gen := &fakeGenerator{response: `{"title":"Read 12 books","description":"One per month",
		"smart":{"specific":"12 books","measurable":"count","achievable":"30 min/day","relevant":"Learning","timeBound":"Dec 31"}}`}

	g, err := newTestPlanner(gen).RefineToSmart(context.Background(), "read more", store.HorizonAnnual, "Learning", "parent-1")
	require.NoError(t, err)
	assert.Equal(t, "Read 12 books", g.Title)
	assert.Equal(t, store.HorizonAnnual, g.Horizon)
	assert.Equal(t, "Learning", g.Category)
	assert.Equal(t, "parent-1", g.ParentID)
	assert.Equal(t, store.StatusNotStarted, g.Status)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), g.DueDate)
	assert.Equal(t, "Dec 31", g.SmartCriteria.TimeBound)

	_, err = newTestPlanner(&fakeGenerator{response: `{"title":"x"}`}).RefineToSmart(context.Background(), "x", store.HorizonDaily, "", "")
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestAdvice(t *testing.T) {
	goals := []store.Goal{
		{Title: "Launch", Horizon: store.HorizonAnnual, Status: store.StatusInProgress},
		{Title: "Idle", Horizon: store.HorizonDaily, Status: store.StatusNotStarted},
	}

	gen := &fakeGenerator{response: "  Keep shipping.  "}
	text, err := newTestPlanner(gen).Advice(context.Background(), goals)
	require.NoError(t, err)
	assert.Equal(t, "Keep shipping.", text)
	assert.Contains(t, gen.calls[0].Prompt, "annual: Launch")
	assert.NotContains(t, gen.calls[0].Prompt, "Idle")
	assert.Nil(t, gen.calls[0].Schema)

	text, err = newTestPlanner(&fakeGenerator{}).Advice(context.Background(), goals)
	require.NoError(t, err)
	assert.Equal(t, AdviceFallback, text)

	text, err = newTestPlanner(&fakeGenerator{err: ErrMissingCredential}).Advice(context.Background(), goals)
	require.NoError(t, err)
	assert.Equal(t, AdviceMissingKey, text)

	_, err = newTestPlanner(&fakeGenerator{err: errors.New("boom")}).Advice(context.Background(), goals)
	assert.Error(t, err)
}
