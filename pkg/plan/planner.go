package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stefanpenner/stratlife/pkg/store"
)

const (
	// DefaultDueDateOffset is used when the generator suggests no offset.
	DefaultDueDateOffset = 7

	// AdviceMissingKey is returned by Advice when no credential is configured.
	AdviceMissingKey = "API Key missing. Add it to environment variables to enable AI advice."

	// AdviceFallback is returned by Advice when the generator answers with nothing.
	AdviceFallback = "Stay focused and execute the next small win."
)

// Planner builds goal batches from generator output.
type Planner struct {
	gen    Generator
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithClock overrides time.Now for due-date computation.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// WithIDFunc overrides uuid generation for new goals.
func WithIDFunc(newID func() string) Option {
	return func(p *Planner) { p.newID = newID }
}

// WithLogger sets the planner's logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) { p.logger = l }
}

// New returns a Planner backed by gen.
func New(gen Generator, opts ...Option) *Planner {
	p := &Planner{
		gen:    gen,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Planner) generateJSON(ctx context.Context, op string, req Request, out any) error {
	p.logger.Debug("calling generator", "op", op, "prompt_len", len(req.Prompt))
	text, err := p.gen.Generate(ctx, req)
	if err != nil {
		p.logger.Warn("generator call failed", "op", op, "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	if strings.TrimSpace(text) == "" {
		p.logger.Warn("generator returned no payload", "op", op)
		return fmt.Errorf("%s: empty response: %w", op, ErrGeneration)
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		p.logger.Warn("generator payload did not parse", "op", op, "err", err)
		return fmt.Errorf("%s: decoding response: %v: %w", op, err, ErrGeneration)
	}
	return nil
}

// RefineToSmart converts a rough description into one SMART goal at the
// given horizon. The goal is due at the start of today.
func (p *Planner) RefineToSmart(ctx context.Context, description string, horizon store.Horizon, category, parentID string) (store.Goal, error) {
	var payload smartGoalPayload
	req := Request{Prompt: refinePrompt(description, horizon), Schema: smartGoalSchema()}
	if err := p.generateJSON(ctx, "refine to SMART", req, &payload); err != nil {
		return store.Goal{}, err
	}
	if payload.Title == "" || payload.Smart == nil {
		return store.Goal{}, fmt.Errorf("refine to SMART: missing title or SMART criteria: %w", ErrGeneration)
	}

	return store.Goal{
		ID:            p.newID(),
		Title:         payload.Title,
		Description:   payload.Description,
		Horizon:       horizon,
		Status:        store.StatusNotStarted,
		Progress:      0,
		Category:      category,
		DueDate:       startOfDay(p.now()),
		ParentID:      parentID,
		SmartCriteria: payload.Smart.criteria(),
	}, nil
}

// StrategicPlan produces an annual goal with 3 monthly, 2 weekly and 3 daily
// children. Monthly goals hang off the annual goal; every weekly goal hangs
// off the first monthly goal and every daily goal off the first weekly goal.
func (p *Planner) StrategicPlan(ctx context.Context, vision, category string) ([]store.Goal, error) {
	var payload planPayload
	req := Request{Prompt: planPrompt(vision, category), Schema: planSchema()}
	if err := p.generateJSON(ctx, "strategic plan", req, &payload); err != nil {
		return nil, err
	}
	if err := payload.validate(); err != nil {
		return nil, fmt.Errorf("strategic plan: %v: %w", err, ErrGeneration)
	}

	now := p.now()
	annual := store.Goal{
		ID:          p.newID(),
		Title:       payload.Annual.Title,
		Description: payload.Annual.Description,
		Horizon:     store.HorizonAnnual,
		Status:      store.StatusNotStarted,
		Category:    category,
		DueDate:     now.AddDate(1, 0, 0),
	}
	if payload.Annual.Smart != nil {
		annual.SmartCriteria = payload.Annual.Smart.criteria()
	}

	goals := []store.Goal{annual}

	monthly := p.milestones(payload.Monthly[:PlanMonthlyCount], store.HorizonMonthly, category, annual.ID, "1 Month",
		func(i int) time.Time { return now.AddDate(0, i+1, 0) })
	goals = append(goals, monthly...)

	weekly := p.milestones(payload.Weekly[:PlanWeeklyCount], store.HorizonWeekly, category, monthly[0].ID, "1 Week",
		func(i int) time.Time { return now.AddDate(0, 0, (i+1)*7) })
	goals = append(goals, weekly...)

	daily := p.milestones(payload.Daily[:PlanDailyCount], store.HorizonDaily, category, weekly[0].ID, "1 Day",
		func(i int) time.Time { return now.AddDate(0, 0, i+1) })
	goals = append(goals, daily...)

	return goals, nil
}

func (p *Planner) milestones(in []milestonePayload, horizon store.Horizon, category, parentID, timeBound string, due func(int) time.Time) []store.Goal {
	out := make([]store.Goal, 0, len(in))
	for i, m := range in {
		out = append(out, store.Goal{
			ID:          p.newID(),
			ParentID:    parentID,
			Title:       m.Title,
			Description: m.Description,
			Horizon:     horizon,
			Status:      store.StatusNotStarted,
			Category:    category,
			DueDate:     due(i),
			SmartCriteria: &store.SmartCriteria{
				Specific:   m.Description,
				Measurable: "TBD",
				Achievable: "Yes",
				Relevant:   "Yes",
				TimeBound:  timeBound,
			},
		})
	}
	return out
}

// breakdownFanout is how many children each horizon is split into.
var breakdownFanout = map[store.Horizon]int{
	store.HorizonMonthly: 4,
	store.HorizonWeekly:  4,
	store.HorizonDaily:   5,
}

// Breakdown splits parent into children one horizon finer. Daily goals
// yield an empty batch without calling the generator.
func (p *Planner) Breakdown(ctx context.Context, parent store.Goal) ([]store.Goal, error) {
	childHorizon, ok := parent.Horizon.Child()
	if !ok {
		return nil, nil
	}
	count := breakdownFanout[childHorizon]

	var payload []subGoalPayload
	req := Request{Prompt: breakdownPrompt(parent, childHorizon, count), Schema: subGoalSchema(int64(count))}
	if err := p.generateJSON(ctx, "breakdown", req, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("breakdown: no sub-goals returned: %w", ErrGeneration)
	}
	if len(payload) > count {
		payload = payload[:count]
	}

	now := p.now()
	out := make([]store.Goal, 0, len(payload))
	for _, sg := range payload {
		// Offsets count whole calendar days; fractions are dropped.
		days := DefaultDueDateOffset
		if sg.DueDateOffset != nil && *sg.DueDateOffset != 0 {
			days = int(*sg.DueDateOffset)
		}
		out = append(out, store.Goal{
			ID:          p.newID(),
			ParentID:    parent.ID,
			Title:       sg.Title,
			Description: sg.Description,
			Horizon:     childHorizon,
			Status:      store.StatusNotStarted,
			Category:    parent.Category,
			DueDate:     now.AddDate(0, 0, days),
			SmartCriteria: &store.SmartCriteria{
				Specific:   sg.Description,
				Measurable: "To be defined",
				Achievable: "To be defined",
				Relevant:   "Supports " + parent.Title,
				TimeBound:  "To be scheduled",
			},
		})
	}
	return out, nil
}

// Advice returns short coaching text for the in-progress goals. A missing
// credential is not an error here; the caller just shows the hint.
func (p *Planner) Advice(ctx context.Context, goals []store.Goal) (string, error) {
	text, err := p.gen.Generate(ctx, Request{Prompt: advicePrompt(goals)})
	if errors.Is(err, ErrMissingCredential) {
		return AdviceMissingKey, nil
	}
	if err != nil {
		p.logger.Warn("advice call failed", "err", err)
		return "", fmt.Errorf("advice: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return AdviceFallback, nil
	}
	return strings.TrimSpace(text), nil
}

func (s *smartPayload) criteria() *store.SmartCriteria {
	return &store.SmartCriteria{
		Specific:   s.Specific,
		Measurable: s.Measurable,
		Achievable: s.Achievable,
		Relevant:   s.Relevant,
		TimeBound:  s.TimeBound,
	}
}

func (pp *planPayload) validate() error {
	if pp.Annual == nil || pp.Annual.Title == "" {
		return errors.New("missing annual goal")
	}
	if len(pp.Monthly) < PlanMonthlyCount {
		return fmt.Errorf("want %d monthly milestones, got %d", PlanMonthlyCount, len(pp.Monthly))
	}
	if len(pp.Weekly) < PlanWeeklyCount {
		return fmt.Errorf("want %d weekly tasks, got %d", PlanWeeklyCount, len(pp.Weekly))
	}
	if len(pp.Daily) < PlanDailyCount {
		return fmt.Errorf("want %d daily tasks, got %d", PlanDailyCount, len(pp.Daily))
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
