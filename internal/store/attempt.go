package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// Attempt sources.
const (
	SourceTemplate = "template"
	SourceAI       = "ai"
)

// AnonymousUser is recorded when a caller gives no user ID.
const AnonymousUser = "anonymous"

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 200

// Attempt is one graded response.
type Attempt struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	Domain        string    `json:"domain"`
	Skill         string    `json:"skill"`
	Seed          int64     `json:"seed"`
	Correct       bool      `json:"correct"`
	CorrectAnswer string    `json:"correct_answer"`
	Source        string    `json:"source"`
	TimeMs        *int64    `json:"time_ms,omitempty"`
	Difficulty    string    `json:"difficulty,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	UserID string
	Domain string
	Skill  string
	Limit  int
}

// ResetFilter selects attempts to delete. UserID is required.
type ResetFilter struct {
	UserID string
	Domain string
	Skill  string
}

// SkillStats aggregates a group of attempts.
type SkillStats struct {
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
	AvgTimeS float64 `json:"avg_time_s"`
}

// Stats holds a learner's aggregates per skill, and per skill broken down
// by difficulty and by source. Missing keys are reported as "unknown".
type Stats struct {
	BySkill      map[string]SkillStats
	ByDifficulty map[string]map[string]SkillStats
	BySource     map[string]map[string]SkillStats
}

// AttemptRepo persists attempt history.
type AttemptRepo interface {
	// Record stores an attempt and returns its ID.
	Record(ctx context.Context, a Attempt) (int64, error)

	// List returns matching attempts, newest first.
	List(ctx context.Context, f ListFilter) ([]Attempt, error)

	// Recent returns the n newest attempts for a user, optionally scoped
	// to a domain and skill.
	Recent(ctx context.Context, userID, domain, skill string, n int) ([]Attempt, error)

	// Stats aggregates a user's attempts.
	Stats(ctx context.Context, userID string) (Stats, error)

	// Reset deletes matching attempts and returns how many were removed.
	Reset(ctx context.Context, f ResetFilter) (int64, error)
}

type attemptRepo struct {
	db *sql.DB
	b  *entsql.DialectBuilder
}

var attemptColumns = []string{
	"id", "user_id", "domain", "skill", "seed", "correct", "correct_answer",
	"source", "time_ms", "difficulty", "created_at",
}

func (r *attemptRepo) Record(ctx context.Context, a Attempt) (int64, error) {
	if a.UserID == "" {
		a.UserID = AnonymousUser
	}
	if a.Source == "" {
		a.Source = SourceTemplate
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	var difficulty any
	if a.Difficulty != "" {
		difficulty = a.Difficulty
	}
	var timeMs any
	if a.TimeMs != nil {
		timeMs = *a.TimeMs
	}

	query, args := r.b.Insert("attempts").
		Columns(attemptColumns[1:]...).
		Values(a.UserID, a.Domain, a.Skill, a.Seed, a.Correct, a.CorrectAnswer,
			a.Source, timeMs, difficulty, a.CreatedAt).
		Returning("id").
		Query()

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert attempt: %w", err)
	}
	return id, nil
}

func (r *attemptRepo) List(ctx context.Context, f ListFilter) ([]Attempt, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	sel := r.b.Select(attemptColumns...).From(entsql.Table("attempts"))
	if p := scope(f.UserID, f.Domain, f.Skill); p != nil {
		sel.Where(p)
	}
	query, args := sel.OrderBy(entsql.Desc("id")).Limit(limit).Query()
	return r.query(ctx, query, args)
}

func (r *attemptRepo) Recent(ctx context.Context, userID, domain, skill string, n int) ([]Attempt, error) {
	if n <= 0 {
		return nil, nil
	}
	return r.List(ctx, ListFilter{UserID: userID, Domain: domain, Skill: skill, Limit: n})
}

func (r *attemptRepo) Stats(ctx context.Context, userID string) (Stats, error) {
	query, args := r.b.Select("skill", "difficulty", "source", "correct", "time_ms").
		From(entsql.Table("attempts")).
		Where(entsql.EQ("user_id", userID)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	bySkill := map[string]*tally{}
	byDiff := map[string]map[string]*tally{}
	bySrc := map[string]map[string]*tally{}
	for rows.Next() {
		var (
			skill      string
			difficulty sql.NullString
			source     sql.NullString
			correct    bool
			timeMs     sql.NullInt64
		)
		if err := rows.Scan(&skill, &difficulty, &source, &correct, &timeMs); err != nil {
			return Stats{}, fmt.Errorf("scan stats: %w", err)
		}
		bucket(bySkill, skill).add(correct, timeMs)
		bucket(nested(byDiff, skill), orUnknown(difficulty)).add(correct, timeMs)
		bucket(nested(bySrc, skill), orUnknown(source)).add(correct, timeMs)
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate stats: %w", err)
	}

	out := Stats{
		BySkill:      map[string]SkillStats{},
		ByDifficulty: map[string]map[string]SkillStats{},
		BySource:     map[string]map[string]SkillStats{},
	}
	for skill, t := range bySkill {
		out.BySkill[skill] = t.stats()
	}
	flatten(byDiff, out.ByDifficulty)
	flatten(bySrc, out.BySource)
	return out, nil
}

func (r *attemptRepo) Reset(ctx context.Context, f ResetFilter) (int64, error) {
	if f.UserID == "" {
		return 0, fmt.Errorf("reset: user ID is required")
	}
	pred := scope(f.UserID, f.Domain, f.Skill)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	countQuery, countArgs := r.b.Select(entsql.Count("*")).
		From(entsql.Table("attempts")).
		Where(pred).
		Query()
	var n int64
	if err := tx.QueryRowContext(ctx, countQuery, countArgs...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}

	delQuery, delArgs := r.b.Delete("attempts").Where(scope(f.UserID, f.Domain, f.Skill)).Query()
	if _, err := tx.ExecContext(ctx, delQuery, delArgs...); err != nil {
		return 0, fmt.Errorf("delete attempts: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit reset: %w", err)
	}
	return n, nil
}

func (r *attemptRepo) query(ctx context.Context, query string, args []any) ([]Attempt, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a          Attempt
			timeMs     sql.NullInt64
			difficulty sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Domain, &a.Skill, &a.Seed, &a.Correct,
			&a.CorrectAnswer, &a.Source, &timeMs, &difficulty, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if timeMs.Valid {
			v := timeMs.Int64
			a.TimeMs = &v
		}
		a.Difficulty = difficulty.String
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return out, nil
}

// scope builds the user/domain/skill predicate, skipping empty fields.
func scope(userID, domain, skill string) *entsql.Predicate {
	var preds []*entsql.Predicate
	if userID != "" {
		preds = append(preds, entsql.EQ("user_id", userID))
	}
	if domain != "" {
		preds = append(preds, entsql.EQ("domain", domain))
	}
	if skill != "" {
		preds = append(preds, entsql.EQ("skill", skill))
	}
	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	}
	return entsql.And(preds...)
}

type tally struct {
	n, correct  int
	timed       int
	totalTimeMs int64
}

func (t *tally) add(correct bool, timeMs sql.NullInt64) {
	t.n++
	if correct {
		t.correct++
	}
	if timeMs.Valid {
		t.timed++
		t.totalTimeMs += timeMs.Int64
	}
}

func (t *tally) stats() SkillStats {
	s := SkillStats{Attempts: t.n, Correct: t.correct}
	if t.n > 0 {
		s.Accuracy = float64(t.correct) / float64(t.n)
	}
	if t.timed > 0 {
		s.AvgTimeS = float64(t.totalTimeMs) / float64(t.timed) / 1000
	}
	return s
}

func bucket(m map[string]*tally, key string) *tally {
	t, ok := m[key]
	if !ok {
		t = &tally{}
		m[key] = t
	}
	return t
}

func nested(m map[string]map[string]*tally, key string) map[string]*tally {
	inner, ok := m[key]
	if !ok {
		inner = map[string]*tally{}
		m[key] = inner
	}
	return inner
}

func flatten(in map[string]map[string]*tally, out map[string]map[string]SkillStats) {
	for skill, groups := range in {
		out[skill] = make(map[string]SkillStats, len(groups))
		for key, t := range groups {
			out[skill][key] = t.stats()
		}
	}
}

func orUnknown(s sql.NullString) string {
	if !s.Valid || s.String == "" {
		return "unknown"
	}
	return s.String
}
