package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/funnelwatch/internal/funnel"
	"github.com/blackwell-systems/funnelwatch/internal/recommend"
)

// SaveRun persists a complete run (snapshot, friction tables, ranked
// recommendations, impact summary) in one transaction and returns the new
// run ID.
func (db *DB) SaveRun(
	snap funnel.Snapshot,
	friction []funnel.FrictionEntry,
	reasons []funnel.ReasonEntry,
	recs []recommend.Recommendation,
	impact recommend.BusinessImpact,
) (string, error) {
	runID := uuid.NewString()

	tx, err := db.conn.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, taken_at, sessions, converted, conversion_rate, avg_cart_value)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339), snap.TotalSessions,
		snap.ConvertedCount, snap.ConversionRate, snap.AvgCartValue,
	); err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for i, stage := range snap.Stages {
		if _, err := tx.Exec(
			`INSERT INTO stage_counts (run_id, position, stage, count, rate, cumulative_rate)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, i, stage.Stage, stage.Count, stage.Rate, stage.CumulativeRate,
		); err != nil {
			return "", fmt.Errorf("inserting stage count: %w", err)
		}
	}

	for _, f := range friction {
		if _, err := tx.Exec(
			"INSERT INTO friction_points (run_id, stage, count, percentage) VALUES (?, ?, ?, ?)",
			runID, f.Stage, f.Count, f.Percentage,
		); err != nil {
			return "", fmt.Errorf("inserting friction point: %w", err)
		}
	}

	for _, r := range reasons {
		if _, err := tx.Exec(
			"INSERT INTO abandonment_reasons (run_id, reason, count, percentage) VALUES (?, ?, ?, ?)",
			runID, r.Reason, r.Count, r.Percentage,
		); err != nil {
			return "", fmt.Errorf("inserting abandonment reason: %w", err)
		}
	}

	for i, rec := range recs {
		if _, err := tx.Exec(
			`INSERT INTO recommendations
			(run_id, rank, title, category, severity, priority_score, minimum_days, recommended_days)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i+1, rec.Issue.Title, string(rec.Issue.Category), string(rec.Issue.Severity),
			rec.PriorityScore, rec.Timeline.MinimumDays, rec.Timeline.RecommendedDays,
		); err != nil {
			return "", fmt.Errorf("inserting recommendation: %w", err)
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO impact_summaries
		(run_id, revenue_increase, cost_savings, satisfaction_improvement, implementation_cost, net_benefit, roi)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, impact.RevenueIncrease, impact.CostSavings, impact.SatisfactionImprovement,
		impact.ImplementationCost, impact.NetBenefit, impact.ROI,
	); err != nil {
		return "", fmt.Errorf("inserting impact summary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// ListRuns returns up to limit runs, most recent first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.conn.Query(
		`SELECT id, taken_at, sessions, converted, conversion_rate, avg_cart_value
		 FROM runs ORDER BY taken_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var takenAt string
		if err := rows.Scan(&r.ID, &takenAt, &r.Sessions, &r.Converted, &r.ConversionRate, &r.AvgCartValue); err != nil {
			return nil, err
		}
		r.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetLatestRun returns the most recent run, or nil if none exist.
func (db *DB) GetLatestRun() (*Run, error) {
	row := db.conn.QueryRow(
		`SELECT id, taken_at, sessions, converted, conversion_rate, avg_cart_value
		 FROM runs ORDER BY taken_at DESC, rowid DESC LIMIT 1`,
	)
	return scanRun(row)
}

// GetRun returns a run by ID, or nil if it does not exist.
func (db *DB) GetRun(id string) (*Run, error) {
	row := db.conn.QueryRow(
		`SELECT id, taken_at, sessions, converted, conversion_rate, avg_cart_value
		 FROM runs WHERE id = ?`, id,
	)
	return scanRun(row)
}

// FindRun returns the run matching the given ID or ID prefix, preferring
// the newest when a prefix matches several. Returns nil if none match.
func (db *DB) FindRun(idOrPrefix string) (*Run, error) {
	row := db.conn.QueryRow(
		`SELECT id, taken_at, sessions, converted, conversion_rate, avg_cart_value
		 FROM runs WHERE id = ? OR id LIKE ?
		 ORDER BY taken_at DESC, rowid DESC LIMIT 1`,
		idOrPrefix, idOrPrefix+"%",
	)
	return scanRun(row)
}

func scanRun(row *sql.Row) (*Run, error) {
	var r Run
	var takenAt string
	err := row.Scan(&r.ID, &takenAt, &r.Sessions, &r.Converted, &r.ConversionRate, &r.AvgCartValue)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
	return &r, nil
}

// GetStageCounts returns the funnel stage rows for a run in stage order.
func (db *DB) GetStageCounts(runID string) ([]StageCountRow, error) {
	rows, err := db.conn.Query(
		`SELECT run_id, position, stage, count, rate, cumulative_rate
		 FROM stage_counts WHERE run_id = ? ORDER BY position`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var counts []StageCountRow
	for rows.Next() {
		var c StageCountRow
		if err := rows.Scan(&c.RunID, &c.Position, &c.Stage, &c.Count, &c.Rate, &c.CumulativeRate); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// GetFrictionPoints returns the ranked friction rows for a run.
func (db *DB) GetFrictionPoints(runID string) ([]FrictionRow, error) {
	rows, err := db.conn.Query(
		`SELECT run_id, stage, count, percentage
		 FROM friction_points WHERE run_id = ? ORDER BY count DESC, id`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var friction []FrictionRow
	for rows.Next() {
		var f FrictionRow
		if err := rows.Scan(&f.RunID, &f.Stage, &f.Count, &f.Percentage); err != nil {
			return nil, err
		}
		friction = append(friction, f)
	}
	return friction, rows.Err()
}

// GetReasons returns the ranked abandonment reasons for a run.
func (db *DB) GetReasons(runID string) ([]ReasonRow, error) {
	rows, err := db.conn.Query(
		`SELECT run_id, reason, count, percentage
		 FROM abandonment_reasons WHERE run_id = ? ORDER BY count DESC, id`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var reasons []ReasonRow
	for rows.Next() {
		var r ReasonRow
		if err := rows.Scan(&r.RunID, &r.Reason, &r.Count, &r.Percentage); err != nil {
			return nil, err
		}
		reasons = append(reasons, r)
	}
	return reasons, rows.Err()
}

// GetRecommendations returns a run's recommendations in rank order.
func (db *DB) GetRecommendations(runID string) ([]RecommendationRow, error) {
	rows, err := db.conn.Query(
		`SELECT run_id, rank, title, category, severity, priority_score, minimum_days, recommended_days
		 FROM recommendations WHERE run_id = ? ORDER BY rank`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var recs []RecommendationRow
	for rows.Next() {
		var r RecommendationRow
		if err := rows.Scan(&r.RunID, &r.Rank, &r.Title, &r.Category, &r.Severity,
			&r.PriorityScore, &r.MinimumDays, &r.RecommendedDays); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// GetImpact returns a run's business impact summary, or nil if absent.
func (db *DB) GetImpact(runID string) (*ImpactRow, error) {
	row := db.conn.QueryRow(
		`SELECT run_id, revenue_increase, cost_savings, satisfaction_improvement,
		 implementation_cost, net_benefit, roi
		 FROM impact_summaries WHERE run_id = ?`, runID,
	)

	var imp ImpactRow
	err := row.Scan(&imp.RunID, &imp.RevenueIncrease, &imp.CostSavings,
		&imp.SatisfactionImprovement, &imp.ImplementationCost, &imp.NetBenefit, &imp.ROI)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &imp, nil
}
