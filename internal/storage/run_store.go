package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shootflow/shootflow/internal/automation"
)

// RunStore persists automation reports beyond the orchestrator's in-memory
// window.
type RunStore struct {
	db *DB
}

// NewRunStore creates a run store.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db}
}

// StoredRun is one persisted automation report.
type StoredRun struct {
	ID        int64               `json:"id"`
	Trigger   automation.Trigger  `json:"trigger"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Results   []automation.Result `json:"results"`
	CreatedAt time.Time           `json:"created_at"`
}

// Save persists a report.
func (s *RunStore) Save(report automation.Report) error {
	results, err := json.Marshal(report.Results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	_, err = s.db.conn.Exec(`
		INSERT INTO automation_runs (trigger, succeeded, failed, results, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, string(report.Trigger), report.Succeeded, report.Failed, string(results), report.CreatedAt)
	return err
}

// Recent returns the newest runs, newest first.
func (s *RunStore) Recent(limit int) ([]StoredRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.conn.Query(`
		SELECT id, trigger, succeeded, failed, results, created_at
		FROM automation_runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []StoredRun{}
	for rows.Next() {
		var run StoredRun
		var trigger, results string

		if err := rows.Scan(&run.ID, &trigger, &run.Succeeded, &run.Failed, &results, &run.CreatedAt); err != nil {
			return nil, err
		}
		run.Trigger = automation.Trigger(trigger)
		if err := json.Unmarshal([]byte(results), &run.Results); err != nil {
			return nil, fmt.Errorf("decode results for run %d: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// CountsByTrigger aggregates runs and failures per trigger.
func (s *RunStore) CountsByTrigger() (map[automation.Trigger]int, error) {
	rows, err := s.db.conn.Query(`
		SELECT trigger, COUNT(*)
		FROM automation_runs
		GROUP BY trigger
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[automation.Trigger]int{}
	for rows.Next() {
		var trigger string
		var n int
		if err := rows.Scan(&trigger, &n); err != nil {
			return nil, err
		}
		counts[automation.Trigger(trigger)] = n
	}
	return counts, rows.Err()
}

// Prune deletes runs older than the cutoff and returns how many went.
func (s *RunStore) Prune(olderThan time.Time) (int64, error) {
	res, err := s.db.conn.Exec(`DELETE FROM automation_runs WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
