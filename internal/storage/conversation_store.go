package storage

import (
	"time"

	"github.com/shootflow/shootflow/internal/core"
)

// ConversationStore logs classified questions so studios can audit what the
// assistant was asked and how it read those questions.
type ConversationStore struct {
	db *DB
}

// NewConversationStore creates a conversation store.
func NewConversationStore(db *DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// Exchange is one logged question.
type Exchange struct {
	ID         int64       `json:"id"`
	Question   string      `json:"question"`
	Intent     core.Intent `json:"intent"`
	Confidence float64     `json:"confidence"`
	Kit        core.Kit    `json:"kit,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Log records a question and how it was classified.
func (s *ConversationStore) Log(question string, resp core.AssistantResponse, kit core.Kit, at time.Time) error {
	_, err := s.db.conn.Exec(`
		INSERT INTO conversation_log (question, intent, confidence, kit, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, question, string(resp.Intent), resp.Confidence, string(kit), at)
	return err
}

// Recent returns the newest exchanges, newest first.
func (s *ConversationStore) Recent(limit int) ([]Exchange, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.conn.Query(`
		SELECT id, question, intent, confidence, kit, created_at
		FROM conversation_log
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exchanges := []Exchange{}
	for rows.Next() {
		var ex Exchange
		var intent, kit string
		if err := rows.Scan(&ex.ID, &ex.Question, &intent, &ex.Confidence, &kit, &ex.CreatedAt); err != nil {
			return nil, err
		}
		ex.Intent = core.Intent(intent)
		ex.Kit = core.Kit(kit)
		exchanges = append(exchanges, ex)
	}
	return exchanges, rows.Err()
}

// IntentCounts aggregates logged questions per intent, for the insights view.
func (s *ConversationStore) IntentCounts() (map[core.Intent]int, error) {
	rows, err := s.db.conn.Query(`
		SELECT intent, COUNT(*)
		FROM conversation_log
		GROUP BY intent
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[core.Intent]int{}
	for rows.Next() {
		var intent string
		var n int
		if err := rows.Scan(&intent, &n); err != nil {
			return nil, err
		}
		counts[core.Intent(intent)] = n
	}
	return counts, rows.Err()
}
