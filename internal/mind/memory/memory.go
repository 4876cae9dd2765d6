// Package memory persists conversational memories in SQLite with a resonance
// score. Recalling a memory reinforces it; Decay erodes everything else over
// time so stale memories sink below the floor and stop surfacing.
package memory

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS memories (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	content          TEXT    NOT NULL,
	tags             TEXT    NOT NULL DEFAULT '',
	resonance        REAL    NOT NULL,
	recall_count     INTEGER NOT NULL DEFAULT 0,
	created_at       TIMESTAMP NOT NULL,
	last_recalled_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_memories_resonance ON memories (resonance DESC);
`

// Entry is one stored memory.
type Entry struct {
	ID             int64
	Content        string
	Tags           []string
	Resonance      float64
	RecallCount    int
	CreatedAt      time.Time
	LastRecalledAt time.Time
}

// Stats summarizes the store.
type Stats struct {
	Count        int
	AvgResonance float64
	MaxResonance float64
}

// Params tunes recall behavior.
type Params struct {
	// ResonanceFloor hides memories below this score from Recall.
	ResonanceFloor float64
	// RecallBoost is added to a memory's resonance every time it is recalled.
	RecallBoost float64
}

// Store is a SQLite-backed memory store.
type Store struct {
	db     *sql.DB
	params Params
	now    func() time.Time
}

// NewStore opens (creating if needed) the memory database at path.
func NewStore(path string, params Params) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create memory dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply memory schema: %w", err)
	}
	if params.RecallBoost < 0 {
		params.RecallBoost = 0
	}
	return &Store{db: db, params: params, now: time.Now}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Remember stores a new memory with the given initial resonance.
func (s *Store) Remember(content string, tags []string, resonance float64) (int64, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0, fmt.Errorf("memory content is empty")
	}
	if resonance <= 0 {
		resonance = 1
	}
	res, err := s.db.Exec(
		`INSERT INTO memories (content, tags, resonance, created_at) VALUES (?, ?, ?, ?)`,
		content, strings.Join(tags, ","), resonance, s.now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert memory: %w", err)
	}
	return res.LastInsertId()
}

// Recall returns up to limit memories matching the query, strongest resonance
// first, skipping anything below the floor. Every returned memory is
// reinforced by RecallBoost, so recall shapes what survives.
func (s *Store) Recall(query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 5
	}
	like := "%" + strings.TrimSpace(query) + "%"
	rows, err := s.db.Query(
		`SELECT id, content, tags, resonance, recall_count, created_at, last_recalled_at
		   FROM memories
		  WHERE resonance >= ? AND (content LIKE ? OR tags LIKE ?)
		  ORDER BY resonance DESC, id DESC
		  LIMIT ?`,
		s.params.ResonanceFloor, like, like, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recall query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var tags string
		var last sql.NullTime
		if err := rows.Scan(&e.ID, &e.Content, &tags, &e.Resonance, &e.RecallCount, &e.CreatedAt, &last); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		if tags != "" {
			e.Tags = strings.Split(tags, ",")
		}
		if last.Valid {
			e.LastRecalledAt = last.Time
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if err := s.reinforce(out[i].ID, s.params.RecallBoost); err != nil {
			return nil, err
		}
		out[i].Resonance += s.params.RecallBoost
		out[i].RecallCount++
	}
	return out, nil
}

// Reinforce adds to one memory's resonance without counting as a recall.
func (s *Store) Reinforce(id int64, amount float64) error {
	res, err := s.db.Exec(`UPDATE memories SET resonance = resonance + ? WHERE id = ?`, amount, id)
	if err != nil {
		return fmt.Errorf("reinforce memory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("memory %d not found", id)
	}
	return nil
}

func (s *Store) reinforce(id int64, boost float64) error {
	_, err := s.db.Exec(
		`UPDATE memories SET resonance = resonance + ?, recall_count = recall_count + 1, last_recalled_at = ? WHERE id = ?`,
		boost, s.now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("reinforce on recall: %w", err)
	}
	return nil
}

// Decay multiplies every resonance by factor (0 < factor < 1) and prunes
// memories that fall below the floor. Returns how many were pruned.
func (s *Store) Decay(factor float64) (int64, error) {
	if factor <= 0 || factor >= 1 {
		return 0, fmt.Errorf("decay factor must be in (0, 1), got %v", factor)
	}
	if _, err := s.db.Exec(`UPDATE memories SET resonance = resonance * ?`, factor); err != nil {
		return 0, fmt.Errorf("decay memories: %w", err)
	}
	res, err := s.db.Exec(`DELETE FROM memories WHERE resonance < ?`, s.params.ResonanceFloor)
	if err != nil {
		return 0, fmt.Errorf("prune memories: %w", err)
	}
	return res.RowsAffected()
}

// Stats reports counts over the whole store, floor included.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	row := s.db.QueryRow(`SELECT COUNT(*), COALESCE(AVG(resonance), 0), COALESCE(MAX(resonance), 0) FROM memories`)
	if err := row.Scan(&st.Count, &st.AvgResonance, &st.MaxResonance); err != nil {
		return Stats{}, fmt.Errorf("memory stats: %w", err)
	}
	return st, nil
}
