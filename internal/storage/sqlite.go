package storage

import (
	"database/sql"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	Close() error
}

// UsageRecord is one handled command. It never carries the command's arguments.
type UsageRecord struct {
	ChatID  int64
	UserID  int64
	Command string
	Outcome string
	TS      int64
}

// UsageStats aggregates records of one command.
type UsageStats struct {
	Count    int
	Outcomes map[string]int
}

type Store struct{ db DB }

func OpenSQLite(dsn string) (*sql.DB, error) {
	return sql.Open("sqlite3", dsn)
}

func InitSchema(db DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS command_usage(
		chat_id INTEGER, user_id INTEGER, command TEXT, outcome TEXT, ts INTEGER
	)`); err != nil {
		return err
	}
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_command_usage_ts ON command_usage(ts)`)
	return err
}

func NewStore(db DB) *Store { return &Store{db: db} }

func (s *Store) RecordUsage(r UsageRecord) error {
	_, err := s.db.Exec(`INSERT INTO command_usage(chat_id,user_id,command,outcome,ts) VALUES(?,?,?,?,?)`,
		r.ChatID, r.UserID, r.Command, r.Outcome, r.TS)
	return err
}

// UsageSince returns per-command stats for records with ts >= since.
func (s *Store) UsageSince(since int64) (map[string]*UsageStats, error) {
	rows, err := s.db.Query(`SELECT command, outcome, COUNT(*) FROM command_usage WHERE ts>=? GROUP BY command, outcome`,
		since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]*UsageStats{}
	for rows.Next() {
		var cmd, outcome string
		var n int
		if err := rows.Scan(&cmd, &outcome, &n); err != nil {
			return nil, err
		}
		st, ok := out[cmd]
		if !ok {
			st = &UsageStats{Outcomes: map[string]int{}}
			out[cmd] = st
		}
		st.Count += n
		st.Outcomes[outcome] += n
	}
	return out, rows.Err()
}
