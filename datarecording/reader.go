package datarecording

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
)

// ErrUnknownSession is returned when a recording holds no press of the
// requested session.
var ErrUnknownSession = errors.New("unknown session")

// A PressRange selects the presses From to To, both included. A zero To
// leaves the range open.
type PressRange struct {
	From uint64
	To   uint64
}

func (r PressRange) where() (string, []any) {
	if r.To == 0 {
		return "Press >= ?", []any{r.From}
	}

	return "Press BETWEEN ? AND ?", []any{r.From, r.To}
}

// A SessionSummary describes one session of a recording.
type SessionSummary struct {
	Session string
	Presses uint64
	First   uint64
	Last    uint64
	Low     uint64
	High    uint64
}

// A SenderCount is the number of recorded pulses sent by one module.
type SenderCount struct {
	Sender string
	Count  uint64
}

// A Reader answers questions about a recording.
type Reader struct {
	db *sql.DB
}

// Open opens an existing recording for reading.
func Open(path string) (*Reader, error) {
	filename := FileName(path)
	if _, err := os.Stat(filename); err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, err
	}

	return NewReaderWithDB(db), nil
}

// NewReaderWithDB creates a Reader over an open database.
func NewReaderWithDB(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// Close closes the database.
func (r *Reader) Close() error {
	return r.db.Close()
}

// Sessions lists the sessions of the recording in the order they started.
func (r *Reader) Sessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT Session, COUNT(*), MIN(Press), MAX(Press),
			COALESCE(SUM(Low), 0), COALESCE(SUM(High), 0)
		FROM `+PressTable+`
		GROUP BY Session
		ORDER BY MIN(rowid)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []SessionSummary
	for rows.Next() {
		s := SessionSummary{}
		err := rows.Scan(&s.Session, &s.Presses, &s.First, &s.Last,
			&s.Low, &s.High)
		if err != nil {
			return nil, err
		}

		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// Resolve checks that a session is recorded. An empty name resolves to the
// last session started.
func (r *Reader) Resolve(ctx context.Context, session string) (string, error) {
	var row *sql.Row
	if session == "" {
		row = r.db.QueryRowContext(ctx,
			"SELECT Session FROM "+PressTable+" ORDER BY rowid DESC LIMIT 1")
	} else {
		row = r.db.QueryRowContext(ctx,
			"SELECT Session FROM "+PressTable+" WHERE Session = ? LIMIT 1",
			session)
	}

	var found string
	err := row.Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w %q", ErrUnknownSession, session)
	}

	return found, err
}

// Presses returns the press records of a session within a range, in press
// order.
func (r *Reader) Presses(
	ctx context.Context,
	session string,
	presses PressRange,
) ([]PressRecord, error) {
	session, err := r.Resolve(ctx, session)
	if err != nil {
		return nil, err
	}

	where, args := presses.where()
	rows, err := r.db.QueryContext(ctx,
		"SELECT Session, Press, Low, High FROM "+PressTable+
			" WHERE Session = ? AND "+where+" ORDER BY Press",
		append([]any{session}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PressRecord
	for rows.Next() {
		p := PressRecord{}
		if err := rows.Scan(&p.Session, &p.Press, &p.Low, &p.High); err != nil {
			return nil, err
		}

		records = append(records, p)
	}

	return records, rows.Err()
}

// Tally sums the low and high pulses of a session within a range.
func (r *Reader) Tally(
	ctx context.Context,
	session string,
	presses PressRange,
) (low, high uint64, err error) {
	session, err = r.Resolve(ctx, session)
	if err != nil {
		return 0, 0, err
	}

	where, args := presses.where()
	err = r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(Low), 0), COALESCE(SUM(High), 0) FROM "+
			PressTable+" WHERE Session = ? AND "+where,
		append([]any{session}, args...)...).Scan(&low, &high)

	return low, high, err
}

// HighSenders counts the recorded high pulses of a session within a range by
// sender, in order of first pulse. It is empty when no pulse was recorded.
func (r *Reader) HighSenders(
	ctx context.Context,
	session string,
	presses PressRange,
) ([]SenderCount, error) {
	session, err := r.Resolve(ctx, session)
	if err != nil {
		return nil, err
	}

	recorded, err := r.hasTable(ctx, PulseTable)
	if err != nil || !recorded {
		return nil, err
	}

	where, args := presses.where()
	rows, err := r.db.QueryContext(ctx,
		"SELECT Sender, COUNT(*) FROM "+PulseTable+
			" WHERE Session = ? AND High = 1 AND "+where+
			" GROUP BY Sender ORDER BY MIN(rowid)",
		append([]any{session}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []SenderCount
	for rows.Next() {
		c := SenderCount{}
		if err := rows.Scan(&c.Sender, &c.Count); err != nil {
			return nil, err
		}

		counts = append(counts, c)
	}

	return counts, rows.Err()
}

func (r *Reader) hasTable(ctx context.Context, name string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?",
		name).Scan(&n)

	return n > 0, err
}
