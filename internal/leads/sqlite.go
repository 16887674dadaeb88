package leads

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/outreach-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "leads: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "leads: sqlite exec %s", pragma)
		}
	}

	if _, err := db.Exec(sqliteMigration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "leads: sqlite migrate")
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	url               TEXT PRIMARY KEY,
	name              TEXT,
	position          TEXT,
	headline          TEXT,
	location          TEXT,
	about             TEXT,
	experience        TEXT,
	education         TEXT,
	skills            TEXT,
	followers         INTEGER,
	popularity_score  REAL NOT NULL DEFAULT 0,
	summary           TEXT,
	connection_note   TEXT,
	connect_sent      INTEGER NOT NULL DEFAULT 0,
	connection_status TEXT,
	date_added        DATETIME NOT NULL,
	last_updated      DATETIME NOT NULL
);
`

const sqliteUpsert = `
INSERT INTO leads (
	url, name, position, headline, location, about, experience, education,
	skills, followers, popularity_score, summary, connection_note,
	connect_sent, connection_status, date_added, last_updated
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(url) DO UPDATE SET
	name = excluded.name,
	position = excluded.position,
	headline = excluded.headline,
	location = excluded.location,
	about = excluded.about,
	experience = excluded.experience,
	education = excluded.education,
	skills = excluded.skills,
	followers = excluded.followers,
	popularity_score = excluded.popularity_score,
	summary = excluded.summary,
	connection_note = excluded.connection_note,
	connect_sent = excluded.connect_sent,
	connection_status = excluded.connection_status,
	last_updated = excluded.last_updated
`

func (s *SQLiteStore) Upsert(ctx context.Context, rec *model.LeadRecord) (model.UpsertResult, error) {
	key := model.NormalizeProfileURL(rec.URL)
	if key == "" {
		return "", eris.New("leads: record has no profile url")
	}
	rec.URL = key

	result := model.UpsertCreated
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads WHERE url = ?`, key).Scan(&exists)
	if err != nil {
		return "", eris.Wrap(err, "leads: sqlite lookup")
	}
	if exists > 0 {
		result = model.UpsertUpdated
	}

	now := s.now().UTC()
	rec.LastUpdated = now
	if rec.DateAdded.IsZero() {
		rec.DateAdded = now
	}

	_, err = s.db.ExecContext(ctx, sqliteUpsert,
		rec.URL,
		model.Deref(rec.Name),
		model.Deref(rec.Position),
		model.Deref(rec.Headline),
		model.Deref(rec.Location),
		model.Deref(rec.About),
		strings.Join(rec.Experiences, " | "),
		strings.Join(rec.Education, " | "),
		strings.Join(rec.Skills, " | "),
		nullableInt(rec.Followers),
		rec.PopularityScore,
		rec.Summary,
		rec.ConnectionNote,
		rec.ConnectSent,
		rec.ConnectionStatus,
		rec.DateAdded,
		rec.LastUpdated,
	)
	if err != nil {
		return "", eris.Wrap(err, "leads: sqlite upsert")
	}
	return result, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]*model.LeadRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, name, position, headline, location, about, experience,
		       education, skills, followers, popularity_score, summary,
		       connection_note, connect_sent, connection_status,
		       date_added, last_updated
		FROM leads ORDER BY date_added`)
	if err != nil {
		return nil, eris.Wrap(err, "leads: sqlite list")
	}
	defer rows.Close()

	var out []*model.LeadRecord
	for rows.Next() {
		rec, err := scanLead(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "leads: sqlite list rows")
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// scanLead builds a record from one leads row; shared column order with List.
func scanLead(scan func(dest ...any) error) (*model.LeadRecord, error) {
	var rec model.LeadRecord
	var name, position, headline, location, about sql.NullString
	var experience, education, skills sql.NullString
	var summary, note, status sql.NullString
	var followers sql.NullInt64
	err := scan(
		&rec.URL, &name, &position, &headline, &location, &about,
		&experience, &education, &skills, &followers,
		&rec.PopularityScore, &summary, &note, &rec.ConnectSent, &status,
		&rec.DateAdded, &rec.LastUpdated,
	)
	if err != nil {
		return nil, eris.Wrap(err, "leads: scan row")
	}

	rec.Name = model.StringPtr(name.String)
	rec.Position = model.StringPtr(position.String)
	rec.Headline = model.StringPtr(headline.String)
	rec.Location = model.StringPtr(location.String)
	rec.About = model.StringPtr(about.String)
	rec.Summary = summary.String
	rec.ConnectionNote = note.String
	rec.ConnectionStatus = status.String
	rec.Experiences = splitJoined(experience.String)
	rec.Education = splitJoined(education.String)
	rec.Skills = splitJoined(skills.String)
	if followers.Valid {
		n := int(followers.Int64)
		rec.Followers = &n
	}
	return &rec, nil
}

func splitJoined(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, " | ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
