package leads

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Pool is the pgx pool surface the store uses; pgxmock satisfies it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool, for setups where the lead
// table is shared with other tooling.
type PostgresStore struct {
	pool Pool
	now  func() time.Time
}

const postgresMigration = `
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
	followers         BIGINT,
	popularity_score  DOUBLE PRECISION NOT NULL DEFAULT 0,
	summary           TEXT,
	connection_note   TEXT,
	connect_sent      BOOLEAN NOT NULL DEFAULT FALSE,
	connection_status TEXT,
	date_added        TIMESTAMPTZ NOT NULL,
	last_updated      TIMESTAMPTZ NOT NULL
)`

// NewPostgres creates a PostgresStore with a connection pool and runs the
// migration.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "leads: postgres connect")
	}
	st := &PostgresStore{pool: pool, now: time.Now}
	if _, err := pool.Exec(ctx, postgresMigration); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "leads: postgres migrate")
	}
	return st, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool, now: time.Now}
}

const postgresUpsert = `
INSERT INTO leads (
	url, name, position, headline, location, about, experience, education,
	skills, followers, popularity_score, summary, connection_note,
	connect_sent, connection_status, date_added, last_updated
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
ON CONFLICT (url) DO UPDATE SET
	name = EXCLUDED.name,
	position = EXCLUDED.position,
	headline = EXCLUDED.headline,
	location = EXCLUDED.location,
	about = EXCLUDED.about,
	experience = EXCLUDED.experience,
	education = EXCLUDED.education,
	skills = EXCLUDED.skills,
	followers = EXCLUDED.followers,
	popularity_score = EXCLUDED.popularity_score,
	summary = EXCLUDED.summary,
	connection_note = EXCLUDED.connection_note,
	connect_sent = EXCLUDED.connect_sent,
	connection_status = EXCLUDED.connection_status,
	last_updated = EXCLUDED.last_updated
RETURNING (xmax = 0) AS inserted`

func (s *PostgresStore) Upsert(ctx context.Context, rec *model.LeadRecord) (model.UpsertResult, error) {
	key := model.NormalizeProfileURL(rec.URL)
	if key == "" {
		return "", eris.New("leads: record has no profile url")
	}
	rec.URL = key

	now := s.now().UTC()
	rec.LastUpdated = now
	if rec.DateAdded.IsZero() {
		rec.DateAdded = now
	}

	var inserted bool
	err := s.pool.QueryRow(ctx, postgresUpsert,
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
	).Scan(&inserted)
	if err != nil {
		return "", eris.Wrap(err, "leads: postgres upsert")
	}
	if inserted {
		return model.UpsertCreated, nil
	}
	return model.UpsertUpdated, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*model.LeadRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT url, name, position, headline, location, about, experience,
		       education, skills, followers, popularity_score, summary,
		       connection_note, connect_sent, connection_status,
		       date_added, last_updated
		FROM leads ORDER BY date_added`)
	if err != nil {
		return nil, eris.Wrap(err, "leads: postgres list")
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
	return out, eris.Wrap(rows.Err(), "leads: postgres list rows")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
