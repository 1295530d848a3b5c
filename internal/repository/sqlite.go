package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sustainai/hazard-risk/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// :memory: databases are per-connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS hazards (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			type TEXT NOT NULL,
			risk INTEGER NOT NULL,
			location TEXT,
			country TEXT,
			details TEXT,
			severity TEXT,
			urgency TEXT,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			radius_km REAL,
			observed_at DATETIME,
			impacts TEXT,
			recommendations TEXT,
			archived_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_hazards_observed_at ON hazards(observed_at);
		CREATE INDEX IF NOT EXISTS idx_hazards_type ON hazards(type);
		CREATE INDEX IF NOT EXISTS idx_hazards_risk ON hazards(risk);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) Add(ctx context.Context, r *models.RiskRecord) error {
	impacts, err := json.Marshal(r.InfrastructureImpact)
	if err != nil {
		return fmt.Errorf("error encoding impacts: %w", err)
	}
	recs, err := json.Marshal(r.ResilienceRecommendations)
	if err != nil {
		return fmt.Errorf("error encoding recommendations: %w", err)
	}

	var observed any
	if !r.ObservedAt.IsZero() {
		observed = r.ObservedAt.UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO hazards (id, source, type, risk, location, country, details, severity, urgency,
			latitude, longitude, radius_km, observed_at, impacts, recommendations, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Source, string(r.Type), r.Risk, r.Location, r.Country, r.Details, r.Severity, r.Urgency,
		r.Lat, r.Lng, r.RadiusKm, observed, string(impacts), string(recs), time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("add %s: %w", r.ID, ErrDuplicate)
		}
		return fmt.Errorf("add %s: %w", r.ID, err)
	}
	return nil
}

func (s *SQLiteDB) GetByID(ctx context.Context, id string) (*models.RiskRecord, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return r, nil
}

func (s *SQLiteDB) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM hazards WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", id, err)
	}
	return exists, nil
}

func (s *SQLiteDB) List(ctx context.Context, opts Filter) ([]models.RiskRecord, error) {
	var (
		where []string
		args  []any
	)

	if opts.Since != nil {
		where = append(where, "observed_at >= ?")
		args = append(args, opts.Since.UTC())
	}
	if opts.Type != nil {
		where = append(where, "type = ?")
		args = append(args, string(*opts.Type))
	}
	if opts.MinRisk != nil {
		where = append(where, "risk >= ?")
		args = append(args, *opts.MinRisk)
	}
	if opts.Source != "" {
		where = append(where, "source = ?")
		args = append(args, opts.Source)
	}

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY archived_at DESC, risk DESC, id"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list hazards: %w", err)
	}
	defer rows.Close()

	var records []models.RiskRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hazard: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

func (s *SQLiteDB) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hazards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count hazards: %w", err)
	}
	return n, nil
}

const selectColumns = `
	SELECT id, source, type, risk, location, country, details, severity, urgency,
		latitude, longitude, radius_km, observed_at, impacts, recommendations
	FROM hazards`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.RiskRecord, error) {
	var (
		r                        models.RiskRecord
		typ                      string
		location, country        sql.NullString
		details, severity        sql.NullString
		urgency                  sql.NullString
		radius                   sql.NullFloat64
		observed                 sql.NullTime
		impacts, recommendations sql.NullString
	)

	err := row.Scan(&r.ID, &r.Source, &typ, &r.Risk, &location, &country, &details, &severity, &urgency,
		&r.Lat, &r.Lng, &radius, &observed, &impacts, &recommendations)
	if err != nil {
		return nil, err
	}

	r.Type = models.HazardType(typ)
	r.Location = location.String
	r.Country = country.String
	r.Details = details.String
	r.Severity = severity.String
	r.Urgency = urgency.String
	if radius.Valid {
		v := radius.Float64
		r.RadiusKm = &v
	}
	if observed.Valid {
		r.ObservedAt = observed.Time.UTC()
		r.Time = models.FormatTime(r.ObservedAt)
	}
	if impacts.Valid && impacts.String != "" {
		if err := json.Unmarshal([]byte(impacts.String), &r.InfrastructureImpact); err != nil {
			return nil, fmt.Errorf("decode impacts: %w", err)
		}
	}
	if recommendations.Valid && recommendations.String != "" {
		if err := json.Unmarshal([]byte(recommendations.String), &r.ResilienceRecommendations); err != nil {
			return nil, fmt.Errorf("decode recommendations: %w", err)
		}
	}
	return &r, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
