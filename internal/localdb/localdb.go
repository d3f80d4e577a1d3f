// Package localdb provides a SQLite profile store for local runs.
package localdb

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mycv/cvgen/internal/types"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const dateLayout = "2006-01-02"

// DB is a profile store backed by a SQLite file.
type DB struct {
	db *sql.DB
}

// Open opens (and creates when missing) the database file at path.
// The special path ":memory:" opens a private in-memory database.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// Every connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Migrate creates the profile tables if they do not exist.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// LoadProfile loads the profile of an owner in one read transaction.
func (d *DB) LoadProfile(ctx context.Context, ownerID uuid.UUID) (*types.ProfileSnapshot, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	owner := ownerID.String()
	p := &types.ProfileSnapshot{OwnerID: ownerID}
	err = tx.QueryRowContext(ctx,
		`SELECT job_title, bio, picture_key FROM profiles WHERE owner_id = ?`, owner,
	).Scan(&p.JobTitle, &p.Bio, &p.PictureKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: owner %s", types.ErrProfileNotFound, ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if p.Account, err = loadAccount(ctx, tx, owner); err != nil {
		return nil, err
	}
	if p.WorkExperiences, err = loadWorkExperiences(ctx, tx, owner); err != nil {
		return nil, err
	}
	if p.Education, err = loadEducation(ctx, tx, owner); err != nil {
		return nil, err
	}
	if p.Projects, err = loadProjects(ctx, tx, owner); err != nil {
		return nil, err
	}
	if p.Skills, err = loadSkills(ctx, tx, owner); err != nil {
		return nil, err
	}
	return p, nil
}

func loadAccount(ctx context.Context, tx *sql.Tx, owner string) (*types.AccountDetails, error) {
	var a types.AccountDetails
	var birthday sql.NullString
	err := tx.QueryRowContext(ctx,
		`SELECT first_name, last_name, email, phone, birthday, street, house_number,
		        postcode, city, country, language
		 FROM account_details WHERE owner_id = ?`, owner,
	).Scan(&a.FirstName, &a.LastName, &a.Email, &a.Phone, &birthday, &a.Street, &a.HouseNumber,
		&a.Postcode, &a.City, &a.Country, &a.Language)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account details: %w", err)
	}
	if birthday.Valid {
		if a.Birthday, err = time.Parse(dateLayout, birthday.String); err != nil {
			return nil, fmt.Errorf("invalid birthday %q: %w", birthday.String, err)
		}
	}
	return &a, nil
}

func loadWorkExperiences(ctx context.Context, tx *sql.Tx, owner string) ([]types.WorkExperience, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, job_title, company, location, start_date, end_date, description
		 FROM work_experiences WHERE owner_id = ?
		 ORDER BY start_date DESC, id`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load work experiences: %w", err)
	}
	defer rows.Close()

	items := []types.WorkExperience{}
	for rows.Next() {
		var w types.WorkExperience
		var start string
		var end sql.NullString
		if err := rows.Scan(&w.ID, &w.JobTitle, &w.Company, &w.Location, &start, &end, &w.Description); err != nil {
			return nil, fmt.Errorf("failed to scan work experience: %w", err)
		}
		if w.Start, w.End, err = parsePeriod(start, end); err != nil {
			return nil, fmt.Errorf("work experience %d: %w", w.ID, err)
		}
		items = append(items, w)
	}
	return items, rows.Err()
}

func loadEducation(ctx context.Context, tx *sql.Tx, owner string) ([]types.Education, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, institution, location, degree_name, start_date, end_date, description
		 FROM education WHERE owner_id = ?
		 ORDER BY start_date DESC, id`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load education: %w", err)
	}
	defer rows.Close()

	items := []types.Education{}
	for rows.Next() {
		var e types.Education
		var start string
		var end sql.NullString
		if err := rows.Scan(&e.ID, &e.Institution, &e.Location, &e.DegreeName, &start, &end, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		if e.Start, e.End, err = parsePeriod(start, end); err != nil {
			return nil, fmt.Errorf("education %d: %w", e.ID, err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func loadProjects(ctx context.Context, tx *sql.Tx, owner string) ([]types.Project, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, name, role, description, start_date, end_date
		 FROM projects WHERE owner_id = ?
		 ORDER BY start_date DESC, id`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	defer rows.Close()

	items := []types.Project{}
	index := make(map[types.ItemID]int)
	for rows.Next() {
		var p types.Project
		var start string
		var end sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Role, &p.Description, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		if p.Start, p.End, err = parsePeriod(start, end); err != nil {
			return nil, fmt.Errorf("project %d: %w", p.ID, err)
		}
		index[p.ID] = len(items)
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	links, err := tx.QueryContext(ctx,
		`SELECT project_id, url, display_name, type
		 FROM project_links WHERE owner_id = ?
		 ORDER BY project_id, position`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load project links: %w", err)
	}
	defer links.Close()

	for links.Next() {
		var projectID types.ItemID
		var l types.ProjectLink
		if err := links.Scan(&projectID, &l.URL, &l.DisplayName, &l.Type); err != nil {
			return nil, fmt.Errorf("failed to scan project link: %w", err)
		}
		if i, ok := index[projectID]; ok {
			items[i].Links = append(items[i].Links, l)
		}
	}
	return items, links.Err()
}

func loadSkills(ctx context.Context, tx *sql.Tx, owner string) ([]types.Skill, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, name, type, level FROM skills WHERE owner_id = ? ORDER BY id`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}
	defer rows.Close()

	items := []types.Skill{}
	for rows.Next() {
		var s types.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Type, &s.Level); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// SaveProfile replaces the stored profile of p.OwnerID with p.
func (d *DB) SaveProfile(ctx context.Context, p *types.ProfileSnapshot) error {
	if p.OwnerID == uuid.Nil {
		return errors.New("profile has no owner")
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	owner := p.OwnerID.String()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (owner_id, job_title, bio, picture_key) VALUES (?, ?, ?, ?)
		 ON CONFLICT (owner_id) DO UPDATE SET
		     job_title = excluded.job_title, bio = excluded.bio,
		     picture_key = excluded.picture_key, updated_at = datetime('now')`,
		owner, p.JobTitle, p.Bio, p.PictureKey)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	for _, table := range []string{"account_details", "work_experiences", "education", "projects", "skills"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE owner_id = ?", owner); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if a := p.Account; a != nil {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO account_details (owner_id, first_name, last_name, email, phone, birthday,
			     street, house_number, postcode, city, country, language)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			owner, a.FirstName, a.LastName, a.Email, a.Phone, formatDate(a.Birthday),
			a.Street, a.HouseNumber, a.Postcode, a.City, a.Country, a.Language)
		if err != nil {
			return fmt.Errorf("failed to save account details: %w", err)
		}
	}

	for _, w := range p.WorkExperiences {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO work_experiences (owner_id, id, job_title, company, location, start_date, end_date, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			owner, int64(w.ID), w.JobTitle, w.Company, w.Location, formatDate(w.Start), formatEnd(w.End), w.Description)
		if err != nil {
			return fmt.Errorf("failed to save work experience %d: %w", w.ID, err)
		}
	}

	for _, e := range p.Education {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO education (owner_id, id, institution, location, degree_name, start_date, end_date, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			owner, int64(e.ID), e.Institution, e.Location, e.DegreeName, formatDate(e.Start), formatEnd(e.End), e.Description)
		if err != nil {
			return fmt.Errorf("failed to save education %d: %w", e.ID, err)
		}
	}

	for _, pr := range p.Projects {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO projects (owner_id, id, name, role, description, start_date, end_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			owner, int64(pr.ID), pr.Name, pr.Role, pr.Description, formatDate(pr.Start), formatEnd(pr.End))
		if err != nil {
			return fmt.Errorf("failed to save project %d: %w", pr.ID, err)
		}
		for i, l := range pr.Links {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO project_links (owner_id, project_id, position, url, display_name, type)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				owner, int64(pr.ID), i, l.URL, l.DisplayName, l.Type)
			if err != nil {
				return fmt.Errorf("failed to save link of project %d: %w", pr.ID, err)
			}
		}
	}

	for _, s := range p.Skills {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO skills (owner_id, id, name, type, level) VALUES (?, ?, ?, ?, ?)`,
			owner, int64(s.ID), s.Name, s.Type, s.Level)
		if err != nil {
			return fmt.Errorf("failed to save skill %d: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit profile: %w", err)
	}
	return nil
}

// formatDate returns nil for the zero time so the column stays NULL.
func formatDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(dateLayout)
}

func formatEnd(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatDate(*t)
}

func parsePeriod(start string, end sql.NullString) (time.Time, *time.Time, error) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	if !end.Valid {
		return s, nil, nil
	}
	e, err := time.Parse(dateLayout, end.String)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid end date %q: %w", end.String, err)
	}
	return s, &e, nil
}
