package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mycv/cvgen/internal/types"
	"golang.org/x/sync/errgroup"
)

// LoadProfile loads the profile, account details and all CV collections of an owner.
// A profile without account details is returned with a nil Account.
func (db *DB) LoadProfile(ctx context.Context, ownerID uuid.UUID) (*types.ProfileSnapshot, error) {
	p := &types.ProfileSnapshot{OwnerID: ownerID}
	err := db.pool.QueryRow(ctx,
		`SELECT job_title, bio, picture_key FROM profiles WHERE owner_id = $1`,
		ownerID,
	).Scan(&p.JobTitle, &p.Bio, &p.PictureKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: owner %s", types.ErrProfileNotFound, ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		account, err := db.loadAccount(gCtx, ownerID)
		p.Account = account
		return err
	})
	g.Go(func() error {
		items, err := db.loadWorkExperiences(gCtx, ownerID)
		p.WorkExperiences = items
		return err
	})
	g.Go(func() error {
		items, err := db.loadEducation(gCtx, ownerID)
		p.Education = items
		return err
	})
	g.Go(func() error {
		items, err := db.loadProjects(gCtx, ownerID)
		p.Projects = items
		return err
	})
	g.Go(func() error {
		items, err := db.loadSkills(gCtx, ownerID)
		p.Skills = items
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}

func (db *DB) loadAccount(ctx context.Context, ownerID uuid.UUID) (*types.AccountDetails, error) {
	var a types.AccountDetails
	var birthday *time.Time
	err := db.pool.QueryRow(ctx,
		`SELECT first_name, last_name, email, phone, birthday, street, house_number,
		        postcode, city, country, language
		 FROM account_details WHERE owner_id = $1`,
		ownerID,
	).Scan(&a.FirstName, &a.LastName, &a.Email, &a.Phone, &birthday, &a.Street, &a.HouseNumber,
		&a.Postcode, &a.City, &a.Country, &a.Language)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account details: %w", err)
	}
	if birthday != nil {
		a.Birthday = *birthday
	}
	return &a, nil
}

func (db *DB) loadWorkExperiences(ctx context.Context, ownerID uuid.UUID) ([]types.WorkExperience, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_title, company, location, start_date, end_date, description
		 FROM work_experiences WHERE owner_id = $1
		 ORDER BY start_date DESC, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load work experiences: %w", err)
	}
	defer rows.Close()

	items := []types.WorkExperience{}
	for rows.Next() {
		var w types.WorkExperience
		if err := rows.Scan(&w.ID, &w.JobTitle, &w.Company, &w.Location, &w.Start, &w.End, &w.Description); err != nil {
			return nil, fmt.Errorf("failed to scan work experience: %w", err)
		}
		items = append(items, w)
	}
	return items, rows.Err()
}

func (db *DB) loadEducation(ctx context.Context, ownerID uuid.UUID) ([]types.Education, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, institution, location, degree_name, start_date, end_date, description
		 FROM education WHERE owner_id = $1
		 ORDER BY start_date DESC, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load education: %w", err)
	}
	defer rows.Close()

	items := []types.Education{}
	for rows.Next() {
		var e types.Education
		if err := rows.Scan(&e.ID, &e.Institution, &e.Location, &e.DegreeName, &e.Start, &e.End, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (db *DB) loadProjects(ctx context.Context, ownerID uuid.UUID) ([]types.Project, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, role, description, start_date, end_date
		 FROM projects WHERE owner_id = $1
		 ORDER BY start_date DESC, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	defer rows.Close()

	items := []types.Project{}
	index := make(map[types.ItemID]int)
	for rows.Next() {
		var p types.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Role, &p.Description, &p.Start, &p.End); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		index[p.ID] = len(items)
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	links, err := db.pool.Query(ctx,
		`SELECT project_id, url, display_name, type
		 FROM project_links WHERE owner_id = $1
		 ORDER BY project_id, position`,
		ownerID,
	)
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

func (db *DB) loadSkills(ctx context.Context, ownerID uuid.UUID) ([]types.Skill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, type, level FROM skills WHERE owner_id = $1 ORDER BY id`,
		ownerID,
	)
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
func (db *DB) SaveProfile(ctx context.Context, p *types.ProfileSnapshot) error {
	if p.OwnerID == uuid.Nil {
		return errors.New("profile has no owner")
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (owner_id, job_title, bio, picture_key)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (owner_id) DO UPDATE SET
		     job_title = $2, bio = $3, picture_key = $4, updated_at = NOW()`,
		p.OwnerID, p.JobTitle, p.Bio, p.PictureKey,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	// Collections are replaced wholesale; project links cascade with their projects.
	for _, table := range []string{"account_details", "work_experiences", "education", "projects", "skills"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE owner_id = $1", p.OwnerID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if a := p.Account; a != nil {
		_, err = tx.Exec(ctx,
			`INSERT INTO account_details (owner_id, first_name, last_name, email, phone, birthday,
			     street, house_number, postcode, city, country, language)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			p.OwnerID, a.FirstName, a.LastName, a.Email, a.Phone, nullIfZero(a.Birthday),
			a.Street, a.HouseNumber, a.Postcode, a.City, a.Country, a.Language,
		)
		if err != nil {
			return fmt.Errorf("failed to save account details: %w", err)
		}
	}

	for _, w := range p.WorkExperiences {
		_, err = tx.Exec(ctx,
			`INSERT INTO work_experiences (owner_id, id, job_title, company, location, start_date, end_date, description)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.OwnerID, w.ID, w.JobTitle, w.Company, w.Location, w.Start, w.End, w.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to save work experience %d: %w", w.ID, err)
		}
	}

	for _, e := range p.Education {
		_, err = tx.Exec(ctx,
			`INSERT INTO education (owner_id, id, institution, location, degree_name, start_date, end_date, description)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.OwnerID, e.ID, e.Institution, e.Location, e.DegreeName, e.Start, e.End, e.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to save education %d: %w", e.ID, err)
		}
	}

	for _, pr := range p.Projects {
		_, err = tx.Exec(ctx,
			`INSERT INTO projects (owner_id, id, name, role, description, start_date, end_date)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.OwnerID, pr.ID, pr.Name, pr.Role, pr.Description, pr.Start, pr.End,
		)
		if err != nil {
			return fmt.Errorf("failed to save project %d: %w", pr.ID, err)
		}
		for i, l := range pr.Links {
			_, err = tx.Exec(ctx,
				`INSERT INTO project_links (owner_id, project_id, position, url, display_name, type)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				p.OwnerID, pr.ID, i, l.URL, l.DisplayName, l.Type,
			)
			if err != nil {
				return fmt.Errorf("failed to save link of project %d: %w", pr.ID, err)
			}
		}
	}

	for _, s := range p.Skills {
		_, err = tx.Exec(ctx,
			`INSERT INTO skills (owner_id, id, name, type, level) VALUES ($1, $2, $3, $4, $5)`,
			p.OwnerID, s.ID, s.Name, s.Type, s.Level,
		)
		if err != nil {
			return fmt.Errorf("failed to save skill %d: %w", s.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit profile: %w", err)
	}
	return nil
}

func nullIfZero(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
