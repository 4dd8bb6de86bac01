package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/dbx"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]*models.Project, error) {
	query :=
		`SELECT id, title, description, owner_id, created_at FROM projects
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	query :=
		`INSERT INTO projects (title, description, owner_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`

	var owner sql.NullInt64
	if p.OwnerID != nil {
		owner = sql.NullInt64{Int64: *p.OwnerID, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query, p.Title, p.Description, owner).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if dbx.PgErrorCode(err) == dbx.PgForeignKeyViolation {
			return nil, common.NewNotFoundError("User")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	query :=
		`SELECT id, title, description, owner_id, created_at FROM projects
		 WHERE id = $1`

	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// Delete relies on ON DELETE CASCADE for tasks, comments, attachments and
// assignments.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*models.Project, error) {
	p := &models.Project{}
	var owner sql.NullInt64
	if err := s.Scan(&p.ID, &p.Title, &p.Description, &owner, &p.CreatedAt); err != nil {
		return nil, err
	}
	if owner.Valid {
		id := owner.Int64
		p.OwnerID = &id
	}
	return p, nil
}
