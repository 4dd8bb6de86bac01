package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/dbx"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

// PostgresRepository needs a *sql.DB rather than a dbx.DBTX because
// SetAssignees opens its own transaction.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const taskColumns = `id, project_id, title, description, status, creator_id, created_at`

func (r *PostgresRepository) ListByProject(ctx context.Context, projectID int64) ([]*models.Task, error) {
	query :=
		`SELECT ` + taskColumns + ` FROM tasks
		 WHERE project_id = $1
		 ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Task, 0)
	byID := make(map[int64]*models.Task)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
		byID[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(result) == 0 {
		return result, nil
	}

	assignees, err := r.db.QueryContext(ctx,
		`SELECT a.task_id, a.user_id FROM task_assignees a
		 JOIN tasks t ON t.id = a.task_id
		 WHERE t.project_id = $1
		 ORDER BY a.task_id, a.user_id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer assignees.Close()

	for assignees.Next() {
		var taskID, userID int64
		if err := assignees.Scan(&taskID, &userID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if t, ok := byID[taskID]; ok {
			t.AssigneeIDs = append(t.AssigneeIDs, userID)
		}
	}
	if err := assignees.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	query :=
		`INSERT INTO tasks (project_id, title, description, status, creator_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, t.ProjectID, t.Title, t.Description, string(t.Status), nullable(t.CreatorID)).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if dbx.PgErrorCode(err) == dbx.PgForeignKeyViolation {
			return nil, common.NewNotFoundError("Project")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	t.AssigneeIDs = []int64{}

	return t, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := r.loadAssignees(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) Update(ctx context.Context, t *models.Task) (*models.Task, error) {
	query :=
		`UPDATE tasks SET title = $1, description = $2, status = $3
		 WHERE id = $4
		 RETURNING ` + taskColumns

	updated, err := scanTask(r.db.QueryRowContext(ctx, query, t.Title, t.Description, string(t.Status), t.ID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := r.loadAssignees(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
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

func (r *PostgresRepository) SetAssignees(ctx context.Context, taskID int64, userIDs []int64) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var locked int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM tasks WHERE id = $1 FOR UPDATE`, taskID).Scan(&locked)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("db error: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM task_assignees WHERE task_id = $1`, taskID); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		for _, userID := range userIDs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO task_assignees (task_id, user_id) VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`, taskID, userID)
			if err != nil {
				if dbx.PgErrorCode(err) == dbx.PgForeignKeyViolation {
					return common.NewNotFoundError("User")
				}
				return fmt.Errorf("db error: %w", err)
			}
		}
		return nil
	})
}

func (r *PostgresRepository) loadAssignees(ctx context.Context, t *models.Task) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM task_assignees WHERE task_id = $1 ORDER BY user_id`, t.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		t.AssigneeIDs = append(t.AssigneeIDs, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	t := &models.Task{AssigneeIDs: []int64{}}
	var status string
	var creator sql.NullInt64
	if err := s.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &status, &creator, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Status = models.TaskStatus(status)
	if creator.Valid {
		id := creator.Int64
		t.CreatorID = &id
	}
	return t, nil
}

func nullable(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
