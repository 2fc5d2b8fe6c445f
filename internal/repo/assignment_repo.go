package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"

	"github.com/simcheck/simcheck/internal/model"
	appErr "github.com/simcheck/simcheck/internal/pkg/errors"
)

type AssignmentRepo struct {
	db *sqlx.DB
}

func NewAssignmentRepo(db *sqlx.DB) *AssignmentRepo {
	return &AssignmentRepo{db: db}
}

func (r *AssignmentRepo) Create(ctx context.Context, a *model.Assignment) error {
	data := map[string]interface{}{
		"id":        a.ID,
		"title":     a.Title,
		"filename":  a.Filename,
		"file_path": a.FilePath,
		"ext":       a.Ext,
		"size":      a.Size,
		"ctime":     a.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("assignments", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *AssignmentRepo) Get(ctx context.Context, id string) (*model.Assignment, error) {
	var a model.Assignment
	err := r.db.GetContext(ctx, &a, "SELECT id, title, filename, file_path, ext, size, ctime FROM assignments WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByIDs keeps the order of the requested ids in its result.
func (r *AssignmentRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.Assignment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT id, title, filename, file_path, ext, size, ctime FROM assignments WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	var rows []model.Assignment
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Assignment, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	out := make([]*model.Assignment, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *AssignmentRepo) List(ctx context.Context) ([]*model.Assignment, error) {
	var rows []model.Assignment
	err := r.db.SelectContext(ctx, &rows, "SELECT id, title, filename, file_path, ext, size, ctime FROM assignments ORDER BY ctime DESC")
	if err != nil {
		return nil, err
	}
	out := make([]*model.Assignment, 0, len(rows))
	for i := range rows {
		out = append(out, &rows[i])
	}
	return out, nil
}

func (r *AssignmentRepo) Delete(ctx context.Context, id string) error {
	sqlStr, args, err := builder.BuildDelete("assignments", map[string]interface{}{"id": id})
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}
