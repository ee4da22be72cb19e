package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/kumarshubhh/Yuvamanthan/core/db"
	"github.com/kumarshubhh/Yuvamanthan/internal/model"
)

const usersTableName = "users"

var userColumns = []string{"id", "name", "avatar", "location"}

type userRow struct {
	ID       int64   `db:"id"`
	Name     string  `db:"name"`
	Avatar   *string `db:"avatar"`
	Location *string `db:"location"`
}

type userDirectory struct {
	db *db.DB
}

// NewUserDirectory reads author profiles from the upstream users table.
func NewUserDirectory(database *db.DB) UserDirectory {
	return &userDirectory{db: database}
}

func (d *userDirectory) Lookup(ctx context.Context, ids []int64) (map[int64]model.Author, error) {
	if len(ids) == 0 {
		return map[int64]model.Author{}, nil
	}

	query, args, err := lookupUsersQuery(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to generate users-by-ids query: %w", err)
	}

	var rows []userRow
	if err := pgxscan.Select(ctx, d.db.Pool(), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch users by ids: %w", err)
	}

	out := make(map[int64]model.Author, len(rows))
	for _, row := range rows {
		out[row.ID] = toAuthorModel(row)
	}
	return out, nil
}

func lookupUsersQuery(ids []int64) (string, []any, error) {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(userColumns...).
		From(usersTableName).
		Where(sq.Eq{"id": ids}).
		ToSql()
}

func toAuthorModel(row userRow) model.Author {
	a := model.Author{ID: row.ID, Name: row.Name}
	if row.Avatar != nil {
		a.Avatar = *row.Avatar
	}
	if row.Location != nil {
		a.Location = *row.Location
	}
	return a
}
