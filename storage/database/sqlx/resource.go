package sqlxdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/resource"
)

type (
	resourceRepository struct {
		db *sqlx.DB
	}

	row struct {
		ID        string    `db:"id"`
		Data      []byte    `db:"data"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
)

var _ resource.Repository = (*resourceRepository)(nil)

func NewResourceRepository(db *sqlx.DB) resource.Repository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) QueryAll(ctx context.Context, collection string) ([]resource.Resource, error) {
	var rows []row
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, data, created_at, updated_at FROM resource WHERE collection = $1 ORDER BY created_at`, collection)
	if err != nil {
		return nil, errors.Wrap(err, "querying resources")
	}

	res := make([]resource.Resource, 0, len(rows))
	for _, rw := range rows {
		item, err := rw.toResource()
		if err != nil {
			return nil, err
		}
		res = append(res, item)
	}
	return res, nil
}

func (r *resourceRepository) Get(ctx context.Context, collection, id string) (resource.Resource, error) {
	var rw row
	err := r.db.GetContext(ctx, &rw,
		`SELECT id, data, created_at, updated_at FROM resource WHERE collection = $1 AND id = $2`, collection, id)
	if err == sql.ErrNoRows {
		return resource.Resource{}, resource.ErrNotFound
	}
	if err != nil {
		return resource.Resource{}, errors.Wrap(err, "getting resource")
	}
	return rw.toResource()
}

func (r *resourceRepository) Create(ctx context.Context, collection string, fields map[string]interface{}) (resource.Resource, error) {
	now := time.Now().UTC()
	id := uuid.New().String()

	stored := make(map[string]interface{}, len(fields)+3)
	for k, v := range fields {
		stored[k] = v
	}
	stored["id"] = id
	stored["createdAt"] = now.Format(time.RFC3339Nano)
	stored["updatedAt"] = now.Format(time.RFC3339Nano)

	data, err := json.Marshal(stored)
	if err != nil {
		return resource.Resource{}, errors.Wrap(err, "marshaling resource")
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO resource (id, collection, data, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		id, collection, data, now, now)
	if err != nil {
		return resource.Resource{}, errors.Wrap(err, "creating resource")
	}
	return resource.Resource{ID: id, Fields: stored, CreatedAt: now, UpdatedAt: now}, nil
}

func (r *resourceRepository) Update(ctx context.Context, collection, id string, fields map[string]interface{}) (resource.Resource, error) {
	item, err := r.Get(ctx, collection, id)
	if err != nil {
		return resource.Resource{}, err
	}

	now := time.Now().UTC()
	for k, v := range fields {
		item.Fields[k] = v
	}
	item.Fields["id"] = id
	item.Fields["updatedAt"] = now.Format(time.RFC3339Nano)

	data, err := json.Marshal(item.Fields)
	if err != nil {
		return resource.Resource{}, errors.Wrap(err, "marshaling resource")
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE resource SET data = $1, updated_at = $2 WHERE collection = $3 AND id = $4`,
		data, now, collection, id)
	if err != nil {
		return resource.Resource{}, errors.Wrap(err, "updating resource")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return resource.Resource{}, resource.ErrNotFound
	}
	item.UpdatedAt = now
	return item, nil
}

func (r *resourceRepository) Delete(ctx context.Context, collection, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM resource WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return errors.Wrap(err, "deleting resource")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return resource.ErrNotFound
	}
	return nil
}

func (rw row) toResource() (resource.Resource, error) {
	fields := make(map[string]interface{})
	if err := json.Unmarshal(rw.Data, &fields); err != nil {
		return resource.Resource{}, errors.Wrap(err, "unmarshaling resource data")
	}
	return resource.Resource{
		ID:        rw.ID,
		Fields:    fields,
		CreatedAt: rw.CreatedAt,
		UpdatedAt: rw.UpdatedAt,
	}, nil
}
