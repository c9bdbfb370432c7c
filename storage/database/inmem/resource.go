package inmemdb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/resource"
)

type resourceRepository struct {
	db *DB
}

var _ resource.Repository = (*resourceRepository)(nil)

func NewResourceRepository(db *DB) resource.Repository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) QueryAll(_ context.Context, collection string) ([]resource.Resource, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	tbl, ok := r.db.lookup(collection)
	if !ok {
		return []resource.Resource{}, nil
	}
	res := make([]resource.Resource, 0, len(tbl.order))
	for _, id := range tbl.order {
		if item, ok := tbl.t[id]; ok {
			res = append(res, *item)
		}
	}
	return res, nil
}

func (r *resourceRepository) Get(_ context.Context, collection, id string) (resource.Resource, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	tbl, ok := r.db.lookup(collection)
	if !ok {
		return resource.Resource{}, resource.ErrNotFound
	}
	if item, ok := tbl.t[id]; ok {
		return *item, nil
	}
	return resource.Resource{}, resource.ErrNotFound
}

func (r *resourceRepository) Create(_ context.Context, collection string, fields map[string]interface{}) (resource.Resource, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	now := time.Now().UTC()
	id := uuid.New().String()

	stored := make(map[string]interface{}, len(fields)+3)
	for k, v := range fields {
		stored[k] = v
	}
	stored["id"] = id
	stored["createdAt"] = now.Format(time.RFC3339Nano)
	stored["updatedAt"] = now.Format(time.RFC3339Nano)

	item := resource.Resource{ID: id, Fields: stored, CreatedAt: now, UpdatedAt: now}
	tbl := r.db.table(collection)
	tbl.t[id] = &item
	tbl.order = append(tbl.order, id)
	return item, nil
}

func (r *resourceRepository) Update(_ context.Context, collection, id string, fields map[string]interface{}) (resource.Resource, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	tbl, found := r.db.lookup(collection)
	if !found {
		return resource.Resource{}, resource.ErrNotFound
	}
	item, ok := tbl.t[id]
	if !ok {
		return resource.Resource{}, resource.ErrNotFound
	}

	now := time.Now().UTC()
	for k, v := range fields {
		item.Fields[k] = v
	}
	item.Fields["id"] = id
	item.Fields["updatedAt"] = now.Format(time.RFC3339Nano)
	item.UpdatedAt = now
	return *item, nil
}

func (r *resourceRepository) Delete(_ context.Context, collection, id string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	tbl, found := r.db.lookup(collection)
	if !found {
		return resource.ErrNotFound
	}
	if _, ok := tbl.t[id]; !ok {
		return resource.ErrNotFound
	}
	delete(tbl.t, id)
	for i, oid := range tbl.order {
		if oid == id {
			tbl.order = append(tbl.order[:i], tbl.order[i+1:]...)
			break
		}
	}
	return nil
}
