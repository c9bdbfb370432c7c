package testutil

import (
	"context"
	"testing"

	"github.com/trezcool/shule/core/resource"
)

// CreateResource seeds a repository with one record, failing the test on error.
func CreateResource(
	t *testing.T,
	repo resource.Repository,
	collection string,
	fields map[string]interface{},
) resource.Resource {
	t.Helper()
	res, err := repo.Create(context.Background(), collection, fields)
	if err != nil {
		t.Fatalf("CreateResource() failed: %v", err)
	}
	return res
}
