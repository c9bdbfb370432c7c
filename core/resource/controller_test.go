package resource

import (
	"context"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/services/notify"
)

// fakeBackend counts requests so tests can assert that gated operations
// never reach the network.
type fakeBackend struct {
	mu sync.Mutex

	items   []Resource
	listErr error

	createErr error
	updateErr error
	deleteErr error

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int

	// onList, when set, overrides the default List behavior per call.
	onList func(call int) ([]Resource, error)
}

func (b *fakeBackend) List(_ context.Context, _ string, _ url.Values) ([]Resource, error) {
	b.mu.Lock()
	b.listCalls++
	call := b.listCalls
	onList := b.onList
	items, err := b.items, b.listErr
	b.mu.Unlock()

	if onList != nil {
		return onList(call)
	}
	return items, err
}

func (b *fakeBackend) Create(_ context.Context, _ string, body map[string]interface{}) (Resource, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createCalls++
	if b.createErr != nil {
		return Resource{}, b.createErr
	}
	item := FromMap(body)
	b.items = append(b.items, item)
	return item, nil
}

func (b *fakeBackend) Update(_ context.Context, _, _ string, _ map[string]interface{}) (Resource, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updateCalls++
	if b.updateErr != nil {
		return Resource{}, b.updateErr
	}
	return Resource{}, nil
}

func (b *fakeBackend) Delete(_ context.Context, _, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleteCalls++
	if b.deleteErr != nil {
		return b.deleteErr
	}
	kept := make([]Resource, 0, len(b.items))
	for _, item := range b.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	b.items = kept
	return nil
}

func newTestController(backend Backend, confirm func(string) bool) (*Controller, *notifysvc.DummyService) {
	notifier := notifysvc.NewDummyService()
	ctrl := NewController(&Options{
		Schema:   filterSchema,
		Backend:  backend,
		Notifier: notifier,
		Confirm:  confirm,
	})
	return ctrl, notifier
}

func TestController_loadReplacesSnapshotWholesale(t *testing.T) {
	backend := &fakeBackend{items: filterItems()}
	ctrl, _ := newTestController(backend, nil)

	require.NoError(t, ctrl.Load(context.Background()))
	assert.Len(t, ctrl.Items(), 2)
	assert.False(t, ctrl.Loading())
	assert.NoError(t, ctrl.Err())

	backend.mu.Lock()
	backend.items = backend.items[:1]
	backend.mu.Unlock()

	require.NoError(t, ctrl.Load(context.Background()))
	assert.Len(t, ctrl.Items(), 1)
}

func TestController_loadFailureLeavesItemsUntouched(t *testing.T) {
	backend := &fakeBackend{items: filterItems()}
	ctrl, notifier := newTestController(backend, nil)
	require.NoError(t, ctrl.Load(context.Background()))

	backend.mu.Lock()
	backend.listErr = core.ErrUnavailable
	backend.mu.Unlock()

	err := ctrl.Load(context.Background())
	require.Error(t, err)
	assert.Len(t, ctrl.Items(), 2, "failed load must not clobber the snapshot")
	assert.False(t, ctrl.Loading(), "loading flag must clear on failure")
	assert.Error(t, ctrl.Err())
	assert.NotEmpty(t, notifier.Errors)
}

func TestController_createValidationGating(t *testing.T) {
	backend := &fakeBackend{}
	ctrl, notifier := newTestController(backend, nil)

	draft := NewDraft(filterSchema) // title is required
	err := ctrl.Create(context.Background(), draft)
	require.Error(t, err)

	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok, "want *core.ValidationError, got %T", err)
	assert.Equal(t, "title", vErr.Fields[0].Field)
	assert.Zero(t, backend.createCalls, "validation failure must not issue a request")
	assert.Zero(t, backend.listCalls, "validation failure must not refetch")
	assert.NotEmpty(t, notifier.Errors)
}

func TestController_createSuccessResetsDraftAndRefetches(t *testing.T) {
	backend := &fakeBackend{}
	ctrl, notifier := newTestController(backend, nil)

	draft := NewDraft(filterSchema)
	draft.SetField("title", "Algebra HW")
	draft.SetField("subject", "Math")

	require.NoError(t, ctrl.Create(context.Background(), draft))
	assert.Equal(t, 1, backend.createCalls)
	assert.Equal(t, 1, backend.listCalls, "success must trigger a refetch")
	assert.Nil(t, draft.Get("title"), "draft resets on success")
	assert.NotEmpty(t, notifier.Successes)

	// the refetched snapshot is exactly what the backend now returns
	assert.Len(t, ctrl.Items(), 1)
	assert.Equal(t, "Algebra HW", ctrl.Items()[0].Str("title"))
}

func TestController_failedCreatePreservesDraftAndList(t *testing.T) {
	backend := &fakeBackend{createErr: core.NewAPIError(400, "Duplicate code")}
	ctrl, notifier := newTestController(backend, nil)

	draft := NewDraft(filterSchema)
	draft.SetField("title", "Algebra HW")

	err := ctrl.Create(context.Background(), draft)
	require.Error(t, err)
	assert.Equal(t, "Algebra HW", draft.Get("title"), "draft survives a rejection")
	assert.Zero(t, backend.listCalls, "no refetch on failure")
	assert.Empty(t, ctrl.Items())
	require.NotEmpty(t, notifier.Errors)
	assert.Equal(t, "Duplicate code", notifier.Errors[0], "backend message surfaces verbatim")
}

func TestController_updateContract(t *testing.T) {
	backend := &fakeBackend{}
	ctrl, _ := newTestController(backend, nil)

	draft := NewDraft(filterSchema)
	draft.SetField("title", "Algebra HW v2")

	require.NoError(t, ctrl.Update(context.Background(), "a1", draft))
	assert.Equal(t, 1, backend.updateCalls)
	assert.Equal(t, 1, backend.listCalls)
}

func TestController_removeConfirmationGate(t *testing.T) {
	backend := &fakeBackend{items: filterItems()}

	t.Run("declined", func(t *testing.T) {
		declined := false
		ctrl, _ := newTestController(backend, func(string) bool { declined = true; return false })
		require.NoError(t, ctrl.Load(context.Background()))

		require.NoError(t, ctrl.Remove(context.Background(), "1"))
		assert.True(t, declined, "confirmation must be consulted")
		assert.Zero(t, backend.deleteCalls, "declining must not issue a DELETE")
		assert.Len(t, ctrl.Items(), 2, "declining leaves the list unchanged")
	})

	t.Run("nil confirm declines", func(t *testing.T) {
		ctrl, _ := newTestController(backend, nil)
		require.NoError(t, ctrl.Remove(context.Background(), "1"))
		assert.Zero(t, backend.deleteCalls)
	})

	t.Run("affirmed", func(t *testing.T) {
		ctrl, notifier := newTestController(backend, func(string) bool { return true })
		require.NoError(t, ctrl.Remove(context.Background(), "1"))
		assert.Equal(t, 1, backend.deleteCalls)
		assert.NotEmpty(t, notifier.Successes)
		assert.Len(t, ctrl.Items(), 1, "refetch converges with server state")
	})
}

func TestController_removeFailureKeepsItem(t *testing.T) {
	backend := &fakeBackend{items: filterItems(), deleteErr: core.NewAPIError(400, "item is referenced")}
	ctrl, notifier := newTestController(backend, func(string) bool { return true })
	require.NoError(t, ctrl.Load(context.Background()))

	err := ctrl.Remove(context.Background(), "1")
	require.Error(t, err)
	assert.Len(t, ctrl.Items(), 2, "list only changes via refetch")
	assert.NotEmpty(t, notifier.Errors)
}

func TestController_staleLoadCompletionIsDiscarded(t *testing.T) {
	stale := []Resource{FromMap(map[string]interface{}{"id": "old", "title": "stale"})}
	fresh := []Resource{FromMap(map[string]interface{}{"id": "new", "title": "fresh"})}

	firstEntered := make(chan struct{})
	release := make(chan struct{})
	backend := &fakeBackend{}
	backend.onList = func(call int) ([]Resource, error) {
		if call == 1 {
			close(firstEntered)
			<-release // complete after the second load already resolved
			return stale, nil
		}
		return fresh, nil
	}

	ctrl, _ := newTestController(backend, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = ctrl.Load(context.Background())
	}()
	<-firstEntered

	// second load issued while the first is still in flight
	require.NoError(t, ctrl.Load(context.Background()))
	assert.Equal(t, "new", ctrl.Items()[0].ID)

	close(release)
	wg.Wait()

	assert.Equal(t, "new", ctrl.Items()[0].ID, "stale completion must not overwrite newer state")
	assert.False(t, ctrl.Loading())
}

func TestController_itemsSnapshotIsCallerOwned(t *testing.T) {
	backend := &fakeBackend{items: filterItems()}
	ctrl, _ := newTestController(backend, nil)
	require.NoError(t, ctrl.Load(context.Background()))

	got := ctrl.Items()
	require.Len(t, got, 2)

	// reordering the returned slice must not touch the snapshot
	got[0], got[1] = got[1], got[0]

	fresh := ctrl.Items()
	require.Len(t, fresh, 2)
	assert.Equal(t, "1", fresh[0].ID, "snapshot keeps server order")
	assert.Equal(t, "2", fresh[1].ID)
}

func TestController_visibleItems(t *testing.T) {
	backend := &fakeBackend{items: filterItems()}
	ctrl, _ := newTestController(backend, nil)
	require.NoError(t, ctrl.Load(context.Background()))

	assert.Equal(t, ctrl.Items(), ctrl.VisibleItems(), "no criteria shows everything")

	ctrl.SetCriteria(Criteria{Search: "alg"})
	visible := ctrl.VisibleItems()
	require.Len(t, visible, 1)
	assert.Equal(t, "Algebra HW", visible[0].Str("title"))
	assert.Len(t, ctrl.Items(), 2, "criteria never mutate the snapshot")
}
