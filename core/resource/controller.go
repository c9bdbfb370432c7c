package resource

import (
	"context"
	"sync"

	"github.com/trezcool/shule/core"
)

type (
	// Options configures a Controller.
	Options struct {
		Schema   Schema
		Backend  Backend
		Notifier core.Notifier
		Logger   core.Logger
		// Confirm is consulted before any delete is dispatched; a nil Confirm
		// declines everything, so no DELETE can ever be issued without an
		// explicit affirmation wired in.
		Confirm func(msg string) bool
	}

	// Controller is one page's CRUD surface over a single resource type:
	// fetch-on-mount, validated mutations, refetch-after-success and a pure
	// derived view. Pages hold one instance each; there is no cross-page
	// shared state.
	Controller struct {
		schema   Schema
		backend  Backend
		notifier core.Notifier
		log      core.Logger
		confirm  func(msg string) bool

		mu         sync.Mutex
		items      []Resource
		loading    bool
		submitting bool
		err        error
		criteria   Criteria
		// loadSeq tags each Load; completions that are not the most recent
		// in-flight load are discarded so a slow stale response can never
		// overwrite newer state.
		loadSeq uint64
	}
)

func NewController(opts *Options) *Controller {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Controller{
		schema:   opts.Schema,
		backend:  opts.Backend,
		notifier: notifier,
		log:      opts.Logger,
		confirm:  opts.Confirm,
	}
}

type noopNotifier struct{}

func (noopNotifier) Success(string) {}
func (noopNotifier) Error(string)   {}

// Schema returns the resource type this controller manages.
func (c *Controller) Schema() Schema { return c.schema }

// Items returns the current trusted snapshot of the collection, in server
// order. It is replaced wholesale by Load and never patched in place; the
// returned slice is the caller's to reorder or truncate.
func (c *Controller) Items() []Resource {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]Resource, len(c.items))
	copy(items, c.items)
	return items
}

// Loading reports whether a list fetch is in flight. It is tracked
// independently of Submitting so a slow refresh does not block form work.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Submitting reports whether a mutation is in flight.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Err returns the last fetch error, if the most recent Load failed.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller) Criteria() Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

func (c *Controller) SetCriteria(criteria Criteria) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = criteria
}

// VisibleItems computes the rows to render from the cached collection and
// the current criteria; same inputs always yield the same rows in the same
// relative order.
func (c *Controller) VisibleItems() []Resource {
	c.mu.Lock()
	items, criteria := c.items, c.criteria
	c.mu.Unlock()
	return criteria.Apply(c.schema, items)
}

// Load fetches the collection and replaces the cached snapshot wholesale on
// success. On failure the snapshot is left untouched and the error surfaced.
// Out-of-order completions of older loads are discarded.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	c.loading = true
	query := c.criteria.ServerQuery(c.schema)
	c.mu.Unlock()

	items, err := c.backend.List(ctx, c.schema.Endpoint, query)

	c.mu.Lock()
	if seq != c.loadSeq {
		// a newer load has been issued; it owns the loading flag and the
		// snapshot, so this completion is dropped on the floor
		c.mu.Unlock()
		return nil
	}
	c.loading = false
	if err != nil {
		c.err = err
		c.mu.Unlock()
		c.notifyErr(err)
		return err
	}
	c.err = nil
	c.items = items
	c.mu.Unlock()
	return nil
}

// Create validates the draft and POSTs it to the collection endpoint. On
// success the form is reset and the list refetched; on failure the draft is
// left intact so the user can correct and resubmit, and no refetch happens.
func (c *Controller) Create(ctx context.Context, draft *Draft) error {
	if err := draft.Validate(); err != nil {
		c.notifyErr(err)
		return err
	}
	body, err := draft.Payload()
	if err != nil {
		c.notifyErr(err)
		return err
	}

	c.setSubmitting(true)
	_, err = c.backend.Create(ctx, c.schema.Endpoint, body)
	c.setSubmitting(false)
	if err != nil {
		c.notifyErr(err)
		return err
	}

	c.notifier.Success(c.schema.Name + " created")
	draft.Reset()
	return c.Load(ctx)
}

// Update validates the draft and PUTs it to the item endpoint; same
// success/failure contract as Create.
func (c *Controller) Update(ctx context.Context, id string, draft *Draft) error {
	if err := draft.Validate(); err != nil {
		c.notifyErr(err)
		return err
	}
	body, err := draft.Payload()
	if err != nil {
		c.notifyErr(err)
		return err
	}

	c.setSubmitting(true)
	_, err = c.backend.Update(ctx, c.schema.Endpoint, id, body)
	c.setSubmitting(false)
	if err != nil {
		c.notifyErr(err)
		return err
	}

	c.notifier.Success(c.schema.Name + " updated")
	draft.Reset()
	return c.Load(ctx)
}

// Remove asks for confirmation and, only once affirmed, DELETEs the item and
// refetches. Declining leaves the list untouched and issues no request; the
// item also stays put on failure since the list is only ever mutated via
// refetch.
func (c *Controller) Remove(ctx context.Context, id string) error {
	if c.confirm == nil || !c.confirm("delete this "+c.schema.Name+"?") {
		return nil
	}

	c.setSubmitting(true)
	err := c.backend.Delete(ctx, c.schema.Endpoint, id)
	c.setSubmitting(false)
	if err != nil {
		c.notifyErr(err)
		return err
	}

	c.notifier.Success(c.schema.Name + " deleted")
	return c.Load(ctx)
}

func (c *Controller) setSubmitting(v bool) {
	c.mu.Lock()
	c.submitting = v
	c.mu.Unlock()
}

func (c *Controller) notifyErr(err error) {
	if c.log != nil {
		c.log.Debug(c.schema.Name+" operation failed", err)
	}
	c.notifier.Error(err.Error())
}
