package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/userconsole/internal/client/api"
	"github.com/dmitrijs2005/userconsole/internal/client/models"
	"github.com/dmitrijs2005/userconsole/internal/logging"
	"github.com/samber/lo"
)

type ListState int

const (
	ListIdle ListState = iota
	ListLoading
	ListReady
	ListError
)

func (s ListState) String() string {
	switch s {
	case ListLoading:
		return "loading"
	case ListReady:
		return "ready"
	case ListError:
		return "error"
	}
	return "idle"
}

// ListSnapshot is a copy of the list controller state for rendering.
type ListSnapshot struct {
	State         ListState
	Items         []models.User
	Page          int
	TotalPages    int
	Total         int
	PendingDelete int // zero when nothing awaits confirmation
	Err           error
}

// UserListController drives the paginated user list.
type UserListController struct {
	mu sync.Mutex

	state      ListState
	items      []models.User
	page       int
	totalPages int
	total      int
	pending    int
	deleting   bool
	err        error
	gen        uint64

	client api.Client
	gate   Gate
	log    logging.Logger
}

func NewUserListController(client api.Client, gate Gate, log logging.Logger) *UserListController {
	return &UserListController{
		client: client,
		gate:   gate,
		log:    log.With("component", "userlist"),
	}
}

// LoadPage fetches page n and replaces the current items. n must be at least
// one and, once the page count is known, not beyond it; an out of range n
// returns ErrPageOutOfRange without any request.
func (c *UserListController) LoadPage(ctx context.Context, n int) error {
	if !c.gate.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	c.mu.Lock()
	if n < 1 || (c.totalPages > 0 && n > c.totalPages) {
		c.mu.Unlock()
		return ErrPageOutOfRange
	}
	if c.state == ListLoading || c.deleting {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = ListLoading
	c.pending = 0
	c.err = nil
	gen := c.gen
	c.mu.Unlock()

	c.log.Debug(ctx, "loading page", "page", n)
	res, err := c.client.ListUsers(ctx, n)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return ErrStale
	}

	if err != nil {
		c.state = ListError
		c.items = nil
		c.err = err
		c.log.Warn(ctx, "load page failed", "page", n, "error", err)
		return err
	}

	c.gen++
	c.state = ListReady
	c.items = append([]models.User(nil), res.Items...)
	c.page = res.Page
	// an empty result set still has one (empty) page
	c.totalPages = max(1, res.TotalPages)
	c.total = res.Total
	return nil
}

// NextPage loads the page after the current one.
func (c *UserListController) NextPage(ctx context.Context) error {
	return c.LoadPage(ctx, c.currentPage()+1)
}

// PrevPage loads the page before the current one.
func (c *UserListController) PrevPage(ctx context.Context) error {
	return c.LoadPage(ctx, c.currentPage()-1)
}

func (c *UserListController) currentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// RequestDelete marks id for deletion. The user must be on the current page.
func (c *UserListController) RequestDelete(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != ListReady {
		return ErrNotReady
	}
	if c.deleting {
		return ErrBusy
	}
	if _, ok := lo.Find(c.items, func(u models.User) bool { return u.ID == id }); !ok {
		return ErrUserNotOnPage
	}
	c.pending = id
	return nil
}

func (c *UserListController) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = 0
}

// ConfirmDelete deletes the pending user. On success exactly that user is
// removed from the current page without a refetch; the total count is left
// as the server last reported it. On failure the list is unchanged. The
// pending request is cleared either way.
func (c *UserListController) ConfirmDelete(ctx context.Context) error {
	if !c.gate.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	c.mu.Lock()
	if c.deleting {
		c.mu.Unlock()
		return ErrBusy
	}
	id := c.pending
	if id == 0 {
		c.mu.Unlock()
		return ErrNoPendingDelete
	}
	c.pending = 0
	c.deleting = true
	gen := c.gen
	c.mu.Unlock()

	err := c.client.DeleteUser(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return ErrStale
	}
	c.deleting = false

	if err != nil {
		c.log.Warn(ctx, "delete failed", "id", id, "error", err)
		return err
	}

	c.items = lo.Reject(c.items, func(u models.User, _ int) bool { return u.ID == id })
	c.log.Info(ctx, "user deleted", "id", id)
	return nil
}

// Visible returns the current items narrowed by query.
func (c *UserListController) Visible(query string) []models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return FilterUsers(c.items, query)
}

func (c *UserListController) Snapshot() ListSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ListSnapshot{
		State:         c.state,
		Items:         append([]models.User(nil), c.items...),
		Page:          c.page,
		TotalPages:    c.totalPages,
		Total:         c.total,
		PendingDelete: c.pending,
		Err:           c.err,
	}
}

// Release resets the controller when its view goes away. Results of requests
// still in flight are discarded.
func (c *UserListController) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.state = ListIdle
	c.items = nil
	c.page = 0
	c.totalPages = 0
	c.total = 0
	c.pending = 0
	c.deleting = false
	c.err = nil
}
