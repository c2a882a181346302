package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/userconsole/internal/client/api"
	"github.com/dmitrijs2005/userconsole/internal/client/models"
	"github.com/dmitrijs2005/userconsole/internal/logging"
)

type EditState int

const (
	EditIdle EditState = iota
	EditLoading
	EditReady
	EditSaving
	EditError
)

func (s EditState) String() string {
	switch s {
	case EditLoading:
		return "loading"
	case EditReady:
		return "ready"
	case EditSaving:
		return "saving"
	case EditError:
		return "error"
	}
	return "idle"
}

// UserEditController loads one user into a draft, validates it and saves it.
type UserEditController struct {
	mu sync.Mutex

	state EditState
	user  *models.User
	draft models.EditDraft
	err   error
	gen   uint64

	client api.Client
	gate   Gate
	log    logging.Logger
}

func NewUserEditController(client api.Client, gate Gate, log logging.Logger) *UserEditController {
	return &UserEditController{
		client: client,
		gate:   gate,
		log:    log.With("component", "useredit"),
	}
}

// Load fetches user id and builds a fresh draft from it. On failure the
// controller is left in EditError and the error is returned.
func (c *UserEditController) Load(ctx context.Context, id int) error {
	if !c.gate.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	c.mu.Lock()
	if c.state == EditLoading || c.state == EditSaving {
		c.mu.Unlock()
		return ErrBusy
	}
	c.gen++
	c.state = EditLoading
	c.user = nil
	c.draft = models.EditDraft{}
	c.err = nil
	gen := c.gen
	c.mu.Unlock()

	u, err := c.client.GetUser(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return ErrStale
	}

	if err != nil {
		c.state = EditError
		c.err = err
		c.log.Warn(ctx, "load user failed", "id", id, "error", err)
		return err
	}

	c.state = EditReady
	c.user = u
	c.draft = models.NewEditDraft(*u)
	return nil
}

// SetField changes one draft field. Its previous error message stays until
// the next Save.
func (c *UserEditController) SetField(f models.Field, v string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != EditReady {
		return ErrNotReady
	}
	if !c.draft.Set(f, v) {
		return &ValidationError{Fields: models.FieldErrors{f: "Unknown field"}}
	}
	return nil
}

// Save validates the draft and sends it. Validation failures are stored on
// the draft and returned as *ValidationError without a request. A successful
// save discards the draft and returns the controller to EditIdle; a failed
// one keeps the draft for another attempt.
func (c *UserEditController) Save(ctx context.Context) (*models.UpdateAck, error) {
	if !c.gate.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	c.mu.Lock()
	switch c.state {
	case EditSaving:
		c.mu.Unlock()
		return nil, ErrBusy
	case EditReady:
	default:
		c.mu.Unlock()
		return nil, ErrNotReady
	}

	fe := Validate(c.draft)
	c.draft.FieldErrors = fe
	if len(fe) > 0 {
		c.mu.Unlock()
		return nil, &ValidationError{Fields: fe}
	}

	c.state = EditSaving
	c.err = nil
	id := c.draft.SourceUserID
	upd := c.draft.Update()
	gen := c.gen
	c.mu.Unlock()

	ack, err := c.client.UpdateUser(ctx, id, upd)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return nil, ErrStale
	}

	if err != nil {
		c.state = EditReady
		c.err = err
		c.log.Warn(ctx, "save user failed", "id", id, "error", err)
		return nil, err
	}

	c.gen++
	c.state = EditIdle
	c.user = nil
	c.draft = models.EditDraft{}
	c.log.Info(ctx, "user updated", "id", id, "updated_at", ack.UpdatedAt)
	return ack, nil
}

// Draft returns a copy of the current draft.
func (c *UserEditController) Draft() models.EditDraft {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := c.draft
	d.FieldErrors = make(models.FieldErrors, len(c.draft.FieldErrors))
	for k, v := range c.draft.FieldErrors {
		d.FieldErrors[k] = v
	}
	return d
}

// User returns the user as it was fetched, or nil.
func (c *UserEditController) User() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

func (c *UserEditController) State() EditState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err is the last load or save failure.
func (c *UserEditController) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Release drops the draft and discards in-flight results.
func (c *UserEditController) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.state = EditIdle
	c.user = nil
	c.draft = models.EditDraft{}
	c.err = nil
}
