package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/userconsole/internal/client/api"
	"github.com/dmitrijs2005/userconsole/internal/client/models"
	"github.com/dmitrijs2005/userconsole/internal/client/services"
	"github.com/dmitrijs2005/userconsole/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEditor fails the first failSaves saves the way the controller does:
// back to Ready with the draft kept and Err set.
type fakeEditor struct {
	state     services.EditState
	err       error
	draft     models.EditDraft
	failSaves int
	saves     int
}

func (f *fakeEditor) Load(context.Context, int) error {
	f.state = services.EditReady
	f.draft = models.NewEditDraft(models.User{ID: 2, FirstName: "Janet", LastName: "Weaver", Email: "janet.weaver@reqres.in"})
	return nil
}

func (f *fakeEditor) SetField(fd models.Field, v string) error {
	f.draft.Set(fd, v)
	return nil
}

func (f *fakeEditor) Save(context.Context) (*models.UpdateAck, error) {
	f.saves++
	if f.saves <= f.failSaves {
		f.state = services.EditReady
		f.err = &api.FetchError{Op: "update user", Status: 500, Message: "API error: 500"}
		return nil, f.err
	}
	f.state, f.err = services.EditIdle, nil
	return &models.UpdateAck{UpdatedAt: "2026-10-17T10:00:00Z"}, nil
}

func (f *fakeEditor) Draft() models.EditDraft   { return f.draft }
func (f *fakeEditor) User() *models.User        { return nil }
func (f *fakeEditor) State() services.EditState { return f.state }
func (f *fakeEditor) Err() error                { return f.err }
func (f *fakeEditor) Release()                  { f.state = services.EditIdle }

func newEditApp(ed *fakeEditor, lines ...string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		edit:   ed,
		log:    logging.NewNop(),
		reader: bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n")),
		out:    &out,
	}, &out
}

func TestEditUser_SaveFailureThenRetry(t *testing.T) {
	ed := &fakeEditor{failSaves: 1}
	a, out := newEditApp(ed, "Jane", "", "", "y", "", "", "")

	require.NoError(t, a.editUser(context.Background(), 2))

	assert.Contains(t, out.String(), "Request failed: API error: 500")
	assert.Contains(t, out.String(), "Saved (updated at 2026-10-17T10:00:00Z).")
	assert.Equal(t, 2, ed.saves)
	assert.Equal(t, "Jane", ed.draft.FirstName)
	assert.Equal(t, services.EditIdle, ed.State())
}

func TestEditUser_SaveFailureDiscarded(t *testing.T) {
	ed := &fakeEditor{failSaves: 1}
	a, out := newEditApp(ed, "", "", "", "n")

	require.NoError(t, a.editUser(context.Background(), 2))

	assert.Contains(t, out.String(), "Request failed: API error: 500")
	assert.Contains(t, out.String(), "Changes discarded.")
	assert.NotContains(t, out.String(), "Saved")
	assert.Equal(t, 1, ed.saves)
}
