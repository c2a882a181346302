package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/userconsole/internal/client/api"
	"github.com/dmitrijs2005/userconsole/internal/client/models"
	"github.com/dmitrijs2005/userconsole/internal/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var janet = models.User{
	ID:        2,
	Email:     "janet.weaver@reqres.in",
	FirstName: "Janet",
	LastName:  "Weaver",
	AvatarURL: "https://reqres.in/img/faces/2-image.jpg",
}

func loadedEdit(t *testing.T, m *mockClient) *UserEditController {
	t.Helper()
	u := janet
	m.On("GetUser", mock.Anything, 2).Return(&u, nil).Once()
	c := NewUserEditController(m, signedIn, logging.NewNop())
	require.NoError(t, c.Load(context.Background(), 2))
	return c
}

func TestEditLoad_BuildsDraft(t *testing.T) {
	c := loadedEdit(t, &mockClient{})

	assert.Equal(t, EditReady, c.State())
	want := models.EditDraft{
		SourceUserID: 2,
		FirstName:    "Janet",
		LastName:     "Weaver",
		Email:        "janet.weaver@reqres.in",
		FieldErrors:  models.FieldErrors{},
	}
	if diff := cmp.Diff(want, c.Draft()); diff != "" {
		t.Errorf("draft mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, janet.AvatarURL, c.User().AvatarURL)
}

func TestEditLoad_FailureEntersError(t *testing.T) {
	m := &mockClient{}
	fail := &api.FetchError{Op: "get user", Status: 404, Message: "API error: 404", Err: api.ErrNotFound}
	m.On("GetUser", mock.Anything, 23).Return(nil, fail)

	c := NewUserEditController(m, signedIn, logging.NewNop())
	err := c.Load(context.Background(), 23)

	assert.ErrorIs(t, err, api.ErrNotFound)
	assert.Equal(t, EditError, c.State())
	assert.Nil(t, c.User())
	assert.Equal(t, fail, c.Err())
}

func TestEditSave_ValidationSkipsNetwork(t *testing.T) {
	m := &mockClient{}
	c := loadedEdit(t, m)

	require.NoError(t, c.SetField(models.FieldFirstName, "  "))
	require.NoError(t, c.SetField(models.FieldEmail, "a@b"))

	ack, err := c.Save(context.Background())
	assert.Nil(t, ack)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, models.FieldErrors{
		models.FieldFirstName: "First name is required",
		models.FieldEmail:     "Email is invalid",
	}, ve.Fields)
	assert.Equal(t, ve.Fields, c.Draft().FieldErrors)
	assert.Equal(t, EditReady, c.State())
	m.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestEditSave_SuccessDiscardsDraft(t *testing.T) {
	m := &mockClient{}
	c := loadedEdit(t, m)
	want := models.UserUpdate{FirstName: "Janet", LastName: "Morpheus", Email: "janet.weaver@reqres.in"}
	m.On("UpdateUser", mock.Anything, 2, want).
		Return(&models.UpdateAck{UpdatedAt: "2026-10-17T09:00:00.000Z"}, nil).Once()

	require.NoError(t, c.SetField(models.FieldLastName, "Morpheus"))
	ack, err := c.Save(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-10-17T09:00:00.000Z", ack.UpdatedAt)
	assert.Equal(t, EditIdle, c.State())
	assert.Nil(t, c.User())
	assert.Zero(t, c.Draft().SourceUserID)
	m.AssertExpectations(t)
}

func TestEditSave_FailureKeepsDraft(t *testing.T) {
	m := &mockClient{}
	c := loadedEdit(t, m)
	fail := &api.FetchError{Op: "update user", Message: "connection refused", Err: api.ErrUnavailable}
	m.On("UpdateUser", mock.Anything, 2, mock.Anything).Return(nil, fail).Once()

	require.NoError(t, c.SetField(models.FieldFirstName, "Jane"))
	_, err := c.Save(context.Background())
	assert.ErrorIs(t, err, api.ErrUnavailable)

	assert.Equal(t, EditReady, c.State())
	assert.Equal(t, "Jane", c.Draft().FirstName)
	assert.Equal(t, fail, c.Err())
}

func TestEditSave_ReleasedResultIsDiscarded(t *testing.T) {
	m := &mockClient{}
	c := loadedEdit(t, m)
	entered := make(chan struct{})
	release := make(chan struct{})
	m.On("UpdateUser", mock.Anything, 2, mock.Anything).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(&models.UpdateAck{UpdatedAt: "now"}, nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := c.Save(context.Background())
		done <- err
	}()

	<-entered
	assert.Equal(t, EditSaving, c.State())
	_, err := c.Save(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, c.SetField(models.FieldEmail, "x@y.z"), ErrNotReady)

	c.Release()
	close(release)

	assert.ErrorIs(t, <-done, ErrStale)
	assert.Equal(t, EditIdle, c.State())
}

func TestEdit_Guards(t *testing.T) {
	m := &mockClient{}
	c := NewUserEditController(m, signedIn, logging.NewNop())

	_, err := c.Save(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
	assert.ErrorIs(t, c.SetField(models.FieldEmail, "x"), ErrNotReady)

	anon := NewUserEditController(m, gateFunc(func() bool { return false }), logging.NewNop())
	assert.ErrorIs(t, anon.Load(context.Background(), 2), ErrNotAuthenticated)
	m.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestEditSetField_Unknown(t *testing.T) {
	c := loadedEdit(t, &mockClient{})

	var ve *ValidationError
	require.ErrorAs(t, c.SetField(models.Field("avatar"), "x"), &ve)
	assert.Equal(t, "Janet", c.Draft().FirstName)
}

func TestEditDraft_IsACopy(t *testing.T) {
	c := loadedEdit(t, &mockClient{})

	d := c.Draft()
	d.FirstName = "changed"
	d.FieldErrors[models.FieldEmail] = "x"

	assert.Equal(t, "Janet", c.Draft().FirstName)
	assert.Empty(t, c.Draft().FieldErrors)
}
