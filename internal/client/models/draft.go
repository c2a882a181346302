package models

// Field names an editable user field.
type Field string

const (
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldEmail     Field = "email"

	// FieldPassword only appears on the sign-in form.
	FieldPassword Field = "password"
)

// Fields lists editable fields in form order.
var Fields = []Field{FieldFirstName, FieldLastName, FieldEmail}

// FieldErrors maps a field to its validation message. An empty map means the
// form is valid.
type FieldErrors map[Field]string

// EditDraft is the client-local editable copy of a user prior to save.
type EditDraft struct {
	SourceUserID int         `validate:"-"`
	FirstName    string      `json:"firstName" validate:"notblank"`
	LastName     string      `json:"lastName" validate:"notblank"`
	Email        string      `json:"email" validate:"required,looseemail"`
	FieldErrors  FieldErrors `validate:"-"`
}

// NewEditDraft populates a draft from a fetched user.
func NewEditDraft(u User) EditDraft {
	return EditDraft{
		SourceUserID: u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		FieldErrors:  FieldErrors{},
	}
}

// Update converts the draft into an update request body.
func (d EditDraft) Update() UserUpdate {
	return UserUpdate{FirstName: d.FirstName, LastName: d.LastName, Email: d.Email}
}

// Get returns the current value of f.
func (d EditDraft) Get(f Field) string {
	switch f {
	case FieldFirstName:
		return d.FirstName
	case FieldLastName:
		return d.LastName
	case FieldEmail:
		return d.Email
	}
	return ""
}

// Set assigns v to f. It reports false for an unknown field.
func (d *EditDraft) Set(f Field, v string) bool {
	switch f {
	case FieldFirstName:
		d.FirstName = v
	case FieldLastName:
		d.LastName = v
	case FieldEmail:
		d.Email = v
	default:
		return false
	}
	return true
}
