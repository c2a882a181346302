package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userconsole/internal/client/models"
	"github.com/dmitrijs2005/userconsole/internal/client/services"
)

var fieldLabels = map[models.Field]string{
	models.FieldFirstName: "First name",
	models.FieldLastName:  "Last name",
	models.FieldEmail:     "Email",
	models.FieldPassword:  "Password",
}

// Edit leaves the list, edits one user and comes back to the first page,
// whether or not the edit succeeded.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := parseID(args, errUsageEdit)
	if err != nil {
		return err
	}
	if !a.isLoggedIn() {
		return services.ErrNotAuthenticated
	}

	a.unmountList()
	if err := a.editUser(ctx, id); err != nil {
		a.notify(err)
	}
	a.edit.Release()

	return a.mountList(ctx, 1)
}

func (a *App) editUser(ctx context.Context, id int) error {
	if err := a.edit.Load(ctx, id); err != nil {
		return err
	}

	if u := a.edit.User(); u != nil {
		fmt.Fprintf(a.out, "Editing user #%d %s\n", u.ID, u.FullName())
		if u.AvatarURL != "" {
			fmt.Fprintf(a.out, "Avatar: %s\n", u.AvatarURL)
		}
	}
	fmt.Fprintln(a.out, "Press Enter to keep a value, '-' to clear it.")

	for a.edit.State() == services.EditReady {
		if err := a.promptDraft(); err != nil {
			return err
		}

		ack, err := a.edit.Save(ctx)
		var ve *services.ValidationError
		switch {
		case err == nil:
			fmt.Fprintf(a.out, "Saved (updated at %s).\n", ack.UpdatedAt)
		case errors.As(err, &ve):
			renderFieldErrors(a.out, ve.Fields)
		default:
			a.notify(err)
		}

		if a.edit.State() == services.EditReady && !Confirm(a.reader, "Try again?", a.out) {
			fmt.Fprintln(a.out, "Changes discarded.")
			return nil
		}
	}
	return a.edit.Err()
}

// promptDraft asks for every editable field, showing the draft value and the
// field's last error message.
func (a *App) promptDraft() error {
	for _, f := range models.Fields {
		d := a.edit.Draft()

		prompt := fmt.Sprintf("%s [%s]", fieldLabels[f], d.Get(f))
		if msg := d.FieldErrors[f]; msg != "" {
			prompt += " (" + msg + ")"
		}

		v, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		switch v {
		case "":
			continue
		case "-":
			v = ""
		}
		if err := a.edit.SetField(f, v); err != nil {
			return err
		}
	}
	return nil
}
