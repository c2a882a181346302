package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userconsole/internal/client/models"
	"github.com/dmitrijs2005/userconsole/internal/client/services"
	"github.com/dmitrijs2005/userconsole/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for an email and password and signs in. Form errors are
// shown next to their fields and are not returned; a rejected sign-in or a
// transport failure is. On success the first page of users is shown.
//
// The password bytes read from the terminal are zeroed before returning. The
// credentials sent to the server hold their own string copy, which is left
// to the garbage collector.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintf(a.out, "Already signed in as %s. Type 'logout' first.\n", a.session.Email())
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.session.Login(ctx, models.Credentials{Email: email, Password: string(password)})

	var ve *services.ValidationError
	if errors.As(err, &ve) {
		renderFieldErrors(a.out, ve.Fields)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", email)
	return a.mountList(ctx, 1)
}

// Logout drops both views and the persisted session.
func (a *App) Logout(ctx context.Context) error {
	a.Close()
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// WhoAmI prints the signed-in email.
func (a *App) WhoAmI(context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", a.session.Email())
	return nil
}
