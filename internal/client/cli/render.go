package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/userconsole/internal/client/api"
	"github.com/dmitrijs2005/userconsole/internal/client/models"
	"github.com/dmitrijs2005/userconsole/internal/client/services"
)

// renderList prints the page header, the visible rows and, when a query is
// set, how many rows it hides.
func renderList(w io.Writer, s services.ListSnapshot, visible []models.User, query string) {
	switch s.State {
	case services.ListLoading:
		fmt.Fprintln(w, "Loading...")
		return
	case services.ListError:
		fmt.Fprintf(w, "Could not load users: %s\n", describe(s.Err))
		return
	case services.ListIdle:
		fmt.Fprintln(w, "No users loaded.")
		return
	}

	fmt.Fprintf(w, "Page %d of %d (%d users)\n", s.Page, s.TotalPages, s.Total)
	if query != "" {
		fmt.Fprintf(w, "Search %q: %d of %d shown\n", query, len(visible), len(s.Items))
	}

	if len(visible) == 0 {
		if query != "" {
			fmt.Fprintln(w, "No users match.")
		} else {
			fmt.Fprintln(w, "No users on this page.")
		}
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL")
	for _, u := range visible {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.FullName(), u.Email)
	}
	_ = tw.Flush()
}

// renderFieldErrors prints one line per invalid field in form order.
func renderFieldErrors(w io.Writer, fe models.FieldErrors) {
	for _, f := range append(append([]models.Field(nil), models.Fields...), models.FieldPassword) {
		if msg, ok := fe[f]; ok {
			fmt.Fprintf(w, "  %s: %s\n", fieldLabels[f], msg)
		}
	}
}

// describe turns an error into a one-line notice.
func describe(err error) string {
	var (
		ae *api.AuthError
		fe *api.FetchError
		ve *services.ValidationError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &ae):
		return "Sign-in failed: " + ae.Message
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, services.ErrNotAuthenticated):
		return "Please sign in first (type 'login')."
	case errors.Is(err, services.ErrPageOutOfRange):
		return "No such page."
	case errors.Is(err, services.ErrUserNotOnPage):
		return "That user is not on the current page."
	case errors.Is(err, services.ErrNotReady):
		return "Nothing loaded yet, type 'list'."
	case errors.Is(err, services.ErrBusy):
		return "Still working on the previous request."
	case errors.As(err, &fe):
		switch {
		case errors.Is(fe, api.ErrUnauthorized):
			return fmt.Sprintf("Not authorized: %s. Try 'logout' and sign in again.", fe.Message)
		case errors.Is(fe, api.ErrNotFound):
			return "Not found."
		case errors.Is(fe, api.ErrUnavailable):
			return "Server unavailable: " + fe.Message
		}
		return "Request failed: " + fe.Message
	}
	return "Error: " + err.Error()
}
