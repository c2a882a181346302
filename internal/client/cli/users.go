package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	errUsageList   = errors.New("usage: list [page]")
	errUsageDelete = errors.New("usage: delete <id>")
	errUsageEdit   = errors.New("usage: edit <id>")
	errNoList      = errors.New("no users on screen, type 'list' first")
)

func parseID(args []string, usage error) (int, error) {
	if len(args) != 1 {
		return 0, usage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, usage
	}
	return n, nil
}

// List shows page n, or reloads the current page when n is omitted.
func (a *App) List(ctx context.Context, args []string) error {
	n := 1
	if len(args) > 0 {
		var err error
		if n, err = parseID(args, errUsageList); err != nil {
			return err
		}
	} else if p := a.list.Snapshot().Page; p > 0 {
		n = p
	}

	if !a.mounted() {
		return a.mountList(ctx, n)
	}
	if err := a.list.LoadPage(ctx, n); err != nil {
		return err
	}
	a.renderList()
	return nil
}

func (a *App) Next(ctx context.Context) error {
	if !a.mounted() {
		return errNoList
	}
	if err := a.list.NextPage(ctx); err != nil {
		return err
	}
	a.renderList()
	return nil
}

func (a *App) Prev(ctx context.Context) error {
	if !a.mounted() {
		return errNoList
	}
	if err := a.list.PrevPage(ctx); err != nil {
		return err
	}
	a.renderList()
	return nil
}

// Search narrows the shown page. Without arguments the query is cleared.
func (a *App) Search(_ context.Context, args []string) error {
	if !a.mounted() {
		return errNoList
	}
	q := strings.Join(args, " ")
	if q == a.filter.Text() {
		a.renderList()
		return nil
	}
	a.filter.Set(q)
	return nil
}

// Delete asks for confirmation and deletes a user on the current page.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args, errUsageDelete)
	if err != nil {
		return err
	}
	if !a.mounted() {
		return errNoList
	}
	if err := a.list.RequestDelete(id); err != nil {
		return err
	}

	name := fmt.Sprintf("user #%d", id)
	for _, u := range a.list.Snapshot().Items {
		if u.ID == id {
			name = fmt.Sprintf("%s (%s)", u.FullName(), u.Email)
		}
	}

	if !Confirm(a.reader, fmt.Sprintf("Delete %s?", name), a.out) {
		a.list.CancelDelete()
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.list.ConfirmDelete(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s.\n", name)
	a.renderList()
	return nil
}
