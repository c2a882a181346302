package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/userconsole/internal/client/api"
	"github.com/dmitrijs2005/userconsole/internal/client/models"
	"github.com/dmitrijs2005/userconsole/internal/client/services"
	"github.com/dmitrijs2005/userconsole/internal/logging"
)

// sessionService is the part of *services.SessionStore the console uses.
type sessionService interface {
	services.Gate
	Login(ctx context.Context, creds models.Credentials) error
	Logout(ctx context.Context) error
	State() services.SessionState
	Email() string
}

type listService interface {
	LoadPage(ctx context.Context, n int) error
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	RequestDelete(id int) error
	ConfirmDelete(ctx context.Context) error
	CancelDelete()
	Visible(query string) []models.User
	Snapshot() services.ListSnapshot
	Release()
}

type editService interface {
	Load(ctx context.Context, id int) error
	SetField(f models.Field, v string) error
	Save(ctx context.Context) (*models.UpdateAck, error)
	Draft() models.EditDraft
	User() *models.User
	State() services.EditState
	Err() error
	Release()
}

// App is the console. The list view is "mounted" while its page is on
// screen: it owns a fresh search filter and re-renders when the query
// changes.
type App struct {
	session sessionService
	list    listService
	edit    editService
	log     logging.Logger

	filter      *services.SearchFilter
	unsubscribe func()

	reader *bufio.Reader
	out    io.Writer
}

// NewApp builds the console over an API client. session gates the list and
// edit controllers.
func NewApp(session sessionService, client api.Client, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		session: session,
		list:    services.NewUserListController(client, session, log),
		edit:    services.NewUserEditController(client, session, log),
		log:     log.With("component", "cli"),
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) getStatus() string {
	if a.session.State() == services.Anonymous {
		return services.Anonymous.String()
	}
	if email := a.session.Email(); email != "" {
		return email
	}
	return "signed in"
}

// Root prints the greeting, shows the first page when a session was restored
// and runs the REPL until exit.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "User console (type 'help' for commands)")
	a.log.Debug(ctx, "console started", "authenticated", a.isLoggedIn())

	if a.isLoggedIn() {
		if err := a.mountList(ctx, 1); err != nil {
			a.notify(err)
		}
	} else {
		fmt.Fprintln(a.out, "Type 'login' to sign in.")
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
	a.Close()
	a.log.Debug(ctx, "console stopped")
}

// Close releases both views.
func (a *App) Close() {
	a.unmountList()
	a.edit.Release()
}

func (a *App) mounted() bool {
	return a.filter != nil
}

// mountList shows page n with an empty search query.
func (a *App) mountList(ctx context.Context, n int) error {
	a.unmountList()

	a.filter = services.NewSearchFilter()
	a.unsubscribe = a.filter.Subscribe(func(string) { a.renderList() })

	if err := a.list.LoadPage(ctx, n); err != nil {
		return err
	}
	a.renderList()
	return nil
}

func (a *App) unmountList() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	a.filter = nil
	a.list.Release()
}

func (a *App) query() string {
	if a.filter == nil {
		return ""
	}
	return a.filter.Text()
}

func (a *App) renderList() {
	renderList(a.out, a.list.Snapshot(), a.list.Visible(a.query()), a.query())
}

func (a *App) notify(err error) {
	fmt.Fprintln(a.out, describe(err))
}
