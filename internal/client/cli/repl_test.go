package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/userconsole/internal/client/services"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	fail     error

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) record(call string, args ...string) error {
	f.calls = append(f.calls, strings.TrimSpace(call+" "+strings.Join(args, " ")))
	return f.fail
}

func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) WhoAmI(context.Context) error { return f.record("whoami") }
func (f *fakeExec) List(_ context.Context, args []string) error {
	return f.record("list", args...)
}
func (f *fakeExec) Next(context.Context) error { return f.record("next") }
func (f *fakeExec) Prev(context.Context) error { return f.record("prev") }
func (f *fakeExec) Search(_ context.Context, args []string) error {
	return f.record("search", args...)
}
func (f *fakeExec) Delete(_ context.Context, args []string) error {
	return f.record("delete", args...)
}
func (f *fakeExec) Edit(_ context.Context, args []string) error {
	return f.record("edit", args...)
}

func run(t *testing.T, exec *fakeExec, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, in, &out)
	return out.String()
}

func TestRunREPL_DispatchesWithArgs(t *testing.T) {
	exec := &fakeExec{}
	out := run(t, exec,
		"help",
		"login",
		"help",
		"list 2",
		"next",
		"prev",
		"search janet weaver",
		"search",
		"delete 7",
		"edit 2",
		"whoami",
		"logout",
		"exit",
		"list",
	)

	assert.Equal(t, []string{
		"login", "list 2", "next", "prev", "search janet weaver", "search",
		"delete 7", "edit 2", "whoami", "logout",
	}, exec.calls)
	assert.Contains(t, out, helpAnonymous)
	assert.Contains(t, out, helpSignedIn)
	assert.Contains(t, out, "users (status)> ")
	assert.True(t, strings.HasSuffix(out, "Bye!\n"))
}

func TestRunREPL_UnknownAndBlank(t *testing.T) {
	exec := &fakeExec{}
	out := run(t, exec, "", "   ", "foobar", "quit")

	assert.Empty(t, exec.calls)
	assert.Contains(t, out, "Unknown command: foobar")
}

func TestRunREPL_PrintsHandlerErrors(t *testing.T) {
	exec := &fakeExec{fail: services.ErrPageOutOfRange}
	out := run(t, exec, "next", "exit")

	assert.Contains(t, out, "No such page.")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	exec := &fakeExec{fail: errors.New("boom")}
	out := run(t, exec, "whoami")

	assert.Equal(t, []string{"whoami"}, exec.calls)
	assert.Contains(t, out, "Error: boom")
}
