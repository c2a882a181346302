package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Search(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: login, whoami, help, exit"
	helpSignedIn  = "Available commands: list [n], next, prev, search [text], delete <id>, edit <id>, whoami, logout, help, exit"
)

// runREPL starts a simple read-eval-print loop for the console.
//
// It reads a line from in, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens as arguments.
// Errors returned by handlers are printed as a one-line notice and the loop
// goes on. The loop exits on EOF or when the user types "exit" or "quit".
//
// Each command runs under its own context derived from ctx, cancelled when
// the command returns.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "users (%s)> ", statusFn())

		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			fmt.Fprintln(out, "Bye!")
			return
		}

		cmdCtx, cancel := context.WithCancel(ctx)
		err = dispatch(cmdCtx, a, cmd, args, out)
		cancel()

		if err != nil {
			fmt.Fprintln(out, describe(err))
		}

		if ctx.Err() != nil {
			return
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			fmt.Fprintln(out, helpSignedIn)
		} else {
			fmt.Fprintln(out, helpAnonymous)
		}
		return nil
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	case "l", "list":
		return a.List(ctx, args)
	case "next", "n":
		return a.Next(ctx)
	case "prev", "p":
		return a.Prev(ctx)
	case "search", "s":
		return a.Search(ctx, args)
	case "delete", "rm":
		return a.Delete(ctx, args)
	case "edit", "e":
		return a.Edit(ctx, args)
	}

	fmt.Fprintln(out, "Unknown command:", cmd)
	return nil
}
