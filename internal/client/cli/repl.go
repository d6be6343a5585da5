package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophaccount/internal/client/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	view() models.View
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Home(ctx context.Context) error
	Profile(ctx context.Context) error
	Avatar(ctx context.Context, path string) error
	Status(ctx context.Context) error
}

var (
	guestCommands = []string{"login", "register", "status", "help", "exit"}
	userCommands  = []string{"home", "profile", "avatar <file>", "logout", "status", "help", "exit"}
)

func commandsFor(v models.View) []string {
	if v.RequiresUser() {
		return userCommands
	}
	return guestCommands
}

func available(v models.View, cmd string) bool {
	for _, c := range commandsFor(v) {
		if name, _, _ := strings.Cut(c, " "); name == cmd {
			return true
		}
	}
	return cmd == "quit"
}

// runREPL starts a simple read–eval–print loop for the account client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF, when ctx is done, or
// when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn). Which commands are
// accepted depends on the current view:
//
//	Login / register views:
//	  - login          — sign in
//	  - register       — create an account
//	  - status         — show connectivity and session
//	  - help           — show available commands
//	  - exit | quit    — leave the program
//
//	Home / profile views:
//	  - home           — show the home view
//	  - profile        — show the profile view
//	  - avatar <file>  — upload a new avatar image
//	  - logout         — sign out
//	  - status, help, exit | quit
//
// Any errors returned by command handlers are ignored here; handlers report
// to the user and log on their own.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("acct %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch {
		case cmd == "exit" || cmd == "quit":
			printlnFn("Bye!")
			return
		case !isCommand(cmd):
			printlnFn("Unknown command:", cmd)
		case !available(a.view(), cmd):
			printlnFn("Command not available here:", cmd)
		default:
			dispatch(ctx, a, cmd, args)
		}

		if err != nil {
			return
		}
	}
}

func isCommand(cmd string) bool {
	return available(models.ViewLogin, cmd) || available(models.ViewHome, cmd)
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) {
	switch cmd {
	case "help":
		printlnFn("Available commands: " + strings.Join(commandsFor(a.view()), ", "))

	case "register":
		_ = a.Register(ctx)

	case "login":
		_ = a.Login(ctx)

	case "home":
		_ = a.Home(ctx)

	case "profile":
		_ = a.Profile(ctx)

	case "avatar":
		if len(args) != 1 {
			printlnFn("Usage: avatar <file>")
			return
		}
		_ = a.Avatar(ctx, args[0])

	case "logout":
		_ = a.Logout(ctx)

	case "status":
		_ = a.Status(ctx)
	}
}
