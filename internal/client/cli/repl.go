package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	useAI() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	Calculate(ctx context.Context, expr string) error
	AICalculate(ctx context.Context, query string) error
	Validate(ctx context.Context, expr string) error
	ToggleMode(ctx context.Context) error
	ClearCalc(ctx context.Context) error
	ShowResult(ctx context.Context) error

	History(ctx context.Context, args []string) error
	Browse(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	ClearHistory(ctx context.Context) error
	Stats(ctx context.Context) error
}

// commandNames lists every REPL command; suggestCommand matches typos
// against it.
var commandNames = []string{
	"help", "register", "login", "logout", "whoami",
	"calc", "ai", "mode", "validate", "clear", "result",
	"history", "browse", "delete", "clearhistory", "stats",
	"exit", "quit",
}

// publicCommands work without a session.
var publicCommands = map[string]bool{
	"help": true, "register": true, "login": true, "exit": true, "quit": true,
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = `Available commands:
  calc <expr>            evaluate an expression
  ai <query>             evaluate a natural-language query
  mode                   toggle AI input mode
  validate <expr>        check an expression without evaluating it
  result                 show the last result
  clear                  reset the calculator
  history [page] [size]  list past calculations
  browse                 open the interactive history browser
  delete <id>            delete one record
  clearhistory           delete all records
  stats                  AI usage totals
  whoami                 show your profile
  logout, exit
Any other line is evaluated (or sent to AI in AI mode).`
)

// runREPL starts the read–eval–print loop of the smartcalc CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. A line that is not a command is evaluated
// as an expression, or sent as a natural-language query when AI mode is on.
// Outside AI mode, single-word lines that look like a mistyped command get
// a suggestion instead. The loop exits on EOF, on "exit" / "quit" or when ctx is done.
//
// Errors returned by command handlers are ignored here; handlers print
// their own messages. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(promptText(fmt.Sprintf("sc %s> ", statusFn())))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if quit := dispatch(ctx, a, line); quit {
			return
		}
	}
}

func dispatch(ctx context.Context, a execIface, line string) (quit bool) {
	parts := strings.Fields(line)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	rest := strings.TrimSpace(line[len(parts[0]):])

	if !isCommand(cmd) {
		if len(parts) == 1 && !a.useAI() {
			if s := suggestCommand(cmd); s != "" {
				printlnFn(fmt.Sprintf("Unknown command: %s. Did you mean %q?", parts[0], s))
				return false
			}
		}
		if !a.isLoggedIn() {
			printlnFn("Please log in first (type 'help' for commands)")
			return false
		}
		if a.useAI() {
			_ = a.AICalculate(ctx, line)
		} else {
			_ = a.Calculate(ctx, line)
		}
		return false
	}

	if !publicCommands[cmd] && !a.isLoggedIn() {
		printlnFn("Please log in first (type 'help' for commands)")
		return false
	}

	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpLoggedOut)
		}

	case "register":
		_ = a.Register(ctx)

	case "login":
		_ = a.Login(ctx)

	case "logout":
		_ = a.Logout(ctx)

	case "whoami":
		_ = a.WhoAmI(ctx)

	case "calc":
		if rest == "" {
			printlnFn("Usage: calc <expression>")
			return false
		}
		_ = a.Calculate(ctx, rest)

	case "ai":
		if rest == "" {
			printlnFn("Usage: ai <query>")
			return false
		}
		_ = a.AICalculate(ctx, rest)

	case "validate":
		if rest == "" {
			printlnFn("Usage: validate <expression>")
			return false
		}
		_ = a.Validate(ctx, rest)

	case "mode":
		_ = a.ToggleMode(ctx)

	case "clear":
		_ = a.ClearCalc(ctx)

	case "result":
		_ = a.ShowResult(ctx)

	case "history":
		_ = a.History(ctx, args)

	case "browse":
		_ = a.Browse(ctx)

	case "delete":
		if len(args) != 1 {
			printlnFn("Usage: delete <id>")
			return false
		}
		_ = a.Delete(ctx, args[0])

	case "clearhistory":
		_ = a.ClearHistory(ctx)

	case "stats":
		_ = a.Stats(ctx)

	case "exit", "quit":
		printlnFn("Bye!")
		return true
	}
	return false
}

func isCommand(s string) bool {
	for _, c := range commandNames {
		if c == s {
			return true
		}
	}
	return false
}
