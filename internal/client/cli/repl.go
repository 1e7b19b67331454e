package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Upload(ctx context.Context) error
	Visa(ctx context.Context) error
	Reset(ctx context.Context) error
	History(ctx context.Context, limit int) error
	Export(ctx context.Context, path string) error
}

const defaultHistoryLimit = 10

// runREPL reads commands line by line from in and dispatches them to a.
//
// Not logged in:
//   - help, login, history [n], export <file.xlsx>, exit | quit
//
// Logged in, additionally:
//   - logout, whoami, upload, visa, reset
//
// Errors returned by handlers are printed and the loop goes on. The loop
// exits on EOF or on "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("immi %s> ", statusFn()))
		line, err := in.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: upload, visa, reset, history [n], export <file.xlsx>, whoami, logout, exit")
			} else {
				printlnFn("Available commands: login, history [n], export <file.xlsx>, exit")
			}

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "upload", "visa", "reset":
			if !a.isLoggedIn() {
				printlnFn("Please login first.")
				break
			}
			switch cmd {
			case "upload":
				cmdErr = a.Upload(ctx)
			case "visa":
				cmdErr = a.Visa(ctx)
			default:
				cmdErr = a.Reset(ctx)
			}

		case "history":
			limit := defaultHistoryLimit
			if len(args) > 0 {
				n, perr := strconv.Atoi(args[0])
				if perr != nil || n < 0 {
					printlnFn("Usage: history [n]")
					break
				}
				limit = n
			}
			cmdErr = a.History(ctx, limit)

		case "export":
			if len(args) == 0 {
				printlnFn("Usage: export <file.xlsx>")
				break
			}
			cmdErr = a.Export(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
		if err != nil {
			return
		}
	}
}
