package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Main runs the command loop until exit or EOF.
func (a *App) Main(ctx context.Context) {
	fmt.Fprintln(a.out, "fintrack CLI (type 'help' for commands)")

	for {
		fmt.Fprintf(a.out, "fintrack %s > ", a.promptIdentity())

		line, err := a.reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(a.out, "input error: %v\n", err)
			}
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.printHelp()

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)

		case "add":
			a.AddTransaction(ctx)
		case "list":
			a.ListTransactions()
		case "month":
			a.ListMonth(args)
		case "update":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: update <id>")
				continue
			}
			a.UpdateTransaction(ctx, args[0])
		case "del":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: del <id>")
				continue
			}
			a.DeleteTransaction(ctx, args[0])

		case "groups":
			a.ListGroups()
		case "group":
			a.GroupCommand(ctx, args)

		case "dashboard":
			a.Dashboard()

		case "activate":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: activate <token>")
				continue
			}
			a.Activate(ctx, args[0])
		case "forgot-password":
			a.ForgotPassword(ctx)
		case "reset-password":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: reset-password <token>")
				continue
			}
			a.ResetPassword(ctx, args[0])

		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return

		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

func (a *App) promptIdentity() string {
	if u := a.session.CurrentUser(); u != nil {
		return u.Email
	}
	return "(anonymous)"
}

func (a *App) printHelp() {
	if a.session.IsAuthenticated() {
		fmt.Fprintln(a.out, "Available commands: add, list, month <m> <y>, update <id>, del <id>, groups, group add|show|rm, dashboard, logout, exit")
	} else {
		fmt.Fprintln(a.out, "Available commands: register, login, activate <token>, forgot-password, reset-password <token>, exit")
	}
}
