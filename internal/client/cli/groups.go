package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/sumit8974/fintrack-cli/internal/client/models"
	"github.com/sumit8974/fintrack-cli/internal/client/services"
)

// GroupCommand dispatches the 'group' subcommands.
func (a *App) GroupCommand(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: group add | group show <id> | group rename <id> | group rm <id>")
		return
	}

	switch args[0] {
	case "add":
		a.AddGroup()
	case "show":
		if len(args) < 2 {
			fmt.Fprintln(a.out, "Usage: group show <id>")
			return
		}
		a.ShowGroup(args[1])
	case "rename":
		if len(args) < 2 {
			fmt.Fprintln(a.out, "Usage: group rename <id>")
			return
		}
		a.RenameGroup(args[1])
	case "rm":
		if len(args) < 2 {
			fmt.Fprintln(a.out, "Usage: group rm <id>")
			return
		}
		a.store.DeleteGroup(args[1])
	default:
		fmt.Fprintln(a.out, "Unknown group command:", args[0])
	}
}

func (a *App) ListGroups() {
	groups := a.store.Groups()
	if len(groups) == 0 {
		fmt.Fprintln(a.out, "No groups.")
		return
	}
	for _, g := range groups {
		fmt.Fprintf(a.out, "%-12s %-20s %d members\n", g.ID, g.Name, len(g.Members))
	}
}

func (a *App) AddGroup() {
	if !a.session.IsAuthenticated() {
		fmt.Fprintln(a.out, "Please log in first.")
		return
	}

	name, err := GetSimpleText(a.reader, "Group name:", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}
	if name == "" {
		fmt.Fprintln(a.out, "Group name is required.")
		return
	}

	membersText, err := GetSimpleText(a.reader, "Members, comma separated (blank for just you):", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}

	var members []string
	for _, m := range strings.Split(membersText, ",") {
		if m = strings.TrimSpace(m); m != "" {
			members = append(members, m)
		}
	}

	a.store.AddGroup(name, members)
}

// ShowGroup prints a group, its members, and its transactions with a
// per-member share of the net spend.
func (a *App) ShowGroup(id string) {
	g, err := a.store.GroupByID(id)
	if err != nil {
		fmt.Fprintln(a.out, "Group not found:", id)
		return
	}

	fmt.Fprintf(a.out, "%s (%s)\nMembers: %s\n", g.Name, g.ID, strings.Join(g.Members, ", "))

	txs := a.store.GroupTransactions(id)
	a.printTransactions(txs)

	var total float64
	for _, t := range txs {
		if t.Type == models.TransactionTypeExpense {
			total += t.Amount
		}
	}
	if total > 0 && len(g.Members) > 0 {
		fmt.Fprintf(a.out, "Total spend: %.2f  Per member: %.2f\n", total, total/float64(len(g.Members)))
	}
}

func (a *App) RenameGroup(id string) {
	if _, err := a.store.GroupByID(id); err != nil {
		fmt.Fprintln(a.out, "Group not found:", id)
		return
	}

	name, err := GetSimpleText(a.reader, "New name:", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}
	if name == "" {
		fmt.Fprintln(a.out, "Group name is required.")
		return
	}

	a.store.UpdateGroup(id, services.GroupPatch{Name: &name})
}
