package cli

import (
	"context"
	"fmt"
)

func (a *App) Login(ctx context.Context) {
	if a.session.IsAuthenticated() {
		fmt.Fprintln(a.out, "Already logged in. Run 'logout' first.")
		return
	}

	email, err := GetSimpleText(a.reader, "Enter email:", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}

	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		return
	}
	a.store.Load(ctx)
}

func (a *App) Register(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Enter username:", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}

	email, err := GetSimpleText(a.reader, "Enter email:", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}

	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}

	if err := a.session.Register(ctx, name, email, password); err != nil {
		return
	}
	fmt.Fprintln(a.out, "Check your inbox for an activation link, then run 'login'.")
}

func (a *App) Logout(ctx context.Context) {
	if err := a.session.Logout(ctx); err != nil {
		return
	}
	a.store.Reset()
}
