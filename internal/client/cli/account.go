package cli

import (
	"context"
	"fmt"

	"github.com/sumit8974/fintrack-cli/internal/client/api"
)

func (a *App) Activate(ctx context.Context, activationToken string) {
	if err := a.client.ActivateAccount(ctx, activationToken); err != nil {
		fmt.Fprintln(a.out, "Activation failed:", accountDetail(err))
		return
	}
	fmt.Fprintln(a.out, "Account activated. You can log in now.")
}

func (a *App) ForgotPassword(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email:", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}

	if err := a.client.ForgotPassword(ctx, email); err != nil {
		fmt.Fprintln(a.out, "Request failed:", accountDetail(err))
		return
	}
	fmt.Fprintln(a.out, "If the address is registered, a reset link is on its way.")
}

// ResetPassword validates the token before asking for a new password so a
// stale link fails fast.
func (a *App) ResetPassword(ctx context.Context, resetToken string) {
	if err := a.client.ValidateResetToken(ctx, resetToken); err != nil {
		fmt.Fprintln(a.out, "Reset link is invalid or expired:", accountDetail(err))
		return
	}

	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "input error: %v\n", err)
		return
	}

	if err := a.client.ResetPassword(ctx, resetToken, password); err != nil {
		fmt.Fprintln(a.out, "Reset failed:", accountDetail(err))
		return
	}
	fmt.Fprintln(a.out, "Password changed. You can log in now.")
}

func accountDetail(err error) string {
	if msg := api.ServerMessage(err); msg != "" {
		return msg
	}
	return err.Error()
}
