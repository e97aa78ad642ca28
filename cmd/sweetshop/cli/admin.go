package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sweetshop/sweetshop/internal/model"
	"github.com/sweetshop/sweetshop/internal/service"
	"github.com/sweetshop/sweetshop/internal/store"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage accounts and administrator rights",
		Long: `Create administrators, grant or revoke admin rights and enable or disable
accounts. These commands work on the database directly.`,
	}

	cmd.AddCommand(newAdminCreateCmd())
	cmd.AddCommand(newAdminFlagCmd("promote", "Grant admin rights to an account", func(ctx context.Context, a *service.AccountService, id int64) (*model.Account, error) {
		return a.SetAdmin(ctx, id, true)
	}))
	cmd.AddCommand(newAdminFlagCmd("demote", "Revoke admin rights from an account", func(ctx context.Context, a *service.AccountService, id int64) (*model.Account, error) {
		return a.SetAdmin(ctx, id, false)
	}))
	cmd.AddCommand(newAdminFlagCmd("disable", "Deactivate an account", func(ctx context.Context, a *service.AccountService, id int64) (*model.Account, error) {
		return a.SetActive(ctx, id, false)
	}))
	cmd.AddCommand(newAdminFlagCmd("enable", "Reactivate an account", func(ctx context.Context, a *service.AccountService, id int64) (*model.Account, error) {
		return a.SetActive(ctx, id, true)
	}))
	cmd.AddCommand(newAdminListCmd())

	return cmd
}

// withAccounts opens the store and runs fn with an AccountService over it.
func withAccounts(ctx context.Context, fn func(*service.AccountService) error) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	logger := newLogger(settings.Logging, false)

	st, err := openStore(ctx, settings)
	if err != nil {
		return err
	}
	defer st.Close()

	return fn(service.NewAccountService(st, service.NewHasher(settings.Auth.BcryptCost, logger), logger))
}

// ---------- admin create ----------

func newAdminCreateCmd() *cobra.Command {
	var (
		email    string
		password string
		name     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new admin user",
		Example: `  sweetshop admin create --email admin@example.com --password secret
  sweetshop admin create --email admin@example.com  # prompts for password`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				pw, err := promptPassword(cmd.OutOrStdout())
				if err != nil {
					return err
				}
				password = pw
			}
			if name == "" {
				name = "Administrator"
			}
			return withAccounts(cmd.Context(), func(accounts *service.AccountService) error {
				return runAdminCreate(cmd.Context(), cmd.OutOrStdout(), accounts, email, password, name)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (prompted if omitted)")
	cmd.Flags().StringVar(&name, "name", "", "Admin display name")
	cmd.MarkFlagRequired("email")

	return cmd
}

func runAdminCreate(ctx context.Context, out io.Writer, accounts *service.AccountService, email, password, name string) error {
	account, created, err := accounts.EnsureAdmin(ctx, email, password, name)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("invalid %s: %s", verr.Field, verr.Message)
		}
		return err
	}
	if !created {
		fmt.Fprintf(out, "Account %q already exists (id %d) and has admin rights; its password was not changed\n", account.Email, account.ID)
		return nil
	}
	fmt.Fprintf(out, "Created admin user %q (id %d)\n", account.Email, account.ID)
	return nil
}

func promptPassword(out io.Writer) (string, error) {
	fmt.Fprint(out, "Password: ")
	pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(out)

	fmt.Fprint(out, "Confirm password: ")
	confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}
	fmt.Fprintln(out)

	if string(pwBytes) != string(confirmBytes) {
		return "", fmt.Errorf("passwords do not match")
	}
	if len(pwBytes) == 0 {
		return "", fmt.Errorf("password must not be empty")
	}
	return string(pwBytes), nil
}

// ---------- admin promote|demote|disable|enable ----------

type accountChange func(ctx context.Context, accounts *service.AccountService, id int64) (*model.Account, error)

func newAdminFlagCmd(use, short string, change accountChange) *cobra.Command {
	return &cobra.Command{
		Use:     use + " <email>",
		Short:   short,
		Example: fmt.Sprintf("  sweetshop admin %s shopper@example.com", use),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAccounts(cmd.Context(), func(accounts *service.AccountService) error {
				return runAccountChange(cmd.Context(), cmd.OutOrStdout(), accounts, args[0], change)
			})
		},
	}
}

func runAccountChange(ctx context.Context, out io.Writer, accounts *service.AccountService, email string, change accountChange) error {
	account, err := accounts.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no account with email %q", email)
	}
	if err != nil {
		return err
	}
	updated, err := change(ctx, accounts, account.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: admin=%s active=%s\n", updated.Email, yesNo(updated.IsAdmin), yesNo(updated.IsActive))
	return nil
}

// ---------- admin list ----------

func newAdminListCmd() *cobra.Command {
	var (
		jsonOutput bool
		adminsOnly bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAccounts(cmd.Context(), func(accounts *service.AccountService) error {
				return runAdminList(cmd.Context(), cmd.OutOrStdout(), accounts, adminsOnly, jsonOutput)
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&adminsOnly, "admins", false, "Only list administrators")

	return cmd
}

func runAdminList(ctx context.Context, out io.Writer, accounts *service.AccountService, adminsOnly, jsonOutput bool) error {
	all, err := accounts.List(ctx)
	if err != nil {
		return err
	}
	rows := make([]model.Account, 0, len(all))
	for _, a := range all {
		if adminsOnly && !a.IsAdmin {
			continue
		}
		rows = append(rows, a)
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Fprintln(out, "No accounts found. Use 'sweetshop admin create' to create one.")
		return nil
	}

	fmt.Fprintf(out, "%-6s %-30s %-24s %-6s %-6s\n", "ID", "EMAIL", "NAME", "ADMIN", "ACTIVE")
	fmt.Fprintf(out, "%-6s %-30s %-24s %-6s %-6s\n", "--", "-----", "----", "-----", "------")
	for _, a := range rows {
		fmt.Fprintf(out, "%-6d %-30s %-24s %-6s %-6s\n", a.ID, a.Email, a.FullName, yesNo(a.IsAdmin), yesNo(a.IsActive))
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
