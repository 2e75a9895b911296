package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/hako/durafmt"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/perrijuan/sistema-bancario/internal/app"
	"github.com/perrijuan/sistema-bancario/internal/domain"
	"github.com/perrijuan/sistema-bancario/internal/service/ledger"
)

func newCreateAccountCmd(s *session) *cobra.Command {
	var number, accountType, login string
	cmd := &cobra.Command{
		Use:     "create-account",
		Short:   "Open a NORMAL or VIP account",
		Example: "bank create-account --number 11111 --type VIP --login ana -p 1234",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := s.readPassword(cmd)
			if err != nil {
				return err
			}
			e, err := s.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			account, err := e.CreateAccount(cmd.Context(), number, accountType, login, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account created.")
			fmt.Fprintln(cmd.OutOrStdout(), account.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&number, "number", "", "five-character account number")
	cmd.Flags().StringVar(&accountType, "type", string(domain.AccountTypeNormal), "NORMAL or VIP")
	cmd.Flags().StringVar(&login, "login", "", "holder login")
	_ = cmd.MarkFlagRequired("number")
	_ = cmd.MarkFlagRequired("login")
	return cmd
}

func newSeedCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the demo accounts 12345 (NORMAL) and 67890 (VIP)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := s.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			created, err := app.SeedDefaultAccounts(cmd.Context(), e)
			if err != nil {
				return err
			}
			if len(created) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Default accounts already exist.")
				return nil
			}
			for _, n := range created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created account %s\n", n)
			}
			return nil
		},
	}
}

func newBalanceCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the account summary and balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.withLogin(cmd, func(ctx context.Context, e *ledger.Engine) error {
				if _, err := e.Balance(ctx); err != nil {
					return err
				}
				account, _ := e.Current()
				printAccount(cmd, &account)
				return nil
			})
		},
	}
}

func newDepositCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "deposit <amount>",
		Short:   "Deposit money into the account",
		Example: "bank deposit 500 -a 11111 -p 1234",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return s.withLogin(cmd, func(ctx context.Context, e *ledger.Engine) error {
				if err := e.Deposit(ctx, amount); err != nil {
					return err
				}
				return done(cmd, e, "Deposit completed.")
			})
		},
	}
}

func newWithdrawCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <amount>",
		Short: "Withdraw money from the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return s.withLogin(cmd, func(ctx context.Context, e *ledger.Engine) error {
				if err := e.Withdraw(ctx, amount); err != nil {
					return err
				}
				return done(cmd, e, "Withdrawal completed.")
			})
		},
	}
}

func newTransferCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "transfer <destination> <amount>",
		Short:   "Transfer money to another account",
		Example: "bank transfer 22222 100 -a 11111 -p 1234",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return s.withLogin(cmd, func(ctx context.Context, e *ledger.Engine) error {
				if err := e.Transfer(ctx, args[0], amount); err != nil {
					return err
				}
				return done(cmd, e, "Transfer completed.")
			})
		},
	}
}

func newManagerVisitCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "manager-visit",
		Short: "Request a visit from the account manager (VIP only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.withLogin(cmd, func(ctx context.Context, e *ledger.Engine) error {
				if err := e.RequestManagerVisit(ctx); err != nil {
					return err
				}
				return done(cmd, e, "Manager visit requested.")
			})
		},
	}
}

func newStatementCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "statement",
		Short: "Print the account statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.withLogin(cmd, func(ctx context.Context, e *ledger.Engine) error {
				entries, err := e.Statement(ctx)
				if err != nil {
					return err
				}
				account, _ := e.Current()
				RenderStatement(cmd.OutOrStdout(), account.Number, entries, time.Now())
				return nil
			})
		},
	}
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidAmount, s)
	}
	return amount, nil
}

func done(cmd *cobra.Command, e *ledger.Engine, msg string) error {
	account, _ := e.Current()
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	printAccount(cmd, &account)
	return nil
}

func printAccount(cmd *cobra.Command, a *domain.Account) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, a.String())
	if a.NegativeSince != nil {
		overdrawn := time.Since(*a.NegativeSince).Truncate(time.Second)
		fmt.Fprintf(out, "Overdrawn for %s\n", durafmt.Parse(overdrawn).LimitFirstN(2))
	}
}
