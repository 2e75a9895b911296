// Package cli is the terminal front end of the bank. Every invocation logs in,
// runs one operation and logs out again.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/perrijuan/sistema-bancario/internal/service/ledger"
)

var ErrInvalidCredentials = errors.New("invalid account number or password")

// EngineFactory returns an engine over the opened store.
type EngineFactory func(ctx context.Context) (*ledger.Engine, error)

type session struct {
	newEngine EngineFactory
	account   string
	password  string
}

func NewRootCmd(newEngine EngineFactory) *cobra.Command {
	s := &session{newEngine: newEngine}

	root := &cobra.Command{
		Use:           "bank",
		Short:         "Single-branch bank: accounts, transfers and statements",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&s.account, "account", "a", "", "account number to log in with")
	root.PersistentFlags().StringVarP(&s.password, "password", "p", "", "account password (prompted when omitted)")

	root.AddCommand(
		newCreateAccountCmd(s),
		newSeedCmd(s),
		newBalanceCmd(s),
		newDepositCmd(s),
		newWithdrawCmd(s),
		newTransferCmd(s),
		newManagerVisitCmd(s),
		newStatementCmd(s),
	)

	cc.Init(&cc.Config{
		RootCmd:  root,
		Headings: cc.HiCyan + cc.Bold + cc.Underline,
		Commands: cc.HiYellow + cc.Bold,
		Example:  cc.Italic,
		ExecName: cc.Bold,
		Flags:    cc.Bold,
	})
	return root
}

// Execute runs the command tree and prints any error to stderr.
func Execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return err
}

// withLogin opens an engine, logs in with the --account credentials, runs fn
// and logs out.
func (s *session) withLogin(cmd *cobra.Command, fn func(ctx context.Context, e *ledger.Engine) error) error {
	ctx := cmd.Context()
	if s.account == "" {
		return errors.New("--account is required")
	}
	password, err := s.readPassword(cmd)
	if err != nil {
		return err
	}

	e, err := s.newEngine(ctx)
	if err != nil {
		return err
	}
	ok, err := e.Login(ctx, s.account, password)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}
	defer e.Logout()

	return fn(ctx, e)
}

func (s *session) readPassword(cmd *cobra.Command) (string, error) {
	if s.password != "" {
		return s.password, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
