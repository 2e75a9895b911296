package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/perrijuan/sistema-bancario/internal/domain"
)

const statementTimeLayout = "02/01/2006 15:04:05"

// RenderStatement prints entries one per line in local time. Debits show in
// parentheses.
func RenderStatement(w io.Writer, accountNumber string, entries []domain.Transaction, now time.Time) {
	fmt.Fprintf(w, "=== Statement for account %s ===\n", accountNumber)
	fmt.Fprintf(w, "Generated at: %s\n", now.Local().Format(statementTimeLayout))
	if len(entries) == 0 {
		fmt.Fprintln(w, "No transactions found.")
		return
	}
	for i := range entries {
		fmt.Fprintln(w, formatEntry(&entries[i]))
	}
}

func formatEntry(t *domain.Transaction) string {
	amount := "R$ " + t.Amount.Abs().StringFixed(2)
	if t.IsDebit() {
		amount = "(" + amount + ")"
	}
	return fmt.Sprintf("%s - %s: %s", t.Timestamp.Local().Format(statementTimeLayout), t.Description, amount)
}
