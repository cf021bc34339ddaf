package services

import (
	"pengeluaran/internal/core"
)

// Row is a transaction prepared for display.
type Row struct {
	ID          string
	Date        string
	Kind        core.Kind
	Category    string
	Description string
	Amount      string
}

// Render formats transactions with the current currency preference and
// the service's date formatter.
func (s *LedgerService) Render(txs []core.Transaction) []Row {
	code := s.currency.Code()
	rows := make([]Row, len(txs))
	for i, tx := range txs {
		rows[i] = Row{
			ID:          tx.ID,
			Date:        s.dates.FormatMillis(tx.CreatedAt),
			Kind:        tx.Kind,
			Category:    tx.Category.String(),
			Description: tx.Description,
			Amount:      core.FormatCurrency(tx.Amount, code),
		}
	}
	return rows
}
