// Package ledger derives balances from the transaction history. It is the
// single source of truth for "current balance": account balances are never
// stored, they are recomputed here from each account's initial balance and
// the full transaction set, so stored state can never drift.
package ledger

import (
	"sort"
	"time"

	"fintrack/internal/models"
)

// AccountBalance is the derived state of one account.
type AccountBalance struct {
	Balance int64 `json:"balance"`
	Count   int   `json:"count"`
}

// Line is a settled transaction annotated with the system-wide balance
// immediately after it, in chronological order.
type Line struct {
	models.Transaction
	RunningBalance int64 `json:"running_balance"`
}

// Result is the output of one ledger computation.
type Result struct {
	// PerAccount maps account ID to its derived balance and the number of
	// transactions touching it as source or destination.
	PerAccount map[string]AccountBalance

	// History holds settled transactions with running balances, most
	// recent first (display order).
	History []Line

	// Pending holds transactions whose effective time is strictly in the
	// future, soonest first. They re-enter History once their time passes.
	Pending []models.Transaction
}

// Compute derives per-account balances and the global running balance from
// the full transaction set.
//
// Per-account balances consider every transaction, settled or not: income
// adds, expense and outgoing transfers subtract, incoming transfers add.
//
// The running balance starts from the sum of all initial balances and walks
// the settled transactions in strict chronological order: by (date, time),
// with ties broken by creation time so equal timestamps replay identically.
// Transfers are balance-neutral in this walk: money moving between two
// owned accounts leaves the system total unchanged. The walk is always
// forward; History is reversed only afterwards for display.
func Compute(accounts []models.Account, transactions []models.Transaction, now time.Time) Result {
	perAccount := make(map[string]AccountBalance, len(accounts))
	for _, account := range accounts {
		balance := account.InitialBalance
		count := 0
		for i := range transactions {
			t := &transactions[i]
			involved := false
			if t.AccountID == account.ID {
				involved = true
				if t.Type == models.TransactionTypeIncome {
					balance += t.Amount
				} else { // expense or transfer out
					balance -= t.Amount
				}
			}
			if t.Type == models.TransactionTypeTransfer && t.DestinationAccountID != nil && *t.DestinationAccountID == account.ID {
				involved = true
				balance += t.Amount
			}
			if involved {
				count++
			}
		}
		perAccount[account.ID] = AccountBalance{Balance: balance, Count: count}
	}

	var settled, pending []models.Transaction
	for _, t := range transactions {
		if t.EffectiveTime().After(now) {
			pending = append(pending, t)
		} else {
			settled = append(settled, t)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		ti, tj := pending[i].EffectiveTime(), pending[j].EffectiveTime()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})

	sort.Slice(settled, func(i, j int) bool {
		ti, tj := settled[i].EffectiveTime(), settled[j].EffectiveTime()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return settled[i].CreatedAt.Before(settled[j].CreatedAt)
	})

	var running int64
	for _, account := range accounts {
		running += account.InitialBalance
	}

	history := make([]Line, 0, len(settled))
	for _, t := range settled {
		switch t.Type {
		case models.TransactionTypeIncome:
			running += t.Amount
		case models.TransactionTypeExpense:
			running -= t.Amount
		}
		// transfers leave the running total unchanged
		history = append(history, Line{Transaction: t, RunningBalance: running})
	}

	// Reverse for display. Computing on a reversed list would attribute the
	// wrong balance to every line, so this must stay after the walk.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	return Result{PerAccount: perAccount, History: history, Pending: pending}
}
