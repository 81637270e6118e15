// Package recurrence materializes concrete transactions from recurring
// rules. Materialization is a pure batch computation: it consumes the rule
// set and an evaluation date and emits the transactions that became due,
// together with the advanced rule cursors. Persisting both in a single
// database transaction is the caller's responsibility; committing them
// separately could duplicate or lose occurrences across a crash.
package recurrence

import (
	"time"

	"fintrack/internal/models"
)

// Result pairs the transactions emitted by one materialization pass with
// the rules whose cursor advanced. Only changed rules are included.
type Result struct {
	NewTransactions []models.Transaction
	UpdatedRules    []models.RecurringRule
}

// Materialize walks every rule and emits one transaction per due date up
// to today, advancing each rule's LastGeneratedDate cursor as it goes.
//
// This is a catch-up scheduler, not a timer: if the application was not
// evaluated for several periods, all backlogged occurrences are emitted in
// one pass. Repeated calls with the same evaluation date produce nothing
// new, because the cursor has already advanced past it.
//
// Emitted transactions carry no ID or creation timestamp; the persistence
// layer stamps those on insert. Rules are assumed valid (creation-time
// validation guarantees account, category and a positive amount), so no
// revalidation happens here.
func Materialize(rules []models.RecurringRule, today time.Time) Result {
	day := startOfDay(today)

	var result Result
	for _, rule := range rules {
		if !rule.IsActive {
			continue
		}
		if rule.EndDate != nil && day.After(startOfDay(*rule.EndDate)) {
			// Soft retirement: the rule stays in place but stops producing.
			continue
		}

		cursor := startOfDay(rule.StartDate)
		if rule.LastGeneratedDate != nil {
			// A cursor exists, so its date has already been emitted;
			// advance once before testing to emit each due date exactly once.
			cursor = step(startOfDay(*rule.LastGeneratedDate), rule.Frequency)
		}

		emitted := false
		for !cursor.After(day) {
			if rule.EndDate != nil && cursor.After(startOfDay(*rule.EndDate)) {
				break
			}

			categoryID := rule.CategoryID
			ruleID := rule.ID
			result.NewTransactions = append(result.NewTransactions, models.Transaction{
				Description:     rule.Description,
				Amount:          rule.Amount,
				Type:            rule.Type,
				Date:            cursor,
				Time:            "00:00",
				AccountID:       rule.AccountID,
				CategoryID:      &categoryID,
				RecurringRuleID: &ruleID,
			})

			generated := cursor
			rule.LastGeneratedDate = &generated
			emitted = true
			cursor = step(cursor, rule.Frequency)
		}

		if emitted {
			result.UpdatedRules = append(result.UpdatedRules, rule)
		}
	}
	return result
}

// step advances a due date by one frequency interval. AddDate normalizes
// month and year overflow (Jan 31 + 1 month = Mar 2/3), matching how the
// due dates have always drifted for end-of-month start dates.
func step(t time.Time, frequency models.RuleFrequency) time.Time {
	switch frequency {
	case models.RuleFrequencyDaily:
		return t.AddDate(0, 0, 1)
	case models.RuleFrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case models.RuleFrequencyMonthly:
		return t.AddDate(0, 1, 0)
	case models.RuleFrequencyYearly:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
