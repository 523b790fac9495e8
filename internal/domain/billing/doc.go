// Package billing holds the invoice ledger domain: invoices issued for
// enrollments, their installment schedules, and the append-only entry
// ledger that records payments, discounts, refunds, and adjustments.
//
// The Invoice aggregate owns its installments and entries. All money
// movement goes through AppendEntry, which re-derives the paid and
// settled totals, reallocates amounts across the schedule, and recomputes
// the invoice status, so the header is always consistent with the ledger.
package billing
