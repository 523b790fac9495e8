// Package models contains GORM-specific persistence models that map to
// database tables. They are kept separate from domain entities so the
// domain layer stays free of ORM concerns: persistence models carry all
// GORM annotations and table mappings, and mappers convert between the
// two representations.
//
// Structure:
//   - base.go: shared persistence fields (BaseModel, AggregateModel)
//   - identity.go: user accounts
//   - catalog.go: courses
//   - enrollment.go: enrollments
//   - billing.go: invoices, installments and ledger entries
package models
