// Package models defines the core domain models for tabsplit.
//
// # Models
//
//   - SplitRequest / Participant / SplitItem: the immutable input bundle
//     one allocation run is computed from
//   - SplitSummary: the portable snapshot of a finished allocation
//   - SplitRecord: a summary persisted into a user's history
//   - User: a registered account that owns history records
//
// # Design principles
//
//  1. Inputs are snapshots: the caller owns the mutable participant and
//     item collections and hands the engine a fresh SplitRequest after
//     every edit. Nothing in this package is mutated by computation.
//  2. Amounts are money.Money (integer minor units) everywhere inside
//     the engine; summaries carry decimal strings because they are an
//     export format, not a computation input.
//  3. Relationships use ID strings, not pointers, to keep models flat
//     and serializable.
package models
