// Package normalize validates raw honor records from the source feed and
// converts them into models.HonorEntry values.
//
// Records missing a year, an award set, or any listed game (and, when
// configured, a position) are rejected and counted by reason; one bad record
// never fails the batch.
package normalize
