// Package classify maps normalized honor entries to an award type and a
// category using an award's ordered pattern rules.
package classify
