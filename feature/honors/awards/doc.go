// Package awards loads the per-award rule tables that drive classification
// and cap enforcement.
//
// Each award declares its aliases, provenance tag, regex patterns for
// excluded variants, recommended, nominee, plain-winner, and side-award
// pages, and its caps (including the nominee cap by era). A default set is
// embedded; a YAML file given in config replaces it.
//
// # Usage
//
//	reg, err := awards.Open(cfg.Sync.AwardsFile)
//	award, ok := reg.Lookup("spiel des jahres")
//	caps := award.Caps()
package awards
