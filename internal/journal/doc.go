// Package journal records what each batch command did to each item so a later
// `xbvrkit history` can answer "why is this file still unmatched?".
//
// Outcomes live in a small SQLite database in the state directory. The
// package also owns the run lock that keeps two mutating batches from binding
// files at the same time.
package journal
