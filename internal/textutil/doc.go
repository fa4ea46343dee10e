// Package textutil provides filename normalization used when comparing files
// reported by XBVR against the filenames a scene already knows about.
//
// Stems are case-folded with golang.org/x/text so comparisons are caseless
// across scripts, then punctuation runs collapse to single spaces.
package textutil
