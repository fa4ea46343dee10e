// Package altmatch matches funscripts named after SexLikeReal releases to the
// same scene scraped from the studio's own site.
//
// SLR funscripts are named like "Studio.Title.12345.oculus.8k.funscript"; the
// numeric SLR id sits in the third-from-last dot-separated part of the stem.
// XBVR records that id as an alternate source of the studio scene, so a
// lookup from alternate external id to scene resolves the match.
package altmatch
