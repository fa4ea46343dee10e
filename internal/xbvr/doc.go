// Package xbvr is a typed client for the subset of the XBVR REST API used by
// the bookkeeping commands: listing unmatched files, searching and listing
// scenes, binding files to scenes, triggering scrapes, and deleting scenes.
//
// Responses are decoded into typed records and validated before they reach
// callers. Every failure wraps services.ErrRemoteCall; decode and validation
// failures additionally wrap ErrInvalidResponse so callers can choose to
// treat a garbled body as "no results".
package xbvr
