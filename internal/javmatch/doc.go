// Package javmatch binds unmatched JAV files to catalog scenes.
//
// Files are grouped by the identifier in their filename. Each identifier is
// looked up in the catalog under every rendering; when nothing matches, the
// configured providers are asked to scrape it one at a time, in priority
// order, and the catalog is re-checked after each. The server offers no
// completion signal for scrapes, so the re-check happens after a bounded wait.
package javmatch
