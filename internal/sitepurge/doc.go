// Package sitepurge removes every scene scraped from a given site, typically
// after a scraper was retired or produced bad data.
package sitepurge
