// Package slrscrape queues single-scene scrapes for a list of SexLikeReal
// scene ids, one id per line.
package slrscrape
