// Package config loads, normalizes, and validates xbvrkit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and overlays XBVR_* environment variables.
// The Config type centralizes every knob the tasks need: the XBVR address,
// scrape timing, the ordered JAV provider list, worker counts, and the local
// state directory.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
