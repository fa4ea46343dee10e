// Package filematch binds unmatched files to scenes whose known-filename list
// already contains them. Each file costs one quick search, so files are spread
// across a small worker pool.
package filematch
