// Package javid extracts JAV release identifiers from loosely formatted text
// such as filenames and renders them in the forms catalog searches expect.
//
// Filenames in the wild delimit the producer code and sequence number
// inconsistently ("ABCD-123", "abcd_123", "ABCD.123", "abcd123"), so a single
// permissive pattern is matched and the result normalized: producer codes are
// upper-cased, sequence numbers lose leading zeros and are re-padded to three
// digits. The legacy DSVR code is rewritten to 3DSVR.
//
// Group buckets many inputs by identifier, which is how several files (camera
// angles, companion scripts) attach to one release.
package javid
