// Package candidate owns candidate phrase generation.
//
// Ownership boundary:
// - mixed-radix enumeration of missing-word indices
// - rendering indices to words
// - joining generated words with the known words
//
// Candidate does not validate or derive anything.
package candidate
