// Package verify owns candidate verification.
//
// Ownership boundary:
// - address scheme, network and derivation path parsing
// - target address validation at load time
// - mnemonic -> seed -> BIP-32 key -> address derivation per candidate
//
// A Verifier is the per-worker derivation context and is never shared
// between goroutines.
package verify
