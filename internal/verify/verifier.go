package verify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tyler-smith/go-bip39"
)

var (
	ErrInvalidTarget     = errors.New("verify: invalid target address")
	ErrDerivationAnomaly = errors.New("verify: derivation failed for a valid mnemonic")
)

// External chain and first address index below the account path.
var addressTail = [2]uint32{0, 0}

// Params is the validated, immutable verification setup shared by all workers.
type Params struct {
	Scheme  Scheme
	Network Network
	Path    Path
	Target  string
}

// Validate checks the scheme and that the target decodes as an address of
// that scheme on the configured network.
func (p Params) Validate() error {
	if p.Scheme != SchemeP2WPKH {
		return fmt.Errorf("%w: %s", ErrUnsupportedScheme, p.Scheme)
	}
	target := strings.TrimSpace(p.Target)
	if target == "" {
		return fmt.Errorf("%w: empty", ErrInvalidTarget)
	}
	net := p.Network.Params()
	addr, err := btcutil.DecodeAddress(target, net)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidTarget, target, err)
	}
	if _, ok := addr.(*btcutil.AddressWitnessPubKeyHash); !ok {
		return fmt.Errorf("%w: %q is not a %s address", ErrInvalidTarget, target, p.Scheme)
	}
	if !addr.IsForNet(net) {
		return fmt.Errorf("%w: %q is not a %s address", ErrInvalidTarget, target, p.Network)
	}
	if addr.EncodeAddress() != target {
		return fmt.Errorf("%w: %q is not in canonical form", ErrInvalidTarget, target)
	}
	return nil
}

// Stats counts the work done by one Verifier.
type Stats struct {
	Checked uint64
	Derived uint64
}

// Verifier derives addresses for candidate phrases. Each worker owns one;
// it is not safe for concurrent use.
type Verifier struct {
	net    *chaincfg.Params
	path   Path
	target string
	stats  Stats
}

func NewVerifier(p Params) (*Verifier, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	path := make(Path, len(p.Path))
	copy(path, p.Path)
	return &Verifier{
		net:    p.Network.Params(),
		path:   path,
		target: strings.TrimSpace(p.Target),
	}, nil
}

// Verify reports whether phrase derives the target address. Phrases that
// fail the mnemonic checksum return false without error.
func (v *Verifier) Verify(phrase string) (bool, error) {
	addr, ok, err := v.Address(phrase)
	if err != nil || !ok {
		return false, err
	}
	return addr == v.target, nil
}

// Address derives the address for phrase. ok is false when phrase is not a
// valid mnemonic.
func (v *Verifier) Address(phrase string) (string, bool, error) {
	v.stats.Checked++
	if _, err := bip39.EntropyFromMnemonic(phrase); err != nil {
		return "", false, nil
	}
	v.stats.Derived++

	seed := bip39.NewSeed(phrase, "")
	key, err := hdkeychain.NewMaster(seed, v.net)
	if err != nil {
		return "", true, fmt.Errorf("%w: master: %v", ErrDerivationAnomaly, err)
	}
	for _, level := range v.path {
		if key, err = key.Derive(level); err != nil {
			return "", true, fmt.Errorf("%w: %s: %v", ErrDerivationAnomaly, v.path, err)
		}
	}
	for _, level := range addressTail {
		if key, err = key.Derive(level); err != nil {
			return "", true, fmt.Errorf("%w: %s/%d: %v", ErrDerivationAnomaly, v.path, level, err)
		}
	}
	pub, err := key.ECPubKey()
	if err != nil {
		return "", true, fmt.Errorf("%w: pubkey: %v", ErrDerivationAnomaly, err)
	}
	addr, err := btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(pub.SerializeCompressed()), v.net)
	if err != nil {
		return "", true, fmt.Errorf("%w: encode: %v", ErrDerivationAnomaly, err)
	}
	return addr.EncodeAddress(), true, nil
}

func (v *Verifier) Stats() Stats {
	return v.stats
}
