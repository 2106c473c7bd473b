package verify

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

var (
	ErrUnsupportedScheme  = errors.New("verify: unsupported address scheme")
	ErrUnsupportedNetwork = errors.New("verify: unsupported network")
	ErrInvalidPath        = errors.New("verify: invalid derivation path")
)

// Scheme is the address encoding applied to the derived public key.
type Scheme int

const (
	SchemeP2WPKH Scheme = iota + 1
)

const DefaultScheme = "p2wpkh"

func ParseScheme(raw string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", DefaultScheme:
		return SchemeP2WPKH, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedScheme, raw)
	}
}

func (s Scheme) String() string {
	switch s {
	case SchemeP2WPKH:
		return DefaultScheme
	default:
		return "unknown"
	}
}

// Network selects the chain parameters used for key versions and address HRP.
type Network int

const (
	Mainnet Network = iota
	Testnet
	Regtest
)

func ParseNetwork(raw string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "mainnet", "main", "bitcoin":
		return Mainnet, nil
	case "testnet", "testnet3", "test":
		return Testnet, nil
	case "regtest", "regression":
		return Regtest, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedNetwork, raw)
	}
}

func (n Network) Params() *chaincfg.Params {
	switch n {
	case Testnet:
		return &chaincfg.TestNet3Params
	case Regtest:
		return &chaincfg.RegressionNetParams
	default:
		return &chaincfg.MainNetParams
	}
}

func (n Network) String() string {
	switch n {
	case Testnet:
		return "testnet"
	case Regtest:
		return "regtest"
	default:
		return "mainnet"
	}
}

// Path is a BIP-32 derivation path from the master key to the account key.
type Path []uint32

const DefaultPath = "m/44'/0'/0'"

// ParsePath accepts "m/44'/0'/0'" style paths; "h" and "H" mark hardened
// levels as well as "'".
func ParsePath(raw string) (Path, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultPath
	}
	parts := strings.Split(raw, "/")
	if parts[0] != "m" && parts[0] != "M" {
		return nil, fmt.Errorf("%w: %q must start with m", ErrInvalidPath, raw)
	}
	out := make(Path, 0, len(parts)-1)
	for _, part := range parts[1:] {
		hardened := false
		if n := len(part); n > 0 && (part[n-1] == '\'' || part[n-1] == 'h' || part[n-1] == 'H') {
			hardened = true
			part = part[:n-1]
		}
		idx, err := strconv.ParseUint(part, 10, 32)
		if err != nil || idx >= hdkeychain.HardenedKeyStart {
			return nil, fmt.Errorf("%w: bad level %q in %q", ErrInvalidPath, part, raw)
		}
		level := uint32(idx)
		if hardened {
			level += hdkeychain.HardenedKeyStart
		}
		out = append(out, level)
	}
	return out, nil
}

func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, level := range p {
		b.WriteByte('/')
		if level >= hdkeychain.HardenedKeyStart {
			b.WriteString(strconv.FormatUint(uint64(level-hdkeychain.HardenedKeyStart), 10))
			b.WriteByte('\'')
			continue
		}
		b.WriteString(strconv.FormatUint(uint64(level), 10))
	}
	return b.String()
}
