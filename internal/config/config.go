package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/seedhunt/internal/verify"
	"github.com/danmuck/seedhunt/internal/wordlist"
)

// PhraseLength is the only mnemonic length supported.
const PhraseLength = 12

var ErrInvalidConfig = errors.New("config: invalid recovery config")

// Recovery is the validated search configuration loaded from TOML.
type Recovery struct {
	Words      []string
	Head       bool
	Scheme     verify.Scheme
	Target     string
	Network    verify.Network
	Path       verify.Path
	Timeout    time.Duration
	StatusAddr string
}

// config.toml key mapping to Recovery.
type fileConfig struct {
	Words      string `toml:"words"`
	Head       bool   `toml:"head"`
	AddrType   string `toml:"addr_type"`
	ExpectAddr string `toml:"expect_addr"`
	Network    string `toml:"network"`
	Path       string `toml:"path"`
	Timeout    string `toml:"timeout"`
	StatusAddr string `toml:"status_addr"`
}

var requiredKeys = []string{"words", "head", "expect_addr"}

func DefaultRecovery() Recovery {
	path, _ := verify.ParsePath(verify.DefaultPath)
	return Recovery{
		Scheme:  verify.SchemeP2WPKH,
		Network: verify.Mainnet,
		Path:    path,
	}
}

// Load reads and validates a recovery config file.
func Load(path string) (Recovery, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Recovery{}, fmt.Errorf("%w: load %s: %w", ErrInvalidConfig, path, err)
	}
	return fromFile(raw, meta)
}

// Parse is Load for in-memory TOML.
func Parse(data string) (Recovery, error) {
	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Recovery{}, fmt.Errorf("%w: parse: %w", ErrInvalidConfig, err)
	}
	return fromFile(raw, meta)
}

func fromFile(raw fileConfig, meta toml.MetaData) (Recovery, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Recovery{}, fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}
	for _, key := range requiredKeys {
		if !meta.IsDefined(key) {
			return Recovery{}, fmt.Errorf("%w: missing %q", ErrInvalidConfig, key)
		}
	}

	cfg := DefaultRecovery()
	cfg.Words = strings.Fields(raw.Words)
	cfg.Head = raw.Head
	cfg.Target = strings.TrimSpace(raw.ExpectAddr)

	if meta.IsDefined("addr_type") {
		scheme, err := verify.ParseScheme(raw.AddrType)
		if err != nil {
			return Recovery{}, err
		}
		cfg.Scheme = scheme
	}

	if meta.IsDefined("network") {
		network, err := verify.ParseNetwork(raw.Network)
		if err != nil {
			return Recovery{}, err
		}
		cfg.Network = network
	}

	if meta.IsDefined("path") {
		path, err := verify.ParsePath(raw.Path)
		if err != nil {
			return Recovery{}, err
		}
		cfg.Path = path
	}

	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return Recovery{}, fmt.Errorf("%w: parse timeout: %w", ErrInvalidConfig, err)
		}
		cfg.Timeout = d
	}

	if meta.IsDefined("status_addr") {
		cfg.StatusAddr = strings.TrimSpace(raw.StatusAddr)
	}

	if err := cfg.Validate(); err != nil {
		return Recovery{}, err
	}
	return cfg, nil
}

// Validate checks word count, dictionary membership and the target address.
func (r Recovery) Validate() error {
	if len(r.Words) < 1 || len(r.Words) >= PhraseLength {
		return fmt.Errorf("%w: words must hold 1..%d known words, got %d", ErrInvalidConfig, PhraseLength-1, len(r.Words))
	}
	if err := wordlist.English().Check(r.Words); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if r.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %s", ErrInvalidConfig, r.Timeout)
	}
	return r.VerifyParams().Validate()
}

// Missing is the number of words to recover.
func (r Recovery) Missing() int {
	return PhraseLength - len(r.Words)
}

func (r Recovery) VerifyParams() verify.Params {
	return verify.Params{
		Scheme:  r.Scheme,
		Network: r.Network,
		Path:    r.Path,
		Target:  r.Target,
	}
}
