package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/seedhunt/internal/verify"
	gotoml "github.com/pelletier/go-toml/v2"
)

type templateConfig struct {
	Words      string `toml:"words" comment:"known words in order, whitespace separated (1 to 11 of 12)"`
	Head       bool   `toml:"head" comment:"true when the missing words come before the known words"`
	AddrType   string `toml:"addr_type" comment:"address scheme, only p2wpkh is supported"`
	ExpectAddr string `toml:"expect_addr" comment:"address derived by the complete mnemonic"`
	Network    string `toml:"network" comment:"mainnet, testnet or regtest"`
	Path       string `toml:"path" comment:"account path, the address is taken at <path>/0/0"`
	Timeout    string `toml:"timeout,omitempty" comment:"optional search cutoff, e.g. 90m"`
	StatusAddr string `toml:"status_addr,omitempty" comment:"optional status server listen address"`
}

// Example values: "abandon x11 about" at m/44'/0'/0'/0/0.
func exampleTemplate() templateConfig {
	return templateConfig{
		Words:      strings.TrimSpace(strings.Repeat("abandon ", 11)),
		Head:       false,
		AddrType:   verify.DefaultScheme,
		ExpectAddr: "bc1qmxrw6qdh5g3ztfcwm0et5l8mvws4eva24kmp8m",
		Network:    verify.Mainnet.String(),
		Path:       verify.DefaultPath,
	}
}

// Template renders an example recovery config.
func Template() (string, error) {
	out, err := gotoml.Marshal(exampleTemplate())
	if err != nil {
		return "", fmt.Errorf("config: render template: %w", err)
	}
	return string(out), nil
}

// Render writes cfg back out as TOML.
func Render(cfg Recovery) (string, error) {
	tc := templateConfig{
		Words:      strings.Join(cfg.Words, " "),
		Head:       cfg.Head,
		AddrType:   cfg.Scheme.String(),
		ExpectAddr: cfg.Target,
		Network:    cfg.Network.String(),
		Path:       cfg.Path.String(),
		StatusAddr: cfg.StatusAddr,
	}
	if cfg.Timeout > 0 {
		tc.Timeout = cfg.Timeout.String()
	}
	out, err := gotoml.Marshal(tc)
	if err != nil {
		return "", fmt.Errorf("config: render: %w", err)
	}
	return string(out), nil
}

func WriteTemplate(path string, overwrite bool) error {
	template, err := Template()
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}
