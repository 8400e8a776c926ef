// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/netip"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const minTokenSignKeyLength = 32

// validate checks that the merged and defaulted [StructuredConfig] can be
// used at startup. In development and test environments a missing sign key is
// replaced by a random one that lives only as long as the process.
func (cfg *StructuredConfig) validate() error {
	switch cfg.App.Env {
	case EnvDevelopment, EnvTest, EnvStaging, EnvProduction:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEnvironment, cfg.App.Env)
	}

	if err := cfg.validateSignKey(); err != nil {
		return err
	}

	if cfg.App.TokenDuration <= 0 || cfg.App.TokenIssuer == "" {
		return fmt.Errorf("%w: token duration and issuer are required", ErrInvalidAppConfigs)
	}

	if cfg.App.BcryptCost < bcrypt.MinCost || cfg.App.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: bcrypt cost %d out of range", ErrInvalidAppConfigs, cfg.App.BcryptCost)
	}

	admin := cfg.App.BootstrapAdmin
	if (admin.Email == "") != (admin.Password == "") {
		return ErrInvalidBootstrapAdmin
	}

	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: database DSN is required", ErrInvalidStorageConfigs)
	}

	if _, err := ParseTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return err
	}

	return nil
}

// ParseTrustedProxies parses CIDRs ("10.0.0.0/8") and bare addresses
// ("192.0.2.10", treated as a single-host prefix).
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidTrustedProxy, entry)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTrustedProxy, entry)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return prefixes, nil
}

func (cfg *StructuredConfig) validateSignKey() error {
	if cfg.App.IsDevelopment() {
		if cfg.App.TokenSignKey == "" {
			key, err := randomSignKey()
			if err != nil {
				return err
			}
			cfg.App.TokenSignKey = key
			cfg.App.EphemeralSignKey = true
		}
		return nil
	}

	if cfg.App.TokenSignKey == "" {
		return ErrMissingTokenSignKey
	}

	if len(cfg.App.TokenSignKey) < minTokenSignKeyLength {
		return ErrWeakTokenSignKey
	}

	return nil
}

func randomSignKey() (string, error) {
	buf := make([]byte, minTokenSignKeyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error generating sign key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
