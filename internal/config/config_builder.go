package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// configBuilder collects partial configs from every source and merges them
// in priority order. Errors are accumulated and reported by build.
type configBuilder struct {
	fileCfg *StructuredConfig
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building config: %w", b.err)
	}

	sources := make([]*StructuredConfig, 0, len(b.configs)+1)
	if b.fileCfg != nil {
		sources = append(sources, b.fileCfg)
	}
	sources = append(sources, b.configs...)

	config := new(StructuredConfig)
	for _, cfg := range sources {
		if err := mergo.Merge(config, cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (b *configBuilder) withDotEnv(path string) *configBuilder {
	if err := loadDotEnv(path); err != nil {
		b.err = errors.Join(b.err, err)
	}
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags(flagCfg *StructuredConfig) *configBuilder {
	if flagCfg == nil {
		return b
	}

	b.configs = append(b.configs, flagCfg)
	return b
}

// withFile parses the config file named by the highest-priority source that
// set FilePath. The file has the lowest priority when merged.
func (b *configBuilder) withFile() *configBuilder {
	var path string
	for _, cfg := range b.configs {
		if cfg.FilePath != "" {
			path = cfg.FilePath
		}
	}

	if path == "" {
		return b
	}

	fileCfg, err := parseFile(path)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.fileCfg = fileCfg
	return b
}
