package config

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/propdata-pk/propdata/internal/valuation"
	"github.com/spf13/viper"
)

//go:embed market.yaml
var defaultMarketYAML []byte

// LoadMarket decodes a market definition. An empty path selects the
// definition compiled into the binary. The result is only decoded here;
// valuation.NewEngineFromDefinition performs the semantic checks.
func LoadMarket(path string) (*valuation.MarketDefinition, error) {
	v := viper.New()

	if path == "" {
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader(defaultMarketYAML)); err != nil {
			return nil, fmt.Errorf("failed to read built-in market definition: %w", err)
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read market definition %s: %w", path, err)
		}
	}

	var def valuation.MarketDefinition
	if err := v.Unmarshal(&def); err != nil {
		return nil, fmt.Errorf("failed to decode market definition: %w", err)
	}

	return &def, nil
}

// LoadEngine loads the market definition at path and builds an engine from it.
func LoadEngine(path string) (*valuation.Engine, error) {
	def, err := LoadMarket(path)
	if err != nil {
		return nil, err
	}

	engine, err := valuation.NewEngineFromDefinition(*def)
	if err != nil {
		return nil, fmt.Errorf("invalid market definition: %w", err)
	}
	return engine, nil
}
