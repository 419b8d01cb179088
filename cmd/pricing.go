package cmd

import (
	"bytes"
	"fmt"
	"os"

	"freight/internal/core/domain/services"

	"gopkg.in/yaml.v3"
)

// LoadPricingParams reads pricing parameters from a YAML file. An empty path
// yields services.DefaultPricingParams. Unknown keys are rejected.
func LoadPricingParams(path string) (services.PricingParams, error) {
	if path == "" {
		return services.DefaultPricingParams(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return services.PricingParams{}, fmt.Errorf("read pricing config: %w", err)
	}
	return ParsePricingParams(data)
}

func ParsePricingParams(data []byte) (services.PricingParams, error) {
	var params services.PricingParams
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&params); err != nil {
		return services.PricingParams{}, fmt.Errorf("decode pricing config: %w", err)
	}
	if err := params.Validate(); err != nil {
		return services.PricingParams{}, fmt.Errorf("invalid pricing config: %w", err)
	}
	return params, nil
}
