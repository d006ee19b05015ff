package heuristics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/scanrename/constants"
	"github.com/joseph-ayodele/scanrename/internal/common"
)

// Load reads a YAML file over the defaults and validates the result.
// An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, common.NewAppError(common.CodeConfig, "read heuristics file", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes over the defaults and validates the result.
func Parse(b []byte) (Config, error) {
	cfg := Defaults()
	if len(bytes.TrimSpace(b)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, common.NewAppError(common.CodeConfig, "parse heuristics yaml", err)
		}
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cfg against the schema and the cross-field rules the schema cannot express.
func Validate(cfg Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return common.NewAppError(common.CodeConfig, "marshal heuristics", err)
	}
	if err := validateJSONAgainstSchema(buildSchema(), data); err != nil {
		return common.NewAppError(common.CodeConfig, "invalid heuristics", fmt.Errorf("%w: %v", common.ErrValidation, err))
	}

	v := common.NewValidator()
	if cfg.SenderBand.BottomCM <= cfg.SenderBand.TopCM {
		v.AddError("sender_band", "bottom_cm must be greater than top_cm")
	}
	if cfg.SenderBand.RightCM > 0 && cfg.SenderBand.RightCM <= cfg.SenderBand.LeftCM {
		v.AddError("sender_band", "right_cm must be greater than left_cm")
	}
	if cfg.ForceZone != "" {
		if _, ok := constants.Canonicalize(cfg.ForceZone); !ok {
			v.AddError("force_zone", fmt.Sprintf("unknown zone %q", cfg.ForceZone))
		}
	}
	if v.HasErrors() {
		return common.NewAppError(common.CodeConfig, "invalid heuristics", v.Error())
	}
	return nil
}

func validateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("heuristics.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("heuristics.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("does not match schema: %w", err)
	}
	return nil
}
