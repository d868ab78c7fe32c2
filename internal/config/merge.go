package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyUpstream = "upstream"
	keyCache    = "cache"
	keyServer   = "server"
	keyLogging  = "logging"
)

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. A section present in the overlay replaces the whole
// section in the target; fields the overlay section omits take their
// defaults from New, not from the target. Sections absent in the overlay are
// left unchanged. Unknown top-level keys are ignored.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	for key, node := range overlay {
		if err = unmarshalSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q in %s: %w", key, overlayPath, err)
		}
	}
	return nil
}

// unmarshalSection decodes node into a fresh default section and assigns it
// to target. yaml.v3 merges into existing values, so decoding directly into
// target would leak fields from earlier layers.
func unmarshalSection(target *Config, key string, node *yaml.Node) error {
	defaults := New()

	switch key {
	case keyUpstream:
		v := defaults.Upstream
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Upstream = v
	case keyCache:
		v := defaults.Cache
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Cache = v
	case keyServer:
		v := defaults.Server
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Server = v
	case keyLogging:
		v := defaults.Logging
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	}
	return nil
}
