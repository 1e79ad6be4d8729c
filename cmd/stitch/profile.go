package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stitchlang/stitch"
)

// profile is a YAML preload file: runtime options, an inline prelude, and
// script files to run in order at startup.
type profile struct {
	Options struct {
		BareStrings bool `yaml:"bareStrings"`
	} `yaml:"options"`
	Prelude string   `yaml:"prelude"`
	Scripts []string `yaml:"scripts"`
}

func loadProfile(path string) (*profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("profile %v: %w", path, err)
	}
	return &p, nil
}

func (p *profile) apply(ctx context.Context, rt *stitch.Runtime) error {
	if p.Prelude != "" {
		if err := rt.Run(ctx, p.Prelude); err != nil {
			return fmt.Errorf("prelude: %w", err)
		}
	}
	for _, path := range p.Scripts {
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := rt.Run(ctx, string(src)); err != nil {
			return fmt.Errorf("%v: %w", path, err)
		}
	}
	return nil
}
