// Package config loads the CLI runtime settings from .env files, the
// process environment and an optional YAML service manifest.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultAddr     = ":8080"
	defaultManifest = "kiln.yaml"
)

type Config struct {
	LogLevel     string
	LogFormat    string
	Addr         string
	ParallelInit bool
	ManifestPath string
	Manifest     *Manifest
}

// Load reads the given .env files (".env" when none are given; missing
// files are ignored), then the manifest, then applies environment
// overrides. Environment values win over the manifest.
func Load(envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		Addr:         defaultAddr,
		ManifestPath: env("KILN_MANIFEST", defaultManifest),
	}

	manifest, err := LoadManifest(cfg.ManifestPath)
	switch {
	case errors.Is(err, fs.ErrNotExist) && os.Getenv("KILN_MANIFEST") == "":
		manifest = &Manifest{}
	case err != nil:
		return nil, err
	}
	cfg.Manifest = manifest

	if manifest.Runtime.Addr != "" {
		cfg.Addr = manifest.Runtime.Addr
	}
	if manifest.Runtime.LogLevel != "" {
		cfg.LogLevel = manifest.Runtime.LogLevel
	}
	if manifest.Runtime.LogFormat != "" {
		cfg.LogFormat = manifest.Runtime.LogFormat
	}
	cfg.ParallelInit = manifest.Runtime.ParallelInit

	cfg.LogLevel = env("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = env("LOG_FORMAT", cfg.LogFormat)
	cfg.Addr = env("KILN_ADDR", cfg.Addr)
	if cfg.ParallelInit, err = envBool("KILN_PARALLEL_INIT", cfg.ParallelInit); err != nil {
		return nil, err
	}

	return cfg, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
