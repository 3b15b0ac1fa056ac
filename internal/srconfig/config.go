// Copyright 2023 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package srconfig resolves sysrepoctl's directory roots and defaults
// from flags, environment variables and an optional YAML config file,
// with the same precedence order as gnmidiff/cmd/root.go: flags beat
// viper.AutomaticEnv, which beats the config file.
package srconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds every directory root and default the Manager (srmodule)
// needs to operate, plus daemon-reachability behaviour.
type Config struct {
	SchemaRoot       string `mapstructure:"schema-root" yaml:"schema-root"`
	DataRoot         string `mapstructure:"data-root" yaml:"data-root"`
	SocketsRoot      string `mapstructure:"sockets-root" yaml:"sockets-root"`
	InternalDataRoot string `mapstructure:"internal-data-root" yaml:"internal-data-root"`

	DefaultOwner       string `mapstructure:"owner" yaml:"owner"`
	DefaultPermissions string `mapstructure:"permissions" yaml:"permissions"`

	DaemonEndpoint string `mapstructure:"daemon-endpoint" yaml:"daemon-endpoint"`
	DaemonRequired bool   `mapstructure:"daemon-required" yaml:"daemon-required"`
}

// Default returns the conventional sysrepo directory layout rooted at
// prefix (the hidden --0=<root> CLI flag retargets this for tests).
func Default(prefix string) Config {
	if prefix == "" {
		prefix = "/etc/sysrepo"
	}
	return Config{
		SchemaRoot:         filepath.Join(prefix, "yang"),
		DataRoot:           filepath.Join(prefix, "data"),
		SocketsRoot:        filepath.Join(prefix, "data", "sockets"),
		InternalDataRoot:   filepath.Join(prefix, "data", "internal"),
		DefaultOwner:       "",
		DefaultPermissions: "0600",
		DaemonEndpoint:     "unix:///var/run/sysrepo-sysrepod.sock",
		DaemonRequired:     false,
	}
}

// Load builds a Config from defaults, an optional YAML file, environment
// variables and already-bound cobra flags, in that increasing order of
// precedence. v is the *viper.Viper the caller's PreRunE has
// already bound flags into (see cmd/sysrepoctl/root.go).
func Load(v *viper.Viper, configFile, rootPrefix string) (Config, error) {
	cfg := Default(rootPrefix)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("srconfig: reading config file %s: %w", configFile, err)
		}
	}
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("srconfig: unmarshalling config: %w", err)
	}

	for _, key := range []string{"schema-root", "data-root", "sockets-root", "internal-data-root", "owner", "permissions", "daemon-endpoint", "daemon-required"} {
		if v.IsSet(key) {
			switch key {
			case "schema-root":
				cfg.SchemaRoot = v.GetString(key)
			case "data-root":
				cfg.DataRoot = v.GetString(key)
			case "sockets-root":
				cfg.SocketsRoot = v.GetString(key)
			case "internal-data-root":
				cfg.InternalDataRoot = v.GetString(key)
			case "owner":
				cfg.DefaultOwner = v.GetString(key)
			case "permissions":
				cfg.DefaultPermissions = v.GetString(key)
			case "daemon-endpoint":
				cfg.DaemonEndpoint = v.GetString(key)
			case "daemon-required":
				cfg.DaemonRequired = v.GetBool(key)
			}
		}
	}

	return cfg, nil
}

// EnsureDirs creates every root directory the Manager will write under,
// so a fresh install doesn't fail on ENOENT for the roots themselves.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.SchemaRoot, c.DataRoot, c.SocketsRoot, c.InternalDataRoot} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("srconfig: creating %s: %w", dir, err)
		}
	}
	return nil
}
