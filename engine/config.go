// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package engine

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Config holds the engine's tunables: block capacity, producer
// backpressure watermarks, and a system-table flag. Of these, only
// BlockCapacityBytes is read when an Execution is built.
type Config struct {
	// BlockCapacityBytes bounds every block's byte budget. Zero means
	// "use DefaultBlockCapacityBytes".
	BlockCapacityBytes int `json:"blockCapacityBytes"`
	// ProducerHighWatermark and ProducerLowWatermark hold producer
	// backpressure thresholds; LoadConfig fills a zero with 10 and 5.
	// Nothing in this module passes them to a Producer: producer.New
	// always uses producer.DefaultHighWatermark/DefaultLowWatermark.
	ProducerHighWatermark int `json:"producerHighWatermark"`
	ProducerLowWatermark  int `json:"producerLowWatermark"`
	// EnableSystemTables defaults to true in DefaultConfig. Nothing in
	// this module reads it: catalog.New always registers the built-in
	// SYSTEM_* tables.
	EnableSystemTables bool `json:"enableSystemTables"`
}

// DefaultBlockCapacityBytes is the block size a Config with
// BlockCapacityBytes left at zero resolves to: 4 MiB, matching the
// original implementation's default block size.
const DefaultBlockCapacityBytes = 4 << 20

// DefaultConfig returns the engine's documented defaults: 4 MiB
// blocks, watermarks 10/5, system tables enabled.
func DefaultConfig() Config {
	return Config{
		BlockCapacityBytes:    DefaultBlockCapacityBytes,
		ProducerHighWatermark: 10,
		ProducerLowWatermark:  5,
		EnableSystemTables:    true,
	}
}

// LoadConfig reads a YAML-formatted Config from path, filling any
// field left at its zero value from DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("engine: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parsing %s: %w", path, err)
	}
	if cfg.BlockCapacityBytes == 0 {
		cfg.BlockCapacityBytes = DefaultBlockCapacityBytes
	}
	if cfg.ProducerHighWatermark == 0 {
		cfg.ProducerHighWatermark = 10
	}
	if cfg.ProducerLowWatermark == 0 {
		cfg.ProducerLowWatermark = 5
	}
	return cfg, nil
}
