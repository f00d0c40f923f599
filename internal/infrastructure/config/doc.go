// Package config loads and validates the mood-node configuration.
//
// Configuration comes from three layers, later layers overriding earlier ones:
//
//  1. Hardcoded defaults (defaultConfig)
//  2. A YAML file (configs/config.yaml by default)
//  3. Environment variables (MOODNODE_SECTION_KEY)
//
// The resulting Config value is immutable by convention: it is constructed
// once at startup and passed by value or pointer into component
// constructors. No component reads configuration ambiently.
package config
