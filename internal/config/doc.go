// Package config provides configuration structures and utilities for ctfenum.
// It defines the scan and analysis options populated from CLI flags and an
// optional YAML configuration file.
package config
