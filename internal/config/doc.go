// Package config provides configuration structures and utilities for imgmeta.
// It defines the options that control how images are inspected, how reports
// are rendered and where extraction history is stored.
package config
