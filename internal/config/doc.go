// Package config provides configuration structures and utilities for annoview.
// It defines the main configuration options for loading annotation directories,
// color assignment, output reshaping, and report generation preferences.
package config
