// Package config provides configuration loading, merging, and validation
// facilities for the application.
//
// Configuration is assembled from multiple sources; later sources override
// earlier non-zero fields:
//  1. Config file (JSON or YAML, path from CONFIG or --config)
//  2. Environment variables (a .env file in the working directory is loaded
//     first and never overrides variables that are already set)
//  3. Command-line flags
//
// Defaults are applied to whatever is still zero after merging, and the
// result is validated before it is returned by [GetStructuredConfig].
package config
