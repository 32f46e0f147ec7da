// Package config defines configuration for archivedoc.
//
// Configuration comes from three layers, applied in order:
//  1. Built-in defaults (NewConfig)
//  2. An optional YAML seed file (.archivedoc in cwd or home directory)
//  3. CLI flags, which always win
//
// The Config struct is passed through the application by dependency
// injection; there is no package-level configuration state.
package config
