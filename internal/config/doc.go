// Package config loads, validates, and normalizes Verbatim's TOML
// configuration.
//
// Configuration resolves from an explicit path, then
// ~/.config/verbatim/config.toml, then ./verbatim.toml, falling back to
// built-in defaults when no file exists. All path fields are expanded to
// absolute paths during load so the rest of the system never handles "~" or
// relative directories.
package config
