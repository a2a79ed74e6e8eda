// Package config loads and validates application configuration.
//
// Values come from built-in defaults, an optional config.yaml, and
// environment variables prefixed with DECK_ (nested keys joined with
// underscores, e.g. DECK_AUTH_JWT_SECRET). Environment variables win.
package config
