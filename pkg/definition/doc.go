// Package definition parses ap.toml recipes into AutopageDef values.
//
// A recipe holds repeated [[match]] tables (window class/name patterns) and
// repeated [[button]] tables, each with optional nested [[button.action]]
// tables. Parsing is a pure transform; icon patterns stay unresolved until
// the icons package rewrites them.
package definition
