// Package paths provides centralized path handling for autopage.
// It resolves the XDG locations autopage reads and writes (its own config
// file and log file) and the StreamController data root that resolved icon
// paths point into.
package paths
