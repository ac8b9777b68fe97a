// Package page generates StreamController page documents from parsed
// definitions: action encoding, colors, labels, media and grid placement.
package page
