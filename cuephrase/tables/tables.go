// Package tables embeds the built-in cue phrase tables, one YAML file per
// language. Adding a language is a matter of dropping a new <code>.yaml file
// in this directory.
package tables

import "embed"

// FS contains every *.yaml table in this directory.
//
//go:embed *.yaml
var FS embed.FS
