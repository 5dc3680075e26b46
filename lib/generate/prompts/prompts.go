// Package prompts embeds the text-generation prompt templates.
package prompts

import "embed"

//go:embed *.txt
var FS embed.FS
