// Package schemas embeds the JSON schemas of the files exchanged with the document templates.
package schemas

import _ "embed"

// Document is the schema of profile.json.
//
//go:embed document.schema.json
var Document []byte
