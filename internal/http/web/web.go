// Package web holds the embedded gate pages served by the HTTP layer.
package web

import _ "embed"

// IndexPage is the authorization gate page: it issues a code, offers it
// for copying into Discord and polls until approval.
//
//go:embed index.html
var IndexPage []byte

// GatedContent is the fragment shown once the visitor's IP is authorized.
//
//go:embed content.html
var GatedContent []byte
