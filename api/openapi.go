// Package api embeds the OpenAPI description of the HTTP surface.
package api

import _ "embed"

// OpenAPI is the raw openapi.yaml document.
//
//go:embed openapi.yaml
var OpenAPI []byte
