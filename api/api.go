// Package api carries the OpenAPI description of the console routes.
package api

import _ "embed"

//go:embed openapi.yml
var OpenAPI []byte
