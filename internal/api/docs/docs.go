// Package docs holds the OpenAPI description served at /openapi.yaml and
// rendered by the Swagger UI at /docs/index.html.
package docs

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
