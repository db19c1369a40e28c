// Package migrations embeds the SQL schema migrations applied by the schema
// guard. Every statement is create-if-missing so concurrent first-callers
// racing a cold start cannot error.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
