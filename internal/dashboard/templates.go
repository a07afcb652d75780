package dashboard

import _ "embed"

//go:embed index.html
var indexTemplate string
