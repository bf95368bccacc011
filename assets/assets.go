// Package assets embeds the default roster and trait catalogue so the binary
// runs without a data directory.
package assets

import (
	"embed"

	"github.com/katalvlaran/teamsolver/roster"
)

//go:embed champions.json traits.json
var FS embed.FS

// Default loads the embedded dataset.
func Default() (*roster.Dataset, error) {
	return roster.LoadFS(FS, "champions.json", "traits.json")
}
