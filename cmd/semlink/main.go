// Command semlink builds semantic links for a Markdown corpus and serves
// search and recommendations over the result.
package main

import (
	"os"

	"github.com/custodia-labs/semlink/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Execute(version, wire); err != nil {
		os.Exit(1)
	}
}
