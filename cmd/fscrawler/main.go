// Command fscrawler is the reference CLI entrypoint for the filesystem
// crawler: it loads a TOML config, builds the classifier/matcher/lister,
// and runs the crawl until interrupted.
package main

import (
	"fmt"
	"os"

	"github.com/wiarlawd/fs-crawler/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
