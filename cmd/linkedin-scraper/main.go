// Command linkedin-scraper searches LinkedIn people by keyword and location,
// stores one JSON record per profile and exports them as a table.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
