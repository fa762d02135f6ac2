// Command resumectl works with resume documents offline: it lists the
// templates, reports completion, renders previews and exports files, and
// migrates the drafts database.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
