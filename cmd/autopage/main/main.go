package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/autopage/cmd/autopage"
	"github.com/arthur-debert/autopage/pkg/ui/styles"
)

func main() {
	rootCmd := autopage.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Render("Error", fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
