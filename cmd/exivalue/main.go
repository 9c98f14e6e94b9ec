package main

import (
	"fmt"
	"os"

	"github.com/rony4d/go-exi-asset/cmd/exivalue/launcher"
)

func main() {

	// Hand the full argument list to the launcher
	if err := launcher.Launch(os.Args); err != nil {

		// Report the issue on stderr so piped output stays clean
		fmt.Fprintln(os.Stderr, "Error:", err)

		// Exit with a non-zero status code to indicate failure
		os.Exit(1)
	}

}
