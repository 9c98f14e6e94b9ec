package launcher

import (
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-exi-asset/charset"
	"github.com/rony4d/go-exi-asset/flags"
)

var (
	app = newApp()

	// registry shares pattern-derived character sets across commands.
	registry = charset.NewRegistry()
)

func newApp() *cli.App {
	app := flags.NewApp()
	app.Commands = []cli.Command{
		encodeCommand,
		decodeCommand,
		charsetCommand,
	}
	return app
}

// Launch parses args and runs the selected command.
func Launch(args []string) error {
	return app.Run(args)
}
