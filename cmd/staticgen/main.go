// Package main provides the CLI entry point for staticgen.
package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Globals `embed:""`

	Publish PublishCmd `cmd:"" help:"Render paths and publish them as static files."`
	Delete  DeleteCmd  `cmd:"" help:"Delete published files and prune emptied directories."`
	Resolve ResolveCmd `cmd:"" help:"Print the file each path publishes to."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Globals are flags shared by every command.
type Globals struct {
	Config     string `short:"c" type:"path" help:"YAML configuration file." group:"Configuration"`
	WebRoot    string `env:"STATICGEN_WEB_ROOT" type:"path" help:"Directory files are published under." group:"Configuration"`
	ServerName string `env:"STATICGEN_SERVER_NAME" help:"Host name of rendering requests (default: localhost)." group:"Configuration"`

	LogLevel string `short:"l" enum:"debug,info,warn,error," default:"" help:"Log level (debug, info, warn, error)." group:"Logging"`
	Quiet    bool   `short:"Q" help:"Suppress all log output." group:"Logging"`

	stdout io.Writer `kong:"-"`
	stdin  io.Reader `kong:"-"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{Globals: Globals{stdout: os.Stdout, stdin: os.Stdin}}

	ctx := kong.Parse(&cli,
		kong.Name("staticgen"),
		kong.Description(l10n.T("Publish rendered pages of a web application as static files.")),
		kong.UsageOnError(),
	)

	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
