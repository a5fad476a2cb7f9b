// Command activities is a terminal client for the reactivities API.
//
//	activities list
//	activities details <id>
//	activities create --title T --date 2026-07-01T19:00:00Z --category drinks ...
//	activities update <id> --venue "New venue"
//	activities delete <id>
//	activities token --username bob
//
// The API address and delay come from the agent section of the config file,
// REACTIVITIES_API_URL, or the global flags.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
		os.Exit(1)
	}

	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		code := 1
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}
}
