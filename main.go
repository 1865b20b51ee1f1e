package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/magazine-feedback/internal/analyze"
	"github.com/dtnitsch/magazine-feedback/internal/serve"
	"github.com/dtnitsch/magazine-feedback/pkg/help"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "magfeedback",
		Usage: "Feedback on magazine PDF submissions: word and image counts, fonts and cover conventions",
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "Analyze a magazine PDF and write a feedback document",
				ArgsUsage: "<file.pdf>",
				Flags:     analyze.Flags(),
				Action:    analyze.AnalyzeAction,
			},
			{
				Name:   "serve",
				Usage:  "Run the browser upload form",
				Flags:  serve.Flags(),
				Action: serve.ServeAction,
			},
			{
				Name:  "quickstart",
				Usage: "Print a quick start guide (YAML)",
				Action: func(c *cli.Context) error {
					fmt.Print(help.QuickstartYAML)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
