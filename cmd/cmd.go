// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// onboardCommand handles performer onboarding operations
func onboardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "onboard",
		Usage: "Performer onboarding operations",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Show the onboarding checklist",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.OnboardStatus,
			},
			{
				Name:  "connect",
				Usage: "Connect a Stripe account using OAuth2",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.OnboardConnect,
			},
			{
				Name:   "enable",
				Usage:  "Turn on the tipping page",
				Action: r.OnboardEnable,
			},
		},
	}
}

// deviceCommand handles QR-code device operations
func deviceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "device",
		Aliases: []string{"devices"},
		Usage:   "QR-code device operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List registered devices",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.DeviceList,
			},
			{
				Name:  "register",
				Usage: "Register a new QR-code device",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "label",
					},
				},
				Action: r.DeviceRegister,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Unregister a device by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.DeviceRemove,
			},
		},
	}
}

// catalogCommand handles song catalog operations
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"songs"},
		Usage:   "Song catalog operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the song catalog",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of songs to return",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save API response locally",
					},
				},
				Action: r.CatalogList,
			},
			{
				Name:  "search",
				Usage: "Search the catalog by title or artist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CatalogSearch,
			},
			{
				Name:  "upload",
				Usage: "Bulk-upload a catalog from a CSV or text file",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "file",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Input format (csv or txt, inferred from extension when omitted)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Songs per upload request",
						Value: 25,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent upload workers",
						Value: 3,
					},
					&cli.FloatFlag{
						Name:  "rate-limit",
						Usage: "Upload requests per second",
						Value: 5.0,
					},
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "Manifest output path",
					},
				},
				Action: r.CatalogUpload,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove catalog entries by ID",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "id",
						Usage: "Song ID to remove (repeatable)",
					},
				},
				Action: r.CatalogRemove,
			},
			{
				Name:  "export",
				Usage: "Export the catalog to a local file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format (csv, markdown, or txt)",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.CatalogExport,
			},
		},
	}
}

// tipsCommand handles tip listing, inspection, and refunds
func tipsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tips",
		Aliases: []string{"tip"},
		Usage:   "Tip listing and refund operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List tips, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Tips per page",
						Value: 20,
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Page offset",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save tips to tipply_tips.csv",
					},
				},
				Action: r.TipsList,
			},
			{
				Name:  "show",
				Usage: "Show a single tip with refund eligibility",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.TipsShow,
			},
			{
				Name:  "summary",
				Usage: "Aggregate account dashboard (catalog, devices, tips, refunds)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.TipsSummary,
			},
			{
				Name:  "refund",
				Usage: "Refund a processed tip inside the 7-day window",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.TipsRefund,
			},
		},
	}
}

// cacheCommand handles opt-in catalog and tip caching
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Cache catalog and tips locally",
		Commands: []*cli.Command{
			{
				Name:  "catalog",
				Usage: "Cache the song catalog to the local database",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.CacheCatalog,
			},
			{
				Name:  "tips",
				Usage: "Cache all tip pages to the local database",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.CacheTips,
			},
		},
	}
}

// apiCommand handles direct backend API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the Tipply backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the backend, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
			{
				Name:  "dump",
				Usage: "Full account state dump (profile, catalog, tips, devices)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save dump to tipply_dump.json",
						Value: false,
					},
				},
				Action: r.APIDump,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for the interactive onboarding wizard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"wizard", "ui"},
		Usage:   "Launch the interactive onboarding wizard",
		Action:  r.TUI,
	}
}
