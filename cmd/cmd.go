// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		authCommand, playlistsCommand, aliasCommand, addCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// authCommand authenticates with Spotify via OAuth2
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Authenticate with Spotify using OAuth2",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Auth,
	}
}

// playlistsCommand lists the playlist catalog
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlists",
		Usage: "List your Spotify playlists",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Playlists,
	}
}

// aliasCommand manages spoken-name aliases
func aliasCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "alias",
		Usage: "Manage spoken-name aliases for playlists",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Map a spoken name to a playlist",
				ArgsUsage: "<name> <playlist>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
					&cli.StringArg{Name: "playlist"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.AliasAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove an alias",
				ArgsUsage: "<name>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.AliasRemove,
			},
			{
				Name:  "list",
				Usage: "List all aliases",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AliasList,
			},
		},
	}
}

// addCommand runs the voice-phrase pipeline
func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add the currently playing track to the playlist named by a phrase",
		ArgsUsage: "<phrase>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "phrase"},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "allow-duplicates",
				Usage: "Append even when the track is already in the playlist",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Accept the best match without prompting",
			},
			&cli.StringFlag{
				Name:  "track",
				Usage: "Track URI to add instead of the current playback",
			},
		},
		Action: r.Add,
	}
}

// setupCommand initializes local state
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize local configuration and storage",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize the alias database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}
