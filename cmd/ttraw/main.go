// Command ttraw is a small CLI for poking at the Research API with a
// configured set of client credentials. It exists mainly for manually
// verifying authentication and query behavior.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	ttraw "github.com/ttraw/go-tiktok-api-wrapper"
	"github.com/ttraw/go-tiktok-api-wrapper/pkg/types"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	app := &cli.Command{
		Name:    "ttraw",
		Usage:   "Query the TikTok Research API",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
				Value:   "ttraw.toml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			authCommand(logger),
			userInfoCommand(logger),
			videoSearchCommand(logger),
			playlistCommand(logger),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("command failed: %v", err)
	}
}

// newClient builds a connected-capable client from the --config flag.
func newClient(cmd *cli.Command, logger *log.Logger) (*ttraw.Client, error) {
	config, err := ttraw.LoadConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if cmd.Bool("verbose") {
		logger.SetLevel(log.DebugLevel)
	}
	config.Logger = logger

	return ttraw.NewClient(config)
}

func authCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Verify that a token can be acquired with the configured credentials",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, err := newClient(cmd, logger)
			if err != nil {
				return err
			}
			if err := client.Connect(ctx); err != nil {
				return err
			}
			logger.Info("authentication successful")
			return nil
		},
	}
}

func userInfoCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Fetch profile information for a user",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "Username to look up",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "fields",
				Usage: "Comma-separated profile fields",
				Value: "display_name,follower_count,following_count,video_count,likes_count",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, err := newClient(cmd, logger)
			if err != nil {
				return err
			}

			var fields []types.UserInfoField
			for _, f := range strings.Split(cmd.String("fields"), ",") {
				fields = append(fields, types.UserInfoField(strings.TrimSpace(f)))
			}

			info, err := client.UserInfo(ctx, cmd.String("username"), fields)
			if err != nil {
				return err
			}
			return printJSON(info)
		},
	}
}

func videoSearchCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search videos posted by a user within a date window",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "Username whose videos to search",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "start-date",
				Usage:    "Lower bound of creation time (YYYYMMDD)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "end-date",
				Usage:    "Upper bound of creation time (YYYYMMDD, at most 30 days after start)",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "max-count",
				Usage: "Maximum number of videos per page (1-100)",
				Value: 20,
			},
			&cli.IntFlag{
				Name:  "cursor",
				Usage: "Resume results from this index",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, err := newClient(cmd, logger)
			if err != nil {
				return err
			}

			req, err := types.NewVideoSearchRequestBuilder().
				And(types.OpEQ, types.FieldUsername, cmd.String("username")).
				StartDate(cmd.String("start-date")).
				EndDate(cmd.String("end-date")).
				MaxCount(int(cmd.Int("max-count"))).
				Cursor(int64(cmd.Int("cursor"))).
				Build()
			if err != nil {
				return err
			}

			result, err := client.SearchVideos(ctx, req, []types.VideoField{
				types.VideoFieldID,
				types.VideoFieldUsername,
				types.VideoFieldCreateTime,
				types.VideoFieldVideoDescription,
				types.VideoFieldViewCount,
				types.VideoFieldLikeCount,
			})
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}

func playlistCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Fetch playlist metadata",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "id",
				Usage:    "Playlist ID",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "cursor",
				Usage: "Resume video IDs from this index",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, err := newClient(cmd, logger)
			if err != nil {
				return err
			}

			playlist, err := client.PlaylistInfo(ctx, int64(cmd.Int("id")), int64(cmd.Int("cursor")))
			if err != nil {
				return err
			}
			return printJSON(playlist)
		},
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render response: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
