package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"karolbroda.com/lyricline/internal/lyrics"
	"karolbroda.com/lyricline/internal/player"
	"karolbroda.com/lyricline/internal/track"
	"karolbroda.com/lyricline/internal/trackid"
)

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "player utilities",
	Long:  `discover running music players and inspect what they report.`,
}

var playerListCmd = &cobra.Command{
	Use:   "list",
	Short: "list running players",
	Long:  `list all players the selected backend can see, most relevant first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)

		provider, release, err := newProvider(cfg)
		if err != nil {
			return err
		}
		defer release()

		ctx := context.Background()

		names, err := provider.Players(ctx)
		if err != nil {
			return fmt.Errorf("failed to list players: %w", err)
		}

		if len(names) == 0 {
			fmt.Println("no players found")
			fmt.Println("\ncheck if your music player is running and supports mpris")
			return nil
		}

		registry := trackid.Default(cfg.YesPlayMusicURL, nil)

		fmt.Printf("found %d player(s):\n\n", len(names))
		for _, name := range names {
			line := "  " + name

			// only the dbus backend can ask for a display name
			if mpris, ok := provider.(*player.MPRIS); ok {
				if identity := mpris.Identity(ctx, name); identity != "" {
					line += " (" + identity + ")"
				}
			}
			if _, ok := registry.Lookup(name); !ok {
				line += " [no lyrics source]"
			}
			fmt.Println(line)
		}

		fmt.Println("\nuse --player flag to follow a specific player")

		return nil
	},
}

var playerCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "show currently playing track",
	Long:  `display the metadata of the active player and the lyrics key derived from it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)

		provider, release, err := newProvider(cfg)
		if err != nil {
			return err
		}
		defer release()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
		defer cancel()

		name, err := player.Active(ctx, provider, cfg.Player)
		if err != nil {
			return fmt.Errorf("failed to find player: %w", err)
		}
		if name == "" {
			fmt.Println("no player running")
			return nil
		}

		metadata, err := provider.Metadata(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to read metadata: %w", err)
		}

		snapshot := track.FromMetadata(name, metadata)
		registry := trackid.Default(cfg.YesPlayMusicURL, lyrics.NewHTTPClient(cfg.FetchTimeout))
		key := registry.Key(ctx, name, snapshot.TrackID)

		fmt.Printf("player:   %s\n", snapshot.Player)
		printField("title", snapshot.Title)
		printField("artist", snapshot.Artist)
		printField("album", snapshot.Album)
		printField("artwork", snapshot.ArtworkURL)
		printField("trackid", snapshot.TrackID)
		printField("key", key)

		if snapshot.HasPosition() {
			position, err := lyrics.ParseDuration(snapshot.Position)
			if err != nil {
				fmt.Printf("position: %s (unparseable)\n", snapshot.Position)
			} else {
				fmt.Printf("position: %s\n", lyrics.FormatDuration(position))
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(playerCmd)

	playerCmd.AddCommand(playerListCmd)
	playerCmd.AddCommand(playerCurrentCmd)
}

func printField(name string, value string) {
	if value == "" {
		return
	}
	fmt.Printf("%-9s %s\n", name+":", value)
}
