package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/soryn/keep-to-obsidian/internal/app/converter"
	pkgconfig "github.com/soryn/keep-to-obsidian/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	source := cmd.Args().First()
	if source == "" {
		return cli.Exit("a source is required: a Takeout JSON file or an extracted export directory", 2)
	}

	opts := converter.DefaultOptions()
	if configPath := cmd.String("config"); configPath != "" {
		if err := pkgconfig.Load(configPath, &opts); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}
	applyFlags(cmd, &opts)

	conv := converter.Converter{
		Source:  source,
		DestDir: cmd.String("dest"),
		Options: opts,
	}
	stats, err := conv.Run()
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	fmt.Printf("converted %d notes, copied %d attachments (%d skipped)\n", stats.Notes, stats.Attachments, stats.Skipped)
	return nil
}

// applyFlags overrides config-file values with flags the user actually set.
func applyFlags(cmd *cli.Command, opts *converter.Options) {
	set := func(name string, target *bool) {
		if cmd.IsSet(name) {
			*target = cmd.Bool(name)
		}
	}
	setStr := func(name string, target *string) {
		if cmd.IsSet(name) {
			*target = cmd.String(name)
		}
	}

	set("labels-as-folders", &opts.LabelsAsFolders)
	set("labels-as-tags", &opts.LabelsAsTags)
	set("tag-pinned", &opts.TagPinned)
	set("archived", &opts.IncludeArchived)
	setStr("archive-dir", &opts.ArchiveDir)
	set("trashed", &opts.IncludeTrashed)
	setStr("trashed-dir", &opts.TrashedDir)
	set("annotations", &opts.IncludeAnnotations)
	set("attachments", &opts.IncludeAttachments)
	setStr("attachment-dir", &opts.AttachmentDir)
	set("metadata", &opts.IncludeMetadata)
	set("mtime", &opts.PreserveModTime)
	set("recursive", &opts.Recursive)
	setStr("untitled-fmt", &opts.UntitledFormat)
}

func main() {
	cmd := &cli.Command{
		Name:      "keep-to-obsidian",
		Usage:     "Convert a Google Keep Takeout export into an Obsidian vault",
		ArgsUsage: "<source>",
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML options file",
				Sources: cli.EnvVars("KEEP_TO_OBSIDIAN_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "dest",
				Aliases: []string{"d"},
				Usage:   "Destination directory for converted files",
				Value:   "out",
			},
			&cli.BoolFlag{
				Name:  "annotations",
				Usage: "Add link preview annotations included in notes",
			},
			&cli.BoolFlag{
				Name:  "attachments",
				Usage: "Embed attachments and copy their files",
				Value: true,
			},
			&cli.StringFlag{
				Name:  "attachment-dir",
				Usage: "Subdirectory for embedded attachments",
				Value: "Attachments",
			},
			&cli.BoolFlag{
				Name:  "archived",
				Usage: "Convert archived notes",
			},
			&cli.StringFlag{
				Name:  "archive-dir",
				Usage: "Subdirectory for archived notes",
				Value: "Archived",
			},
			&cli.BoolFlag{
				Name:  "trashed",
				Usage: "Convert trashed notes",
			},
			&cli.StringFlag{
				Name:  "trashed-dir",
				Usage: "Subdirectory for trashed notes",
				Value: "Trashed",
			},
			&cli.BoolFlag{
				Name:  "metadata",
				Usage: "Add a metadata block at the top of each file",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "labels-as-tags",
				Usage: "Add a tag for each note label at the end",
			},
			&cli.BoolFlag{
				Name:  "labels-as-folders",
				Usage: "Use the first label as a subdirectory",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "tag-pinned",
				Usage: "Add a #pinned tag to pinned notes",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "mtime",
				Usage: "Set the note edit time on converted files",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "recursive",
				Usage: "Scan the source directory recursively",
				Value: true,
			},
			&cli.StringFlag{
				Name:  "untitled-fmt",
				Usage: "Name format for untitled notes (%@ = ISO-8601 creation time, %# = content summary, otherwise Go time layout)",
				Value: "%@ %#",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
