// Command docx2tex converts Word documents to LaTeX.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/dgallion1/docx2tex/internal/convert"
	"github.com/dgallion1/docx2tex/internal/docx"
	"github.com/dgallion1/docx2tex/internal/latex"
	"github.com/dgallion1/docx2tex/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for docx2tex.
var CLI struct {
	LogLevel  string `name:"log-level" default:"warn" env:"LOG_LEVEL" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" default:"text" env:"LOG_FORMAT" help:"Log format (json, text)"`

	Convert ConvertCmd `cmd:"" help:"Convert a .docx file to LaTeX"`
	Rels    RelsCmd    `cmd:"" help:"Print the document relationship map"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// ConvertCmd converts one document.
type ConvertCmd struct {
	Path       string `arg:"" help:"Path to the .docx file" type:"existingfile"`
	Out        string `short:"o" default:"." help:"Output directory" type:"path"`
	BodyOnly   bool   `name:"body-only" help:"Write only the converted body, without preamble"`
	NoMedia    bool   `name:"no-media" help:"Do not copy embedded media"`
	ImageWidth string `name:"image-width" default:"\\textwidth" env:"IMAGE_WIDTH" help:"Width given to \\includegraphics"`

	stdout io.Writer `kong:"-"`
}

func (c *ConvertCmd) Run(log *slog.Logger) error {
	if err := latex.CheckImageWidth(c.ImageWidth); err != nil {
		return fmt.Errorf("--image-width: %w", err)
	}

	pkg, err := docx.Open(c.Path)
	if err != nil {
		return err
	}
	defer pkg.Close()

	if err := os.MkdirAll(c.Out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	texPath := filepath.Join(c.Out, docx.Stem(c.Path)+".tex")
	f, err := os.Create(texPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	log = log.With("input", c.Path)
	opts := convert.Options{ImageWidth: c.ImageWidth}
	var stats convert.Stats
	if c.BodyOnly {
		stats, err = convert.Body(f, pkg, nil, log, opts)
	} else {
		stats, err = convert.Document(f, pkg, log, opts)
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	if err != nil {
		return err
	}

	media := 0
	if !c.NoMedia {
		if media, err = pkg.CopyMedia(filepath.Join(c.Out, convert.MediaDir)); err != nil {
			return err
		}
	}

	log.Info("converted", "output", texPath, "media", media, "incomplete", stats.Incomplete)
	out := c.stdout
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "%s: %d paragraphs, %d equations, %d links, %d images, %d media files\n",
		texPath, stats.Paragraphs, stats.Equations, stats.Links, stats.Images, media)
	if stats.Unresolved > 0 || stats.Skipped > 0 {
		fmt.Fprintf(out, "warning: %d unresolved relationships, %d skipped tags\n", stats.Unresolved, stats.Skipped)
	}
	if stats.Incomplete {
		fmt.Fprintln(out, "warning: document.xml ended early; output is truncated")
	}
	return nil
}

// RelsCmd prints the relationship map of a document.
type RelsCmd struct {
	Path string `arg:"" help:"Path to the .docx file" type:"existingfile"`

	stdout io.Writer `kong:"-"`
}

func (c *RelsCmd) Run(log *slog.Logger) error {
	pkg, err := docx.Open(c.Path)
	if err != nil {
		return err
	}
	defer pkg.Close()

	m, err := pkg.Relationships(log)
	if err != nil {
		return err
	}
	out := c.stdout
	if out == nil {
		out = os.Stdout
	}
	for _, id := range m.IDs() {
		fmt.Fprintf(out, "%s\t%s\n", id, m[id])
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("docx2tex version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("docx2tex"),
		kong.Description("Convert Word documents to LaTeX"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	log, err := logging.FromStrings(CLI.LogLevel, CLI.LogFormat, os.Stderr)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(log)
	ctx.FatalIfErrorf(err)
}
