package main

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/bodgit/rlepix"
	"github.com/bodgit/rlepix/editor"
	"github.com/bodgit/rlepix/palette"
	"github.com/bodgit/rlepix/rle"
	"github.com/bodgit/rlepix/tui"
	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v2"
)

const (
	defaultDB      = "rlepix.db"
	defaultSize    = 16
	defaultWorkers = 10
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func loadPalette(c *cli.Context) (palette.Palette, error) {
	file := c.String("palette")
	if file == "" {
		return palette.Default, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return palette.Default, err
	}
	defer f.Close()

	return palette.ReadRIFF(f)
}

func loadImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	return m, err
}

func openLibrary(c *cli.Context) (*rlepix.Library, error) {
	p, err := loadPalette(c)
	if err != nil {
		return nil, err
	}
	return rlepix.New(c.String("db"), c.Int("width"), c.Int("height"), p, newLogger(c))
}

func trimValue(c *cli.Context) (uint8, error) {
	v := c.Uint("trim")
	if v > math.MaxUint8 {
		return 0, fmt.Errorf("trim must be 0 to %d, got %d", math.MaxUint8, v)
	}
	return uint8(v), nil
}

func editSprite(c *cli.Context) error {
	logger := newLogger(c)

	l, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer l.Close()

	name := c.Args().First()

	width, height := c.Int("width"), c.Int("height")
	m, err := l.Get(name)
	if err != nil {
		return err
	}
	if m != nil {
		width, height = m.Width(), m.Height()
	}

	ed, err := editor.New(width, height, logger)
	if err != nil {
		return err
	}
	ed.Palettes()[0] = *l.Palette()
	if m != nil {
		if err := ed.Load(m); err != nil {
			return err
		}
	}
	if s := c.String("import"); s != "" {
		if err := ed.Import(s, !c.Bool("merge")); err != nil {
			return err
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}

	err = tui.New(screen, ed, logger).Run()
	screen.Fini()
	if err != nil {
		return err
	}

	if name == "" {
		if s, err := ed.Hex(); err == nil {
			fmt.Println(s)
		}
		return nil
	}

	return l.Put(name, ed.Canvas())
}

func newApp(cwd string) *cli.App {
	app := cli.NewApp()

	app.Name = "rlepix"
	app.Usage = "Run length encoded pixel art utility"
	app.Version = "1.0.0"

	paletteFlag := &cli.StringFlag{
		Name:  "palette",
		Usage: "RIFF palette `FILE` to use instead of the default",
	}
	trimFlag := &cli.UintFlag{
		Name:  "trim",
		Usage: "number of leading rows to leave out of the encoding",
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"RLEPIX_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.IntFlag{
			Name:  "width",
			Value: defaultSize,
			Usage: "sprite width",
		},
		&cli.IntFlag{
			Name:  "height",
			Value: defaultSize,
			Usage: "sprite height",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "encode",
			Usage:     "Encode an image as hex",
			ArgsUsage: "FILE",
			Flags:     []cli.Flag{trimFlag, paletteFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				trim, err := trimValue(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				p, err := loadPalette(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				src, err := loadImage(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				m, err := p.Convert(src)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				m.VerticalTrim = trim

				e, err := rle.Encode(m)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				fmt.Println(e)

				return nil
			},
		},
		{
			Name:      "decode",
			Usage:     "Decode hex to a PNG image",
			ArgsUsage: "HEX",
			Flags: []cli.Flag{
				trimFlag,
				paletteFlag,
				&cli.IntFlag{
					Name:  "scale",
					Value: 1,
					Usage: "upscale factor",
				},
				&cli.StringFlag{
					Name:  "out",
					Value: "out.png",
					Usage: "output `FILE`",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				trim, err := trimValue(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				p, err := loadPalette(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				e, err := rle.ParseHex(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				m, err := e.Decode(c.Int("width"), c.Int("height"), trim)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				f, err := os.Create(c.String("out"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer f.Close()

				if err := png.Encode(f, rlepix.Preview(m, &p, c.Int("scale"))); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "import",
			Usage:     "Import a directory of images into the database",
			ArgsUsage: "DIRECTORY",
			Flags: []cli.Flag{
				paletteFlag,
				&cli.IntFlag{
					Name:  "workers",
					Value: defaultWorkers,
					Usage: "number of images decoded concurrently",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				l, err := openLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer l.Close()

				n, err := l.Import(context.Background(), c.Args().First(), c.Int("workers"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				newLogger(c).Printf("Imported %d sprites\n", n)

				return nil
			},
		},
		{
			Name:  "list",
			Usage: "List sprites in the database",
			Action: func(c *cli.Context) error {
				l, err := openLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer l.Close()

				sprites, err := l.List()
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				for _, s := range sprites {
					fmt.Printf("%s\t%dx%d\t%d\t%s\n", s.Name, s.Width, s.Height, s.Trim, s.RLE)
				}

				return nil
			},
		},
		{
			Name:      "delete",
			Usage:     "Delete a sprite from the database",
			ArgsUsage: "NAME",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				l, err := openLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer l.Close()

				ok, err := l.Delete(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if !ok {
					return cli.NewExitError(fmt.Sprintf("no such sprite \"%s\"", c.Args().First()), 1)
				}

				return nil
			},
		},
		{
			Name:      "export",
			Usage:     "Export every sprite to a bank file",
			ArgsUsage: "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				l, err := openLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer l.Close()

				b, err := l.Export()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				data, err := b.MarshalBinary()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := os.WriteFile(c.Args().First(), data, 0o644); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "edit",
			Usage:     "Edit a sprite in the terminal",
			ArgsUsage: "[NAME]",
			Flags: []cli.Flag{
				paletteFlag,
				&cli.StringFlag{
					Name:  "import",
					Usage: "seed the canvas from `HEX`",
				},
				&cli.BoolFlag{
					Name:  "merge",
					Usage: "paint the imported pixels over the canvas",
				},
			},
			Action: func(c *cli.Context) error {
				if err := editSprite(c); err != nil {
					return cli.NewExitError(err, 1)
				}
				return nil
			},
		},
		{
			Name:      "palette",
			Usage:     "Extract a palette from an image",
			ArgsUsage: "IMAGE FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				src, err := loadImage(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				p := palette.FromImage(src)

				f, err := os.Create(c.Args().Get(1))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer f.Close()

				if err := p.WriteRIFF(f); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	return app
}

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	if err := newApp(cwd).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
