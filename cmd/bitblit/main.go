package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bodgit/bitblit"
	"github.com/bodgit/bitblit/bank"
	"github.com/bodgit/bitblit/palette"
	"github.com/bodgit/bitblit/surface"
	"github.com/urfave/cli/v2"
)

const defaultDB = "bitblit.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// parseLayer parses NAME:X,Y[:OPTION...] where each OPTION is one of
// scale=N, rotate=RADIANS, center, repeat or nobounds.
func parseLayer(s string) (bitblit.LayerRef, error) {
	fields := strings.Split(s, ":")
	if len(fields) < 2 || fields[0] == "" {
		return bitblit.LayerRef{}, fmt.Errorf("layer %q: expected NAME:X,Y", s)
	}

	ref := bitblit.LayerRef{Name: fields[0]}
	if _, err := fmt.Sscanf(fields[1], "%d,%d", &ref.X, &ref.Y); err != nil {
		return bitblit.LayerRef{}, fmt.Errorf("layer %q: %w", s, err)
	}

	for _, opt := range fields[2:] {
		k, v, _ := strings.Cut(opt, "=")
		var err error
		switch k {
		case "scale":
			ref.Scale, err = strconv.ParseFloat(v, 64)
		case "rotate":
			ref.Rotate, err = strconv.ParseFloat(v, 64)
		case "center":
			ref.Center = true
		case "repeat":
			ref.Repeat = true
		case "nobounds":
			ref.NoBounds = true
		default:
			err = fmt.Errorf("unknown option %q", k)
		}
		if err != nil {
			return bitblit.LayerRef{}, fmt.Errorf("layer %q: %w", s, err)
		}
	}

	return ref, nil
}

func parseArea(s string) (*image.Rectangle, error) {
	if s == "" {
		return nil, nil
	}
	var x, y, w, h int
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &x, &y, &w, &h); err != nil {
		return nil, fmt.Errorf("area %q: %w", s, err)
	}
	r := image.Rect(x, y, x+w, y+h)
	return &r, nil
}

func parseColor(s string) (color.Color, error) {
	var c color.RGBA
	if _, err := fmt.Sscanf(strings.TrimPrefix(s, "#"), "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return nil, fmt.Errorf("color %q: %w", s, err)
	}
	c.A = 0xff
	return c, nil
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func renderAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	layers := make([]bitblit.LayerRef, 0, c.NArg())
	for _, arg := range c.Args().Slice() {
		ref, err := parseLayer(arg)
		if err != nil {
			return cli.Exit(err, 1)
		}
		layers = append(layers, ref)
	}

	area, err := parseArea(c.String("area"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	dst, err := surface.NewBuffer(c.Int("width"), c.Int("height"), surface.Options{
		BPP:           c.Int("bpp"),
		DevicePalette: c.Bool("device-palette"),
	})
	if err != nil {
		return cli.Exit(err, 1)
	}

	for _, x := range []struct {
		flag string
		set  func(surface.Color)
	}{
		{"foreground", dst.SetForeground},
		{"background", dst.SetBackground},
	} {
		col, err := parseColor(c.String(x.flag))
		if err != nil {
			return cli.Exit(err, 1)
		}
		x.set(palette.ToColor(dst, col))
	}
	dst.Clear(dst.Background())

	m, err := bitblit.New(c.String("db"), newLogger(c))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer m.Close()

	if _, err := m.Render(context.Background(), dst, layers, area); err != nil {
		return cli.Exit(err, 1)
	}

	f, err := os.Create(c.String("output"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer f.Close()

	if err := png.Encode(f, dst); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "bitblit"
	app.Usage = "Packed image library for low-memory displays"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	bppFlag := &cli.IntFlag{
		Name:  "bpp",
		Value: 8,
		Usage: "bits per pixel of the packed image",
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"BITBLIT_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "import",
			Usage:       "Import an image",
			Description: "Decodes a PNG, GIF, JPEG or BMP image and stores it packed, named after the file unless NAME is given.",
			ArgsUsage:   "FILE [NAME]",
			Flags:       []cli.Flag{bppFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				file := c.Args().First()
				name := c.Args().Get(1)
				if name == "" {
					name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
				}

				m, err := bitblit.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer m.Close()

				if err := m.Import(file, name, c.Int("bpp")); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Import every image in a directory tree",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags:       []cli.Flag{bppFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := bitblit.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer m.Close()

				if err := m.Scan(c.Args().First(), c.Int("bpp")); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "list",
			Usage: "List the images in the library",
			Action: func(c *cli.Context) error {
				m, err := bitblit.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer m.Close()

				names, err := m.Names()
				if err != nil {
					return cli.Exit(err, 1)
				}
				for _, name := range names {
					fmt.Fprintln(c.App.Writer, name)
				}

				return nil
			},
		},
		{
			Name:        "export",
			Usage:       "Write a bank of images",
			Description: "Writes the named images, or every image, as a bank a device can load.",
			ArgsUsage:   "[NAME...]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   bank.Filename,
					Usage:   "bank file to write",
				},
			},
			Action: func(c *cli.Context) error {
				m, err := bitblit.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer m.Close()

				f, err := os.Create(c.String("output"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer f.Close()

				if err := m.Export(f, c.Args().Slice()...); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "render",
			Usage:       "Composite images into a PNG",
			Description: "Each LAYER is NAME:X,Y optionally followed by :scale=N, :rotate=RADIANS, :center, :repeat or :nobounds. Layers are listed back to front.",
			ArgsUsage:   "LAYER...",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "width",
					Value: 240,
					Usage: "surface width",
				},
				&cli.IntFlag{
					Name:  "height",
					Value: 240,
					Usage: "surface height",
				},
				&cli.IntFlag{
					Name:  "bpp",
					Value: 16,
					Usage: "surface bits per pixel",
				},
				&cli.BoolFlag{
					Name:  "device-palette",
					Usage: "use the fixed device palettes for 4 and 8 bpp images",
				},
				&cli.StringFlag{
					Name:  "foreground",
					Value: "#ffffff",
					Usage: "foreground color",
				},
				&cli.StringFlag{
					Name:  "background",
					Value: "#000000",
					Usage: "background color",
				},
				&cli.StringFlag{
					Name:  "area",
					Usage: "area to composite as X,Y,WIDTH,HEIGHT",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   "out.png",
					Usage:   "PNG file to write",
				},
			},
			Action: renderAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
