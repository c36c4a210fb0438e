package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bodgit/mifont"
	"github.com/bodgit/mifont/bmp"
	"github.com/bodgit/mifont/glyph"
	"github.com/bodgit/mifont/tui"
	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/gg"
	"github.com/urfave/cli/v2"
)

const defaultDB = "mifont.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}

	image.RegisterFormat("bmp", "BM", bmp.Decode, bmp.DecodeConfig)
}

func newLogger(c *cli.Context, w io.Writer) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(w)
	}
	return logger
}

// openEditor returns an editor with file open. The clip database is only
// opened when withDB is set.
func openEditor(c *cli.Context, logger *log.Logger, file string, withDB bool) (*mifont.Editor, func(), error) {
	var db *mifont.ClipDB
	closer := func() {}
	if withDB {
		var err error
		if db, err = mifont.NewClipDB(c.String("db")); err != nil {
			return nil, nil, err
		}
		closer = func() { db.Close() }
	}

	e := mifont.New(db, logger)
	e.Height = c.Int("height")
	if err := e.Open(file); err != nil {
		closer()
		return nil, nil, err
	}
	return e, closer, nil
}

func glyphCode(s string) (int, error) {
	code, err := strconv.Atoi(s)
	if err != nil {
		if r := []rune(s); len(r) == 1 && r[0] < glyph.NumGlyphs {
			return int(r[0]), nil
		}
		return 0, fmt.Errorf("invalid glyph %q", s)
	}
	if code < 0 || code >= glyph.NumGlyphs {
		return 0, glyph.ErrCode
	}
	return code, nil
}

func main() {
	app := cli.NewApp()

	app.Name = "mifont"
	app.Usage = "Monkey Island bitmap font editor"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"MIFONT_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to clip database",
		},
		&cli.IntFlag{
			Name:    "height",
			EnvVars: []string{"MIFONT_HEIGHT"},
			Usage:   "force the glyph height instead of detecting it",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	glyphFlag := &cli.StringFlag{
		Name:    "glyph",
		Aliases: []string{"g"},
		Value:   "0",
		Usage:   "character code or single character",
	}

	zoomFlag := &cli.IntFlag{
		Name:    "zoom",
		Aliases: []string{"z"},
		EnvVars: []string{"MIFONT_ZOOM"},
		Value:   20,
		Usage:   "zoom factor",
	}

	app.Commands = []*cli.Command{
		{
			Name:        "edit",
			Usage:       "Edit font sheets",
			Description: "Mouse: drag to draw, shift+drag to select, wheel to scroll.\nKeys: u/^Z undo, r/^Y redo, c copy, v paste, enter commit, esc cancel,\nd/s draw/select, [ ] colour, + - zoom, g grid, n/p glyph, PgUp/PgDn sheet,\n^S save, q quit. The clipboard is kept when changing sheet.",
			ArgsUsage:   "FILE...",
			Flags:       []cli.Flag{glyphFlag, zoomFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				// Log messages are held back until the screen is released
				var buf bytes.Buffer
				logger := newLogger(c, &buf)
				defer func() {
					io.Copy(os.Stderr, &buf)
				}()

				e, closer, err := openEditor(c, logger, c.Args().First(), true)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				code, err := glyphCode(c.String("glyph"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				e.Canvas().SetZoom(c.Int("zoom"))
				if err := e.Canvas().JumpTo(code); err != nil {
					return cli.Exit(err, 1)
				}

				screen, err := tcell.NewScreen()
				if err != nil {
					return cli.Exit(err, 1)
				}
				if err := screen.Init(); err != nil {
					return cli.Exit(err, 1)
				}
				defer screen.Fini()

				if err := tui.New(screen, e, logger, c.Args().Slice()...).Run(); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "info",
			Usage:       "Describe a font sheet",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := mifont.OpenSheet(c.Args().First(), c.Int("height"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				var used [256]int
				for _, v := range s.Buffer.Image().Pix {
					used[v]++
				}

				fmt.Printf("Size:   %dx%d\n", s.Buffer.Width(), s.Buffer.Height())
				fmt.Printf("Layout: %s, %d %dx%d pixel cells\n", s.Layout.Orientation, s.Layout.Cells, s.Layout.CellWidth, s.Layout.CellHeight)
				fmt.Println("Colors:")
				for i, n := range used {
					if n == 0 {
						continue
					}
					r, g, b, _ := s.Buffer.Color(uint8(i)).RGBA()
					fmt.Printf("  %3d #%02X%02X%02X %d pixels\n", i, r>>8, g>>8, b>>8, n)
				}

				return nil
			},
		},
		{
			Name:        "render",
			Usage:       "Render a font sheet or a single glyph as PNG",
			Description: "",
			ArgsUsage:   "FILE OUTPUT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "glyph",
					Aliases: []string{"g"},
					Usage:   "only render this character code or character",
				},
				zoomFlag,
				&cli.BoolFlag{
					Name:  "grid",
					Value: true,
					Usage: "draw the pixel grid and glyph boundaries",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, closer, err := openEditor(c, newLogger(c, os.Stderr), c.Args().First(), false)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				var dc *gg.Context
				if c.IsSet("glyph") {
					code, err := glyphCode(c.String("glyph"))
					if err != nil {
						return cli.Exit(err, 1)
					}
					if dc, err = e.ExportGlyph(code, c.Int("zoom")); err != nil {
						return cli.Exit(err, 1)
					}
				} else {
					cv := e.Canvas()
					cv.SetZoom(c.Int("zoom"))
					cv.SetGrid(c.Bool("grid"))
					size := cv.ScreenSize()
					dc = gg.NewContext(size.X, size.Y)
					if err := cv.Render(dc); err != nil {
						dc.Close()
						return cli.Exit(err, 1)
					}
				}
				defer dc.Close()

				if err := dc.SavePNG(c.Args().Get(1)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "import",
			Usage:       "Replace a glyph with an image",
			Description: "The image is scaled to the glyph cell and its colors mapped onto those\nalready used by the sheet.",
			ArgsUsage:   "FILE IMAGE",
			Flags:       []cli.Flag{glyphFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, closer, err := openEditor(c, newLogger(c, os.Stderr), c.Args().First(), false)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				code, err := glyphCode(c.String("glyph"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				f, err := os.Open(c.Args().Get(1))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer f.Close()

				m, _, err := image.Decode(f)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := e.ImportGlyph(code, m); err != nil {
					return cli.Exit(err, 1)
				}

				if err := e.Save(); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "verify",
			Usage:       "Check every sheet in a directory survives a round trip",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := mifont.NewClipDB(c.String("db"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				e := mifont.New(db, newLogger(c, os.Stderr))
				e.Height = c.Int("height")

				results, err := e.Verify(context.Background(), c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				failed := 0
				for _, r := range results {
					switch {
					case r.Err != nil:
						failed++
						fmt.Printf("FAIL %s: %s\n", r.File, r.Err)
					case !r.RoundTrip:
						failed++
						fmt.Printf("FAIL %s: round trip differs\n", r.File)
					default:
						fmt.Printf("ok   %s %s %s %dpx\n", r.File, r.CRC, r.Orientation, r.CellHeight)
					}
				}

				if failed > 0 {
					return cli.Exit(fmt.Sprintf("%d of %d sheets failed", failed, len(results)), 1)
				}

				return nil
			},
		},
		{
			Name:  "clip",
			Usage: "Manage stored clips",
			Subcommands: []*cli.Command{
				{
					Name:  "list",
					Usage: "List stored clips",
					Action: func(c *cli.Context) error {
						db, err := mifont.NewClipDB(c.String("db"))
						if err != nil {
							return cli.Exit(err, 1)
						}
						defer db.Close()

						names, err := db.Clips()
						if err != nil {
							return cli.Exit(err, 1)
						}
						for _, name := range names {
							fmt.Println(name)
						}

						return nil
					},
				},
				{
					Name:      "save",
					Usage:     "Store a glyph as a clip",
					ArgsUsage: "FILE NAME",
					Flags:     []cli.Flag{glyphFlag},
					Action: func(c *cli.Context) error {
						if c.NArg() < 2 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}

						e, closer, err := openEditor(c, newLogger(c, os.Stderr), c.Args().First(), true)
						if err != nil {
							return cli.Exit(err, 1)
						}
						defer closer()

						code, err := glyphCode(c.String("glyph"))
						if err != nil {
							return cli.Exit(err, 1)
						}
						r, _ := e.Sheet().Layout.Region(code)

						e.Canvas().Select(r)
						if err := e.Canvas().Copy(); err != nil {
							return cli.Exit(err, 1)
						}
						if err := e.StoreClip(c.Args().Get(1)); err != nil {
							return cli.Exit(err, 1)
						}

						return nil
					},
				},
				{
					Name:      "apply",
					Usage:     "Paste a stored clip over a glyph",
					ArgsUsage: "FILE NAME",
					Flags:     []cli.Flag{glyphFlag},
					Action: func(c *cli.Context) error {
						if c.NArg() < 2 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}

						e, closer, err := openEditor(c, newLogger(c, os.Stderr), c.Args().First(), true)
						if err != nil {
							return cli.Exit(err, 1)
						}
						defer closer()

						code, err := glyphCode(c.String("glyph"))
						if err != nil {
							return cli.Exit(err, 1)
						}

						cv := e.Canvas()
						if err := e.LoadClip(c.Args().Get(1)); err != nil {
							return cli.Exit(err, 1)
						}
						if err := cv.JumpTo(code); err != nil {
							return cli.Exit(err, 1)
						}
						if err := cv.Paste(); err != nil {
							return cli.Exit(err, 1)
						}
						if err := cv.CommitPaste(); err != nil {
							return cli.Exit(err, 1)
						}

						if !e.Modified() {
							return nil
						}

						if err := e.Save(); err != nil {
							return cli.Exit(err, 1)
						}

						return nil
					},
				},
				{
					Name:      "delete",
					Usage:     "Delete a stored clip",
					ArgsUsage: "NAME",
					Action: func(c *cli.Context) error {
						if c.NArg() < 1 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}

						db, err := mifont.NewClipDB(c.String("db"))
						if err != nil {
							return cli.Exit(err, 1)
						}
						defer db.Close()

						if err := db.DeleteClip(c.Args().First()); err != nil {
							return cli.Exit(err, 1)
						}

						return nil
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
