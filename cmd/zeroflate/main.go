package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dargueta/zeroflate"
	"github.com/dargueta/zeroflate/png"
	"github.com/dargueta/zeroflate/presets"
	"github.com/dargueta/zeroflate/utilities/sparse"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const outputBufferSize = 1 << 20

func main() {
	// Settings can come from a .env file as well as the environment. It's fine if
	// there isn't one.
	_ = godotenv.Load(".env")

	err := newApp().Run(os.Args)
	if err != nil {
		logrus.Fatalf("fatal error: %s", err.Error())
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "zeroflate",
		Usage: "Generate and examine extremely sparse PNG images",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				EnvVars: []string{"ZEROFLATE_DEBUG"},
			},
		},
		Before: configureLogging,
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Create a PNG image, optionally with a small image in the middle",
				Action: generateImage,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "preset",
						Aliases: []string{"p"},
						Usage:   "Canvas size to use, from the `presets` command",
						EnvVars: []string{"ZEROFLATE_PRESET"},
					},
					&cli.UintFlag{
						Name:    "width",
						Usage:   "Canvas width in pixels; overrides the preset",
						EnvVars: []string{"ZEROFLATE_WIDTH"},
					},
					&cli.UintFlag{
						Name:    "height",
						Usage:   "Canvas height in pixels; overrides the preset",
						EnvVars: []string{"ZEROFLATE_HEIGHT"},
					},
					&cli.StringFlag{
						Name:      "secret",
						Aliases:   []string{"s"},
						Usage:     "PNG, GIF, or JPEG `FILE` to put in the middle of the canvas",
						TakesFile: true,
						EnvVars:   []string{"ZEROFLATE_SECRET"},
					},
					&cli.StringFlag{
						Name:    "color0",
						Usage:   "Background color, as #rrggbb",
						Value:   "#4000e0",
						EnvVars: []string{"ZEROFLATE_COLOR0"},
					},
					&cli.StringFlag{
						Name:    "color1",
						Usage:   "Foreground color, as #rrggbb",
						Value:   "#e00040",
						EnvVars: []string{"ZEROFLATE_COLOR1"},
					},
					&cli.UintFlag{
						Name:    "max-idat",
						Usage:   "Largest IDAT chunk to write, in bytes (0 for no limit)",
						EnvVars: []string{"ZEROFLATE_MAX_IDAT"},
					},
					&cli.StringFlag{
						Name:      "output",
						Aliases:   []string{"o"},
						Usage:     "Where to write the image, or - for stdout",
						Required:  true,
						TakesFile: true,
					},
				},
			},
			{
				Name:      "inspect",
				Usage:     "Check the structure of a PNG image and decompress its pixel data",
				Action:    inspectImage,
				ArgsUsage: "PNG_FILE",
			},
			{
				Name:   "presets",
				Usage:  "List the predefined canvas sizes",
				Action: listPresets,
			},
			{
				Name:      "compress",
				Usage:     "Compress a mostly empty file into a zlib stream",
				Action:    compressFile,
				ArgsUsage: "INPUT_FILE  OUTPUT_FILE",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "min-zero-run",
						Usage: "Shortest run of null bytes to compress as a run",
						Value: sparse.DefaultMinZeroRun,
					},
				},
			},
			{
				Name:      "decompress",
				Usage:     "Expand a zlib stream",
				Action:    decompressFile,
				ArgsUsage: "INPUT_FILE  OUTPUT_FILE",
			},
		},
	}
}

func configureLogging(context *cli.Context) error {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetOutput(os.Stderr)
	if context.Bool("debug") {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.Debug("debug mode enabled")
	}
	return nil
}

func optionsFromFlags(context *cli.Context) (png.Options, error) {
	opts := png.Options{
		MaxIDATSize: uint32(context.Uint("max-idat")),
		Logger:      logrus.StandardLogger(),
	}

	if slug := context.String("preset"); slug != "" {
		preset, err := presets.Get(slug)
		if err != nil {
			return opts, err
		}
		opts.Width = preset.Width
		opts.Height = preset.Height
	}
	for _, flagName := range []string{"width", "height"} {
		if context.Uint(flagName) > png.MaxDimension {
			return opts, zeroflate.ErrImageTooLarge.WithMessage(
				fmt.Sprintf("--%s can be at most %d", flagName, png.MaxDimension))
		}
	}
	if context.IsSet("width") {
		opts.Width = uint32(context.Uint("width"))
	}
	if context.IsSet("height") {
		opts.Height = uint32(context.Uint("height"))
	}
	if opts.Width == 0 || opts.Height == 0 {
		return opts, zeroflate.ErrInvalidArgument.WithMessage(
			"canvas size is required: pass --preset, or --width and --height")
	}

	for i, flagName := range []string{"color0", "color1"} {
		parsed, err := png.ParseColor(context.String(flagName))
		if err != nil {
			return opts, fmt.Errorf("--%s: %w", flagName, err)
		}
		opts.Palette[i] = parsed
	}
	return opts, nil
}

func loadSecret(path string) (*png.Bitmap, error) {
	if path == "" {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, zeroflate.ErrIOFailed.Wrap(err)
	}
	defer file.Close()
	return png.LoadBitmap(bufio.NewReader(file))
}

// createOutput opens a file for writing, treating "-" as stdout. The returned function
// must be called to flush and close the output.
func createOutput(path string) (io.Writer, func() error, error) {
	var file *os.File
	if path == "-" {
		file = os.Stdout
	} else {
		var err error
		file, err = os.Create(path)
		if err != nil {
			return nil, nil, zeroflate.ErrIOFailed.Wrap(err)
		}
	}

	writer := bufio.NewWriterSize(file, outputBufferSize)
	closer := func() error {
		err := writer.Flush()
		if file != os.Stdout {
			if closeErr := file.Close(); err == nil {
				err = closeErr
			}
		}
		return err
	}
	return writer, closer, nil
}

func generateImage(context *cli.Context) error {
	opts, err := optionsFromFlags(context)
	if err != nil {
		return err
	}

	secret, err := loadSecret(context.String("secret"))
	if err != nil {
		return err
	}

	outputPath := context.String("output")
	output, closeOutput, err := createOutput(outputPath)
	if err != nil {
		return err
	}

	n, err := png.Encode(output, opts, secret)
	if closeErr := closeOutput(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	logrus.Infof("wrote %dx%d image to %s (%d bytes)", opts.Width, opts.Height, outputPath, n)
	return nil
}

func inspectImage(context *cli.Context) error {
	if context.NArg() != 1 {
		return cli.Exit("expected exactly one PNG file", 1)
	}

	file, err := os.Open(context.Args().First())
	if err != nil {
		return zeroflate.ErrIOFailed.Wrap(err)
	}
	defer file.Close()

	report, err := png.Inspect(bufio.NewReaderSize(file, outputBufferSize))
	if report != nil {
		out := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(out, "dimensions:\t%d x %d\n", report.Width, report.Height)
		fmt.Fprintf(out, "bit depth:\t%d\n", report.BitDepth)
		fmt.Fprintf(out, "color type:\t%d\n", report.ColorType)
		fmt.Fprintf(out, "palette entries:\t%d\n", len(report.Palette))
		fmt.Fprintf(out, "chunks:\t%d (%d IDAT)\n", report.NumChunks, report.NumIDATChunks)
		fmt.Fprintf(out, "compressed size:\t%d\n", report.CompressedSize)
		fmt.Fprintf(out, "decompressed size:\t%d\n", report.DecompressedSize)
		fmt.Fprintf(out, "non-zero bytes:\t%d\n", report.NonZeroBytes)
		fmt.Fprintf(out, "compression ratio:\t%.1f\n", report.CompressionRatio())
		out.Flush()
	}
	return err
}

func listPresets(context *cli.Context) error {
	out := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(out, "SLUG\tNAME\tWIDTH\tHEIGHT\tPIXEL DATA\tNOTES")
	for _, preset := range presets.All() {
		fmt.Fprintf(
			out,
			"%s\t%s\t%d\t%d\t%d\t%s\n",
			preset.Slug,
			preset.Name,
			preset.Width,
			preset.Height,
			preset.PixelDataSize(),
			preset.Notes)
	}
	return out.Flush()
}

// openInputAndOutput handles the two file arguments of compress and decompress.
func openInputAndOutput(context *cli.Context) (*os.File, io.Writer, func() error, error) {
	if context.NArg() != 2 {
		return nil, nil, nil, cli.Exit("expected an input file and an output file", 1)
	}

	input, err := os.Open(context.Args().Get(0))
	if err != nil {
		return nil, nil, nil, zeroflate.ErrIOFailed.Wrap(err)
	}

	output, closeOutput, err := createOutput(context.Args().Get(1))
	if err != nil {
		input.Close()
		return nil, nil, nil, err
	}
	return input, output, closeOutput, nil
}

func compressFile(context *cli.Context) error {
	input, output, closeOutput, err := openInputAndOutput(context)
	if err != nil {
		return err
	}
	defer input.Close()

	n, err := sparse.Compress(input, output, context.Int("min-zero-run"))
	if closeErr := closeOutput(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	logrus.Infof("compressed %s to %d bytes", input.Name(), n)
	return nil
}

func decompressFile(context *cli.Context) error {
	input, output, closeOutput, err := openInputAndOutput(context)
	if err != nil {
		return err
	}
	defer input.Close()

	n, err := sparse.Decompress(bufio.NewReader(input), output)
	if closeErr := closeOutput(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	logrus.Infof("expanded %s to %d bytes", input.Name(), n)
	return nil
}
