package main

import (
	"bufio"
	"os"

	"github.com/alecthomas/kong"
	"github.com/dargueta/zeroflate/zlibstream"
	"github.com/sirupsen/logrus"
)

var cli struct {
	Count  int64  `arg:"" help:"Number of null bytes the stream expands to."`
	Output string `arg:"" help:"File to write the zlib stream to." type:"path"`
	Debug  bool   `help:"Enable debug logging." env:"ZEROFLATE_DEBUG"`
}

func main() {
	ctx := kong.Parse(
		&cli,
		kong.Name("zlibzeroes"),
		kong.Description("Write a zlib stream that decompresses to a run of null bytes."),
		kong.UsageOnError(),
	)
	if cli.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	stream := zlibstream.New()
	err := stream.PushZeroes(cli.Count)
	ctx.FatalIfErrorf(err)
	logrus.WithFields(logrus.Fields{
		"count":      cli.Count,
		"outputSize": stream.TotalLength(),
	}).Debug("encoded zero run")

	outFile, err := os.Create(cli.Output)
	if err != nil {
		logrus.Fatalf("failed to open file for writing: `%v`: %s", cli.Output, err)
	}
	defer outFile.Close()

	writer := bufio.NewWriterSize(outFile, 1<<20)
	nWritten, err := stream.WriteTo(writer)
	if err == nil {
		err = writer.Flush()
	}
	if err != nil {
		logrus.Fatalf("error writing stream: %s", err)
	}

	logrus.Infof("Compressed %d null bytes to %d bytes.", cli.Count, nWritten)
}
