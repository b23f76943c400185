// Command framereader is a thin CLI shell around pkg/videoreader, useful
// for inspecting a container's stream metadata or dumping a single decoded
// frame to disk without embedding the reader in a host plugin.
package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/fogleman/gg"
	"github.com/urfave/cli/v2"

	"github.com/yazici/openfx-io/pkg/adapters/ffmpegcodec"
	"github.com/yazici/openfx-io/pkg/adapters/logger"
	"github.com/yazici/openfx-io/pkg/adapters/mp4container"
	"github.com/yazici/openfx-io/pkg/adapters/osfilesystem"
	"github.com/yazici/openfx-io/pkg/adapters/yuvconvert"
	"github.com/yazici/openfx-io/pkg/ports"
	"github.com/yazici/openfx-io/pkg/videoreader"
)

func main() {
	app := &cli.App{
		Name:  "framereader",
		Usage: "inspect and decode frames from a video container",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn, error, quiet"},
		},
		Commands: []*cli.Command{
			infoCommand(),
			decodeCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "framereader:", err)
		os.Exit(1)
	}
}

func openReader(c *cli.Context, path string) (*videoreader.Reader, error) {
	log := logger.NewConsole(ports.ParseLogLevel(c.String("log-level")))
	r := videoreader.New(path, mp4container.New(), ffmpegcodec.New(), yuvconvert.New(), log)
	if r.IsInvalid() {
		return nil, fmt.Errorf("%s", r.GetError())
	}
	return r, nil
}

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "print stream metadata",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("missing path argument")
			}
			r, err := openReader(c, path)
			if err != nil {
				return err
			}
			defer r.Close()

			width, height, aspect, frames, _ := r.GetInfo(0)
			fpsNum, fpsDen, _ := r.GetFPS(0)
			fmt.Printf("size:       %dx%d\n", width, height)
			fmt.Printf("aspect:     %.4f\n", aspect)
			fmt.Printf("frames:     %d\n", frames)
			fmt.Printf("fps:        %d/%d\n", fpsNum, fpsDen)
			fmt.Printf("bit depth:  %d\n", r.GetBitDepth())
			fmt.Printf("components: %d\n", r.GetNumComponents())
			fmt.Printf("colorspace: %s\n", r.GetColorspace())
			fmt.Printf("row size:   %d\n", r.GetRowSize())
			fmt.Printf("buf size:   %d\n", r.GetBufferSize())
			return nil
		},
	}
}

func decodeCommand() *cli.Command {
	var frame int
	var out string
	var loadNearest bool
	var maxRetries int
	var overlay bool
	return &cli.Command{
		Name:      "decode",
		Usage:     "decode a single frame to a PNG file",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "frame", Destination: &frame, Value: 0},
			&cli.StringFlag{Name: "out", Destination: &out, Value: "frame.png"},
			&cli.BoolFlag{Name: "load-nearest", Destination: &loadNearest, Value: true},
			&cli.IntFlag{Name: "max-retries", Destination: &maxRetries, Value: 2},
			&cli.BoolFlag{Name: "overlay", Destination: &overlay, Usage: "burn the frame number into the corner"},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("missing path argument")
			}
			r, err := openReader(c, path)
			if err != nil {
				return err
			}
			defer r.Close()

			if !r.Decode(frame, loadNearest, maxRetries) {
				return fmt.Errorf("decode failed: %s", r.GetError())
			}

			width, height, _, _, _ := r.GetInfo(0)
			img := bufferToImage(r.GetData(), width, height, r.GetNumComponents(), r.GetBitDepth())
			if overlay {
				img = burnFrameNumber(img, frame)
			}

			fs := osfilesystem.New()
			return writePNG(fs, out, img)
		},
	}
}

// bufferToImage interprets the reader's packed output buffer as an
// image.Image for encoding; only the 8-bit paths are common enough to
// warrant a CLI preview, 16-bit sources are downsampled to 8-bit here.
func bufferToImage(buf []byte, width, height, components, bitDepth int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	sampleSize := 1
	if bitDepth > 8 {
		sampleSize = 2
	}
	stride := components * sampleSize
	for y := 0; y < height; y++ {
		row := buf[y*width*stride:]
		for x := 0; x < width; x++ {
			o := x * stride
			get := func(ch int) uint8 {
				if sampleSize == 2 {
					return row[o+ch*2+1]
				}
				return row[o+ch]
			}
			a := uint8(255)
			if components == 4 {
				a = get(3)
			}
			img.SetRGBA(x, y, color.RGBA{R: get(0), G: get(1), B: get(2), A: a})
		}
	}
	return img
}

func burnFrameNumber(img image.Image, frame int) image.Image {
	b := img.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.DrawImage(img, 0, 0)
	dc.SetRGB(1, 1, 0)
	dc.DrawString(fmt.Sprintf("frame %d", frame), 8, float64(b.Dy())-8)
	return dc.Image()
}

func writePNG(fs interface {
	WriteFile(path string, data []byte) error
}, path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return fs.WriteFile(path, buf.Bytes())
}
