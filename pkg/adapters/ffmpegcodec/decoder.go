// Package ffmpegcodec implements ports.NativeDecoder as a persistent
// ffmpeg subprocess: compressed access units are piped to its stdin and
// raw decoded frames are read back from its stdout, mirroring the
// avcodec_send_packet/avcodec_receive_frame push-pull contract without a
// cgo binding. The process is kept alive across the whole decode session
// rather than spawned per frame, so codec delay (buffered B-frame
// reordering) is genuinely observable instead of being flattened away.
package ffmpegcodec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"github.com/yazici/openfx-io/pkg/ports"
)

// ErrFFmpegNotFound is returned when the ffmpeg binary cannot be located.
var ErrFFmpegNotFound = errors.New("ffmpegcodec: ffmpeg not found in PATH")

// customFFmpegPath lets a host override the discovered binary.
var customFFmpegPath string

// SetFFmpegPath overrides the ffmpeg binary used by all decoders.
func SetFFmpegPath(path string) { customFFmpegPath = path }

// FindFFmpeg searches for ffmpeg via an explicit override, the FFMPEG_PATH
// environment variable, PATH, and a handful of common install locations.
func FindFFmpeg() (string, error) {
	if customFFmpegPath != "" {
		if _, err := os.Stat(customFFmpegPath); err == nil {
			return customFFmpegPath, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrFFmpegNotFound, customFFmpegPath)
	}
	if envPath := os.Getenv("FFMPEG_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: FFMPEG_PATH %s not found", ErrFFmpegNotFound, envPath)
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}
	if p, err := exec.LookPath(execName); err == nil {
		return p, nil
	}

	var commonPaths []string
	switch runtime.GOOS {
	case "windows":
		commonPaths = []string{`C:\ffmpeg\bin\ffmpeg.exe`, `C:\Program Files\ffmpeg\bin\ffmpeg.exe`}
	case "darwin":
		commonPaths = []string{"/opt/homebrew/bin/ffmpeg", "/usr/local/bin/ffmpeg"}
	default:
		commonPaths = []string{"/usr/bin/ffmpeg", "/usr/local/bin/ffmpeg", "/snap/bin/ffmpeg"}
	}
	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", ErrFFmpegNotFound
}

// Decoder is a ports.NativeDecoder backed by a persistent ffmpeg process.
type Decoder struct {
	mu sync.Mutex

	params  ports.DecoderParams
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  *bufio.Reader
	stderr  bytes.Buffer
	frameSz int

	frames chan ports.DecodedFrame
	errs   chan error
	done   chan struct{}

	delay int
}

// New creates an unopened decoder.
func New() *Decoder {
	return &Decoder{}
}

func inputFormat(codec ports.CodecID) (string, error) {
	switch codec {
	case ports.CodecH264:
		return "h264", nil
	case ports.CodecAV1:
		return "obu", nil
	default:
		return "", fmt.Errorf("ffmpegcodec: unsupported codec %s", codec)
	}
}

func (d *Decoder) Open(params ports.DecoderParams) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ffmpegPath, err := FindFFmpeg()
	if err != nil {
		return err
	}
	inFmt, err := inputFormat(params.Codec)
	if err != nil {
		return err
	}

	threads := params.Threads
	if threads < 1 {
		threads = 1
	}
	if threads > 16 {
		threads = 16
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-threads", fmt.Sprintf("%d", threads),
		"-f", inFmt,
		"-i", "pipe:0",
		"-f", "rawvideo",
		"-pix_fmt", "yuv420p",
	}
	if params.LowDelay {
		args = append(args, "-flags", "low_delay")
	}
	args = append(args, "pipe:1")

	cmd := exec.Command(ffmpegPath, args...)
	cmd.Stderr = &d.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("ffmpegcodec: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpegcodec: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpegcodec: start ffmpeg: %w", err)
	}

	d.params = params
	d.cmd = cmd
	d.stdin = stdin
	d.stdout = bufio.NewReaderSize(stdout, 1<<20)
	d.frameSz = params.Width * params.Height * 3 / 2 // yuv420p
	d.frames = make(chan ports.DecodedFrame, 4)
	d.errs = make(chan error, 1)
	d.done = make(chan struct{})
	d.delay = 1

	go d.readLoop()
	return nil
}

// readLoop continuously pulls fixed-size raw frames off ffmpeg's stdout
// and pushes them onto a buffered channel so SendPacket never blocks on
// a decoder that hasn't produced output yet.
func (d *Decoder) readLoop() {
	defer close(d.done)
	buf := make([]byte, d.frameSz)
	for {
		if _, err := io.ReadFull(d.stdout, buf); err != nil {
			if err != io.EOF && err != io.ErrUnexpectedEOF {
				select {
				case d.errs <- err:
				default:
				}
			}
			return
		}
		frame := decodeYUV420P(buf, d.params.Width, d.params.Height)
		select {
		case d.frames <- frame:
		case <-d.done:
			return
		}
	}
}

func decodeYUV420P(buf []byte, w, h int) ports.DecodedFrame {
	ySize := w * h
	cSize := (w / 2) * (h / 2)
	y := buf[:ySize]
	u := buf[ySize : ySize+cSize]
	v := buf[ySize+cSize : ySize+2*cSize]
	return ports.DecodedFrame{
		Format:  ports.PixFmtYUV420P,
		Width:   w,
		Height:  h,
		Planes:  [][]byte{y, u, v},
		Strides: []int{w, w / 2, w / 2},
	}
}

func (d *Decoder) SendPacket(data []byte) error {
	d.mu.Lock()
	stdin := d.stdin
	d.mu.Unlock()
	if stdin == nil {
		return fmt.Errorf("ffmpegcodec: decoder not open")
	}
	_, err := stdin.Write(data)
	if err != nil {
		return fmt.Errorf("ffmpegcodec: write packet: %w", err)
	}
	return nil
}

func (d *Decoder) ReceiveFrame() (ports.DecodedFrame, error) {
	select {
	case f := <-d.frames:
		return f, nil
	case err := <-d.errs:
		return ports.DecodedFrame{}, fmt.Errorf("ffmpegcodec: decode error: %w\nstderr: %s", err, d.stderr.String())
	default:
	}
	select {
	case f := <-d.frames:
		return f, nil
	case <-d.done:
		select {
		case f := <-d.frames:
			return f, nil
		default:
			return ports.DecodedFrame{}, ports.ErrDecoderEOF
		}
	default:
		return ports.DecodedFrame{}, ports.ErrNoFrameAvailable
	}
}

func (d *Decoder) Flush() error {
	d.mu.Lock()
	stdin := d.stdin
	d.stdin = nil
	d.mu.Unlock()
	if stdin != nil {
		stdin.Close()
	}
	return nil
}

// Reset discards buffered output and restarts the underlying process so a
// seek always resumes decoding from a clean codec state.
func (d *Decoder) Reset() error {
	params := d.params
	if err := d.Close(); err != nil {
		return err
	}
	return d.Open(params)
}

func (d *Decoder) Delay() int {
	return d.delay
}

func (d *Decoder) Close() error {
	d.mu.Lock()
	stdin := d.stdin
	cmd := d.cmd
	d.stdin = nil
	d.cmd = nil
	d.mu.Unlock()

	if stdin != nil {
		stdin.Close()
	}
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Wait()
	}
	return nil
}

var _ ports.NativeDecoder = (*Decoder)(nil)
