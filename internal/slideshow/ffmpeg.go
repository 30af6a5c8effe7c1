package slideshow

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/humantools/internal/files"
	"github.com/dgallion1/humantools/internal/photo"
)

// FilterGraph pads and centres each slide over a blurred background.
const FilterGraph = "format=yuv420p,rotate=2*PI,split[in_1][in_2];" +
	"[in_1]scale='if(gt(a,1024/576),1000,-1)':'if(gt(a,1024/576),-1,526)':eval=frame[scaled_video];" +
	"[scaled_video]format=rgba,pad=iw+50:ih+50:(ow-iw)/2:(oh-ih)/2:color=#00000000[padded_video];" +
	"[in_2]scale=1024:576:force_original_aspect_ratio=increase,crop=1024:576,boxblur=20[bg];" +
	"[bg][padded_video]overlay=(W-w-10)/2:(H-h-10)/2[out]"

const (
	concatFile = "slides.ffconcat"
	outputFile = "out.mp4"
	slideJPEG  = 95
)

// FFmpeg drives an ffmpeg binary.
type FFmpeg struct {
	Path string
}

func (f *FFmpeg) path() string {
	if f.Path == "" {
		return "ffmpeg"
	}
	return f.Path
}

// Available reports whether the binary can be found.
func (f *FFmpeg) Available() bool {
	_, err := exec.LookPath(f.path())
	return err == nil
}

// SlideFileNames gives each slide a unique on-disk name built from its
// cleaned upload name.
func SlideFileNames(slides []Slide) []string {
	names := make([]string, len(slides))
	for i, s := range slides {
		names[i] = fmt.Sprintf("%04d-%s", i+1, files.SlideName(s.Name))
	}
	return names
}

// Concat renders the ffconcat playlist. The last file is listed again so
// its duration is honoured by the demuxer.
func Concat(names []string, d time.Duration) string {
	secs := strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
	var b strings.Builder
	b.WriteString("ffconcat version 1.0\n")
	for _, n := range names {
		fmt.Fprintf(&b, "file %s\nduration %s\n", n, secs)
	}
	if len(names) > 0 {
		fmt.Fprintf(&b, "file %s\n", names[len(names)-1])
	}
	return b.String()
}

// Args is the ffmpeg command line for a playlist and output path.
func Args(concatPath, outPath string) []string {
	return []string{
		"-hide_banner", "-nostats",
		"-f", "concat", "-safe", "0", "-i", concatPath,
		"-filter_complex", FilterGraph,
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		"-aspect", "1024/576",
		"-map", "[out]",
		"-progress", "pipe:1",
		"-y", outPath,
	}
}

// Encode writes the slides to a scratch directory and runs ffmpeg over them.
func (f *FFmpeg) Encode(ctx context.Context, slides []Slide, d time.Duration, progress ProgressFunc) ([]byte, error) {
	dir, err := os.MkdirTemp("", "humantools-slides-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	names := SlideFileNames(slides)
	for i, s := range slides {
		if err := writeJPEG(filepath.Join(dir, names[i]), s); err != nil {
			return nil, err
		}
	}
	if err := os.WriteFile(filepath.Join(dir, concatFile), []byte(Concat(names, d)), 0o644); err != nil {
		return nil, fmt.Errorf("write playlist: %w", err)
	}

	cmd := exec.CommandContext(ctx, f.path(), Args(concatFile, outputFile)...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	total := time.Duration(len(slides)) * d
	readProgress(stdout, total, progress)
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, tail(stderr.String(), 2048))
	}
	progress(1)

	out, err := os.ReadFile(filepath.Join(dir, outputFile))
	if err != nil {
		return nil, fmt.Errorf("read ffmpeg output: %w", err)
	}
	return out, nil
}

func writeJPEG(path string, s Slide) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write slide %s: %w", s.Name, err)
	}
	if err := photo.EncodeJPEG(f, photo.Flatten(s.Image, photo.White), slideJPEG); err != nil {
		f.Close()
		return fmt.Errorf("encode slide %s: %w", s.Name, err)
	}
	return f.Close()
}

// readProgress consumes ffmpeg's -progress key=value stream and reports the
// encoded fraction of total.
func readProgress(r io.Reader, total time.Duration, progress ProgressFunc) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, val, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok || total <= 0 {
			continue
		}
		switch key {
		case "out_time_us", "out_time_ms":
			// Both keys are in microseconds.
			us, err := strconv.ParseInt(val, 10, 64)
			if err != nil || us < 0 {
				continue
			}
			ratio := float64(time.Duration(us)*time.Microsecond) / float64(total)
			progress(min(ratio, 1))
		}
	}
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
