// Command vorbis2wav decodes an Ogg Vorbis file to a 16-bit PCM WAV
// file.
//
// Usage:
//
//	vorbis2wav -in input.ogg -out output.wav
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/vorbisdec/vorbis"
	"github.com/vorbisdec/vorbis/internal/byteio"
	"github.com/vorbisdec/vorbis/internal/codecerr"
)

func main() {
	os.Exit(run())
}

func run() int {
	input := flag.String("in", "", "Input Ogg Vorbis file")
	output := flag.String("out", "", "Output WAV file (16-bit PCM)")
	seekSeconds := flag.Float64("accurate-seek", -1, "Seek to this many seconds before decoding")
	gapless := flag.Bool("gapless", true, "Trim encoder padding from the last packet (the first packet is not trimmed)")
	flag.Parse()

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "usage: vorbis2wav -in input.ogg -out output.wav")
		return 1
	}

	if err := decode(*input, *output, *seekSeconds, *gapless); err != nil {
		log.Printf("vorbis2wav: %v", err)
		return 1
	}
	return 0
}

func decode(inputPath, outputPath string, seekSeconds float64, gapless bool) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	src := byteio.NewRingReader(f)
	reader, err := vorbis.NewReader(src, vorbis.WithGaplessPlayback(gapless))
	if err != nil {
		return fmt.Errorf("create reader: %w", err)
	}
	reader.SetWarnf(func(format string, args ...any) {
		log.Printf(format, args...)
	})

	if seekSeconds >= 0 {
		target := int64(seekSeconds * float64(reader.SampleRate()))
		if err := reader.Seek(vorbis.SeekAccurate, target); err != nil {
			return fmt.Errorf("seek: %w", err)
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	channels := reader.Channels()
	enc := wav.NewEncoder(out, int(reader.SampleRate()), 16, channels, 1)
	defer enc.Close()

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: int(reader.SampleRate())},
		SourceBitDepth: 16,
	}

	for {
		planar, err := reader.NextFrame()
		if err != nil {
			if errors.Is(err, codecerr.ErrEndOfStream) {
				return nil
			}
			return fmt.Errorf("decode: %w", err)
		}
		if len(planar) == 0 || len(planar[0]) == 0 {
			continue
		}

		samples := vorbis.ToInterleavedInt16(planar)
		data := make([]int, len(samples))
		for i, s := range samples {
			data[i] = int(s)
		}
		buf.Data = data
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("write wav: %w", err)
		}
	}
}
