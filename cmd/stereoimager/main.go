// Command stereoimager runs a stereo WAV file through the stereo image
// processor.
//
// Usage:
//
//	stereoimager [flags] input.wav output.wav
//
// Examples:
//
//	stereoimager -width 0.8 in.wav out.wav
//	stereoimager -rotation -0.5 -lpf-link -lpf 3000 in.wav out.wav
//	stereoimager -algorithm delay -width 0.4 -fast in.wav out.wav
//	stereoimager -p width=0.2 -p gain=-3 -analyze in.wav out.wav
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/algo-stereoimager/dsp/effects/spatial"
	"github.com/cwbudde/algo-stereoimager/internal/wavio"
	"github.com/cwbudde/algo-stereoimager/measure/stereo"
)

const (
	minRequiredArgs  = 2
	defaultBlockSize = 1024
	responseProbeHz  = 10000
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	width := flag.Float64("width", spatial.DefaultWidth, "stereo width in [0,1]; 0.5 is neutral")
	rotation := flag.Float64("rotation", spatial.DefaultRotation, "stereo rotation in [-1,1]; positive turns toward the left")
	algorithm := flag.String("algorithm", "trigonometric", "width algorithm: trigonometric or delay")
	widthBypass := flag.Bool("width-bypass", false, "bypass the width stage")
	rotationBypass := flag.Bool("rotation-bypass", false, "bypass the rotation stage")
	bypass := flag.Bool("bypass", false, "master bypass")
	lpfLink := flag.Bool("lpf-link", false, "enable the rotation-linked low-pass filter")
	lpf := flag.Float64("lpf", spatial.DefaultLPFCutoffHz, "linked low-pass cutoff at full rotation in Hz")
	gain := flag.Float64("gain", spatial.DefaultGainDB, "output gain in dB")
	quality := flag.String("quality", "balanced", "oversampling quality: fast, balanced, best")
	noOversampling := flag.Bool("no-oversampling", false, "run at the file rate without 2x oversampling")
	blockSize := flag.Int("block", defaultBlockSize, "processing block size in frames")
	bits := flag.Int("bits", 0, "output bit depth (16, 24, 32); 0 keeps the input depth")
	fast := flag.Bool("fast", false, "process float32 buffers instead of float64")
	compensate := flag.Bool("compensate", true, "remove oversampling latency from the output")
	analyze := flag.Bool("analyze", false, "print stereo image measurements of input and output")
	verbose := flag.Bool("v", false, "verbose output")

	var overrides paramOverrides

	flag.Var(&overrides, "p", "set a parameter by name, e.g. -p width=0.7 (repeatable)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nParameters for -p:\n")

		for _, id := range spatial.ParamIDs() {
			fmt.Fprintf(os.Stderr, "  %s\n", id)
		}
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		flag.Usage()
		return fmt.Errorf("insufficient arguments")
	}

	inputPath, outputPath := args[0], args[1]

	algo, err := parseAlgorithm(*algorithm)
	if err != nil {
		return err
	}

	q, err := parseQuality(*quality)
	if err != nil {
		return err
	}

	clip, err := wavio.Read(inputPath)
	if err != nil {
		return err
	}

	if *verbose {
		log.Printf("Input: %s (%d Hz, %d-bit, %d frames)", inputPath, clip.SampleRate, clip.BitDepth, clip.Frames())
	}

	imager, err := spatial.NewStereoImager(
		spatial.WithOversampling(!*noOversampling),
		spatial.WithOversamplingQuality(q),
	)
	if err != nil {
		return err
	}

	if err := imager.Prepare(float64(clip.SampleRate), *blockSize); err != nil {
		return err
	}

	params := imager.Params()
	params.Store(spatial.Snapshot{
		MasterBypass:   *bypass,
		GainDB:         *gain,
		Width:          *width,
		WidthAlgorithm: algo,
		WidthBypass:    *widthBypass,
		Rotation:       *rotation,
		RotationBypass: *rotationBypass,
		LPFLinked:      *lpfLink,
		LPFCutoffHz:    *lpf,
	})

	if err := overrides.apply(params); err != nil {
		return err
	}

	if *verbose {
		for _, id := range spatial.ParamIDs() {
			log.Printf("%-16s %s", id, params.Text(id))
		}

		log.Printf("Processing rate: %.0f Hz, latency: %d frames", imager.ProcessingRate(), imager.Latency())

		if snap := params.Snapshot(); snap.LPFLinked {
			log.Printf("Linked LPF: cutoff %.0f Hz, %.1f dB at 10 kHz",
				imager.LinkedCutoffHz(snap), imager.LinkedFilterResponseDB(snap, responseProbeHz))
		}
	}

	input := &wavio.Clip{
		SampleRate: clip.SampleRate,
		BitDepth:   clip.BitDepth,
		Left:       append([]float64(nil), clip.Left...),
		Right:      append([]float64(nil), clip.Right...),
	}

	start := time.Now()

	latency := 0
	if *compensate && !params.Snapshot().MasterBypass {
		latency = imager.Latency()
	}

	if *fast {
		err = processFloat32(imager, clip, latency)
	} else {
		err = processInterleaved(imager, clip, latency)
	}

	if err != nil {
		return err
	}

	if *verbose {
		elapsed := time.Since(start)
		audioDur := time.Duration(float64(clip.Frames()) / float64(clip.SampleRate) * float64(time.Second))
		log.Printf("Processed %v of audio in %v", audioDur.Round(time.Millisecond), elapsed.Round(time.Millisecond))
	}

	if *bits != 0 {
		clip.BitDepth = *bits
	}

	if err := wavio.Write(outputPath, clip); err != nil {
		return err
	}

	if *verbose {
		log.Printf("Output: %s", outputPath)
	}

	if *analyze {
		return printImages(input, clip)
	}

	return nil
}

func printImages(in, out *wavio.Clip) error {
	before, err := stereo.Analyze(in.Left, in.Right)
	if err != nil {
		return err
	}

	after, err := stereo.Analyze(out.Left, out.Right)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\tCorrelation\tBalance [dB]\tSide/Mid [dB]\tRMS L\tRMS R\n")
	fmt.Fprintf(tw, "\t-----------\t------------\t-------------\t-----\t-----\n")

	for _, row := range []struct {
		label string
		img   stereo.Image
	}{
		{"input", before},
		{"output", after},
	} {
		fmt.Fprintf(tw, "%s\t%.4f\t%.2f\t%.2f\t%.4f\t%.4f\n",
			row.label, row.img.Correlation, row.img.BalanceDB, row.img.SideToMidDB,
			row.img.LeftRMS, row.img.RightRMS)
	}

	return tw.Flush()
}
