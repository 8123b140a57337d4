package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/banshee-data/launchtimer/internal/config"
	"github.com/banshee-data/launchtimer/internal/engine"
	"github.com/banshee-data/launchtimer/internal/monitoring"
	"github.com/banshee-data/launchtimer/internal/replay"
	"github.com/banshee-data/launchtimer/internal/splits"
	"github.com/banshee-data/launchtimer/internal/units"
	"github.com/banshee-data/launchtimer/internal/version"
)

var (
	input        = flag.String("input", "", "Recorded track to replay (.csv or .jsonl)")
	format       = flag.String("format", "", "Track format: csv or jsonl (default: inferred from -input)")
	configFile   = flag.String("config", "", "Tuning config JSON (default: built-in defaults)")
	speedUnits   = flag.String("speed-units", units.MPS, "Units of the speed column: "+units.GetValidUnitsString())
	displayUnits = flag.String("display-units", units.KMPH, "Units for printed speeds: "+units.GetValidUnitsString())
	realtime     = flag.Bool("realtime", false, "Replay at recorded pace (scaled by realtime_speedup)")
	quiet        = flag.Bool("quiet", false, "Only print the final summary")
	verbose      = flag.Bool("v", false, "Log every rejected fix")
	showVersion  = flag.Bool("version", false, "Print version and exit")
)

// options is the parsed command line, separated from the flag globals so
// run can be tested directly.
type options struct {
	input        string
	format       string
	configFile   string
	speedUnits   string
	displayUnits string
	realtime     bool
	quiet        bool
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("launchtimer"))
		return
	}
	if *input == "" {
		log.Fatal("-input is required")
	}
	monitoring.SetVerbose(*verbose)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := options{
		input:        *input,
		format:       *format,
		configFile:   *configFile,
		speedUnits:   *speedUnits,
		displayUnits: *displayUnits,
		realtime:     *realtime,
		quiet:        *quiet,
	}
	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatalf("replay failed: %v", err)
	}
}

func run(ctx context.Context, opts options, w io.Writer) error {
	if !units.IsValid(opts.displayUnits) {
		return fmt.Errorf("invalid display units %q, must be one of: %s", opts.displayUnits, units.GetValidUnitsString())
	}

	cfg := config.EmptyTuningConfig()
	if opts.configFile != "" {
		var err error
		if cfg, err = config.LoadTuningConfig(opts.configFile); err != nil {
			return err
		}
	}

	e, err := engine.New(engine.ConfigFromTuning(cfg))
	if err != nil {
		return err
	}

	var f replay.Format
	if opts.format != "" {
		f, err = replay.ParseFormat(opts.format)
	} else {
		f, err = replay.FormatFromPath(opts.input)
	}
	if err != nil {
		return err
	}

	samples, err := replay.ReadFile(opts.input, f, opts.speedUnits)
	if err != nil {
		return err
	}

	e.Start()
	player := replay.NewPlayer(e, cfg)
	player.Realtime = opts.realtime

	var onSnapshot func(engine.Snapshot)
	if !opts.quiet {
		onSnapshot = func(s engine.Snapshot) { printSnapshot(w, s, opts.displayUnits) }
	}

	sum, err := player.Play(ctx, samples, onSnapshot)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	printSummary(w, sum, opts.displayUnits)
	return nil
}

func speed(kmh float64, unit string) float64 {
	return units.ConvertSpeed(units.KmhToMPS(kmh), unit)
}

func printSnapshot(w io.Writer, s engine.Snapshot, unit string) {
	label := units.Label(unit)
	fmt.Fprintf(w, "%9.2fs  %-7s  %6.1f %s  max %6.1f  avg %6.1f  %8.1f m\n",
		float64(s.ElapsedMs)/1000, s.State,
		speed(s.CurrentKmh, unit), label,
		speed(s.MaxKmh, unit), speed(s.AvgKmh, unit),
		s.DistanceM)
}

func printSummary(w io.Writer, sum replay.Summary, unit string) {
	label := units.Label(unit)
	final := sum.Final

	fmt.Fprintf(w, "\nsession %s\n", sum.SessionID)
	fmt.Fprintf(w, "fixes: %d accepted, %d rejected\n", sum.Accepted, sum.Rejected)
	if sum.AccuracyM.N > 0 {
		fmt.Fprintf(w, "accuracy: mean %.1f m, p95 %.1f m\n", sum.AccuracyM.Mean, sum.AccuracyM.P95)
	}
	if sum.IntervalMs.N > 0 {
		fmt.Fprintf(w, "interval: mean %.0f ms, p95 %.0f ms, max %.0f ms\n", sum.IntervalMs.Mean, sum.IntervalMs.P95, sum.IntervalMs.Max)
	}
	reached := 0
	for _, e := range final.Splits {
		if e.Reached() {
			reached++
		}
	}
	fmt.Fprintf(w, "splits: %d/%d reached\n", reached, len(final.Splits))
	fmt.Fprintf(w, "max %.1f %s, avg %.1f %s, distance %.1f m, elapsed %.2f s\n\n",
		speed(final.MaxKmh, unit), label,
		speed(final.AvgKmh, unit), label,
		final.DistanceM, float64(final.ElapsedMs)/1000)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range splits.Rows(final.Splits) {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	tw.Flush()
}
