// Command isochronectl is the thin driver glue over the isochronego core:
// Cobra subcommands matching spec §6 exactly, grounded on
// original_source/src/cli.rs's IsochroneArgsBuilder/JourneyArgsBuilder/Mode
// enum (serve, journey, simple, average, optimal, worst, compare, hectare)
// and wired with github.com/spf13/cobra + github.com/spf13/viper.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/liammartens/isochronego/internal/cache"
	"github.com/liammartens/isochronego/internal/config"
	"github.com/liammartens/isochronego/internal/excludedregions"
	"github.com/liammartens/isochronego/internal/geoutil"
	"github.com/liammartens/isochronego/internal/httpapi"
	"github.com/liammartens/isochronego/internal/isochrone"
	"github.com/liammartens/isochronego/internal/metrics"
	"github.com/liammartens/isochronego/internal/raptor"
	"github.com/liammartens/isochronego/internal/sweep"
	"github.com/liammartens/isochronego/internal/timetable"
	"github.com/liammartens/isochronego/internal/writer"
)

// isochroneArgs mirrors original_source/src/cli.rs::IsochroneArgsBuilder's
// default values, since those defaults are part of the CLI's observable
// behavior (spec §6 names them "indicative").
type isochroneArgs struct {
	latitude                 float64
	longitude                float64
	departureAt              string
	timeLimit                int
	interval                 int
	maxExplorableConnections int
	numStartingPoints        int
	displayMode              string
	deltaTime                int
	gtfsPath                 string
}

func registerIsochroneFlags(cmd *cobra.Command, args *isochroneArgs) {
	cmd.Flags().Float64Var(&args.latitude, "latitude", 46.20956654, "origin latitude, decimal degrees")
	cmd.Flags().Float64Var(&args.longitude, "longitude", 6.13536000, "origin longitude, decimal degrees")
	cmd.Flags().StringVar(&args.departureAt, "departure-at", "2025-04-10 15:36:00", "departure instant, 'YYYY-MM-DD HH:MM:SS' local")
	cmd.Flags().IntVar(&args.timeLimit, "time-limit", 60, "time limit in minutes")
	cmd.Flags().IntVar(&args.interval, "interval", 10, "isochrone layer interval in minutes")
	cmd.Flags().IntVar(&args.maxExplorableConnections, "max-connections", 10, "maximum connections explorable per source")
	cmd.Flags().IntVar(&args.numStartingPoints, "num-starting-points", 5, "number of nearest stops to fan out from")
	cmd.Flags().StringVar(&args.displayMode, "display-mode", "circles", "circles|contour_line")
	cmd.Flags().IntVar(&args.deltaTime, "delta-time", 10, "sweep half-window in minutes")
	cmd.Flags().StringVar(&args.gtfsPath, "gtfs-path", "", "path consumed by the caller-supplied GTFSSource adapter")
}

func parseDisplayMode(s string) (isochrone.DisplayMode, error) {
	switch s {
	case "circles", "":
		return isochrone.DisplayModeCircles, nil
	case "contour_line":
		return isochrone.DisplayModeContourLine, nil
	default:
		return 0, fmt.Errorf("invalid display-mode %q", s)
	}
}

func parseDepartureAt(s string) (geoutil.WallClock, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local)
	if err != nil {
		return geoutil.WallClock{}, err
	}
	return geoutil.WallClock{Seconds: int64(t.Hour()*3600 + t.Minute()*60 + t.Second())}, nil
}

// loadTimetable delegates to an operator-supplied GTFSSource, per spec §1's
// "the GTFS parser is an external collaborator" boundary. No concrete
// parser ships in this module (see DESIGN.md); a deployment wires one in by
// implementing timetable.GTFSSource over its own feed loader and replacing
// this function.
func loadTimetable(gtfsPath string) (*timetable.Timetable, error) {
	return nil, fmt.Errorf("isochronectl: no GTFSSource adapter configured for %q; implement timetable.GTFSSource and wire it into loadTimetable", gtfsPath)
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	global := &config.Global{}

	logger, _ := zap.NewProduction()
	sugar := logger.Sugar()

	root := &cobra.Command{
		Use:   "isochronectl",
		Short: "Compute public-transit reachability isochrones",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			*global = config.LoadGlobal(v)
			return nil
		},
	}
	config.RegisterGlobalFlags(root.PersistentFlags(), v)

	root.AddCommand(
		newServeCmd(global, sugar),
		newJourneyCmd(global, sugar),
		newSimpleCmd(global, sugar),
		newAverageCmd(global, sugar),
		newOptimalCmd(global, sugar),
		newWorstCmd(global, sugar),
		newCompareCmd(global, sugar),
		newHectareCmd(global, sugar),
	)

	return root
}

func newServeCmd(global *config.Global, logger *zap.SugaredLogger) *cobra.Command {
	var gtfsPath, address, excludedURL string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP isochrone service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tt, err := loadTimetable(gtfsPath)
			if err != nil {
				return err
			}

			svc := &httpapi.Service{
				Timetable:  tt,
				Cache:      cache.New(global.CachePrefix, global.ForceRebuild),
				Metrics:    metrics.NewRegistry(prometheus.DefaultRegisterer),
				Logger:     logger,
				NumThreads: global.NumThreads,
				StartDate:  time.Now(),
				EndDate:    time.Now().AddDate(1, 0, 0),
			}

			if excludedURL != "" {
				regions, err := excludedregions.Fetch(cmd.Context(), http.DefaultClient, excludedURL)
				if err != nil {
					return err
				}
				svc.Excluded = regions
			}

			logger.Infow("starting isochrone service", "address", address)
			return http.ListenAndServe(address, svc.Router())
		},
	}
	cmd.Flags().StringVar(&gtfsPath, "gtfs-path", "", "path consumed by the caller-supplied GTFSSource adapter")
	cmd.Flags().StringVar(&address, "address", ":8080", "listen address")
	cmd.Flags().StringVar(&excludedURL, "excluded-regions-url", "", "GeoJSON FeatureCollection URL for excluded regions")
	return cmd
}

func newJourneyCmd(global *config.Global, logger *zap.SugaredLogger) *cobra.Command {
	var departureStopID, arrivalStopID int32
	var departureAt, gtfsPath string
	var maxTransfers int

	cmd := &cobra.Command{
		Use:   "journey",
		Short: "Plan a single journey between two stops",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tt, err := loadTimetable(gtfsPath)
			if err != nil {
				return err
			}

			clock, err := parseDepartureAt(departureAt + ":00")
			if err != nil {
				return err
			}

			_, journeys := raptor.Run(tt, raptor.Input{
				Mode:               raptor.ModeDepartAt,
				FromStopID:         departureStopID,
				ToStopIDs:          []timetable.StopID{arrivalStopID},
				DepartureOrArrival: clock,
				MaxTransfers:       maxTransfers,
			})

			j, ok := journeys[arrivalStopID]
			if !ok {
				fmt.Println("no journey found")
				return nil
			}
			fmt.Printf("depart=%ds arrive=%ds legs=%d\n", j.Depart.Absolute(), j.Arrive.Absolute(), len(j.Legs))
			for _, leg := range j.Legs {
				kind := "ride"
				if leg.IsTransfer {
					kind = "walk"
				}
				fmt.Printf("  %s %d -> %d depart=%ds arrive=%ds\n", kind, leg.FromStopID, leg.ToStopID, leg.Depart.Absolute(), leg.Arrive.Absolute())
			}
			return nil
		},
	}
	cmd.Flags().Int32Var(&departureStopID, "departure-stop-id", 8587418, "origin stop id")
	cmd.Flags().Int32Var(&arrivalStopID, "arrival-stop-id", 8595120, "destination stop id")
	cmd.Flags().StringVar(&departureAt, "departure-at", "2025-04-28 08:20", "'YYYY-MM-DD HH:MM' local")
	cmd.Flags().IntVar(&maxTransfers, "max-transfers", 6, "maximum number of transfers to explore")
	cmd.Flags().StringVar(&gtfsPath, "gtfs-path", "", "path consumed by the caller-supplied GTFSSource adapter")
	return cmd
}

func newSimpleCmd(global *config.Global, logger *zap.SugaredLogger) *cobra.Command {
	var args isochroneArgs
	cmd := &cobra.Command{
		Use:   "simple",
		Short: "Compute a single isochrone map at one departure instant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSingle(cmd.Context(), global, logger, args)
		},
	}
	registerIsochroneFlags(cmd, &args)
	return cmd
}

func newAverageCmd(global *config.Global, logger *zap.SugaredLogger) *cobra.Command {
	var args isochroneArgs
	cmd := &cobra.Command{
		Use:   "average",
		Short: "Sweep +/- delta-time and report the average-area isochrone",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd.Context(), global, logger, args, sweep.ReductionAverage)
		},
	}
	registerIsochroneFlags(cmd, &args)
	return cmd
}

func newOptimalCmd(global *config.Global, logger *zap.SugaredLogger) *cobra.Command {
	var args isochroneArgs
	cmd := &cobra.Command{
		Use:   "optimal",
		Short: "Sweep +/- delta-time and report the largest-area isochrone",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd.Context(), global, logger, args, sweep.ReductionOptimal)
		},
	}
	registerIsochroneFlags(cmd, &args)
	return cmd
}

func newWorstCmd(global *config.Global, logger *zap.SugaredLogger) *cobra.Command {
	var args isochroneArgs
	cmd := &cobra.Command{
		Use:   "worst",
		Short: "Sweep +/- delta-time and report the smallest-area isochrone",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd.Context(), global, logger, args, sweep.ReductionWorst)
		},
	}
	registerIsochroneFlags(cmd, &args)
	return cmd
}

func newCompareCmd(global *config.Global, logger *zap.SugaredLogger) *cobra.Command {
	var args isochroneArgs
	var oldDepartureAt string
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare isochrones computed at two departure instants against the same timetable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			oldArgs := args
			oldArgs.departureAt = oldDepartureAt
			if err := runSingle(cmd.Context(), global, logger, oldArgs); err != nil {
				return err
			}
			return runSingle(cmd.Context(), global, logger, args)
		},
	}
	registerIsochroneFlags(cmd, &args)
	cmd.Flags().StringVar(&oldDepartureAt, "old-departure-at", "2025-04-10 15:36:00", "departure instant for the first isochrone of the comparison")
	return cmd
}

func newHectareCmd(global *config.Global, logger *zap.SugaredLogger) *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "hectare",
		Short: "Fetch and print the excluded-region multipolygon used to punch holes in isochrones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			regions, err := excludedregions.Fetch(cmd.Context(), http.DefaultClient, url)
			if err != nil {
				return err
			}
			enc, err := json.Marshal(regions)
			if err != nil {
				return err
			}
			fmt.Println(string(enc))
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "GeoJSON FeatureCollection URL")
	return cmd
}

func runSingle(ctx context.Context, global *config.Global, logger *zap.SugaredLogger, args isochroneArgs) error {
	tt, err := loadTimetable(args.gtfsPath)
	if err != nil {
		return err
	}

	mode, err := parseDisplayMode(args.displayMode)
	if err != nil {
		return err
	}

	clock, err := parseDepartureAt(args.departureAt)
	if err != nil {
		return err
	}

	svc := &httpapi.Service{Timetable: tt, NumThreads: global.NumThreads, Logger: logger}
	timeLimitSeconds := int64(args.timeLimit * 60)

	c, err := svc.ComputeCloud(ctx, args.latitude, args.longitude, clock, timeLimitSeconds, args.numStartingPoints)
	if err != nil {
		return err
	}

	iso, err := svc.Synthesize(ctx, c, args.latitude, args.longitude, timeLimitSeconds, mode)
	if err != nil {
		return err
	}

	fmt.Printf("time_limit=%dmin area=%.0fm2 max_distance=%.0fm\n", args.timeLimit, iso.Area(), iso.MaxRadialDistance(args.latitude, args.longitude))

	out, err := writer.GeoJSON(isochrone.IsochroneMap{
		Isochrones:         []isochrone.Isochrone{iso},
		DepartureLatitude:  args.latitude,
		DepartureLongitude: args.longitude,
	})
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func runSweep(ctx context.Context, global *config.Global, logger *zap.SugaredLogger, args isochroneArgs, reduction sweep.Reduction) error {
	tt, err := loadTimetable(args.gtfsPath)
	if err != nil {
		return err
	}
	mode, err := parseDisplayMode(args.displayMode)
	if err != nil {
		return err
	}

	clock, err := parseDepartureAt(args.departureAt)
	if err != nil {
		return err
	}

	timeLimitSeconds := int64(args.timeLimit * 60)

	iso, err := sweep.Run(ctx, clock.Absolute(), int64(args.deltaTime*60), global.NumThreads, reduction,
		func(ctx context.Context, minuteAbs int64, workers int) (isochrone.Isochrone, error) {
			svc := &httpapi.Service{Timetable: tt, NumThreads: workers, Logger: logger}
			minuteClock := geoutil.FromAbsolute(minuteAbs)
			c, err := svc.ComputeCloud(ctx, args.latitude, args.longitude, minuteClock, timeLimitSeconds, args.numStartingPoints)
			if err != nil {
				return isochrone.Isochrone{}, err
			}
			return svc.Synthesize(ctx, c, args.latitude, args.longitude, timeLimitSeconds, mode)
		})
	if err != nil {
		return err
	}

	fmt.Printf("time=%s area=%.0fm2 max_distance=%.0fm\n", args.departureAt, iso.Area(), iso.MaxRadialDistance(args.latitude, args.longitude))
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
