package app

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/coloradofire/perimeters/internal/arcgis"
	"github.com/coloradofire/perimeters/internal/pipeline"
	"github.com/coloradofire/perimeters/internal/store"
	"github.com/coloradofire/perimeters/pkg/geometry"
	"github.com/coloradofire/perimeters/pkg/normalize"
)

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "perimeters",
		Short:         "Reconcile fire perimeter datasets into one canonical record per fire",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.config.Verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			if a.config.Quiet {
				zerolog.SetGlobalLevel(zerolog.ErrorLevel)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", a.config.Verbose, "enable debug logging")
	root.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", a.config.Quiet, "only log errors")
	root.PersistentFlags().StringVar(&a.config.ConfigFile, "config", a.config.ConfigFile, "config file (default ~/.perimeters.yaml)")

	root.AddCommand(a.runCommand())
	root.AddCommand(a.fetchCommand())
	root.AddCommand(a.normalizeCommand())
	root.AddCommand(a.versionCommand())
	return root
}

func (a *App) fetchCommand() *cobra.Command {
	var (
		sourceName string
		outPath    string
		where      string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download a source's perimeters from its public feature service",
		Long: `Fetch queries a source's ArcGIS feature service layer and writes the
features as a GeoJSON collection suitable for the run command. Sources
without a queryable service (mtbs, usfs) must be ingested from files.`,
		Example: `  perimeters fetch --source geomac --out geomac.geojson
  perimeters fetch --source wfigs-historical --where "FIRE_YEAR >= 1984" --out wfigs.geojson`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceID, ok := sourceByAlias[strings.ToLower(sourceName)]
			if !ok {
				return fmt.Errorf("unknown source %q (one of: %s)", sourceName, strings.Join(sourceAliases(), ", "))
			}
			layerURL, ok := arcgis.Endpoint(sourceID)
			if !ok {
				return fmt.Errorf("source %s has no queryable feature service, ingest it from a file", sourceID)
			}

			client := arcgis.New(arcgis.WithLogger(a.logger))
			fc, err := client.Query(cmd.Context(), layerURL, where)
			if err != nil {
				return err
			}
			if err := writeFeatureCollection(outPath, fc); err != nil {
				return err
			}

			a.logger.Info().
				Str("source", sourceID.String()).
				Str("path", outPath).
				Int("features", len(fc.Features)).
				Msg("fetched source perimeters")
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceName, "source", "s", "", "source to fetch (required)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output GeoJSON path (required)")
	cmd.Flags().StringVar(&where, "where", "", "feature service where clause (default all features)")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (a *App) runCommand() *cobra.Command {
	var (
		inputs   []string
		yamlPath string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full reconciliation over source perimeter files",
		Long: `Run maps each input file through its source schema, deduplicates the
combined batch, reconciles attributes by source priority, and writes the
canonical perimeters and their provenance to the SQLite database.

Inputs are GeoJSON feature collections given as SOURCE=PATH pairs, where
SOURCE is one of: ` + strings.Join(sourceAliases(), ", ") + `.`,
		Example: `  perimeters run -i mtbs=mtbs.geojson -i geomac=geomac.geojson
  perimeters run -i wfigs-interagency=wfigs.geojson --yaml run.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(inputs) == 0 {
				return fmt.Errorf("at least one --input SOURCE=PATH is required")
			}
			ctx := cmd.Context()

			records, err := a.loadRecords(inputs)
			if err != nil {
				return err
			}

			cfg := pipeline.Config{
				ProximityThreshold: a.config.ProximityThreshold,
				NameSimilarity:     a.config.NameSimilarity,
				StartYear:          a.config.StartYear,
				EndYear:            a.config.EndYear,
			}
			p := pipeline.New(cfg, geometry.NewPlanarEngine(), pipeline.WithLogger(a.logger))
			result, err := p.Run(ctx, records)
			if err != nil {
				return err
			}

			db, err := store.Open(a.config.DatabasePath)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			runID := result.Report.RunID.String()
			if err := db.SaveRun(ctx, runID, result.Perimeters, result.Provenance); err != nil {
				return err
			}

			if yamlPath != "" {
				if err := a.writeYAML(yamlPath, runID, result); err != nil {
					return err
				}
			}

			a.logger.Info().
				Str("database", a.config.DatabasePath).
				Int("perimeters", len(result.Perimeters)).
				Int("provenance_rows", len(result.Provenance)).
				Msg("run saved")
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "input as SOURCE=PATH (repeatable)")
	cmd.Flags().StringVar(&yamlPath, "yaml", "", "also write the run as YAML to this path (- for stdout)")
	cmd.Flags().StringVar(&a.config.DatabasePath, "database", a.config.DatabasePath, "SQLite database path")
	cmd.Flags().Float64Var(&a.config.ProximityThreshold, "threshold", a.config.ProximityThreshold, "neighbor search radius in coordinate units")
	cmd.Flags().Float64Var(&a.config.NameSimilarity, "similarity", a.config.NameSimilarity, "name similarity a pair must exceed to merge")
	cmd.Flags().IntVar(&a.config.StartYear, "start-year", a.config.StartYear, "first fire year admitted")
	cmd.Flags().IntVar(&a.config.EndYear, "end-year", a.config.EndYear, "last fire year admitted")
	return cmd
}

func (a *App) normalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize NAME...",
		Short: "Print the normalized comparison label for fire names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", arg, normalize.Label(arg))
			}
			return nil
		},
	}
}

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "perimeters %s (commit %s, built %s)\n", a.version, a.commit, a.date)
		},
	}
}
