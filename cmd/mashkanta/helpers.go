package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/config"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/persistence"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/persistence/postgres"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/rates"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/telemetry"
)

const archiveTimeout = 5 * time.Second

// metrics is the process-wide instrumentation registry. The CLI records into
// it so long-running wrappers (and tests) can scrape counters; one-shot
// invocations simply discard it on exit.
var metrics = newMetrics()

func newMetrics() *telemetry.MetricsRegistry {
	m := telemetry.NewMetricsRegistry()
	if err := m.Register(prometheus.DefaultRegisterer); err != nil {
		log.Warn().Err(err).Msg("metrics registration failed")
	}
	return m
}

// loadLimits resolves the regulatory limits from the --limits flag, falling
// back to the built-in defaults.
func loadLimits(cmd *cobra.Command) (*config.RegulatoryLimits, error) {
	path, _ := cmd.Flags().GetString("limits")
	if path == "" {
		return config.DefaultLimits(), nil
	}
	return config.LoadLimits(path)
}

// readInput reads the JSON payload from the positional file argument, or
// stdin when the argument is missing or "-".
func readInput(args []string, v interface{}) error {
	var data []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse input JSON: %w", err)
	}
	return nil
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resolveMenu loads the average-rate menu per the optimize flags: a published
// URL (with optional Redis-shared caching) wins over a local yaml file; any
// failure degrades to the built-in defaults with a diagnostic.
func resolveMenu(ctx context.Context, cmd *cobra.Command) map[domain.Track]float64 {
	menuURL, _ := cmd.Flags().GetString("menu-url")
	menuPath, _ := cmd.Flags().GetString("menu")

	if menuURL != "" {
		var cache *rates.Cache
		if redisAddr, _ := cmd.Flags().GetString("redis-addr"); redisAddr != "" {
			client := redis.NewClient(&redis.Options{Addr: redisAddr})
			cache = rates.NewCache(client, 6*time.Hour)
		}
		fetcher := rates.NewFetcher(rates.DefaultFetcherConfig(menuURL), cache)
		menu, err := fetcher.Fetch(ctx)
		if err == nil {
			metrics.MenuFetches.WithLabelValues("success").Inc()
			return menu
		}
		metrics.MenuFetches.WithLabelValues("error").Inc()
		log.Warn().Err(err).Str("url", menuURL).Msg("published menu fetch failed, falling back")
	}

	if menuPath != "" {
		menu, err := rates.LoadMenu(menuPath)
		if err == nil {
			return menu
		}
		log.Warn().Err(err).Str("path", menuPath).Msg("menu file load failed, using built-in rates")
	}
	return nil
}

// archiveSnapshot stores one run in the PostgreSQL archive when a DSN was
// given. Archive failures never fail the run.
func archiveSnapshot(cmd *cobra.Command, kind string, input, output interface{}) {
	dsn, _ := cmd.Flags().GetString("archive-dsn")
	if dsn == "" {
		return
	}
	sessionID, _ := cmd.Flags().GetString("session")

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		log.Warn().Err(err).Msg("snapshot archive unavailable")
		return
	}
	defer db.Close()

	snapshot := &persistence.RunSnapshot{
		Kind:      kind,
		SessionID: sessionID,
		Input:     toPayload(input),
		Output:    toPayload(output),
	}

	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	repo := postgres.NewSnapshotRepo(db, archiveTimeout)
	if err := repo.Insert(ctx, snapshot); err != nil {
		log.Warn().Err(err).Msg("failed to archive run snapshot")
		return
	}
	log.Info().Str("run_id", snapshot.ID.String()).Str("kind", kind).Msg("run snapshot archived")
}

// toPayload round-trips a value through JSON into the generic map form the
// archive stores.
func toPayload(v interface{}) map[string]interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil
	}
	return payload
}
