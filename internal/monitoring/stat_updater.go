package monitoring

import (
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mbraun/myflix-be/internal/metrics"
)

// StatUpdater periodically refreshes the catalog gauges from row counts.
type StatUpdater struct {
	db        *sql.DB
	collector *metrics.Collector
	interval  time.Duration
	ticker    *time.Ticker
	done      chan struct{}
}

// NewStatUpdater creates a new StatUpdater.
func NewStatUpdater(db *sql.DB, collector *metrics.Collector) *StatUpdater {
	return &StatUpdater{
		db:        db,
		collector: collector,
		interval:  time.Minute,
		done:      make(chan struct{}),
	}
}

// Run starts the periodic updates.
func (su *StatUpdater) Run() {
	log.Info().Msg("Starting background stat updater...")
	su.ticker = time.NewTicker(su.interval)
	defer su.ticker.Stop()

	// Run once immediately on start
	su.updateStats()

	for {
		select {
		case <-su.done:
			log.Info().Msg("Stopping background stat updater.")
			return
		case <-su.ticker.C:
			su.updateStats()
		}
	}
}

// Stop signals the updater to terminate. Safe to call whether or not
// Run's loop is currently receiving.
func (su *StatUpdater) Stop() {
	close(su.done)
}

func (su *StatUpdater) updateStats() {
	users, err := su.countRows("users")
	if err != nil {
		log.Error().Err(err).Msg("Failed to count users")
		return
	}
	movies, err := su.countRows("movies")
	if err != nil {
		log.Error().Err(err).Msg("Failed to count movies")
		return
	}
	favorites, err := su.countRows("favorites")
	if err != nil {
		log.Error().Err(err).Msg("Failed to count favorites")
		return
	}

	su.collector.SetCatalogStats(users, movies, favorites)
	log.Debug().Int("users", users).Int("movies", movies).Int("favorites", favorites).Msg("Catalog stats refreshed")
}

func (su *StatUpdater) countRows(table string) (int, error) {
	var count int
	err := su.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
	return count, err
}
