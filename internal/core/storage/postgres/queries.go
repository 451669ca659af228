package postgres

// SQL for ingestion snapshot storage.

const (
	queryInsertRun = `
		INSERT INTO ingest_runs (
			id, origin, started_at, finished_at, zones,
			lines, accepted, short_record, empty_field, bad_hour, long_line
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	// queryInsertSlotCount keeps seq so reads return first-seen zone order.
	queryInsertSlotCount = `
		INSERT INTO zone_hour_counts (run_id, seq, zone, hour, trip_count)
		VALUES ($1, $2, $3, $4, $5)
	`

	queryLatestRun = `
		SELECT
			id, origin, started_at, finished_at, zones,
			lines, accepted, short_record, empty_field, bad_hour, long_line
		FROM ingest_runs
		ORDER BY finished_at DESC, id DESC
		LIMIT 1
	`

	queryLoadSlotCounts = `
		SELECT zone, hour, trip_count
		FROM zone_hour_counts
		WHERE run_id = $1
		ORDER BY seq ASC
	`

	queryTablesExist = `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_name IN ('ingest_runs', 'zone_hour_counts')
	`
)
