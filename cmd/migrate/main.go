// cmd/migrate/main.go
// Loads the historical Ergast MySQL database into the local store.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/ergastdb" \
//	DB_PASS="pgpass" \
//	go run ./cmd/migrate
//
// Leave parseTime off in MYSQL_DSN; dates and times are copied as text.
package main

import (
	"context"
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/iamnorbiato/F1App/config"
	bundb "github.com/iamnorbiato/F1App/db"
	"github.com/iamnorbiato/F1App/importer"
	"github.com/iamnorbiato/F1App/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/ergastdb")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	store := bundb.Setup(cfg)
	defer store.Close()
	log.Printf("connected to %s", cfg.DBDriver)

	if err := bundb.CreateTables(ctx, store); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	// Rows reference each other by id; skip FK checks during the bulk load.
	if cfg.DBDriver == config.DriverPostgres {
		if _, err := store.ExecContext(ctx, "SET session_replication_role = 'replica'"); err != nil {
			log.Fatalf("disable FK: %v", err)
		}
		defer func() {
			if _, err := store.ExecContext(ctx, "SET session_replication_role = 'origin'"); err != nil {
				log.Printf("re-enable FK: %v", err)
			}
		}()
	}

	for _, s := range steps(ctx, myDB, store) {
		n, err := s.fn()
		if err != nil {
			log.Fatalf("migrate %s: %v", s.name, err)
		}
		log.Printf("%-22s  %d rows migrated", s.name, n)
	}
	log.Println("migration complete")
}

type step struct {
	name string
	fn   func() (int, error)
}

func steps(ctx context.Context, myDB *sql.DB, store *bun.DB) []step {
	return []step{
		{"circuits", func() (int, error) {
			return copyTable(ctx, myDB, store,
				"SELECT circuitId, circuitRef, name, location, country, lat, lng, alt, url FROM circuits",
				scanCircuit)
		}},
		{"seasons", func() (int, error) {
			return copyTable(ctx, myDB, store, "SELECT year, url FROM seasons", scanSeason)
		}},
		{"status", func() (int, error) {
			return copyTable(ctx, myDB, store, "SELECT statusId, status FROM status", scanStatus)
		}},
		{"constructors", func() (int, error) {
			return copyTable(ctx, myDB, store,
				"SELECT constructorId, constructorRef, name, nationality, url FROM constructors",
				scanConstructor)
		}},
		{"drivers", func() (int, error) {
			return copyTable(ctx, myDB, store,
				"SELECT driverId, driverRef, number, code, forename, surname, dob, nationality, url FROM drivers",
				scanDriver)
		}},
		{"races", func() (int, error) {
			return copyTable(ctx, myDB, store,
				`SELECT raceId, year, round, circuitId, name, date, time, url,
				        fp1_date, fp1_time, fp2_date, fp2_time, fp3_date, fp3_time,
				        quali_date, quali_time, sprint_date, sprint_time
				 FROM races`,
				scanRace)
		}},
		{"results", func() (int, error) {
			return copyTable(ctx, myDB, store,
				`SELECT resultId, raceId, driverId, constructorId, number, grid, position,
				        positionText, positionOrder, points, laps, time, milliseconds,
				        fastestLap, rank, fastestLapTime, fastestLapSpeed, statusId
				 FROM results`,
				scanResult)
		}},
		{"sprint_results", func() (int, error) {
			return copyTable(ctx, myDB, store,
				`SELECT resultId, raceId, driverId, constructorId, number, grid, position,
				        positionText, positionOrder, points, laps, time, milliseconds,
				        fastestLap, fastestLapTime, statusId
				 FROM sprintResults`,
				scanSprintResult)
		}},
		{"qualifying", func() (int, error) {
			return copyTable(ctx, myDB, store,
				"SELECT qualifyId, raceId, driverId, constructorId, number, position, q1, q2, q3 FROM qualifying",
				scanQualifying)
		}},
		{"driver_standings", func() (int, error) {
			return copyTable(ctx, myDB, store,
				"SELECT driverStandingsId, raceId, driverId, points, position, positionText, wins FROM driverStandings",
				scanDriverStanding)
		}},
		{"constructor_standings", func() (int, error) {
			return copyTable(ctx, myDB, store,
				`SELECT constructorStandingsId, raceId, constructorId, points, position, positionText, wins
				 FROM constructorStandings`,
				scanConstructorStanding)
		}},
		{"pit_stops", func() (int, error) {
			// The dump has no surrogate key for pit stops or lap times.
			alloc, err := importer.LoadAllocator(ctx, store, "pit_stops", "pit_stopid")
			if err != nil {
				return 0, err
			}
			return copyTable(ctx, myDB, store,
				"SELECT raceId, driverId, stop, lap, time, duration, milliseconds FROM pitStops",
				func(rows *sql.Rows) (models.PitStop, error) { return scanPitStop(rows, alloc) })
		}},
		{"lap_times", func() (int, error) {
			alloc, err := importer.LoadAllocator(ctx, store, "lap_times", "lap_timeid")
			if err != nil {
				return 0, err
			}
			return copyTable(ctx, myDB, store,
				"SELECT raceId, driverId, lap, position, time, milliseconds FROM lapTimes",
				func(rows *sql.Rows) (models.LapTime, error) { return scanLapTime(rows, alloc) })
		}},
	}
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, store bun.IDB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := store.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

// copyTable streams query results from MySQL into the store in batches.
func copyTable[T any](ctx context.Context, myDB *sql.DB, store bun.IDB, query string, scan func(*sql.Rows) (T, error)) (int, error) {
	rows, err := myDB.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	batch := make([]T, 0, batchSize)
	total := 0
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, store, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := rows.Err(); err != nil {
		return total, err
	}
	if err := bulkInsert(ctx, store, batch); err != nil {
		return total, err
	}
	return total + len(batch), nil
}
