package importer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamnorbiato/F1App/db"
	"github.com/iamnorbiato/F1App/ergast"
	"github.com/iamnorbiato/F1App/models"
)

func TestConstructorsIdempotentRerun(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{constructors: []ergast.Constructor{
		{ConstructorID: "mclaren", Name: "McLaren", Nationality: "British", URL: "http://en.wikipedia.org/wiki/McLaren"},
		{ConstructorID: "williams", Name: "Williams", Nationality: "British"},
	}}
	im, store := newTestImporter(t, src)

	first, err := im.Constructors(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)

	var before []models.Constructor
	require.NoError(t, store.NewSelect().Model(&before).Order("constructorid").Scan(ctx))

	second, err := im.Constructors(ctx, 2024)
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Zero(t, second.Updated)
	assert.Equal(t, 2, second.Existing)
	assert.Zero(t, second.Errored)

	var after []models.Constructor
	require.NoError(t, store.NewSelect().Model(&after).Order("constructorid").Scan(ctx))
	assert.Equal(t, before, after)
}

func TestAllocatorContinuesFromStoreMax(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{circuits: []ergast.Circuit{
		{CircuitID: "monza", CircuitName: "Autodromo Nazionale di Monza", Location: ergast.Location{Lat: "45.6156", Long: "9.28111", Locality: "Monza", Country: "Italy"}},
		{CircuitID: "spa", CircuitName: "Circuit de Spa-Francorchamps"},
		{CircuitID: "suzuka", CircuitName: "Suzuka Circuit"},
	}}
	im, store := newTestImporter(t, src)
	insert(t, store, &models.Circuit{CircuitID: 41, CircuitRef: "silverstone", Name: "Silverstone Circuit"})

	s, err := im.Circuits(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Created)

	var rows []models.Circuit
	require.NoError(t, store.NewSelect().Model(&rows).Where("circuitref != ?", "silverstone").Order("circuitid").Scan(ctx))
	require.Len(t, rows, 3)
	assert.Equal(t, []int{42, 43, 44}, []int{rows[0].CircuitID, rows[1].CircuitID, rows[2].CircuitID})
	assert.Equal(t, "monza", rows[0].CircuitRef)
	require.NotNil(t, rows[0].Lat)
	assert.InDelta(t, 45.6156, *rows[0].Lat, 1e-9)
	assert.Equal(t, "Italy", *rows[0].Country)
}

func TestResultsUnknownDriverIsSkipped(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{results: []ergast.RaceResult{
		raceResult("1", "max_verstappen", "red_bull", "1", "1", "Finished", "26"),
		raceResult("1", "bearman", "ferrari", "38", "7", "Finished", "6"),
		raceResult("1", "leclerc", "ferrari", "16", "4", "+1 Lap", "12"),
	}}
	im, store := newTestImporter(t, src)
	seedGrid(t, store)

	s, err := im.Results(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Created)
	assert.Equal(t, 1, s.Errored)
	assert.Equal(t, 2, countRows(t, store, (*models.Result)(nil)))

	var leclerc models.Result
	require.NoError(t, store.NewSelect().Model(&leclerc).Where("driverid = ?", 844).Scan(ctx))
	assert.Equal(t, 1121, leclerc.RaceID)
	assert.Equal(t, 6, leclerc.ConstructorID)
	assert.Equal(t, 11, *leclerc.StatusID)
	assert.Equal(t, "4", *leclerc.Position)
	assert.Equal(t, 3, *leclerc.PositionOrder)
	assert.InDelta(t, 12.0, *leclerc.Points, 1e-9)
}

func TestResultsUpdateInPlace(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{results: []ergast.RaceResult{
		raceResult("1", "max_verstappen", "red_bull", "1", "1", "Finished", "25"),
	}}
	im, store := newTestImporter(t, src)
	seedGrid(t, store)

	_, err := im.Results(ctx, 2024)
	require.NoError(t, err)

	var before models.Result
	require.NoError(t, store.NewSelect().Model(&before).Scan(ctx))

	// Fastest lap point awarded after the fact.
	src.results[0].Points = "26"
	s, err := im.Results(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Updated)

	var after models.Result
	require.NoError(t, store.NewSelect().Model(&after).Scan(ctx))
	assert.Equal(t, before.ResultID, after.ResultID)
	assert.InDelta(t, 26.0, *after.Points, 1e-9)
	assert.Equal(t, 1, countRows(t, store, (*models.Result)(nil)))
}

func TestResultsWithoutNumberMatchOnNull(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{results: []ergast.RaceResult{
		raceResult("1", "max_verstappen", "red_bull", "", "1", "Finished", "8"),
	}}
	im, store := newTestImporter(t, src)
	seedGrid(t, store)

	for i := 0; i < 2; i++ {
		_, err := im.Results(ctx, 2024)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, countRows(t, store, (*models.Result)(nil)))
}

func TestConstructorStandingUpdatesPoints(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{constructorStandings: []ergast.RoundConstructorStanding{{
		RaceRef: ergast.RaceRef{Season: "2024", Round: "1"},
		ConstructorStanding: ergast.ConstructorStanding{
			Position: "1", PositionText: "1", Points: "44", Wins: "1",
			Constructor: ergast.Constructor{ConstructorID: "williams"},
		},
	}}}
	im, store := newTestImporter(t, src)
	insert(t, store,
		&models.Race{RaceID: 1, Year: 2024, Round: 1, Name: "Bahrain Grand Prix", Date: "2024-03-02"},
		&models.Constructor{ConstructorID: 5, ConstructorRef: "williams", Name: "Williams"},
		&models.ConstructorStanding{ConstructorStandingsID: 7, RaceID: 1, ConstructorID: 5, Points: func() *float64 { f := 18.0; return &f }()},
	)

	s, err := im.ConstructorStandings(ctx, 2024, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Updated)
	assert.Zero(t, s.Created)

	var rows []models.ConstructorStanding
	require.NoError(t, store.NewSelect().Model(&rows).Where("raceid = ? AND constructorid = ?", 1, 5).Scan(ctx))
	require.Len(t, rows, 1)
	assert.Equal(t, 7, rows[0].ConstructorStandingsID)
	assert.InDelta(t, 44.0, *rows[0].Points, 1e-9)
	assert.Equal(t, 1, *rows[0].Wins)
}

func TestDriverStandingsCreate(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{driverStandings: []ergast.RoundDriverStanding{
		{RaceRef: ergast.RaceRef{Season: "2024", Round: "2"}, DriverStanding: ergast.DriverStanding{Position: "1", PositionText: "1", Points: "51", Wins: "2", Driver: ergast.Driver{DriverID: "max_verstappen"}}},
		{RaceRef: ergast.RaceRef{Season: "2024", Round: "2"}, DriverStanding: ergast.DriverStanding{PositionText: "-", Points: "0", Wins: "0", Driver: ergast.Driver{DriverID: "leclerc"}}},
	}}
	im, store := newTestImporter(t, src)
	seedGrid(t, store)

	s, err := im.DriverStandings(ctx, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Created)
	assert.Equal(t, []string{"2024/2/driverstandings"}, src.calls)

	var unranked models.DriverStanding
	require.NoError(t, store.NewSelect().Model(&unranked).Where("driverid = ?", 844).Scan(ctx))
	assert.Nil(t, unranked.Position)
	assert.Equal(t, "-", *unranked.PositionText)
	assert.Equal(t, 1122, unranked.RaceID)
}

func TestFetchFailureCountsExpectedTotal(t *testing.T) {
	ctx := context.Background()
	fetchErr := &ergast.FetchError{URL: "http://upstream/2024/drivers/?limit=30&offset=30", Total: 65, Err: errors.New("connection reset")}
	im, store := newTestImporter(t, &fakeSource{err: fetchErr})

	s, err := im.Drivers(ctx, 2024)
	require.Error(t, err)
	require.NotNil(t, s)

	var fe *ergast.FetchError
	assert.True(t, errors.As(err, &fe))
	assert.Equal(t, 65, s.Errored)
	assert.Zero(t, countRows(t, store, (*models.Driver)(nil)))
	// Lock released even though the run failed.
	assert.Zero(t, countRows(t, store, (*models.ImportLock)(nil)))
}

func TestRunRefusedWhileLocked(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{statuses: []ergast.Status{{StatusID: "1", Status: "Finished"}}}
	im, store := newTestImporter(t, src)

	require.NoError(t, db.AcquireLock(ctx, store, "status", "other-run", time.Hour))

	s, err := im.Statuses(ctx)
	assert.ErrorIs(t, err, db.ErrLocked)
	assert.Zero(t, s.Total())
	assert.Empty(t, src.calls)
}

func TestStatusesKeepUpstreamIDs(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{statuses: []ergast.Status{
		{StatusID: "1", Status: "Finished"},
		{StatusID: "130", Status: "Collision damage"},
		{StatusID: "x", Status: "broken"},
	}}
	im, store := newTestImporter(t, src)

	s, err := im.Statuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Created)
	assert.Equal(t, 1, s.Errored)

	var st models.Status
	require.NoError(t, store.NewSelect().Model(&st).Where("statusid = ?", 130).Scan(ctx))
	assert.Equal(t, "Collision damage", st.Status)
}

func TestSeasonsUpdateURL(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{seasons: []ergast.Season{{Season: "1950", URL: "https://en.wikipedia.org/wiki/1950_Formula_One_season"}}}
	im, store := newTestImporter(t, src)
	insert(t, store, &models.Season{Year: 1950, URL: "http://en.wikipedia.org/wiki/1950_Formula_One_season"})

	s, err := im.Seasons(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Updated)

	var season models.Season
	require.NoError(t, store.NewSelect().Model(&season).Where("year = ?", 1950).Scan(ctx))
	assert.Equal(t, "https://en.wikipedia.org/wiki/1950_Formula_One_season", season.URL)
}

func TestRacesResolveCircuit(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{races: []ergast.Race{
		{
			Season: "2024", Round: "1", RaceName: "Bahrain Grand Prix", Date: "2024-03-02", Time: "15:00:00Z",
			Circuit:       ergast.Circuit{CircuitID: "bahrain"},
			FirstPractice: &ergast.Session{Date: "2024-02-29", Time: "11:30:00Z"},
			Qualifying:    &ergast.Session{Date: "2024-03-01", Time: "16:00:00Z"},
		},
		{Season: "2024", Round: "3", RaceName: "Australian Grand Prix", Date: "2024-03-24", Circuit: ergast.Circuit{CircuitID: "albert_park"}},
	}}
	im, store := newTestImporter(t, src)
	insert(t, store, &models.Circuit{CircuitID: 3, CircuitRef: "bahrain", Name: "Bahrain International Circuit"})

	s, err := im.Races(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Created)
	assert.Equal(t, 1, s.Errored)

	var race models.Race
	require.NoError(t, store.NewSelect().Model(&race).Scan(ctx))
	assert.Equal(t, 3, *race.CircuitID)
	assert.Equal(t, 1, race.RaceID)
	assert.Equal(t, "2024-02-29", *race.FP1Date)
	assert.Nil(t, race.SprintDate)
}

func TestQualifyingAndSprint(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{
		qualifying: []ergast.RaceQualifying{{
			RaceRef: ergast.RaceRef{Season: "2024", Round: "1"},
			QualifyingEntry: ergast.QualifyingEntry{
				Number: "16", Position: "2", Q1: "1:30.031", Q2: "1:29.629",
				Driver: ergast.Driver{DriverID: "leclerc"}, Constructor: ergast.Constructor{ConstructorID: "ferrari"},
			},
		}},
		sprintResults: []ergast.RaceResult{
			raceResult("2", "max_verstappen", "red_bull", "1", "1", "Finished", "8"),
			raceResult("2", "leclerc", "ferrari", "16", "2", "Finished", "7"),
		},
	}
	im, store := newTestImporter(t, src)
	seedGrid(t, store)

	qs, err := im.Qualifying(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, qs.Created)

	var q models.Qualifying
	require.NoError(t, store.NewSelect().Model(&q).Scan(ctx))
	assert.Equal(t, 2, *q.Position)
	assert.Equal(t, "1:29.629", *q.Q2)
	assert.Nil(t, q.Q3)

	ss, err := im.SprintResults(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, ss.Created)
	assert.Equal(t, []string{"2024/qualifying", "2024/sprint"}, src.calls)
}

func TestPitStopsAcrossStoredRounds(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{
		pitStops: map[int][]ergast.RacePitStop{
			1: {
				{RaceRef: ergast.RaceRef{Season: "2024", Round: "1"}, PitStop: ergast.PitStop{DriverID: "max_verstappen", Lap: "17", Stop: "1", Time: "18:27:41", Duration: "22.523"}},
				{RaceRef: ergast.RaceRef{Season: "2024", Round: "1"}, PitStop: ergast.PitStop{DriverID: "unknown", Lap: "18", Stop: "1", Duration: "23.001"}},
			},
		},
		roundErrs: map[int]error{2: &ergast.FetchError{Total: 40, Err: errors.New("timeout")}},
	}
	im, store := newTestImporter(t, src)
	seedGrid(t, store)

	s, err := im.PitStops(ctx, 2024, 0)
	require.Error(t, err)
	assert.Equal(t, []string{"2024/1/pitstops", "2024/2/pitstops"}, src.calls)
	assert.Equal(t, 1, s.Created)
	assert.Equal(t, 41, s.Errored)

	var ps models.PitStop
	require.NoError(t, store.NewSelect().Model(&ps).Scan(ctx))
	assert.Equal(t, "00:22.523", *ps.Duration)
	assert.Equal(t, "22523", *ps.Milliseconds)
	assert.Equal(t, 17, *ps.Lap)
}

func TestPitStopsWithoutStoredRounds(t *testing.T) {
	src := &fakeSource{}
	im, _ := newTestImporter(t, src)

	s, err := im.PitStops(context.Background(), 1990, 0)
	require.NoError(t, err)
	assert.Zero(t, s.Total())
	assert.Empty(t, src.calls)
}

func TestLapTimesSingleRound(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{lapTimes: map[int][]ergast.RaceLapTiming{
		2: {
			{RaceRef: ergast.RaceRef{Season: "2024", Round: "2"}, Lap: "1", LapTiming: ergast.LapTiming{DriverID: "max_verstappen", Position: "1", Time: "1:37.284"}},
			{RaceRef: ergast.RaceRef{Season: "2024", Round: "2"}, Lap: "1", LapTiming: ergast.LapTiming{DriverID: "leclerc", Position: "2", Time: "1:38.9"}},
		},
	}}
	im, store := newTestImporter(t, src)
	seedGrid(t, store)

	s, err := im.LapTimes(ctx, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Created)
	assert.Equal(t, []string{"2024/2/laps"}, src.calls)

	var lt models.LapTime
	require.NoError(t, store.NewSelect().Model(&lt).Where("driverid = ?", 844).Scan(ctx))
	assert.Equal(t, 98900, *lt.Milliseconds)
	assert.Equal(t, 1122, lt.RaceID)
}

func TestSummaryPrint(t *testing.T) {
	s := &Summary{Entity: "lap_times", Created: 3, Updated: 2, Existing: 1, Errored: 4}
	s.Finished = time.Now()
	s.Started = s.Finished.Add(-1500 * time.Millisecond)

	var buf bytes.Buffer
	s.Print(&buf)
	out := buf.String()
	assert.Contains(t, out, "--- lap_times import summary ---")
	assert.Contains(t, out, "Created:                  3")
	assert.Contains(t, out, "Skipped (already exists): 1")
	assert.Contains(t, out, "Errors:                   4")
	assert.Equal(t, 10, s.Total())
}

type recordingObserver struct {
	summaries []*Summary
	errs      []error
}

func (r *recordingObserver) ObserveSummary(s *Summary, err error) {
	r.summaries = append(r.summaries, s)
	r.errs = append(r.errs, err)
}

func TestObserverSeesEveryRun(t *testing.T) {
	obs := &recordingObserver{}
	store := dbtestOpen(t)
	im := New(store, &fakeSource{seasons: []ergast.Season{{Season: "2024", URL: "u"}}}, nil, WithObserver(obs), WithLockTTL(time.Minute))

	_, err := im.Seasons(context.Background())
	require.NoError(t, err)
	require.Len(t, obs.summaries, 1)
	assert.Equal(t, "seasons", obs.summaries[0].Entity)
	assert.Equal(t, 1, obs.summaries[0].Created)
	assert.NoError(t, obs.errs[0])
}

// slowLaps blocks in LapTimes until hold elapses or the run is cancelled.
type slowLaps struct {
	fakeSource
	hold    time.Duration
	started chan struct{}
}

func (s *slowLaps) LapTimes(ctx context.Context, year, round int) ([]ergast.RaceLapTiming, error) {
	close(s.started)
	select {
	case <-time.After(s.hold):
		return nil, nil
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	}
}

func TestRunKeepsLockPastTTL(t *testing.T) {
	ctx := context.Background()
	src := &slowLaps{hold: 2500 * time.Millisecond, started: make(chan struct{})}
	store := dbtestOpen(t)
	im := New(store, src, nil, WithLockTTL(time.Second))

	done := make(chan error, 1)
	go func() {
		_, err := im.LapTimes(ctx, 2024, 1)
		done <- err
	}()

	<-src.started
	time.Sleep(2 * time.Second)
	err := db.AcquireLock(ctx, store, "lap_times", "other-run", time.Hour)
	assert.ErrorIs(t, err, db.ErrLocked)

	require.NoError(t, <-done)
	assert.Zero(t, countRows(t, store, (*models.ImportLock)(nil)))
}

func TestRunFailsWhenLockIsLost(t *testing.T) {
	ctx := context.Background()
	src := &slowLaps{hold: 5 * time.Second, started: make(chan struct{})}
	store := dbtestOpen(t)
	im := New(store, src, nil, WithLockTTL(300*time.Millisecond))

	done := make(chan error, 1)
	go func() {
		_, err := im.LapTimes(ctx, 2024, 1)
		done <- err
	}()

	<-src.started
	_, err := store.NewDelete().Model((*models.ImportLock)(nil)).Where("name = ?", "lap_times").Exec(ctx)
	require.NoError(t, err)
	insert(t, store, &models.ImportLock{Name: "lap_times", Owner: "other-run", ExpiresAt: time.Now().Add(time.Hour).Unix()})

	select {
	case err := <-done:
		assert.ErrorIs(t, err, db.ErrLockLost)
	case <-time.After(3 * time.Second):
		t.Fatal("run did not stop after losing its lock")
	}

	// The other run's lock is left alone.
	var lock models.ImportLock
	require.NoError(t, store.NewSelect().Model(&lock).Where("name = ?", "lap_times").Scan(ctx))
	assert.Equal(t, "other-run", lock.Owner)
}
