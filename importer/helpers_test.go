package importer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/iamnorbiato/F1App/db/dbtest"
	"github.com/iamnorbiato/F1App/ergast"
	"github.com/iamnorbiato/F1App/models"
)

// fakeSource serves canned upstream data. A set err field fails that resource.
type fakeSource struct {
	circuits             []ergast.Circuit
	seasons              []ergast.Season
	statuses             []ergast.Status
	races                []ergast.Race
	constructors         []ergast.Constructor
	drivers              []ergast.Driver
	results              []ergast.RaceResult
	sprintResults        []ergast.RaceResult
	qualifying           []ergast.RaceQualifying
	driverStandings      []ergast.RoundDriverStanding
	constructorStandings []ergast.RoundConstructorStanding
	pitStops             map[int][]ergast.RacePitStop
	lapTimes             map[int][]ergast.RaceLapTiming

	err       error
	roundErrs map[int]error
	calls     []string
}

func (f *fakeSource) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeSource) Circuits(context.Context) ([]ergast.Circuit, error) {
	return f.circuits, f.record("circuits")
}

func (f *fakeSource) Seasons(context.Context) ([]ergast.Season, error) {
	return f.seasons, f.record("seasons")
}

func (f *fakeSource) Statuses(context.Context) ([]ergast.Status, error) {
	return f.statuses, f.record("status")
}

func (f *fakeSource) Races(_ context.Context, year int) ([]ergast.Race, error) {
	return f.races, f.record(fmt.Sprintf("%d/races", year))
}

func (f *fakeSource) Constructors(_ context.Context, year int) ([]ergast.Constructor, error) {
	return f.constructors, f.record(fmt.Sprintf("%d/constructors", year))
}

func (f *fakeSource) Drivers(_ context.Context, year int) ([]ergast.Driver, error) {
	return f.drivers, f.record(fmt.Sprintf("%d/drivers", year))
}

func (f *fakeSource) Results(_ context.Context, year int) ([]ergast.RaceResult, error) {
	return f.results, f.record(fmt.Sprintf("%d/results", year))
}

func (f *fakeSource) SprintResults(_ context.Context, year int) ([]ergast.RaceResult, error) {
	return f.sprintResults, f.record(fmt.Sprintf("%d/sprint", year))
}

func (f *fakeSource) Qualifying(_ context.Context, year int) ([]ergast.RaceQualifying, error) {
	return f.qualifying, f.record(fmt.Sprintf("%d/qualifying", year))
}

func (f *fakeSource) DriverStandings(_ context.Context, year, round int) ([]ergast.RoundDriverStanding, error) {
	return f.driverStandings, f.record(fmt.Sprintf("%d/%d/driverstandings", year, round))
}

func (f *fakeSource) ConstructorStandings(_ context.Context, year, round int) ([]ergast.RoundConstructorStanding, error) {
	return f.constructorStandings, f.record(fmt.Sprintf("%d/%d/constructorstandings", year, round))
}

func (f *fakeSource) PitStops(_ context.Context, year, round int) ([]ergast.RacePitStop, error) {
	if err := f.roundErrs[round]; err != nil {
		f.calls = append(f.calls, fmt.Sprintf("%d/%d/pitstops", year, round))
		return nil, err
	}
	return f.pitStops[round], f.record(fmt.Sprintf("%d/%d/pitstops", year, round))
}

func (f *fakeSource) LapTimes(_ context.Context, year, round int) ([]ergast.RaceLapTiming, error) {
	if err := f.roundErrs[round]; err != nil {
		f.calls = append(f.calls, fmt.Sprintf("%d/%d/laps", year, round))
		return nil, err
	}
	return f.lapTimes[round], f.record(fmt.Sprintf("%d/%d/laps", year, round))
}

func insert(t *testing.T, store bun.IDB, rows ...interface{}) {
	t.Helper()
	for _, row := range rows {
		_, err := store.NewInsert().Model(row).Exec(context.Background())
		require.NoError(t, err)
	}
}

func str(s string) *string { return &s }

// seedGrid stores the reference rows a 2024 season import depends on.
func seedGrid(t *testing.T, store bun.IDB) {
	t.Helper()
	insert(t, store,
		&models.Circuit{CircuitID: 1, CircuitRef: "bahrain", Name: "Bahrain International Circuit"},
		&models.Circuit{CircuitID: 2, CircuitRef: "jeddah", Name: "Jeddah Corniche Circuit"},
		&models.Status{StatusID: 1, Status: "Finished"},
		&models.Status{StatusID: 11, Status: "+1 Lap"},
		&models.Constructor{ConstructorID: 9, ConstructorRef: "red_bull", Name: "Red Bull"},
		&models.Constructor{ConstructorID: 6, ConstructorRef: "ferrari", Name: "Ferrari"},
		&models.Driver{DriverID: 830, DriverRef: "max_verstappen", Surname: str("Verstappen")},
		&models.Driver{DriverID: 844, DriverRef: "leclerc", Surname: str("Leclerc")},
		&models.Race{RaceID: 1121, Year: 2024, Round: 1, CircuitID: intPtr(1), Name: "Bahrain Grand Prix", Date: "2024-03-02"},
		&models.Race{RaceID: 1122, Year: 2024, Round: 2, CircuitID: intPtr(2), Name: "Saudi Arabian Grand Prix", Date: "2024-03-09"},
	)
}

func newTestImporter(t *testing.T, src Source) (*Importer, *bun.DB) {
	t.Helper()
	store := dbtest.Open(t)
	return New(store, src, nil), store
}

func countRows(t *testing.T, store bun.IDB, model interface{}) int {
	t.Helper()
	n, err := store.NewSelect().Model(model).Count(context.Background())
	require.NoError(t, err)
	return n
}

func raceResult(round, driver, constructor, number, position, status, points string) ergast.RaceResult {
	return ergast.RaceResult{
		RaceRef: ergast.RaceRef{Season: "2024", Round: round},
		Result: ergast.Result{
			Number:       number,
			Position:     position,
			PositionText: position,
			Points:       points,
			Driver:       ergast.Driver{DriverID: driver},
			Constructor:  ergast.Constructor{ConstructorID: constructor},
			Grid:         "1",
			Laps:         "57",
			Status:       status,
		},
	}
}

func dbtestOpen(t *testing.T) *bun.DB {
	t.Helper()
	return dbtest.Open(t)
}
