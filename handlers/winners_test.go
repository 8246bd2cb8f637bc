package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamnorbiato/F1App/db/dbtest"
	"github.com/iamnorbiato/F1App/models"
)

func str(s string) *string { return &s }
func num(n int) *int       { return &n }

func TestBuildFrames(t *testing.T) {
	rows := []winnerRow{
		{DriverRef: "farina", DriverName: "Nino Farina", Year: 1950, RaceName: "British Grand Prix", Round: 1},
		{DriverRef: "fangio", DriverName: "Juan Fangio", Year: 1950, RaceName: "Monaco Grand Prix", Round: 2},
		{DriverRef: "fangio", DriverName: "Juan Fangio", Year: 1950, RaceName: "Swiss Grand Prix", Round: 4},
		{DriverRef: "farina", DriverName: "Nino Farina", Year: 1950, RaceName: "Belgian Grand Prix", Round: 5},
		{DriverRef: "ascari", DriverName: "Alberto Ascari", Year: 1951, RaceName: "German Grand Prix", Round: 1},
	}

	frames := buildFrames(rows)
	require.Len(t, frames, 5)

	assert.Equal(t, "1950-R1", frames[0].TimeStep)
	assert.Equal(t, "British Grand Prix (1950)", frames[0].RaceInfo)
	assert.Equal(t, []frameDriver{{"farina", "Nino Farina", 1}}, frames[0].Drivers)

	assert.Equal(t, "1950-R4", frames[2].TimeStep)
	assert.Equal(t, []frameDriver{{"fangio", "Juan Fangio", 2}, {"farina", "Nino Farina", 1}}, frames[2].Drivers)

	// Tie keeps first-win order.
	assert.Equal(t, []frameDriver{{"farina", "Nino Farina", 2}, {"fangio", "Juan Fangio", 2}}, frames[3].Drivers)

	last := frames[4]
	assert.Equal(t, "1951-R1", last.TimeStep)
	assert.Equal(t, "German Grand Prix (1951)", last.RaceInfo)
	assert.Len(t, last.Drivers, 3)
	assert.Equal(t, "ascari", last.Drivers[2].DriverRef)
}

func TestBuildFramesEmpty(t *testing.T) {
	frames := buildFrames(nil)
	assert.NotNil(t, frames)
	assert.Empty(t, frames)
}

func TestAnimatedRaceDataEndpoint(t *testing.T) {
	ctx := context.Background()
	store := dbtest.Open(t)
	for _, row := range []interface{}{
		&models.Driver{DriverID: 1, DriverRef: "hamilton", Forename: str("Lewis"), Surname: str("Hamilton")},
		&models.Driver{DriverID: 2, DriverRef: "rosberg", Forename: str("Nico"), Surname: str("Rosberg")},
		&models.Race{RaceID: 10, Year: 2016, Round: 1, Name: "Australian Grand Prix", Date: "2016-03-20"},
		&models.Race{RaceID: 11, Year: 2016, Round: 2, Name: "Bahrain Grand Prix", Date: "2016-04-03"},
		&models.Result{ResultID: 1, RaceID: 10, DriverID: 2, ConstructorID: 131, PositionOrder: num(1)},
		&models.Result{ResultID: 2, RaceID: 10, DriverID: 1, ConstructorID: 131, PositionOrder: num(2)},
		&models.Result{ResultID: 3, RaceID: 11, DriverID: 2, ConstructorID: 131, PositionOrder: num(1)},
	} {
		_, err := store.NewInsert().Model(row).Exec(ctx)
		require.NoError(t, err)
	}

	e := echo.New()
	h := New(store)
	e.GET("/api/animated_race_data/", h.AnimatedRaceData)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/animated_race_data/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var frames []frame
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &frames))
	require.Len(t, frames, 2)
	assert.Equal(t, "2016-R2", frames[1].TimeStep)
	assert.Equal(t, []frameDriver{{"rosberg", "Nico Rosberg", 2}}, frames[1].Drivers)
}

func TestHelloAndHealthz(t *testing.T) {
	e := echo.New()
	h := New(dbtest.Open(t))
	e.GET("/api/hello/", h.Hello)
	e.GET("/healthz", h.Healthz)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hello/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Hello from the F1App backend"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
