package handlers

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
)

// winnersQuery lists every race winner in calendar order.
const winnersQuery = `
SELECT
	dr.driverref,
	COALESCE(dr.forename, '') || ' ' || COALESCE(dr.surname, '') AS driver_name,
	ra.year,
	ra.name AS race_name,
	ra.round AS race_round,
	ra.date AS race_date
FROM results re
JOIN races ra ON re.raceid = ra.raceid
JOIN drivers dr ON re.driverid = dr.driverid
WHERE re.positionorder = 1
ORDER BY ra.year, ra.round, ra.date, re.raceid`

type winnerRow struct {
	DriverRef  string `bun:"driverref"`
	DriverName string `bun:"driver_name"`
	Year       int    `bun:"year"`
	RaceName   string `bun:"race_name"`
	Round      int    `bun:"race_round"`
	Date       string `bun:"race_date"`
}

type frameDriver struct {
	DriverRef  string `json:"driverRef"`
	DriverName string `json:"driverName"`
	Wins       int    `json:"wins"`
}

type frame struct {
	TimeStep string        `json:"timeStep"`
	RaceInfo string        `json:"raceInfo"`
	Drivers  []frameDriver `json:"drivers"`
}

// AnimatedRaceData returns cumulative wins per driver, one frame per race.
func (h *Handler) AnimatedRaceData(c echo.Context) error {
	var rows []winnerRow
	if err := h.db.NewRaw(winnersQuery).Scan(c.Request().Context(), &rows); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, buildFrames(rows))
}

// buildFrames folds chronologically ordered winners into one frame per race.
// Each frame lists every driver with at least one win so far, most wins
// first; ties keep the order in which drivers first won.
func buildFrames(rows []winnerRow) []frame {
	frames := make([]frame, 0)
	var (
		order []string
		wins  = map[string]*frameDriver{}
	)

	snapshot := func(step, info string) {
		drivers := make([]frameDriver, 0, len(order))
		for _, ref := range order {
			drivers = append(drivers, *wins[ref])
		}
		sort.SliceStable(drivers, func(i, j int) bool { return drivers[i].Wins > drivers[j].Wins })
		frames = append(frames, frame{TimeStep: step, RaceInfo: info, Drivers: drivers})
	}

	var step, info string
	for _, r := range rows {
		current := fmt.Sprintf("%d-R%d", r.Year, r.Round)
		if step != "" && current != step {
			snapshot(step, info)
		}

		d, ok := wins[r.DriverRef]
		if !ok {
			d = &frameDriver{DriverRef: r.DriverRef, DriverName: r.DriverName}
			wins[r.DriverRef] = d
			order = append(order, r.DriverRef)
		}
		d.Wins++

		step = current
		info = fmt.Sprintf("%s (%d)", r.RaceName, r.Year)
	}
	if step != "" {
		snapshot(step, info)
	}
	return frames
}

// Hello is a liveness probe for the frontend.
func (h *Handler) Hello(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Hello from the F1App backend"})
}

// Healthz reports whether the store is reachable.
func (h *Handler) Healthz(c echo.Context) error {
	if err := h.db.PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
