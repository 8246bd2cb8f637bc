package main

import (
	"database/sql"
	"strings"

	"github.com/iamnorbiato/F1App/importer"
	"github.com/iamnorbiato/F1App/models"
)

// The Ergast dump writes missing values as NULL or the literal \N.

func nullStr(n sql.NullString) *string {
	if !n.Valid || n.String == `\N` || strings.TrimSpace(n.String) == "" {
		return nil
	}
	return &n.String
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}

func scanCircuit(rows *sql.Rows) (models.Circuit, error) {
	var (
		r                      models.Circuit
		location, country, url sql.NullString
		lat, lng               sql.NullFloat64
		alt                    sql.NullInt64
	)
	err := rows.Scan(&r.CircuitID, &r.CircuitRef, &r.Name, &location, &country, &lat, &lng, &alt, &url)
	r.Location, r.Country, r.URL = nullStr(location), nullStr(country), nullStr(url)
	r.Lat, r.Lng, r.Alt = nullFloat(lat), nullFloat(lng), nullInt(alt)
	return r, err
}

func scanSeason(rows *sql.Rows) (models.Season, error) {
	var r models.Season
	err := rows.Scan(&r.Year, &r.URL)
	return r, err
}

func scanStatus(rows *sql.Rows) (models.Status, error) {
	var r models.Status
	err := rows.Scan(&r.StatusID, &r.Status)
	return r, err
}

func scanConstructor(rows *sql.Rows) (models.Constructor, error) {
	var (
		r                models.Constructor
		nationality, url sql.NullString
	)
	err := rows.Scan(&r.ConstructorID, &r.ConstructorRef, &r.Name, &nationality, &url)
	r.Nationality, r.URL = nullStr(nationality), nullStr(url)
	return r, err
}

func scanDriver(rows *sql.Rows) (models.Driver, error) {
	var (
		r                               models.Driver
		number, code, forename, surname sql.NullString
		dob, nationality, url           sql.NullString
	)
	err := rows.Scan(&r.DriverID, &r.DriverRef, &number, &code, &forename, &surname, &dob, &nationality, &url)
	r.Number, r.Code = nullStr(number), nullStr(code)
	r.Forename, r.Surname = nullStr(forename), nullStr(surname)
	r.DOB, r.Nationality, r.URL = nullStr(dob), nullStr(nationality), nullStr(url)
	return r, err
}

func scanRace(rows *sql.Rows) (models.Race, error) {
	var (
		r              models.Race
		circuitID      sql.NullInt64
		tm, url        sql.NullString
		fp1d, fp1t     sql.NullString
		fp2d, fp2t     sql.NullString
		fp3d, fp3t     sql.NullString
		qd, qt, sd, st sql.NullString
	)
	err := rows.Scan(&r.RaceID, &r.Year, &r.Round, &circuitID, &r.Name, &r.Date, &tm, &url,
		&fp1d, &fp1t, &fp2d, &fp2t, &fp3d, &fp3t, &qd, &qt, &sd, &st)
	r.CircuitID, r.Time, r.URL = nullInt(circuitID), nullStr(tm), nullStr(url)
	r.FP1Date, r.FP1Time = nullStr(fp1d), nullStr(fp1t)
	r.FP2Date, r.FP2Time = nullStr(fp2d), nullStr(fp2t)
	r.FP3Date, r.FP3Time = nullStr(fp3d), nullStr(fp3t)
	r.QualiDate, r.QualiTime = nullStr(qd), nullStr(qt)
	r.SprintDate, r.SprintTime = nullStr(sd), nullStr(st)
	return r, err
}

func scanResult(rows *sql.Rows) (models.Result, error) {
	var (
		r                                     models.Result
		number, grid, positionOrder, laps, st sql.NullInt64
		points                                sql.NullFloat64
		position, positionText, tm, millis    sql.NullString
		fastestLap, rank, flTime, flSpeed     sql.NullString
	)
	err := rows.Scan(&r.ResultID, &r.RaceID, &r.DriverID, &r.ConstructorID, &number, &grid, &position,
		&positionText, &positionOrder, &points, &laps, &tm, &millis,
		&fastestLap, &rank, &flTime, &flSpeed, &st)
	r.Number, r.Grid, r.PositionOrder, r.Laps, r.StatusID = nullInt(number), nullInt(grid), nullInt(positionOrder), nullInt(laps), nullInt(st)
	r.Points = nullFloat(points)
	r.Position, r.PositionText = nullStr(position), nullStr(positionText)
	r.Time, r.Milliseconds = nullStr(tm), nullStr(millis)
	r.FastestLap, r.Rank = nullStr(fastestLap), nullStr(rank)
	r.FastestLapTime, r.FastestLapSpeed = nullStr(flTime), nullStr(flSpeed)
	return r, err
}

func scanSprintResult(rows *sql.Rows) (models.SprintResult, error) {
	var (
		r                                          models.SprintResult
		constructorID, number, grid, positionOrder sql.NullInt64
		laps, st                                   sql.NullInt64
		points                                     sql.NullFloat64
		position, positionText, tm, millis         sql.NullString
		fastestLap, flTime                         sql.NullString
	)
	err := rows.Scan(&r.ResultID, &r.RaceID, &r.DriverID, &constructorID, &number, &grid, &position,
		&positionText, &positionOrder, &points, &laps, &tm, &millis,
		&fastestLap, &flTime, &st)
	r.ConstructorID, r.Number, r.Grid = nullInt(constructorID), nullInt(number), nullInt(grid)
	r.PositionOrder, r.Laps, r.StatusID = nullInt(positionOrder), nullInt(laps), nullInt(st)
	r.Points = nullFloat(points)
	r.Position, r.PositionText = nullStr(position), nullStr(positionText)
	r.Time, r.Milliseconds = nullStr(tm), nullStr(millis)
	r.FastestLap, r.FastestLapTime = nullStr(fastestLap), nullStr(flTime)
	return r, err
}

func scanQualifying(rows *sql.Rows) (models.Qualifying, error) {
	var (
		r                               models.Qualifying
		constructorID, number, position sql.NullInt64
		q1, q2, q3                      sql.NullString
	)
	err := rows.Scan(&r.QualifyID, &r.RaceID, &r.DriverID, &constructorID, &number, &position, &q1, &q2, &q3)
	r.ConstructorID, r.Number, r.Position = nullInt(constructorID), nullInt(number), nullInt(position)
	r.Q1, r.Q2, r.Q3 = nullStr(q1), nullStr(q2), nullStr(q3)
	return r, err
}

func scanDriverStanding(rows *sql.Rows) (models.DriverStanding, error) {
	var (
		r              models.DriverStanding
		points         sql.NullFloat64
		position, wins sql.NullInt64
		positionText   sql.NullString
	)
	err := rows.Scan(&r.DriverStandingsID, &r.RaceID, &r.DriverID, &points, &position, &positionText, &wins)
	r.Points, r.Position, r.PositionText, r.Wins = nullFloat(points), nullInt(position), nullStr(positionText), nullInt(wins)
	return r, err
}

func scanConstructorStanding(rows *sql.Rows) (models.ConstructorStanding, error) {
	var (
		r              models.ConstructorStanding
		points         sql.NullFloat64
		position, wins sql.NullInt64
		positionText   sql.NullString
	)
	err := rows.Scan(&r.ConstructorStandingsID, &r.RaceID, &r.ConstructorID, &points, &position, &positionText, &wins)
	r.Points, r.Position, r.PositionText, r.Wins = nullFloat(points), nullInt(position), nullStr(positionText), nullInt(wins)
	return r, err
}

func scanPitStop(rows *sql.Rows, alloc *importer.Allocator) (models.PitStop, error) {
	var (
		r                    models.PitStop
		lap                  sql.NullInt64
		tm, duration, millis sql.NullString
	)
	if err := rows.Scan(&r.RaceID, &r.DriverID, &r.Stop, &lap, &tm, &duration, &millis); err != nil {
		return r, err
	}
	r.PitStopID = alloc.Next()
	r.Lap, r.Time, r.Duration, r.Milliseconds = nullInt(lap), nullStr(tm), nullStr(duration), nullStr(millis)
	return r, nil
}

func scanLapTime(rows *sql.Rows, alloc *importer.Allocator) (models.LapTime, error) {
	var (
		r      models.LapTime
		tm     sql.NullString
		millis sql.NullInt64
	)
	if err := rows.Scan(&r.RaceID, &r.DriverID, &r.Lap, &r.Position, &tm, &millis); err != nil {
		return r, err
	}
	r.LapTimeID = alloc.Next()
	r.Time, r.Milliseconds = nullStr(tm), nullInt(millis)
	return r, nil
}
