package ergast

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// count decodes a JSON number or a numeric string ("65").
type count int

func (c *count) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("count %q: %w", b, err)
	}
	*c = count(n)
	return nil
}

type response struct {
	MRData *MRData `json:"MRData"`
}

// MRData is the upstream envelope. Exactly one table is set per resource.
type MRData struct {
	Total  count `json:"total"`
	Limit  count `json:"limit"`
	Offset count `json:"offset"`

	CircuitTable *struct {
		Circuits []Circuit `json:"Circuits"`
	} `json:"CircuitTable"`
	SeasonTable *struct {
		Seasons []Season `json:"Seasons"`
	} `json:"SeasonTable"`
	StatusTable *struct {
		Status []Status `json:"Status"`
	} `json:"StatusTable"`
	RaceTable *struct {
		Races []Race `json:"Races"`
	} `json:"RaceTable"`
	ConstructorTable *struct {
		Constructors []Constructor `json:"Constructors"`
	} `json:"ConstructorTable"`
	DriverTable *struct {
		Drivers []Driver `json:"Drivers"`
	} `json:"DriverTable"`
	StandingsTable *struct {
		StandingsLists []StandingsList `json:"StandingsLists"`
	} `json:"StandingsTable"`
}

type Location struct {
	Lat      string `json:"lat"`
	Long     string `json:"long"`
	Locality string `json:"locality"`
	Country  string `json:"country"`
}

type Circuit struct {
	CircuitID   string   `json:"circuitId"`
	URL         string   `json:"url"`
	CircuitName string   `json:"circuitName"`
	Location    Location `json:"Location"`
}

type Season struct {
	Season string `json:"season"`
	URL    string `json:"url"`
}

type Status struct {
	StatusID string `json:"statusId"`
	Count    string `json:"count"`
	Status   string `json:"status"`
}

type Constructor struct {
	ConstructorID string `json:"constructorId"`
	URL           string `json:"url"`
	Name          string `json:"name"`
	Nationality   string `json:"nationality"`
}

type Driver struct {
	DriverID        string `json:"driverId"`
	PermanentNumber string `json:"permanentNumber"`
	Code            string `json:"code"`
	URL             string `json:"url"`
	GivenName       string `json:"givenName"`
	FamilyName      string `json:"familyName"`
	DateOfBirth     string `json:"dateOfBirth"`
	Nationality     string `json:"nationality"`
}

// Session is a dated sub-event of a race weekend.
type Session struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type Race struct {
	Season         string   `json:"season"`
	Round          string   `json:"round"`
	URL            string   `json:"url"`
	RaceName       string   `json:"raceName"`
	Circuit        Circuit  `json:"Circuit"`
	Date           string   `json:"date"`
	Time           string   `json:"time"`
	FirstPractice  *Session `json:"FirstPractice"`
	SecondPractice *Session `json:"SecondPractice"`
	ThirdPractice  *Session `json:"ThirdPractice"`
	Qualifying     *Session `json:"Qualifying"`
	Sprint         *Session `json:"Sprint"`

	Results           []Result          `json:"Results"`
	SprintResults     []Result          `json:"SprintResults"`
	QualifyingResults []QualifyingEntry `json:"QualifyingResults"`
	PitStops          []PitStop         `json:"PitStops"`
	Laps              []Lap             `json:"Laps"`
}

type Timing struct {
	Millis string `json:"millis"`
	Time   string `json:"time"`
}

type AverageSpeed struct {
	Units string `json:"units"`
	Speed string `json:"speed"`
}

type FastestLap struct {
	Rank         string        `json:"rank"`
	Lap          string        `json:"lap"`
	Time         *Timing       `json:"Time"`
	AverageSpeed *AverageSpeed `json:"AverageSpeed"`
}

// Result is one classified finisher of a race or sprint.
type Result struct {
	Number       string      `json:"number"`
	Position     string      `json:"position"`
	PositionText string      `json:"positionText"`
	Points       string      `json:"points"`
	Driver       Driver      `json:"Driver"`
	Constructor  Constructor `json:"Constructor"`
	Grid         string      `json:"grid"`
	Laps         string      `json:"laps"`
	Status       string      `json:"status"`
	Time         *Timing     `json:"Time"`
	FastestLap   *FastestLap `json:"FastestLap"`
}

type QualifyingEntry struct {
	Number      string      `json:"number"`
	Position    string      `json:"position"`
	Driver      Driver      `json:"Driver"`
	Constructor Constructor `json:"Constructor"`
	Q1          string      `json:"Q1"`
	Q2          string      `json:"Q2"`
	Q3          string      `json:"Q3"`
}

type PitStop struct {
	DriverID     string `json:"driverId"`
	Lap          string `json:"lap"`
	Stop         string `json:"stop"`
	Time         string `json:"time"`
	Duration     string `json:"duration"`
	Milliseconds string `json:"milliseconds"`
}

type Lap struct {
	Number  string      `json:"number"`
	Timings []LapTiming `json:"Timings"`
}

type LapTiming struct {
	DriverID string `json:"driverId"`
	Position string `json:"position"`
	Time     string `json:"time"`
}

type StandingsList struct {
	Season               string                `json:"season"`
	Round                string                `json:"round"`
	DriverStandings      []DriverStanding      `json:"DriverStandings"`
	ConstructorStandings []ConstructorStanding `json:"ConstructorStandings"`
}

type DriverStanding struct {
	Position     string        `json:"position"`
	PositionText string        `json:"positionText"`
	Points       string        `json:"points"`
	Wins         string        `json:"wins"`
	Driver       Driver        `json:"Driver"`
	Constructors []Constructor `json:"Constructors"`
}

type ConstructorStanding struct {
	Position     string      `json:"position"`
	PositionText string      `json:"positionText"`
	Points       string      `json:"points"`
	Wins         string      `json:"wins"`
	Constructor  Constructor `json:"Constructor"`
}

// RaceRef identifies the race a flattened record belongs to.
type RaceRef struct {
	Season string
	Round  string
}

// RaceResult is a Result flattened out of its race.
type RaceResult struct {
	RaceRef
	Result
}

// RaceQualifying is a QualifyingEntry flattened out of its race.
type RaceQualifying struct {
	RaceRef
	QualifyingEntry
}

// RacePitStop is a PitStop flattened out of its race.
type RacePitStop struct {
	RaceRef
	PitStop
}

// RaceLapTiming is one driver's timing on one lap.
type RaceLapTiming struct {
	RaceRef
	Lap string
	LapTiming
}

// RoundDriverStanding is a DriverStanding with the round it was taken after.
type RoundDriverStanding struct {
	RaceRef
	DriverStanding
}

// RoundConstructorStanding is a ConstructorStanding with the round it was taken after.
type RoundConstructorStanding struct {
	RaceRef
	ConstructorStanding
}

func decode(b []byte) (*MRData, error) {
	var r response
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("decode response: %w: %w", ErrUnexpectedShape, err)
	}
	if r.MRData == nil {
		return nil, fmt.Errorf("MRData: %w", ErrUnexpectedShape)
	}
	return r.MRData, nil
}
