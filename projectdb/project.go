package projectdb

import (
	"regexp"
	"time"

	"github.com/biyonik/fluentdb"
)

// Project statuses.
const (
	StatusTodo     = "TODO"
	StatusStop     = "STOP"
	StatusChecking = "CHECKING"
	StatusDebug    = "DEBUG"
	StatusRunning  = "RUNNING"
)

// Statuses lists every known status in lifecycle order.
var Statuses = []string{StatusTodo, StatusStop, StatusChecking, StatusDebug, StatusRunning}

// Columns of the project table, in schema order.
const (
	ColName       = "name"
	ColGroup      = "group"
	ColStatus     = "status"
	ColScript     = "script"
	ColComments   = "comments"
	ColRate       = "rate"
	ColBurst      = "burst"
	ColUpdateTime = "updatetime"
)

// Columns lists the project table columns in schema order.
var Columns = []string{ColName, ColGroup, ColStatus, ColScript, ColComments, ColRate, ColBurst, ColUpdateTime}

var validName = regexp.MustCompile(`^\w+$`)

// ValidName reports whether name is usable as a project name: one or more word characters.
func ValidName(name string) bool {
	return validName.MatchString(name)
}

// Project is the typed view of a project record.
type Project struct {
	Name       string  `db:"name" json:"name"`
	Group      string  `db:"group" json:"group,omitempty"`
	Status     string  `db:"status" json:"status,omitempty"`
	Script     string  `db:"script" json:"script,omitempty"`
	Comments   string  `db:"comments" json:"comments,omitempty"`
	Rate       float64 `db:"rate" json:"rate"`
	Burst      float64 `db:"burst" json:"burst"`
	UpdateTime float64 `db:"updatetime" json:"updatetime"`
}

var scanner = fluentdb.NewDefaultScanner()

// Decode converts a record into a Project. Columns missing from rec keep their zero value.
func Decode(rec fluentdb.Record) (*Project, error) {
	var p Project
	if err := scanner.Decode(rec, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Values returns the writable fields of p. Name and updatetime are excluded; the store
// sets them.
func (p *Project) Values() fluentdb.Values {
	return fluentdb.NewValues(
		fluentdb.F(ColGroup, p.Group),
		fluentdb.F(ColStatus, p.Status),
		fluentdb.F(ColScript, p.Script),
		fluentdb.F(ColComments, p.Comments),
		fluentdb.F(ColRate, p.Rate),
		fluentdb.F(ColBurst, p.Burst),
	)
}

// Updated returns UpdateTime as a time.Time.
func (p *Project) Updated() time.Time {
	sec := int64(p.UpdateTime)
	nsec := int64((p.UpdateTime - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

// Timestamp converts t to fractional epoch seconds, the unit of the updatetime column.
func Timestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
