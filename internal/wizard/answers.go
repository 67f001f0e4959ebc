package wizard

import (
	"strconv"
)

// Answer is one accepted answer. Value holds the parsed form: string, int,
// bool, []string for pin lists or [][]string for direct-pin grids.
type Answer struct {
	ID    QuestionID
	Raw   string
	Value any
}

// Answers gives typed access to the answers given so far.
type Answers map[QuestionID]Answer

// Has reports whether id was answered.
func (a Answers) Has(id QuestionID) bool {
	_, ok := a[id]
	return ok
}

// String returns a text answer or "".
func (a Answers) String(id QuestionID) string {
	v, _ := a[id].Value.(string)
	return v
}

// Int returns a numeric answer or 0.
func (a Answers) Int(id QuestionID) int {
	v, _ := a[id].Value.(int)
	return v
}

// Bool returns a yes/no answer or false.
func (a Answers) Bool(id QuestionID) bool {
	v, _ := a[id].Value.(bool)
	return v
}

// Pins returns a pin list answer.
func (a Answers) Pins(id QuestionID) []string {
	v, _ := a[id].Value.([]string)
	return v
}

// Grid returns a direct-pin grid answer.
func (a Answers) Grid(id QuestionID) [][]string {
	v, _ := a[id].Value.([][]string)
	return v
}

// IsSplit is shorthand for the split answer.
func (a Answers) IsSplit() bool { return a.Bool(QSplit) }

// IsDirect reports whether direct-pin wiring was chosen.
func (a Answers) IsDirect() bool { return a.String(QMatrixType) == "direct_pin" }

// PeerCount is the peripheral count, 0 when not split.
func (a Answers) PeerCount() int {
	if !a.IsSplit() {
		return 0
	}

	return a.Int(QPeerCount)
}

// Peer builds the question id of a per-peripheral field ("peer2_rows").
func Peer(i int, field QuestionID) QuestionID {
	return QuestionID("peer" + strconv.Itoa(i) + "_" + string(field))
}
