package wizard

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"rmkit/internal/chip"
	"rmkit/internal/match"
	"rmkit/internal/model"
	"rmkit/internal/normalize"
)

// QuestionID names a question. It doubles as the key in answer files.
type QuestionID string

// Question ids in the order they are asked.
const (
	QProjectName     QuestionID = "project_name"
	QSplit           QuestionID = "split"
	QChip            QuestionID = "chip"
	QInterface       QuestionID = "interface"
	QMatrixType      QuestionID = "matrix_type"
	QRows            QuestionID = "rows"
	QCols            QuestionID = "cols"
	QRow2Col         QuestionID = "row2col"
	QInputPins       QuestionID = "input_pins"
	QOutputPins      QuestionID = "output_pins"
	QDirectPins      QuestionID = "direct_pins"
	QSplitConnection QuestionID = "split_connection"
	QSerialTxPin     QuestionID = "serial_tx_pin"
	QSerialRxPin     QuestionID = "serial_rx_pin"
	QPeerCount       QuestionID = "peer_count"
	QLayers          QuestionID = "layers"
	QConfirm         QuestionID = "confirm"
)

// Kind tells a prompter how to present a question.
type Kind int

const (
	KindText Kind = iota
	KindYesNo
	KindChoice
	KindNumber
	KindPins
	KindPinGrid
)

// Question is one state of the session.
type Question struct {
	ID     QuestionID
	Prompt string
	Kind   Kind
	// Choices lists accepted answers for KindChoice.
	Choices func(Answers) []string
	// Default is used when the answer is empty. Nil or "" means required.
	Default func(Answers) string
	// Visible hides the question when it returns false. Nil means always.
	Visible func(Answers) bool
	// Parse validates raw input and returns the stored value.
	Parse func(Answers, string) (any, error)
}

func (q Question) visible(a Answers) bool { return q.Visible == nil || q.Visible(a) }

func (q Question) defaultFor(a Answers) string {
	if q.Default == nil {
		return ""
	}

	return q.Default(a)
}

func (q Question) choicesFor(a Answers) []string {
	if q.Choices == nil {
		return nil
	}

	return q.Choices(a)
}

func fixed(s string) func(Answers) string { return func(Answers) string { return s } }

// halfIDs are the question ids describing one half's matrix. Index 0 is
// the central (or the only board).
type halfIDs struct {
	rows, cols, input, output, direct QuestionID
}

func idsFor(i int) halfIDs {
	if i == 0 {
		return halfIDs{QRows, QCols, QInputPins, QOutputPins, QDirectPins}
	}

	return halfIDs{Peer(i, QRows), Peer(i, QCols), Peer(i, QInputPins), Peer(i, QOutputPins), Peer(i, QDirectPins)}
}

func halfName(i int) string {
	if i == 0 {
		return "central half"
	}

	return "peripheral " + strconv.Itoa(i)
}

// questions builds the question list for a catalog.
func questions(catalog *chip.Catalog) []Question {
	qs := []Question{
		{
			ID:      QProjectName,
			Prompt:  "Project name",
			Kind:    KindText,
			Default: fixed("rmk_keyboard"),
			Parse: func(_ Answers, raw string) (any, error) {
				name := normalize.ProjectName(raw)
				return name, normalize.ValidateProjectName(name)
			},
		},
		{
			ID:      QSplit,
			Prompt:  "Is it a split keyboard?",
			Kind:    KindYesNo,
			Default: fixed("no"),
			Parse:   parseYesNo,
		},
		{
			ID:     QChip,
			Prompt: "Microcontroller (chip or board name)",
			Kind:   KindChoice,
			Choices: func(a Answers) []string {
				if a.IsSplit() {
					return catalog.SplitNames()
				}

				return catalog.Names()
			},
			Default: func(a Answers) string {
				if a.IsSplit() {
					return catalog.SplitNames()[0]
				}

				return catalog.Names()[0]
			},
			Parse: func(a Answers, raw string) (any, error) {
				return parseChip(catalog, a, raw)
			},
		},
		{
			ID:      QInterface,
			Prompt:  "Connection to the host",
			Kind:    KindChoice,
			Choices: func(Answers) []string { return []string{"usb", "ble"} },
			Default: fixed("usb"),
			Visible: func(a Answers) bool { return chipOf(catalog, a).BLE },
			Parse:   choice("usb", "ble"),
		},
		{
			ID:      QMatrixType,
			Prompt:  "Matrix type",
			Kind:    KindChoice,
			Choices: func(Answers) []string { return []string{"normal", "direct_pin"} },
			Default: fixed("normal"),
			Parse:   choice("normal", "direct_pin"),
		},
	}

	central := halfQuestions(0)

	// row2col decides which pin list selects rows, so it comes before the
	// central pin questions.
	qs = append(qs, central[:2]...)
	qs = append(qs, Question{
		ID:      QRow2Col,
		Prompt:  "Are the diodes row-to-column (row2col)?",
		Kind:    KindYesNo,
		Default: fixed("no"),
		Visible: func(a Answers) bool { return !a.IsDirect() },
		Parse:   parseYesNo,
	})
	qs = append(qs, central[2:]...)

	qs = append(qs,
		Question{
			ID:     QSplitConnection,
			Prompt: "Connection between the halves",
			Kind:   KindChoice,
			Choices: func(a Answers) []string {
				if chipOf(catalog, a).BLE {
					return []string{"ble", "serial"}
				}

				return []string{"serial"}
			},
			Default: func(a Answers) string {
				if chipOf(catalog, a).BLE {
					return "ble"
				}

				return "serial"
			},
			Visible: Answers.IsSplit,
			Parse: func(a Answers, raw string) (any, error) {
				if chipOf(catalog, a).BLE {
					return choice("ble", "serial")(a, raw)
				}

				return choice("serial")(a, raw)
			},
		},
		Question{
			ID:      QSerialTxPin,
			Prompt:  "UART TX pin used between the halves",
			Kind:    KindText,
			Visible: isSerialSplit,
			Parse:   serialPin(),
		},
		Question{
			ID:      QSerialRxPin,
			Prompt:  "UART RX pin used between the halves",
			Kind:    KindText,
			Visible: isSerialSplit,
			Parse:   serialPin(QSerialTxPin),
		},
		Question{
			ID:      QPeerCount,
			Prompt:  "Number of peripheral halves",
			Kind:    KindNumber,
			Default: fixed("1"),
			Visible: Answers.IsSplit,
			Parse: func(a Answers, raw string) (any, error) {
				n, err := parseInt(raw)
				if err != nil {
					return nil, err
				}

				if err := normalize.ValidatePeerCount(n); err != nil {
					return nil, err
				}

				if isSerialSplit(a) && n > 1 {
					return nil, fmt.Errorf("a serial split supports one peripheral, got %d", n)
				}

				return n, nil
			},
		},
	)

	for i := 1; i <= normalize.MaxPeers; i++ {
		qs = append(qs, halfQuestions(i)...)
	}

	qs = append(qs,
		Question{
			ID:      QLayers,
			Prompt:  "Number of keymap layers",
			Kind:    KindNumber,
			Default: fixed("2"),
			Parse: func(_ Answers, raw string) (any, error) {
				n, err := parseInt(raw)
				if err != nil {
					return nil, err
				}

				return n, normalize.ValidateLayerCount(n)
			},
		},
		Question{
			ID:      QConfirm,
			Prompt:  "Generate the project?",
			Kind:    KindYesNo,
			Default: fixed("yes"),
			Parse:   parseYesNo,
		},
	)

	return qs
}

// halfQuestions asks for the matrix of half i.
func halfQuestions(i int) []Question {
	ids := idsFor(i)
	name := halfName(i)

	inHalf := func(a Answers) bool {
		if i == 0 {
			return true
		}

		return a.PeerCount() >= i
	}

	// Every peripheral shares the central's UART pins in a serial split.
	linkPins := func(a Answers) []string {
		if i == 0 || !isSerialSplit(a) {
			return nil
		}

		return []string{a.String(QSerialTxPin), a.String(QSerialRxPin)}
	}

	dim := func(id QuestionID, what string) Question {
		return Question{
			ID:      id,
			Prompt:  fmt.Sprintf("Number of %s (%s)", what, name),
			Kind:    KindNumber,
			Visible: inHalf,
			Parse: func(_ Answers, raw string) (any, error) {
				n, err := parseInt(raw)
				if err != nil {
					return nil, err
				}

				return n, normalize.ValidateDimension(what, n)
			},
		}
	}

	return []Question{
		dim(ids.rows, "rows"),
		dim(ids.cols, "cols"),
		{
			ID:      ids.input,
			Prompt:  fmt.Sprintf("Input pins (%s)", name),
			Kind:    KindPins,
			Visible: func(a Answers) bool { return inHalf(a) && !a.IsDirect() },
			Parse: func(a Answers, raw string) (any, error) {
				want := a.Int(ids.rows)
				if a.Bool(QRow2Col) {
					want = a.Int(ids.cols)
				}

				pins, err := parsePins(raw, want)
				if err != nil {
					return nil, err
				}

				if err := disjoint(pins, linkPins(a)); err != nil {
					return nil, err
				}

				return pins, nil
			},
		},
		{
			ID:      ids.output,
			Prompt:  fmt.Sprintf("Output pins (%s)", name),
			Kind:    KindPins,
			Visible: func(a Answers) bool { return inHalf(a) && !a.IsDirect() },
			Parse: func(a Answers, raw string) (any, error) {
				want := a.Int(ids.cols)
				if a.Bool(QRow2Col) {
					want = a.Int(ids.rows)
				}

				pins, err := parsePins(raw, want)
				if err != nil {
					return nil, err
				}

				if err := disjoint(pins, slices.Concat(a.Pins(ids.input), linkPins(a))); err != nil {
					return nil, err
				}

				return pins, nil
			},
		},
		{
			ID:      ids.direct,
			Prompt:  fmt.Sprintf("Direct pins (%s), rows separated by ';', '_' for no key", name),
			Kind:    KindPinGrid,
			Visible: func(a Answers) bool { return inHalf(a) && a.IsDirect() },
			Parse: func(a Answers, raw string) (any, error) {
				grid, err := parseGrid(raw, model.Shape{Rows: a.Int(ids.rows), Cols: a.Int(ids.cols)})
				if err != nil {
					return nil, err
				}

				for _, row := range grid {
					if err := disjoint(row, linkPins(a)); err != nil {
						return nil, err
					}
				}

				return grid, nil
			},
		},
	}
}

func isSerialSplit(a Answers) bool {
	return a.IsSplit() && a.String(QSplitConnection) == "serial"
}

func chipOf(catalog *chip.Catalog, a Answers) chip.Info {
	info, _ := catalog.Lookup(a.String(QChip))
	return info
}

func parseChip(catalog *chip.Catalog, a Answers, raw string) (any, error) {
	info, ok := catalog.Lookup(raw)
	if !ok {
		info, ok = catalog.Board(raw)
	}

	if !ok {
		names := append(catalog.Names(), catalog.BoardNames()...)
		if hints := match.Suggest(raw, names, 3); len(hints) > 0 {
			return nil, fmt.Errorf("unknown chip %q (did you mean %s?)", raw, strings.Join(hints, ", "))
		}

		return nil, fmt.Errorf("unknown chip %q", raw)
	}

	if a.IsSplit() && !info.SplitSupport {
		return nil, fmt.Errorf("chip %s does not support split keyboards (supported: %s)",
			info.Name, strings.Join(catalog.SplitNames(), ", "))
	}

	return info.Name, nil
}

func parseYesNo(_ Answers, raw string) (any, error) {
	switch strings.ToLower(raw) {
	case "y", "yes", "true":
		return true, nil
	case "n", "no", "false":
		return false, nil
	}

	return nil, fmt.Errorf("answer yes or no, got %q", raw)
}

func choice(options ...string) func(Answers, string) (any, error) {
	return func(_ Answers, raw string) (any, error) {
		for _, o := range options {
			if strings.EqualFold(raw, o) {
				return o, nil
			}
		}

		return nil, fmt.Errorf("choose one of %s, got %q", strings.Join(options, ", "), raw)
	}
}

func parseInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}

	return n, nil
}

// splitPins splits a pin list on whitespace and commas. Quoting follows
// shell rules.
func splitPins(raw string) ([]string, error) {
	words, err := shlex.Split(strings.ReplaceAll(raw, ",", " "))
	if err != nil {
		return nil, fmt.Errorf("cannot split pin list: %w", err)
	}

	return words, nil
}

func parsePins(raw string, want int) ([]string, error) {
	words, err := splitPins(raw)
	if err != nil {
		return nil, err
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("at least one pin is required")
	}

	return normalize.ValidatePinList(words, want)
}

func parseGrid(raw string, shape model.Shape) ([][]string, error) {
	var grid [][]string

	for _, row := range strings.Split(raw, ";") {
		words, err := splitPins(row)
		if err != nil {
			return nil, err
		}

		grid = append(grid, words)
	}

	got, _, err := normalize.ValidateDirectPins(grid)
	if err != nil {
		return nil, err
	}

	if got.Rows != shape.Rows {
		return nil, fmt.Errorf("expected %d rows, got %d", shape.Rows, got.Rows)
	}

	for r, row := range grid {
		if len(row) != shape.Cols {
			return nil, fmt.Errorf("row %d: expected %d pins, got %d (use '_' for no key)", r, shape.Cols, len(row))
		}
	}

	return grid, nil
}

func disjoint(pins, others []string) error {
	taken := make(map[string]bool, len(others))
	for _, p := range others {
		taken[p] = true
	}

	for _, p := range pins {
		if taken[p] {
			return fmt.Errorf("pin %s is already used", p)
		}
	}

	return nil
}

// serialPin validates a UART pin against the central matrix pins and the
// other serial pins already given.
func serialPin(others ...QuestionID) func(Answers, string) (any, error) {
	return func(a Answers, raw string) (any, error) {
		if err := normalize.ValidatePinName(raw); err != nil {
			return nil, err
		}

		used := a.Pins(QInputPins)
		used = append(used, a.Pins(QOutputPins)...)

		for _, row := range a.Grid(QDirectPins) {
			used = append(used, row...)
		}

		for _, id := range others {
			used = append(used, a.String(id))
		}

		if err := disjoint([]string{raw}, used); err != nil {
			return nil, err
		}

		return raw, nil
	}
}
