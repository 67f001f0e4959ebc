package normalize

import (
	"fmt"
	"log/slog"

	"rmkit/internal/chip"
	"rmkit/internal/errs"
	"rmkit/internal/match"
)

// maxSuggestions bounds the "did you mean" list for unknown names.
const maxSuggestions = 3

// Normalizer lowers parsed documents into canonical models.
type Normalizer struct {
	catalog *chip.Catalog
	logger  *slog.Logger
}

// New creates a Normalizer. A nil catalog means chip.Default(); a nil
// logger discards.
func New(catalog *chip.Catalog, logger *slog.Logger) *Normalizer {
	if catalog == nil {
		catalog = chip.Default()
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Normalizer{catalog: catalog, logger: logger}
}

// ResolveChip finds the chip for a chip or board name. Unknown names fail
// with suggestions from the catalog.
func (n *Normalizer) ResolveChip(chipName, board string) (chip.Info, error) {
	if board != "" {
		info, ok := n.catalog.Board(board)
		if !ok {
			return chip.Info{}, &errs.NormalizationError{
				Document:    "keyboard.toml",
				Field:       "keyboard.board",
				Msg:         fmt.Sprintf("unknown board %q", board),
				Suggestions: match.Suggest(board, n.catalog.BoardNames(), maxSuggestions),
			}
		}

		return info, nil
	}

	info, ok := n.catalog.Lookup(chipName)
	if !ok {
		return chip.Info{}, &errs.NormalizationError{
			Document:    "keyboard.toml",
			Field:       "keyboard.chip",
			Msg:         fmt.Sprintf("unknown chip %q", chipName),
			Suggestions: match.Suggest(chipName, n.catalog.Names(), maxSuggestions),
		}
	}

	return info, nil
}

func hwError(field, format string, args ...any) error {
	return &errs.NormalizationError{Document: "keyboard.toml", Field: field, Msg: fmt.Sprintf(format, args...)}
}

func layoutError(field, format string, args ...any) error {
	return &errs.NormalizationError{Document: "vial.json", Field: field, Msg: fmt.Sprintf(format, args...)}
}
