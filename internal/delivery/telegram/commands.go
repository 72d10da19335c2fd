package telegram

import (
	"fmt"
	"strings"

	"github.com/bernardocerejo/sentinel-criptobot/internal/model"
)

// ParseOutcomeKind validates /sinal arguments: exactly one argument,
// green or red, case-insensitive.
func ParseOutcomeKind(args []string) (model.OutcomeKind, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected exactly one argument, got %d", len(args))
	}
	kind := model.OutcomeKind(strings.ToLower(strings.TrimSpace(args[0])))
	if !kind.Valid() {
		return "", fmt.Errorf("unknown outcome kind %q", args[0])
	}
	return kind, nil
}
