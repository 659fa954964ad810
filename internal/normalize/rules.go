package normalize

import (
	"errors"
	"fmt"
	"strings"

	"matagg/internal/table"
)

// ErrUnsupportedValue is returned when a rule meets a value kind it has no
// string form for.
var ErrUnsupportedValue = errors.New("unsupported value kind")

// nanText is what a missing cell turns into when a text column is
// stringified upstream of us.
const nanText = "nan"

// floatArtifact is appended to integer codes that passed through a float
// column on import.
const floatArtifact = ".0"

// Rule rewrites a single value.
type Rule interface {
	Name() string
	Apply(v table.Value) (table.Value, error)
}

// TrimRule strips surrounding whitespace from text and maps the literal
// "nan" to Missing. Non-text values pass through.
type TrimRule struct{}

func (TrimRule) Name() string { return "trim" }

func (TrimRule) Apply(v table.Value) (table.Value, error) {
	s, ok := v.Str()
	if !ok {
		return v, nil
	}
	s = strings.TrimSpace(s)
	if s == nanText {
		return table.Missing(), nil
	}
	return table.String(s), nil
}

// ZeroPadRule restores fixed-width zero padded codes such as plants.
type ZeroPadRule struct {
	Width int
}

// PlantCode is the rule applied to plant codes.
var PlantCode = ZeroPadRule{Width: 4}

func (r ZeroPadRule) Name() string { return fmt.Sprintf("zero_pad(%d)", r.Width) }

func (r ZeroPadRule) Apply(v table.Value) (table.Value, error) {
	if v.IsMissing() {
		return v, nil
	}
	s, err := stringify(v)
	if err != nil {
		return v, err
	}
	padded := zfill(stripFloatArtifact(s), r.Width)
	if padded == zfill(nanText, r.Width) {
		return table.Missing(), nil
	}
	return table.String(padded), nil
}

// IdentifierRule canonicalizes opaque identifiers (supplier, manufacturer).
// Identifiers are not padded.
type IdentifierRule struct{}

func (IdentifierRule) Name() string { return "identifier" }

func (IdentifierRule) Apply(v table.Value) (table.Value, error) {
	if v.IsMissing() {
		return v, nil
	}
	s, err := stringify(v)
	if err != nil {
		return v, err
	}
	return table.String(strings.TrimSpace(stripFloatArtifact(s))), nil
}

// TextRule renders numeric values as text so a key read as a number in one
// file matches the same key read as text in another.
type TextRule struct{}

func (TextRule) Name() string { return "text" }

func (TextRule) Apply(v table.Value) (table.Value, error) {
	if _, ok := v.Num(); !ok {
		return v, nil
	}
	s, err := stringify(v)
	if err != nil {
		return v, err
	}
	return table.String(s), nil
}

func stringify(v table.Value) (string, error) {
	s, ok := v.Text()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedValue, v.Kind())
	}
	return s, nil
}

// stripFloatArtifact removes every trailing ".0" so the rules stay
// idempotent.
func stripFloatArtifact(s string) string {
	for strings.HasSuffix(s, floatArtifact) {
		s = strings.TrimSuffix(s, floatArtifact)
	}
	return s
}

// zfill left-pads s with zeros to width, keeping a leading sign in front.
func zfill(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := strings.Repeat("0", width-len(s))
	if s != "" && (s[0] == '-' || s[0] == '+') {
		return s[:1] + pad + s[1:]
	}
	return pad + s
}
