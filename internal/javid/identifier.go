package javid

import (
	"fmt"
	"regexp"
	"strings"

	"xbvrkit/internal/services"
)

const (
	aliasLegacyCode    = "DSVR"
	aliasCanonicalCode = "3DSVR"
	aliasContentCode   = "13DSVR"

	minSequenceWidth = 3
	contentIDWidth   = 5
	aliasDVDWidth    = 4
)

// identifierPattern finds a producer code followed by a sequence number. The
// leading group stands in for a "not preceded by a letter" assertion, which
// RE2 cannot express directly.
var identifierPattern = regexp.MustCompile(`(?i)(?:^|[^a-z])([a-z]{4,6})\s*[-_.]*\s*([0-9]{3,6})`)

// splitCodePattern recovers producer codes that were split by a single
// whitespace character ("AB CD.123"). It is only consulted when
// identifierPattern finds nothing.
var splitCodePattern = regexp.MustCompile(`(?i)(?:^|[^a-z])([a-z]{2,4})\s([a-z]{2,4})\s*[-_.]*\s*([0-9]{3,6})`)

// Identifier is a producer code plus sequence number extracted from free text.
// Identifiers are immutable values; two identifiers are equal (and usable as
// the same map key) exactly when their DVD forms are equal.
type Identifier struct {
	code string
	seq  string
}

// InvalidIdentifierError reports that no identifier could be found in Input.
type InvalidIdentifierError struct {
	Input string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier: %q", e.Input)
}

// Unwrap lets callers classify the failure with errors.Is(err, services.ErrParse).
func (e *InvalidIdentifierError) Unwrap() error {
	return services.ErrParse
}

// New normalizes a producer code and sequence number into an Identifier.
func New(producerCode, sequenceNumber string) (Identifier, error) {
	code := strings.ToUpper(strings.TrimSpace(producerCode))
	seq := strings.TrimSpace(sequenceNumber)
	if code == "" {
		return Identifier{}, &InvalidIdentifierError{Input: producerCode + sequenceNumber}
	}
	if seq == "" || strings.TrimLeft(seq, "0123456789") != "" {
		return Identifier{}, &InvalidIdentifierError{Input: producerCode + sequenceNumber}
	}
	if code == aliasLegacyCode {
		code = aliasCanonicalCode
	}
	return Identifier{code: code, seq: pad(seq, minSequenceWidth)}, nil
}

// Parse locates the first producer-code/sequence-number pair in text. Text
// without one yields an *InvalidIdentifierError; batch callers should skip
// such input rather than abort.
func Parse(text string) (Identifier, error) {
	if m := identifierPattern.FindStringSubmatch(text); m != nil {
		return New(m[1], m[2])
	}
	for _, m := range splitCodePattern.FindAllStringSubmatch(text, -1) {
		code := m[1] + m[2]
		if len(code) < 4 || len(code) > 6 {
			continue
		}
		return New(code, m[3])
	}
	return Identifier{}, &InvalidIdentifierError{Input: text}
}

// MustParse is like Parse but panics on failure. Intended for tests and
// constants.
func MustParse(text string) Identifier {
	id, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return id
}

// ProducerCode returns the normalized, upper-cased producer code.
func (id Identifier) ProducerCode() string { return id.code }

// SequenceNumber returns the sequence number padded to at least three digits.
func (id Identifier) SequenceNumber() string { return id.seq }

// IsZero reports whether id was never populated.
func (id Identifier) IsZero() bool { return id.code == "" }

// ContentID renders the FANZA content ID form, e.g. ABCD00123 or 13DSVR00456.
func (id Identifier) ContentID() string {
	code := id.code
	if code == aliasCanonicalCode {
		code = aliasContentCode
	}
	return code + pad(id.seq, contentIDWidth)
}

// DVDID renders the display form, e.g. ABCD-123 or 3DSVR-0456.
func (id Identifier) DVDID() string {
	width := minSequenceWidth
	if id.code == aliasCanonicalCode {
		width = aliasDVDWidth
	}
	return id.code + "-" + pad(id.seq, width)
}

// Formats lists every rendering used as a catalog lookup key, in lookup order.
func (id Identifier) Formats() []string {
	return []string{id.ContentID(), id.DVDID()}
}

// Equal reports whether both identifiers share a DVD form.
func (id Identifier) Equal(other Identifier) bool {
	return id.DVDID() == other.DVDID()
}

func (id Identifier) String() string {
	return id.DVDID()
}

// pad strips leading zeros and left-pads with zeros to width.
func pad(digits string, width int) string {
	digits = strings.TrimLeft(digits, "0")
	if len(digits) >= width {
		return digits
	}
	return strings.Repeat("0", width-len(digits)) + digits
}
