// Package formats provides parsers for sector/wall level files.
package formats

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/sectorview/pkg/encoding"
)

// Map file errors.
var (
	ErrIO                         = errors.New("map file unreadable")
	ErrMalformedRecord            = errors.New("malformed record")
	ErrInvalidFieldValue          = errors.New("invalid field value")
	ErrSectorWallRangeOutOfBounds = errors.New("sector wall range out of bounds")
	ErrUnknownSector              = errors.New("unknown sector")
	ErrDegenerateWall             = errors.New("degenerate wall")
	ErrInvalidSectorHeights       = errors.New("ceiling below floor")
)

// Section markers.
const (
	sectorsMarker = "[SECTORS]"
	wallsMarker   = "[WALLS]"
)

// Field counts per record type.
const (
	SectorFields       = 7
	WallFields         = 6
	TexturedWallFields = 7
)

var sectorFieldNames = [SectorFields]string{
	"id", "first_wall", "wall_count", "floor_height", "ceiling_height", "rotating_wall_id", "rotating_wall_angle",
}

var wallFieldNames = [TexturedWallFields]string{
	"id", "xstart", "zstart", "xend", "zend", "portal_id", "texture",
}

// Section identifies which block of the map file a record belongs to.
type Section int

const (
	SectionSearching Section = iota // before any section marker
	SectionSectors
	SectionWalls
)

// String returns the section name.
func (s Section) String() string {
	switch s {
	case SectionSearching:
		return "searching"
	case SectionSectors:
		return "sectors"
	case SectionWalls:
		return "walls"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// RecordError describes a record that could not be decoded.
type RecordError struct {
	Line    int
	Section Section

	// Set for field count errors.
	MinFields int
	MaxFields int
	Actual    int

	// Set for field value errors.
	Field int
	Name  string
	Raw   string
	Cause error

	Err error // ErrMalformedRecord or ErrInvalidFieldValue
}

func (e *RecordError) Error() string {
	if errors.Is(e.Err, ErrMalformedRecord) {
		expected := strconv.Itoa(e.MinFields)
		if e.MaxFields != e.MinFields {
			expected = fmt.Sprintf("%d-%d", e.MinFields, e.MaxFields)
		}
		return fmt.Sprintf("line %d: %v in %s: expected %s fields, got %d",
			e.Line, e.Err, e.Section, expected, e.Actual)
	}
	msg := fmt.Sprintf("line %d: %v in %s: field %d (%s) = %q",
		e.Line, e.Err, e.Section, e.Field, e.Name, e.Raw)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Record is one classified line of a map file.
type Record struct {
	Line    int // 1-based
	Section Section
	Text    string
}

// Fields splits the record on runs of whitespace.
func (r Record) Fields() []string {
	return strings.Fields(r.Text)
}

// classifier is the state threaded through one pass over the lines.
type classifier struct {
	section Section
	records []Record
	dropped []int
}

// step consumes one line and returns the next state.
func (c classifier) step(lineNo int, line string) classifier {
	line = strings.TrimSuffix(line, "\r")

	switch {
	case strings.TrimSpace(line) == "":
	case strings.HasPrefix(line, "//"):
	case strings.Contains(line, sectorsMarker):
		c.section = SectionSectors
	case strings.Contains(line, wallsMarker):
		c.section = SectionWalls
	case c.section == SectionSearching:
		c.dropped = append(c.dropped, lineNo)
	default:
		c.records = append(c.records, Record{Line: lineNo, Section: c.section, Text: line})
	}
	return c
}

func classify(text string) classifier {
	var c classifier
	for i, line := range strings.Split(text, "\n") {
		c = c.step(i+1, line)
	}
	return c
}

// Classify splits map text into records tagged with their section.
// Blank lines, // comments and section markers are not emitted.
// Records that appear before the first section marker are dropped.
func Classify(text string) []Record {
	return classify(text).records
}

// fieldReader decodes positional fields, keeping the first error.
type fieldReader struct {
	line    int
	section Section
	fields  []string
	names   []string
	err     error
}

func (r *fieldReader) raw(i int) (string, bool) {
	if r.err != nil {
		return "", false
	}
	if i < 0 || i >= len(r.fields) {
		r.err = &RecordError{
			Line:      r.line,
			Section:   r.section,
			MinFields: i + 1,
			MaxFields: i + 1,
			Actual:    len(r.fields),
			Err:       ErrMalformedRecord,
		}
		return "", false
	}
	return r.fields[i], true
}

func (r *fieldReader) fail(i int, raw string, cause error) {
	r.err = &RecordError{
		Line:    r.line,
		Section: r.section,
		Field:   i,
		Name:    r.names[i],
		Raw:     raw,
		Cause:   cause,
		Err:     ErrInvalidFieldValue,
	}
}

func (r *fieldReader) int(i int) int {
	s, ok := r.raw(i)
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		r.fail(i, s, errors.Unwrap(err))
		return 0
	}
	return v
}

func (r *fieldReader) float(i int) float32 {
	s, ok := r.raw(i)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		r.fail(i, s, errors.Unwrap(err))
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		r.fail(i, s, errors.New("value is not finite"))
		return 0
	}
	return float32(v)
}

func checkFieldCount(line int, section Section, fields []string, minFields, maxFields int) error {
	if len(fields) < minFields || len(fields) > maxFields {
		return &RecordError{
			Line:      line,
			Section:   section,
			MinFields: minFields,
			MaxFields: maxFields,
			Actual:    len(fields),
			Err:       ErrMalformedRecord,
		}
	}
	return nil
}

// DecodeSector decodes a sector record by field position:
// id, first_wall, wall_count, floor_height, ceiling_height, rotating_wall_id, rotating_wall_angle.
func DecodeSector(line int, fields []string) (Sector, error) {
	if err := checkFieldCount(line, SectionSectors, fields, SectorFields, SectorFields); err != nil {
		return Sector{}, err
	}

	r := &fieldReader{line: line, section: SectionSectors, fields: fields, names: sectorFieldNames[:]}
	s := Sector{
		ID:                r.int(0),
		FirstWall:         r.int(1),
		WallCount:         r.int(2),
		FloorHeight:       r.float(3),
		CeilingHeight:     r.float(4),
		RotatingWallID:    r.int(5),
		RotatingWallAngle: r.float(6),
	}
	if r.err != nil {
		return Sector{}, r.err
	}
	return s, nil
}

// DecodeWall decodes a wall record by field position:
// id, xstart, zstart, xend, zend, portal_id and an optional texture reference.
func DecodeWall(line int, fields []string) (Wall, error) {
	if err := checkFieldCount(line, SectionWalls, fields, WallFields, TexturedWallFields); err != nil {
		return Wall{}, err
	}

	r := &fieldReader{line: line, section: SectionWalls, fields: fields, names: wallFieldNames[:]}
	w := Wall{ID: r.int(0)}
	w.Start.X = r.float(1)
	w.Start.Y = r.float(2)
	w.End.X = r.float(3)
	w.End.Y = r.float(4)
	w.PortalID = r.int(5)
	if len(fields) == TexturedWallFields {
		w.Texture, _ = r.raw(6)
	}
	if r.err != nil {
		return Wall{}, r.err
	}
	return w, nil
}

// ParseMap parses map text. name identifies the source in the result.
// Parsing is all-or-nothing: the first bad record aborts with no partial map.
func ParseMap(name string, data []byte) (*Map, error) {
	text, err := encoding.DecodeText(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	c := classify(text)
	m := &Map{
		Name:           name,
		DroppedRecords: c.dropped,
	}

	for _, rec := range c.records {
		fields := rec.Fields()
		switch rec.Section {
		case SectionSectors:
			s, err := DecodeSector(rec.Line, fields)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			m.Sectors = append(m.Sectors, s)
		case SectionWalls:
			w, err := DecodeWall(rec.Line, fields)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			m.Walls = append(m.Walls, w)
		}
	}

	return m, nil
}

// ParseMapFile parses a map file from disk.
func ParseMapFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return ParseMap(path, data)
}
