package geodata

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/shipstack/backend/internal/domain/geography"
)

// Required columns of the postal reference dataset
var requiredHeaders = []string{"postal", "city", "state"}

// Loader reads the bulk postal-code dataset into an immutable index
// snapshot. The dataset is a read-only import supplied at startup; a bad
// row fails the load with its line number rather than silently shrinking
// the serviceable area.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a new postal dataset loader
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// LoadFile loads a postal dataset from a CSV file
func (l *Loader) LoadFile(path string) (*geography.PostalIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open postal dataset: %w", err)
	}
	defer f.Close()
	return l.Load(f)
}

// Load parses a postal dataset CSV. Expected header:
//
//	postal,city,state,is_metro,is_special_region,classification
//
// is_metro, is_special_region, and classification are optional columns;
// boolean columns accept 1/0, true/false, yes/no.
func (l *Loader) Load(r io.Reader) (*geography.PostalIndex, error) {
	buf := bufio.NewReader(r)

	// Strip a UTF-8 BOM so exported spreadsheets load as-is
	if bom, err := buf.Peek(3); err == nil && len(bom) == 3 &&
		bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	reader := csv.NewReader(buf)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("postal dataset is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read postal dataset header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredHeaders {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("postal dataset is missing required column %q", required)
		}
	}

	areas := make(map[string]geography.PostalArea)
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("postal dataset row %d is malformed: %w", line, err)
		}

		area, err := parseArea(record, columns)
		if err != nil {
			return nil, fmt.Errorf("postal dataset row %d: %w", line, err)
		}
		if _, dup := areas[area.Postal]; dup {
			return nil, fmt.Errorf("postal dataset row %d: duplicate postal code %s", line, area.Postal)
		}
		areas[area.Postal] = area
	}

	if len(areas) == 0 {
		return nil, fmt.Errorf("postal dataset has no rows")
	}

	l.logger.Info("Loaded postal reference dataset", zap.Int("postal_codes", len(areas)))

	return geography.NewPostalIndex(areas), nil
}

// parseArea converts one CSV record to a postal area
func parseArea(record []string, columns map[string]int) (geography.PostalArea, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	postal := field("postal")
	if err := geography.ValidatePostal(postal); err != nil {
		return geography.PostalArea{}, err
	}

	state := field("state")
	if state == "" {
		return geography.PostalArea{}, fmt.Errorf("postal code %s has no state", postal)
	}

	isMetro, err := parseBool(field("is_metro"))
	if err != nil {
		return geography.PostalArea{}, fmt.Errorf("postal code %s: %w", postal, err)
	}
	isSpecial, err := parseBool(field("is_special_region"))
	if err != nil {
		return geography.PostalArea{}, fmt.Errorf("postal code %s: %w", postal, err)
	}

	area := geography.PostalArea{
		Postal:          postal,
		City:            field("city"),
		State:           state,
		IsMetro:         isMetro,
		IsSpecialRegion: isSpecial,
	}

	if classification := field("classification"); classification != "" {
		zone := geography.ZoneCode(strings.ToUpper(classification))
		if !zone.IsValid() {
			return geography.PostalArea{}, fmt.Errorf("postal code %s has unknown classification %q", postal, classification)
		}
		area.Classification = zone
	}

	return area, nil
}

// parseBool accepts the boolean spellings common in operator-maintained
// spreadsheets. Empty means false.
func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "", "0", "false", "no", "n":
		return false, nil
	case "1", "true", "yes", "y":
		return true, nil
	}
	if parsed, err := strconv.ParseBool(value); err == nil {
		return parsed, nil
	}
	return false, fmt.Errorf("unrecognized boolean value %q", value)
}
