package genbank

import (
	"strconv"
	"strings"
)

// Strand is the strand a location refers to.
type Strand int

const (
	Forward Strand = iota
	Reverse
)

// Defect flags describe the ways in which a location is not exact.
type Defect uint

const (
	// The feature extends beyond the first base ('<').
	MissLeft Defect = 1 << iota

	// The feature extends beyond the last base ('>').
	MissRight

	// The feature is located between two adjacent bases ('^').
	Between

	// The feature is located at a single unknown base within the range
	// ('.').
	UnknownSingle
)

// Location is a contiguous range of a sequence. First and Last are 1-based
// and inclusive, as in the flat file.
type Location struct {
	First, Last int
	Strand      Strand
	Defect      Defect
}

// Len is the number of bases the location covers, which is zero for a
// location between two bases.
func (loc Location) Len() int {
	if loc.Defect&Between != 0 {
		return 0
	}
	return loc.Last - loc.First + 1
}

func (loc Location) String() string {
	var s string
	switch {
	case loc.Defect&Between != 0:
		s = sf("%d^%d", loc.First, loc.Last)
	case loc.Defect&UnknownSingle != 0:
		s = sf("%d.%d", loc.First, loc.Last)
	case loc.First == loc.Last && loc.Defect&(MissLeft|MissRight) == 0:
		s = strconv.Itoa(loc.First)
	default:
		left, right := "", ""
		if loc.Defect&MissLeft != 0 {
			left = "<"
		}
		if loc.Defect&MissRight != 0 {
			right = ">"
		}
		s = sf("%s%d..%s%d", left, loc.First, right, loc.Last)
	}
	if loc.Strand == Reverse {
		s = "complement(" + s + ")"
	}
	return s
}

// errRemote is returned for locations that refer to another entry
// ("J00194.1:100..202"). Such features are skipped by the reader.
var errRemote = ef("Remote locations are not supported.")

// ParseLocations parses a feature location string such as
// "complement(join(<1..20,25..>40))" into its contiguous parts. The
// "join" and "order" operators are treated the same way.
func ParseLocations(s string) ([]Location, error) {
	s = strings.Join(strings.Fields(s), "")
	return parseLocations(s, Forward)
}

func parseLocations(s string, strand Strand) ([]Location, error) {
	switch {
	case strings.HasPrefix(s, "complement(") && strings.HasSuffix(s, ")"):
		inner := s[len("complement(") : len(s)-1]
		locs, err := parseLocations(inner, flip(strand))
		if err != nil {
			return nil, err
		}
		// The parts of a complemented join are read in reverse order.
		for i, j := 0, len(locs)-1; i < j; i, j = i+1, j-1 {
			locs[i], locs[j] = locs[j], locs[i]
		}
		return locs, nil
	case strings.HasPrefix(s, "join(") && strings.HasSuffix(s, ")"):
		return parseList(s[len("join("):len(s)-1], strand)
	case strings.HasPrefix(s, "order(") && strings.HasSuffix(s, ")"):
		return parseList(s[len("order("):len(s)-1], strand)
	}
	loc, err := parseSingle(s, strand)
	if err != nil {
		return nil, err
	}
	return []Location{loc}, nil
}

// parseList splits a comma separated list at the top nesting level.
func parseList(s string, strand Strand) ([]Location, error) {
	var locs []Location
	depth, start := 0, 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) {
			switch s[i] {
			case '(':
				depth++
				continue
			case ')':
				depth--
				continue
			case ',':
				if depth > 0 {
					continue
				}
			default:
				continue
			}
		}
		part, err := parseLocations(s[start:i], strand)
		if err != nil {
			return nil, err
		}
		locs = append(locs, part...)
		start = i + 1
	}
	if depth != 0 {
		return nil, ef("Unbalanced parentheses in location '%s'.", s)
	}
	return locs, nil
}

func parseSingle(s string, strand Strand) (Location, error) {
	if strings.Contains(s, ":") {
		return Location{}, errRemote
	}
	loc := Location{Strand: strand}
	var first, last string
	switch {
	case strings.Contains(s, ".."):
		pieces := strings.SplitN(s, "..", 2)
		first, last = pieces[0], pieces[1]
	case strings.Contains(s, "^"):
		pieces := strings.SplitN(s, "^", 2)
		first, last = pieces[0], pieces[1]
		loc.Defect |= Between
	case strings.Contains(s, "."):
		pieces := strings.SplitN(s, ".", 2)
		first, last = pieces[0], pieces[1]
		loc.Defect |= UnknownSingle
	default:
		first, last = s, s
	}
	if strings.HasPrefix(first, "<") {
		loc.Defect |= MissLeft
		first = first[1:]
	}
	if strings.HasPrefix(last, ">") {
		loc.Defect |= MissRight
		last = last[1:]
	} else if strings.HasPrefix(last, "<") {
		// "<5" as a single base location.
		last = last[1:]
	}
	if strings.HasPrefix(first, ">") {
		loc.Defect |= MissRight
		first = first[1:]
	}

	var err error
	if loc.First, err = strconv.Atoi(first); err != nil {
		return Location{}, ef("Invalid location '%s'.", s)
	}
	if loc.Last, err = strconv.Atoi(last); err != nil {
		return Location{}, ef("Invalid location '%s'.", s)
	}
	if loc.First > loc.Last {
		return Location{}, ef("Location '%s' ends before it starts.", s)
	}
	if loc.Defect&Between != 0 && loc.Last != loc.First+1 {
		return Location{}, ef("Location '%s' is not between adjacent "+
			"bases.", s)
	}
	return loc, nil
}

func flip(s Strand) Strand {
	if s == Forward {
		return Reverse
	}
	return Forward
}

// FormatLocations is the inverse of ParseLocations for the locations of a
// single feature.
func FormatLocations(locs []Location) string {
	if len(locs) == 0 {
		return ""
	}
	if len(locs) == 1 {
		return locs[0].String()
	}

	allReverse := true
	for _, loc := range locs {
		if loc.Strand != Reverse {
			allReverse = false
		}
	}
	parts := make([]string, len(locs))
	if allReverse {
		for i, loc := range locs {
			loc.Strand = Forward
			parts[len(locs)-1-i] = loc.String()
		}
		return "complement(join(" + strings.Join(parts, ",") + "))"
	}
	for i, loc := range locs {
		parts[i] = loc.String()
	}
	return "join(" + strings.Join(parts, ",") + ")"
}
