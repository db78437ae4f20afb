// Package gedcom implements a lenient, line-oriented parser for the subset of
// the GEDCOM interchange format used by the import pipeline: level-0 INDI and
// FAM records with NAME, SEX, BIRT, DEAT, FAMC, FAMS, HUSB, WIFE, CHIL and
// MARR tags, plus nested DATE/PLAC lines.
package gedcom

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Event is a dated, placed occurrence (birth, death or marriage) captured
// verbatim from the source; date strings are interpreted later, best-effort.
type Event struct {
	Date  string
	Place string
}

// Individual is one parsed INDI record.
type Individual struct {
	Pointer          string
	Name             string // raw NAME value, surname between '/' delimiters
	Sex              string
	Birth            *Event
	Death            *Event
	FamiliesAsChild  []string // FAMC pointers
	FamiliesAsSpouse []string // FAMS pointers
}

// Family is one parsed FAM record. Husbands and wives are lists rather than
// single values to tolerate malformed files carrying repeated HUSB/WIFE lines.
type Family struct {
	Pointer  string
	Husbands []string
	Wives    []string
	Children []string
	Marriage *Event
}

// Result holds every record captured from one file. Slices preserve file
// order; downstream person creation happens in exactly this order.
type Result struct {
	Individuals []*Individual
	Families    []*Family
}

// IndividualByPointer returns the parsed individual with the given pointer, or nil.
func (r *Result) IndividualByPointer(pointer string) *Individual {
	for _, ind := range r.Individuals {
		if ind.Pointer == pointer {
			return ind
		}
	}
	return nil
}

// FamilyByPointer returns the parsed family with the given pointer, or nil.
func (r *Result) FamilyByPointer(pointer string) *Family {
	for _, fam := range r.Families {
		if fam.Pointer == pointer {
			return fam
		}
	}
	return nil
}

type recordType int

const (
	recordNone recordType = iota
	recordIndividual
	recordFamily
)

// Parse scans GEDCOM text into individuals and families. It is deliberately
// lenient: lines that don't match the `LEVEL TAG [VALUE]` shape, unknown tags
// and records other than INDI/FAM are skipped, never reported as errors. The
// only error returned is a failure reading from r.
func Parse(r io.Reader) (*Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024), 1024*1024)

	result := &Result{}
	var current *Individual
	var currentFam *Family
	currentType := recordNone
	tagContext := "" // most recent level-1 tag, attributes level-2 DATE/PLAC lines

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimPrefix(line, "\uFEFF")
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		level, err := strconv.Atoi(fields[0])
		if err != nil || level < 0 {
			continue
		}
		tag := fields[1]
		value := ""
		if len(fields) > 2 {
			value = strings.Join(fields[2:], " ")
		}

		if level == 0 {
			tagContext = ""
			switch value {
			case "INDI":
				current = &Individual{Pointer: TrimPointer(tag)}
				currentFam = nil
				currentType = recordIndividual
				result.Individuals = append(result.Individuals, current)
			case "FAM":
				currentFam = &Family{Pointer: TrimPointer(tag)}
				current = nil
				currentType = recordFamily
				result.Families = append(result.Families, currentFam)
			default:
				// HEAD, TRLR, SOUR, NOTE records and anything else: ignore
				// all subordinate lines until the next level-0 line
				current = nil
				currentFam = nil
				currentType = recordNone
			}
			continue
		}

		switch currentType {
		case recordIndividual:
			if level == 1 {
				tagContext = tag
				switch tag {
				case "NAME":
					current.Name = value
				case "SEX":
					current.Sex = value
				case "BIRT":
					current.Birth = &Event{}
				case "DEAT":
					current.Death = &Event{}
				case "FAMC":
					if p := TrimPointer(value); p != "" {
						current.FamiliesAsChild = append(current.FamiliesAsChild, p)
					}
				case "FAMS":
					if p := TrimPointer(value); p != "" {
						current.FamiliesAsSpouse = append(current.FamiliesAsSpouse, p)
					}
				}
				continue
			}
			if level == 2 {
				var event *Event
				switch tagContext {
				case "BIRT":
					event = current.Birth
				case "DEAT":
					event = current.Death
				}
				if event == nil {
					continue
				}
				switch tag {
				case "DATE":
					event.Date = value
				case "PLAC":
					event.Place = value
				}
			}
		case recordFamily:
			if level == 1 {
				tagContext = tag
				switch tag {
				case "HUSB":
					if p := TrimPointer(value); p != "" {
						currentFam.Husbands = append(currentFam.Husbands, p)
					}
				case "WIFE":
					if p := TrimPointer(value); p != "" {
						currentFam.Wives = append(currentFam.Wives, p)
					}
				case "CHIL":
					if p := TrimPointer(value); p != "" {
						currentFam.Children = append(currentFam.Children, p)
					}
				case "MARR":
					currentFam.Marriage = &Event{}
				}
				continue
			}
			if level == 2 && tagContext == "MARR" && currentFam.Marriage != nil {
				switch tag {
				case "DATE":
					currentFam.Marriage.Date = value
				case "PLAC":
					currentFam.Marriage.Place = value
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// TrimPointer strips the '@' decorations from a GEDCOM cross-reference token,
// so '@I1@' and 'I1' resolve identically.
func TrimPointer(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "@")
	raw = strings.TrimSuffix(raw, "@")
	return raw
}

// SplitName splits a raw GEDCOM NAME value into given name and surname. The
// surname sits between '/' delimiters ("John /Smith/"). A missing given name
// falls back to "Unknown" so that every imported person has a first name.
func SplitName(raw string) (given, surname string) {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "/") {
		parts := strings.Split(raw, "/")
		given = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			surname = strings.TrimSpace(parts[1])
		}
	} else {
		given = raw
	}
	if given == "" {
		given = "Unknown"
	}
	return given, surname
}
