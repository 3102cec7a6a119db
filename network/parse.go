package network

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// EntryName is the name of the broadcaster in the text format.
const EntryName = "broadcaster"

const (
	arrow     = " -> "
	separator = ", "
)

// Parse builds a Graph from the text format, one module per line:
//
//	broadcaster -> a, b
//	%a -> b
//	&b -> out
//
// Blank lines are ignored. Output names that are never declared are sinks.
func Parse(text string) (*Graph, error) {
	return ParseReader(strings.NewReader(text))
}

// ParseReader is Parse over an io.Reader.
func ParseReader(r io.Reader) (*Graph, error) {
	records, err := ParseRecords(r)
	if err != nil {
		return nil, err
	}

	g, err := Build(records)
	if err != nil {
		return nil, &ParseError{Reason: err.Error(), Err: err}
	}

	return g, nil
}

// ParseRecords splits the text format into records without building a graph.
// Duplicate declarations are reported with the line of the second one.
func ParseRecords(r io.Reader) ([]Record, error) {
	var records []Record

	seen := make(map[string]bool)
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		record, err := parseLine(line)
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				perr.Line = lineNo
				perr.Text = line
			}

			return nil, err
		}

		if seen[record.Name] {
			dup := &DuplicateModuleError{Name: record.Name}
			return nil, &ParseError{
				Line:   lineNo,
				Text:   line,
				Reason: dup.Error(),
				Err:    dup,
			}
		}

		seen[record.Name] = true
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func parseLine(line string) (Record, error) {
	head, tail, found := strings.Cut(line, arrow)
	if !found {
		return Record{}, &ParseError{Reason: "missing \"->\""}
	}

	record := Record{}

	switch {
	case head == EntryName:
		record.Kind = Broadcaster
		record.Name = head
	case strings.HasPrefix(head, "%"):
		record.Kind = FlipFlop
		record.Name = head[1:]
	case strings.HasPrefix(head, "&"):
		record.Kind = Conjunction
		record.Name = head[1:]
	default:
		return Record{}, &ParseError{
			Reason: "unrecognized module prefix in " + quote(head),
		}
	}

	if record.Name == "" || strings.ContainsAny(record.Name, " ,") {
		return Record{}, &ParseError{
			Reason: "invalid module name " + quote(record.Name),
			Err:    ErrEmptyName,
		}
	}

	tail = strings.TrimSpace(tail)
	if tail == "" {
		return Record{}, &ParseError{Reason: "empty output list"}
	}

	for _, out := range strings.Split(tail, separator) {
		out = strings.TrimSpace(out)
		if out == "" || strings.ContainsAny(out, " ,") {
			return Record{}, &ParseError{
				Reason: "invalid output name " + quote(out),
				Err:    ErrEmptyName,
			}
		}

		record.Outputs = append(record.Outputs, out)
	}

	return record, nil
}

func quote(s string) string {
	return "\"" + s + "\""
}

// Format writes the graph back into the text format, in declaration order.
func Format(g *Graph) string {
	var b strings.Builder

	for _, m := range g.Modules() {
		b.WriteString(m.Kind.Prefix())
		b.WriteString(m.Name)
		b.WriteString(arrow)

		for i, out := range m.Outputs {
			if i > 0 {
				b.WriteString(separator)
			}

			b.WriteString(g.Name(out))
		}

		b.WriteByte('\n')
	}

	return b.String()
}
