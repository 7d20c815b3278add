package workload

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/linksim/linksim/sim"
)

// packetLine is the strict form of a packet line: flowId size arrivalTime.
var packetLine = regexp.MustCompile(`^(\d+)\s(\d+)\s(\d+)$`)

// ParseError reports a rejected input document. Line is the 1-based physical
// line number, or 0 when the error is not tied to a line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// ParseInput reads an input document:
//
//	# comment lines and blank lines are ignored
//	<numberOfFlows>
//	<flowId> <size> <arrivalTime>
//	...
//
// Packets get 1-based ids in input order and are returned stably sorted by arrival time.
func ParseInput(r io.Reader) (*sim.ParsedInput, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	in := &sim.ParsedInput{}
	lineNo := 0
	haveFlows := false
	nextID := sim.PacketID(1)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !haveFlows {
			n, err := strconv.Atoi(line)
			if err != nil || n <= 0 {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("expected a positive number of flows, got %q", line)}
			}
			in.NumFlows = n
			haveFlows = true
			continue
		}

		m := packetLine.FindStringSubmatch(line)
		if m == nil {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("expected \"flowId size arrivalTime\", got %q", line)}
		}
		flow, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("flow identifier %q out of range", m[1])}
		}
		size, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("size %q out of range", m[2])}
		}
		arrival, err := strconv.ParseInt(m[3], 10, 64)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("arrival time %q out of range", m[3])}
		}
		if flow >= in.NumFlows {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("found flow identifier %d >= number of flows %d", flow, in.NumFlows)}
		}
		if size == 0 {
			return nil, &ParseError{Line: lineNo, Msg: "packet size must be positive"}
		}
		in.Packets = append(in.Packets, sim.NewPacket(nextID, flow, size, arrival))
		nextID++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if !haveFlows {
		return nil, &ParseError{Msg: "expected at least one line with data from input"}
	}

	sort.SliceStable(in.Packets, func(i, j int) bool {
		return in.Packets[i].ArrivalTime < in.Packets[j].ArrivalTime
	})
	return in, nil
}

// ParseInputString parses an input document held in memory.
func ParseInputString(s string) (*sim.ParsedInput, error) {
	return ParseInput(strings.NewReader(s))
}

// ParseInputFile parses the input document at path.
func ParseInputFile(path string) (*sim.ParsedInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer func() { _ = f.Close() }()
	in, err := ParseInput(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

// FormatInput writes in using the input document format, packets in slice order.
func FormatInput(w io.Writer, in *sim.ParsedInput) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# numberOfFlows")
	fmt.Fprintln(bw, in.NumFlows)
	fmt.Fprintln(bw, "# flowId size arrivalTime")
	for _, p := range in.Packets {
		fmt.Fprintf(bw, "%d %d %d\n", p.FlowID, p.OriginalSize, p.ArrivalTime)
	}
	return bw.Flush()
}
