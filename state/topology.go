package state

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseTopology reads the text topology format: one "SRC DEST WEIGHT" line
// per link, terminated by the EndOfInput sentinel (EOF also terminates).
// Every line yields a bidirectional edge of equal weight. Lines that do not
// have exactly three fields are skipped; a malformed weight is an error.
//
// Each node is assigned its transport endpoint here: cfg.Host plus
// base_port + i*port_stride in discovery order, or port 0 (chosen by the
// transport at bind time) when base_port is unset.
func ParseTopology(r io.Reader, cfg SimCfg) (*Graph, error) {
	g := NewGraph()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == EndOfInput {
			break
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			continue
		}
		weight, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight on line %q: %w", line, err)
		}
		if weight < 0 {
			return nil, fmt.Errorf("negative weight on line %q", line)
		}
		g.AddEdge(NodeId(fields[0]), NodeId(fields[1]), cfg.Host, Cost(weight))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if cfg.BasePort > 0 {
		for i, id := range g.Order {
			g.Nodes[id].Port = cfg.BasePort + i*cfg.PortStride
		}
	}
	return g, nil
}
