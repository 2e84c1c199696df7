// Package ingest turns JSON, CSV and relationship logs into graphs ready
// for simulation.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/TFMV/forcefield/models"
)

// DataProcessor defines the interface that all data processors must implement
type DataProcessor interface {
	// ProcessData takes raw data bytes and returns a graph representation
	ProcessData(data []byte) (*models.Graph, error)

	// GetName returns the name of the processor
	GetName() string
}

const maxNodeSize = 2 * models.DefaultNodeSize

// builder assigns dense node ids to external keys and styles what it adds
type builder struct {
	graph   *models.Graph
	ids     map[string]uint32
	palette *Palette
}

func newBuilder(name string, palette *Palette) *builder {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &builder{
		graph:   models.NewGraph(name),
		ids:     make(map[string]uint32),
		palette: palette,
	}
}

// node returns the id for key, creating the node on first sight. A nil
// pos marks the node unplaced.
func (b *builder) node(key, label string, pos *models.Vec3) uint32 {
	if id, ok := b.ids[key]; ok {
		return id
	}
	if label == "" {
		label = key
	}
	var n models.Node
	if pos != nil {
		n = models.NewNode(label, *pos)
	} else {
		n = models.NewNode(label, models.Vec3{})
		n.Unplaced = true
	}
	n.Color = b.palette.NodeColor(len(b.graph.Nodes))
	id := b.graph.AddNode(n)
	b.ids[key] = id
	return id
}

func (b *builder) edge(source, target string) error {
	a, ok := b.ids[source]
	if !ok {
		return fmt.Errorf("edge references non-existent node: %s -> %s", source, target)
	}
	c, ok := b.ids[target]
	if !ok {
		return fmt.Errorf("edge references non-existent node: %s -> %s", source, target)
	}
	id, err := b.graph.AddEdge(a, c)
	if err != nil {
		return err
	}
	e := &b.graph.Edges[id]
	e.Color = b.palette.EdgeColor(int(id))

	// Well connected nodes are drawn larger
	for _, n := range []uint32{a, c} {
		node := &b.graph.Nodes[n]
		if node.Size < maxNodeSize {
			node.Size++
		}
	}
	return nil
}

// JSONProcessor handles JSON data of the form
//
//	{"nodes": [{"id": "a", "label": "A", "x": 0, "y": 0, "z": 0}],
//	 "edges": [{"source": "a", "target": "b"}]}
//
// Coordinates are optional.
type JSONProcessor struct {
	palette *Palette
}

// NewJSONProcessor creates a new JSON processor with the specified palette
func NewJSONProcessor(palette *Palette) *JSONProcessor {
	return &JSONProcessor{palette: palette}
}

// GetName returns the name of the processor
func (p *JSONProcessor) GetName() string {
	return "JSON Processor"
}

// ProcessData processes JSON data
func (p *JSONProcessor) ProcessData(data []byte) (*models.Graph, error) {
	var graphData struct {
		Name  string `json:"name"`
		Nodes []struct {
			ID    string   `json:"id"`
			Label string   `json:"label"`
			Color string   `json:"color"`
			X     *float32 `json:"x"`
			Y     *float32 `json:"y"`
			Z     *float32 `json:"z"`
		} `json:"nodes"`
		Edges []struct {
			Source string `json:"source"`
			Target string `json:"target"`
		} `json:"edges"`
	}

	if err := json.Unmarshal(data, &graphData); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}

	b := newBuilder(graphData.Name, p.palette)

	for i, n := range graphData.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node %d has no id", i)
		}
		if _, dup := b.ids[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node id: %s", n.ID)
		}
		// any given coordinate places the node; missing axes are zero
		var pos *models.Vec3
		if n.X != nil || n.Y != nil || n.Z != nil {
			pos = &models.Vec3{}
			if n.X != nil {
				pos.X = *n.X
			}
			if n.Y != nil {
				pos.Y = *n.Y
			}
			if n.Z != nil {
				pos.Z = *n.Z
			}
		}
		id := b.node(n.ID, n.Label, pos)
		if n.Color != "" {
			if _, _, _, err := ParseHexColor(n.Color); err != nil {
				return nil, fmt.Errorf("node %s: %w", n.ID, err)
			}
			b.graph.Nodes[id].Color = n.Color
		}
	}

	for _, e := range graphData.Edges {
		if err := b.edge(e.Source, e.Target); err != nil {
			return nil, err
		}
	}

	return b.graph, nil
}

// CSVProcessor handles CSV edge lists with source and target columns
type CSVProcessor struct {
	palette *Palette
}

// NewCSVProcessor creates a new CSV processor with the specified palette
func NewCSVProcessor(palette *Palette) *CSVProcessor {
	return &CSVProcessor{palette: palette}
}

// GetName returns the name of the processor
func (p *CSVProcessor) GetName() string {
	return "CSV Processor"
}

// ProcessData processes CSV data
func (p *CSVProcessor) ProcessData(data []byte) (*models.Graph, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	sourceIdx, targetIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "source", "from", "src":
			sourceIdx = i
		case "target", "to", "dst":
			targetIdx = i
		}
	}
	if sourceIdx == -1 || targetIdx == -1 {
		return nil, errors.New("CSV must contain source and target columns")
	}

	b := newBuilder("", p.palette)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}
		if sourceIdx >= len(row) || targetIdx >= len(row) {
			return nil, fmt.Errorf("line %d: missing source or target", line)
		}

		source := strings.TrimSpace(row[sourceIdx])
		target := strings.TrimSpace(row[targetIdx])
		if source == "" || target == "" {
			continue
		}
		b.node(source, "", nil)
		b.node(target, "", nil)
		if err := b.edge(source, target); err != nil {
			return nil, err
		}
	}

	return b.graph, nil
}

// LogProcessor handles logs where each line is one relationship, e.g.
// "A -> B" or "X connected to Y". Lines matching no pattern are ignored.
type LogProcessor struct {
	palette *Palette
}

// NewLogProcessor creates a new log processor with the specified palette
func NewLogProcessor(palette *Palette) *LogProcessor {
	return &LogProcessor{palette: palette}
}

// GetName returns the name of the processor
func (p *LogProcessor) GetName() string {
	return "Log Processor"
}

var logSeparators = []string{
	" -> ",
	" => ",
	" connected to ",
	" connects to ",
	" links to ",
	" linked to ",
	" - ",
}

// ProcessData processes log data
func (p *LogProcessor) ProcessData(data []byte) (*models.Graph, error) {
	b := newBuilder("", p.palette)

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var source, target string
		for _, sep := range logSeparators {
			parts := strings.Split(line, sep)
			if len(parts) == 2 {
				source = strings.TrimSpace(parts[0])
				target = strings.TrimSpace(parts[1])
				break
			}
		}
		if source == "" || target == "" {
			continue
		}

		b.node(source, "", nil)
		b.node(target, "", nil)
		if err := b.edge(source, target); err != nil {
			return nil, err
		}
	}

	return b.graph, nil
}

// GetProcessor returns the appropriate processor for the given format
func GetProcessor(format string, palette *Palette) (DataProcessor, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONProcessor(palette), nil
	case "csv":
		return NewCSVProcessor(palette), nil
	case "log", "txt":
		return NewLogProcessor(palette), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// ProcessFile reads path and parses it with the processor matching its
// extension. Unnamed graphs are named after the file.
func ProcessFile(path string, palette *Palette) (*models.Graph, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	processor, err := GetProcessor(ext, palette)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	g, err := processor.ProcessData(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", processor.GetName(), err)
	}
	if g.Name == "" {
		g.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return g, nil
}
