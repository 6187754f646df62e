package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"sigs.k8s.io/yaml"

	"github.com/clusterlesshq/conventions/internal/output"
)

// propertiesItem names the build properties entry in a comparison.
const propertiesItem = "properties"

// Comparison lists modules added, removed or changed since a snapshot.
type Comparison struct {
	Added    []string
	Removed  []string
	Modified []output.ModifiedItem
}

// Empty reports whether nothing changed.
func (c *Comparison) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Modified) == 0
}

// Compare diffs previous against current module by module. Build IDs are ignored.
func Compare(previous, current *Snapshot, useColor bool) (*Comparison, error) {
	c := &Comparison{}

	propsDiff, err := diffValues(previous.Properties, current.Properties, useColor)
	if err != nil {
		return nil, fmt.Errorf("comparing properties: %w", err)
	}
	if propsDiff != "" {
		c.Modified = append(c.Modified, output.ModifiedItem{Name: propertiesItem, Diff: propsDiff})
	}

	for _, cur := range current.Modules {
		prev, ok := previous.Module(cur.Name)
		if !ok {
			c.Added = append(c.Added, cur.Name)
			continue
		}
		if d, ok := previous.Digests[cur.Name]; ok && d == current.Digests[cur.Name] {
			continue
		}
		diff, err := diffValues(prev, cur, useColor)
		if err != nil {
			return nil, fmt.Errorf("comparing module %q: %w", cur.Name, err)
		}
		if diff != "" {
			c.Modified = append(c.Modified, output.ModifiedItem{Name: cur.Name, Diff: diff})
		}
	}

	for _, prev := range previous.Modules {
		if _, ok := current.Module(prev.Name); !ok {
			c.Removed = append(c.Removed, prev.Name)
		}
	}
	return c, nil
}

// Render formats the comparison for the terminal.
func (c *Comparison) Render() string {
	return output.RenderDiff(c.Added, c.Removed, c.Modified)
}

func diffValues(previous, current any, useColor bool) (string, error) {
	from, err := yaml.Marshal(previous)
	if err != nil {
		return "", err
	}
	to, err := yaml.Marshal(current)
	if err != nil {
		return "", err
	}
	if bytes.Equal(from, to) {
		return "", nil
	}
	return diffYAML(from, to, useColor)
}

// diffYAML computes a YAML-aware diff using dyff.
func diffYAML(from, to []byte, useColor bool) (string, error) {
	fromInput, err := parseYAMLInput("snapshot", from)
	if err != nil {
		return "", fmt.Errorf("parsing snapshot YAML: %w", err)
	}
	toInput, err := parseYAMLInput("current", to)
	if err != nil {
		return "", fmt.Errorf("parsing current YAML: %w", err)
	}

	report, err := dyff.CompareInputFiles(fromInput, toInput)
	if err != nil {
		return "", fmt.Errorf("comparing YAML: %w", err)
	}
	if len(report.Diffs) == 0 {
		return "", nil
	}
	return renderReport(report, useColor)
}

func parseYAMLInput(name string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: name}, nil
	}
	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	return ytbx.InputFile{Location: name, Documents: docs}, nil
}

func renderReport(report dyff.Report, useColor bool) (string, error) {
	var buf bytes.Buffer
	writer := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}
	if err := writer.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
