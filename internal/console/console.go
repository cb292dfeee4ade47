// Package console is the user-facing output sink: banner, classified
// metadata tables, dumps and status lines. Diagnostics go through the
// logger package instead
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/olekukonko/tablewriter"

	"github.com/deploymenttheory/go-metadata-inspector/internal/metadata"
	"github.com/deploymenttheory/go-metadata-inspector/internal/risk"
	"github.com/deploymenttheory/go-metadata-inspector/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const ruleWidth = 50

// Console writes styled output to a single writer
type Console struct {
	out   io.Writer
	color bool
}

// New creates a Console. When useColor is false no ANSI sequences are
// written regardless of the terminal
func New(out io.Writer, useColor bool) *Console {
	return &Console{out: out, color: useColor}
}

// Writer returns the underlying writer
func (c *Console) Writer() io.Writer {
	return c.out
}

// style builds a color honoring the console's color switch rather than
// the process-wide color.NoColor
func (c *Console) style(attrs ...color.Attribute) *color.Color {
	s := color.New(attrs...)
	if c.color {
		s.EnableColor()
	} else {
		s.DisableColor()
	}
	return s
}

// Println writes a plain line
func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

// Info writes a cyan status line
func (c *Console) Info(format string, args ...interface{}) {
	c.style(color.FgCyan).Fprintln(c.out, fmt.Sprintf(format, args...))
}

// Success writes a green status line
func (c *Console) Success(format string, args ...interface{}) {
	c.style(color.FgGreen).Fprintln(c.out, fmt.Sprintf(format, args...))
}

// Warn writes a yellow status line
func (c *Console) Warn(format string, args ...interface{}) {
	c.style(color.FgYellow).Fprintln(c.out, fmt.Sprintf(format, args...))
}

// Error writes a bold red status line
func (c *Console) Error(format string, args ...interface{}) {
	c.style(color.FgRed, color.Bold).Fprintln(c.out, fmt.Sprintf(format, args...))
}

// Heading writes a blank line followed by a bold blue title
func (c *Console) Heading(title string) {
	fmt.Fprintln(c.out)
	c.style(color.FgBlue, color.Bold).Fprintln(c.out, title+":")
}

// Rule writes a dim separator line
func (c *Console) Rule() {
	fmt.Fprintln(c.out)
	c.style(color.Faint).Fprintln(c.out, strings.Repeat("-", ruleWidth))
	fmt.Fprintln(c.out)
}

// Banner writes the start-up banner
func (c *Console) Banner(version string) {
	art := c.style(color.FgCyan, color.Bold)
	art.Fprintln(c.out, `                 _            _       _        `)
	art.Fprintln(c.out, ` _ __ ___   ___| |_ __ _  __| | __ _| |_ __ _ `)
	art.Fprintln(c.out, `| '_ ' _ \ / _ \ __/ _' |/ _' |/ _' | __/ _' |`)
	art.Fprintln(c.out, `| | | | | |  __/ || (_| | (_| | (_| | || (_| |`)
	art.Fprintln(c.out, `|_| |_| |_|\___|\__\__,_|\__,_|\__,_|\__\__,_|  inspector `+version)
	fmt.Fprintln(c.out)
	c.style(color.FgCyan).Fprintln(c.out, "Reveal the invisible. Extract the undeniable.")
	fmt.Fprintln(c.out, "Images and documents carry silent traces: camera serials, GPS fixes,")
	fmt.Fprintln(c.out, "authors and the software that produced them.")
	fmt.Fprintln(c.out)
	c.style(color.FgYellow, color.Bold).Fprint(c.out, "OSINT Awareness: ")
	fmt.Fprintln(c.out, "metadata can reveal more than you think.")
	c.style(color.Faint).Fprintln(c.out, strings.Repeat("-", 70))
}

// riskStyle colors the risk column: high in red, low in green, anything
// that exposes information in yellow
func (c *Console) riskStyle(description string) *color.Color {
	switch description {
	case risk.High:
		return c.style(color.FgRed, color.Bold)
	case risk.Low:
		return c.style(color.FgGreen)
	default:
		return c.style(color.FgYellow)
	}
}

// Table renders classified rows with the Field, Value and OSINT Risk
// columns, followed by the summary flags when summary is not nil
func (c *Console) Table(title string, rows []types.Row, summary types.Summary) error {
	fmt.Fprintln(c.out)
	c.style(color.FgHiWhite, color.Bold, color.Underline).Fprintln(c.out, title)

	table := tablewriter.NewWriter(c.out)
	table.Header("Field", "Value", "OSINT Risk")
	for _, row := range rows {
		field := c.style(color.FgCyan).Sprint(row.Label)
		value := c.style(color.FgMagenta).Sprint(row.Value)
		riskText := c.riskStyle(row.Risk).Sprint(row.Risk)
		if err := table.Append([]string{field, value, riskText}); err != nil {
			return fmt.Errorf("failed to append row %q: %w", row.Label, err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	if summary != nil {
		fmt.Fprintln(c.out)
		c.style(color.FgYellow, color.Bold).Fprintln(c.out, "Summary:")
		for _, flag := range summary.Flags() {
			fmt.Fprintf(c.out, "- %s: %t\n", flag.Name, flag.Value)
		}
	}
	return nil
}

// FileInfo renders the panel describing the inspected file
func (c *Console) FileInfo(info types.FileInfo) error {
	fmt.Fprintln(c.out)
	c.style(color.FgHiWhite, color.Bold, color.Underline).Fprintln(c.out, "File: "+info.Name)

	table := tablewriter.NewWriter(c.out)
	rows := [][]string{
		{"Path", info.Path},
		{"Size", fmt.Sprintf("%s (%s bytes)", humanize.Bytes(uint64(info.SizeBytes)), humanize.Comma(info.SizeBytes))},
		{"Modified", fmt.Sprintf("%s (%s)", info.ModifiedAt.Format("2006-01-02 15:04:05"), humanize.Time(info.ModifiedAt))},
		{"MIME Type", info.MimeType},
		{"SHA3-256", info.SHA3Hash},
	}
	for _, row := range rows {
		if err := table.Append([]string{c.style(color.FgCyan).Sprint(row[0]), row[1]}); err != nil {
			return fmt.Errorf("failed to append row %q: %w", row[0], err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render file info: %w", err)
	}

	if !info.ContentMatch {
		c.Warn("Content looks like %s but the file is named %s", info.MimeType, info.Name)
	}
	return nil
}

// JSON writes data as indented JSON under a heading
func (c *Console) JSON(title string, data interface{}) error {
	encoded, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", title, err)
	}

	c.Heading(title)
	if c.color {
		fmt.Fprintln(c.out, c.colorizeJSON(string(encoded)))
	} else {
		fmt.Fprintln(c.out, string(encoded))
	}
	return nil
}

// colorizeJSON highlights keys, strings, numbers and punctuation of
// already indented JSON
func (c *Console) colorizeJSON(s string) string {
	var out strings.Builder
	quote := c.style(color.FgHiBlue, color.Bold)
	str := c.style(color.FgHiGreen)
	punct := c.style(color.FgHiBlack)
	num := c.style(color.FgHiYellow)

	inString := false
	escaped := false
	for _, r := range s {
		switch {
		case inString && escaped:
			escaped = false
			str.Fprint(&out, string(r))
		case inString && r == '\\':
			escaped = true
			str.Fprint(&out, string(r))
		case r == '"':
			inString = !inString
			quote.Fprint(&out, string(r))
		case inString:
			str.Fprint(&out, string(r))
		case strings.ContainsRune("{}[]:,", r):
			punct.Fprint(&out, string(r))
		case (r >= '0' && r <= '9') || r == '-' || r == '.':
			num.Fprint(&out, string(r))
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}

// displayValue renders one dump line value; binary blocks are reduced to
// their size
func displayValue(v metadata.Value) string {
	if b, ok := v.BinaryValue(); ok {
		return fmt.Sprintf("%d bytes [binary data]", len(b))
	}
	return v.String()
}

// Dump writes every field of the mapping, one per line, in key order
func (c *Console) Dump(title string, fields metadata.Fields) {
	c.Heading(title)
	if len(fields) == 0 {
		c.Warn("No metadata fields.")
		return
	}
	key := c.style(color.Bold)
	for _, k := range fields.Keys() {
		fmt.Fprintf(c.out, "%s: %s\n", key.Sprint(k), displayValue(fields[k]))
	}
}

// BinaryBlocks reports the named fields, which typically carry opaque
// vendor data
func (c *Console) BinaryBlocks(fields metadata.Fields, names ...string) {
	c.Heading("Binary Blocks")
	key := c.style(color.Bold)
	found := false
	for _, name := range names {
		value, ok := fields[name]
		if !ok {
			continue
		}
		found = true
		fmt.Fprintf(c.out, "%s: %s\n", key.Sprint(name), displayValue(value))
	}
	if !found {
		c.Warn("No binary blocks found in metadata.")
	}
}
