package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Prompter reads answers line by line from an input stream and writes the
// questions through a Console
type Prompter struct {
	in      *bufio.Reader
	console *Console
}

// NewPrompter creates a Prompter reading from in
func NewPrompter(in io.Reader, c *Console) *Prompter {
	return &Prompter{in: bufio.NewReader(in), console: c}
}

// readLine returns the next line without its terminator. A final line
// without a newline is still returned; io.EOF is returned only when no
// input is left
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Ask writes the question and returns the trimmed answer
func (p *Prompter) Ask(question string) (string, error) {
	p.console.style(color.Bold).Fprint(p.console.out, question+": ")

	line, err := p.readLine()
	if err != nil {
		// Keep the next output off the prompt line
		fmt.Fprintln(p.console.out)
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Choose asks until the answer is one of choices, compared
// case-insensitively, and returns the matching choice. An empty answer
// selects def when def is not empty
func (p *Prompter) Choose(question string, choices []string, def string) (string, error) {
	prompt := fmt.Sprintf("%s [%s]", question, strings.Join(choices, "/"))
	if def != "" {
		prompt += fmt.Sprintf(" (%s)", def)
	}

	for {
		answer, err := p.Ask(prompt)
		if err != nil {
			return "", err
		}
		if answer == "" && def != "" {
			return def, nil
		}
		for _, choice := range choices {
			if strings.EqualFold(answer, choice) {
				return choice, nil
			}
		}
		p.console.Error("Please select one of the available options")
	}
}

// Confirm is a y/n Choose that reports whether the answer was yes
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.Choose(question, []string{"y", "n"}, "")
	if err != nil {
		return false, err
	}
	return answer == "y", nil
}
