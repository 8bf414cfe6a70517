// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	retryStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
)

// Prompt asks yes/no questions on a line-oriented stream. An empty answer
// means no.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompt creates a Prompt reading answers from in and writing
// questions to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

// Confirm implements task.Confirmer. It asks again until the answer is
// recognised and fails when input ends before one is given.
func (p *Prompt) Confirm(question string) (bool, error) {
	for {
		fmt.Fprintf(p.out, "%s %s ", questionStyle.Render(question), hintStyle.Render("[y/N]"))

		line, err := p.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		if errors.Is(err, io.EOF) && line == "" {
			fmt.Fprintln(p.out)
			return false, io.ErrUnexpectedEOF
		}

		switch answer {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
		if errors.Is(err, io.EOF) {
			return false, io.ErrUnexpectedEOF
		}
		fmt.Fprintln(p.out, retryStyle.Render("please answer y or n"))
	}
}
