package confirm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/wardproject/ward/internal/output"
)

// Decision is the outcome of an interactive prompt.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionDenied   Decision = "denied"
)

// extraConfirmationPhrase must be typed verbatim to approve a command
// flagged for extra confirmation.
const extraConfirmationPhrase = "yes, I understand the risk"

// Prompter asks the user to approve or deny a command on the terminal.
type Prompter struct {
	in    io.Reader
	out   io.Writer
	isTTY func() bool
}

// NewPrompter creates a prompter bound to stdin/stderr.
func NewPrompter() *Prompter {
	return &Prompter{
		in:  os.Stdin,
		out: os.Stderr,
		isTTY: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// NewPrompterWith creates a prompter with explicit streams, for tests.
func NewPrompterWith(in io.Reader, out io.Writer, isTTY func() bool) *Prompter {
	return &Prompter{in: in, out: out, isTTY: isTTY}
}

// Ask displays the request and reads a decision. Without a terminal the
// answer is always denied: execution never proceeds on silence.
func (p *Prompter) Ask(req *Request, extraConfirmation bool) (Decision, error) {
	if !p.isTTY() {
		return DecisionDenied, nil
	}

	fmt.Fprintf(p.out, "\n%s  %s\n", output.RiskBadge(req.RiskLevel), req.Command)
	if req.Explanation != "" {
		fmt.Fprintf(p.out, "  %s\n", req.Explanation)
	}
	for _, risk := range req.Risks {
		fmt.Fprintf(p.out, "  ! %s\n", risk)
	}

	reader := bufio.NewReader(p.in)

	if extraConfirmation {
		fmt.Fprintf(p.out, "\nThis command is high risk. Type %q to approve: ", extraConfirmationPhrase)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return DecisionDenied, fmt.Errorf("reading confirmation: %w", err)
		}
		if strings.TrimSpace(line) == extraConfirmationPhrase {
			return DecisionApproved, nil
		}
		return DecisionDenied, nil
	}

	fmt.Fprint(p.out, "\nRun this command? [y/N] ")
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return DecisionDenied, fmt.Errorf("reading confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return DecisionApproved, nil
	default:
		return DecisionDenied, nil
	}
}
