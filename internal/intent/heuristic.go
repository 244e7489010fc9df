package intent

import (
	"context"
	"fmt"
	"strings"
)

// rule maps request keywords to a canned translation. All keywords must
// appear for the rule to fire.
type rule struct {
	Keywords    []string
	Command     string
	Explanation string
	Risks       []string
	Admin       bool
}

var rules = []rule{
	{
		Keywords:    []string{"list", "process"},
		Command:     "ps aux",
		Explanation: "Lists all running processes with their owners and resource usage.",
	},
	{
		Keywords:    []string{"disk", "space"},
		Command:     "df -h",
		Explanation: "Shows free and used space per mounted filesystem.",
	},
	{
		Keywords:    []string{"disk", "usage"},
		Command:     "du -sh .",
		Explanation: "Summarizes the size of the current directory.",
	},
	{
		Keywords:    []string{"memory"},
		Command:     "free -h",
		Explanation: "Shows total, used, and available memory.",
	},
	{
		Keywords:    []string{"ip", "address"},
		Command:     "ip addr show",
		Explanation: "Shows the network interfaces and their addresses.",
	},
	{
		Keywords:    []string{"open", "port"},
		Command:     "netstat -tlnp",
		Explanation: "Lists listening TCP ports and the processes that own them.",
		Risks:       []string{"Process names require elevation to resolve fully"},
	},
	{
		Keywords:    []string{"system", "info"},
		Command:     "uname -a",
		Explanation: "Prints kernel and architecture information.",
	},
	{
		Keywords:    []string{"restart", "service"},
		Command:     "systemctl restart <service>",
		Explanation: "Restarts a system service. Replace <service> with the service name.",
		Risks:       []string{"Interrupts anything currently using the service"},
		Admin:       true,
	},
	{
		Keywords:    []string{"who", "logged"},
		Command:     "who",
		Explanation: "Shows users currently logged in.",
	},
	{
		Keywords:    []string{"largest", "file"},
		Command:     "du -ah . | sort -rh | head -n 20",
		Explanation: "Lists the 20 largest files and directories under the current path.",
	},
}

// HeuristicTranslator matches requests against a fixed keyword table. It
// is the offline fallback when no model endpoint is configured.
type HeuristicTranslator struct{}

// NewHeuristicTranslator creates the keyword-table translator.
func NewHeuristicTranslator() *HeuristicTranslator {
	return &HeuristicTranslator{}
}

// Translate matches the request against the rule table.
func (h *HeuristicTranslator) Translate(_ context.Context, request string) (*Translation, error) {
	lower := strings.ToLower(request)
	for _, r := range rules {
		if matchesAll(lower, r.Keywords) {
			return &Translation{
				Command:       r.Command,
				Explanation:   r.Explanation,
				Risks:         append([]string(nil), r.Risks...),
				RequiresAdmin: r.Admin,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoTranslation, request)
}

func matchesAll(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}
