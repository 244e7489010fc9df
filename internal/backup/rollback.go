package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ActionKind names the category of a rollback step.
type ActionKind string

const (
	ActionStartService    ActionKind = "start-service"
	ActionRestoreFile     ActionKind = "restore-file"
	ActionRestoreRegistry ActionKind = "restore-registry"
)

// RollbackAction is one reversal step for an executed command. Actions are
// rendered into an inspectable script; they are never executed
// automatically.
type RollbackAction struct {
	Kind        ActionKind `json:"kind"`
	Description string     `json:"description"`
	Command     string     `json:"command"`
}

// StartServiceAction reverses a service stop.
func StartServiceAction(service string) RollbackAction {
	return RollbackAction{
		Kind:        ActionStartService,
		Description: fmt.Sprintf("restart service %s", service),
		Command:     fmt.Sprintf("Start-Service -Name %q", service),
	}
}

// RestoreFileAction reverses a file deletion or overwrite using a backup.
func RestoreFileAction(backupID, path string) RollbackAction {
	return RollbackAction{
		Kind:        ActionRestoreFile,
		Description: fmt.Sprintf("restore %s from backup %s", path, backupID),
		Command:     fmt.Sprintf("ward restore %s", backupID),
	}
}

// RestoreRegistryAction reverses a registry modification from an exported
// .reg file.
func RestoreRegistryAction(regFile string) RollbackAction {
	return RollbackAction{
		Kind:        ActionRestoreRegistry,
		Description: fmt.Sprintf("re-import registry export %s", regFile),
		Command:     fmt.Sprintf("reg import %q", regFile),
	}
}

// Plan is the full set of rollback actions for one executed command.
type Plan struct {
	ID        string           `json:"id"`
	Command   string           `json:"command"`
	CreatedAt time.Time        `json:"created_at"`
	Actions   []RollbackAction `json:"actions"`
}

// NewPlan builds a rollback plan for a command.
func NewPlan(command string, actions []RollbackAction) *Plan {
	return &Plan{
		ID:        uuid.NewString(),
		Command:   command,
		CreatedAt: time.Now(),
		Actions:   actions,
	}
}

// WriteScript renders the plan as a fully commented-out shell script under
// dir and returns the script path. Every command line is prefixed with "#"
// so running the file verbatim is a no-op; the user uncomments what they
// want to apply.
func (p *Plan) WriteScript(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating rollback script dir: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Rollback plan %s\n", p.ID)
	fmt.Fprintf(&b, "# Generated %s for command:\n", p.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "#   %s\n", p.Command)
	b.WriteString("#\n# Review each step, then uncomment the lines you want to run.\n\n")
	for _, action := range p.Actions {
		fmt.Fprintf(&b, "# %s (%s)\n", action.Description, action.Kind)
		fmt.Fprintf(&b, "# %s\n\n", action.Command)
	}

	path := filepath.Join(dir, fmt.Sprintf("rollback-%s.sh", p.ID[:8]))
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return "", fmt.Errorf("writing rollback script: %w", err)
	}
	return path, nil
}

// PlanFor derives rollback actions from a command and its backup. Only
// reversals that can actually be derived are included; an empty plan means
// no automatic reversal exists.
func PlanFor(command string, rec *Record) *Plan {
	var actions []RollbackAction
	lower := strings.ToLower(command)

	if rec != nil {
		for _, item := range rec.Items {
			if !item.Skipped {
				actions = append(actions, RestoreFileAction(rec.ID, item.Source))
			}
		}
	}

	if name, ok := stoppedService(lower); ok {
		actions = append(actions, StartServiceAction(name))
	}

	return NewPlan(command, actions)
}

// stoppedService extracts the service name from a stop command.
func stoppedService(lower string) (string, bool) {
	for _, prefix := range []string{"stop-service -name ", "stop-service ", "sc stop ", "systemctl stop "} {
		if idx := strings.Index(lower, prefix); idx >= 0 {
			rest := strings.TrimSpace(lower[idx+len(prefix):])
			if rest == "" {
				return "", false
			}
			fields := strings.Fields(rest)
			return strings.Trim(fields[0], `"'`), true
		}
	}
	return "", false
}
