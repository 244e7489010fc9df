// Package pipeline orchestrates the full request lifecycle: translate,
// classify, gate, back up, execute, record. A command reaches the
// executor only after every safety stage has passed.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wardproject/ward/internal/audit"
	"github.com/wardproject/ward/internal/backup"
	"github.com/wardproject/ward/internal/confirm"
	"github.com/wardproject/ward/internal/db"
	"github.com/wardproject/ward/internal/executor"
	"github.com/wardproject/ward/internal/intent"
	"github.com/wardproject/ward/internal/privilege"
	"github.com/wardproject/ward/internal/risk"
	"github.com/wardproject/ward/internal/sandbox"
	"github.com/wardproject/ward/internal/utils"
)

// Stage names a pipeline phase.
type Stage string

const (
	StageIntent       Stage = "intent-extraction"
	StageSafety       Stage = "safety-validation"
	StagePrivilege    Stage = "privilege-check"
	StagePlanning     Stage = "planning"
	StageConfirmation Stage = "user-confirmation"
	StageBackup       Stage = "backup-creation"
	StageExecution    Stage = "execution"
	StageLogging      Stage = "logging"
)

// Status is the terminal state of a pipeline run.
type Status string

const (
	// StatusCompleted means the command ran (successfully or not) and
	// everything was recorded.
	StatusCompleted Status = "completed"
	// StatusDenied means a safety stage or the user stopped the command
	// before execution. Denied runs never reach the executor.
	StatusDenied Status = "denied"
	// StatusFailed means the pipeline itself broke (translation error,
	// spawn failure), as opposed to the command exiting non-zero.
	StatusFailed Status = "failed"
)

// DecisionPoint records one stage's outcome for the audit trail.
type DecisionPoint struct {
	Stage   Stage     `json:"stage"`
	Outcome string    `json:"outcome"`
	Reason  string    `json:"reason,omitempty"`
	At      time.Time `json:"at"`
}

// Options adjusts a single pipeline run.
type Options struct {
	// DryRun passes through to the executor: the command is shown, not run.
	DryRun bool
	// AutoBackup snapshots BackupPaths before a destructive command.
	AutoBackup bool
	// BackupPaths are the files to snapshot when AutoBackup is set.
	BackupPaths []string
	// AssumeYes approves the confirmation stage without prompting. Extra
	// confirmation for high-risk commands still prompts.
	AssumeYes bool
}

// Outcome is the full result of one pipeline run.
type Outcome struct {
	RequestID      string              `json:"request_id"`
	Request        string              `json:"request"`
	Translation    *intent.Translation `json:"translation,omitempty"`
	RiskVerdict    risk.Verdict        `json:"risk_verdict"`
	SandboxVerdict sandbox.Verdict     `json:"sandbox_verdict"`
	Privilege      privilege.Check     `json:"privilege"`
	Status         Status              `json:"status"`
	Decisions      []DecisionPoint     `json:"decisions"`
	Result         *executor.Result    `json:"result,omitempty"`
	BackupID       string              `json:"backup_id,omitempty"`
	RollbackScript string              `json:"rollback_script,omitempty"`
	Duration       time.Duration       `json:"duration"`
}

// Runner abstracts the executor so tests can observe whether execution
// was ever attempted.
type Runner interface {
	Execute(ctx context.Context, command string, opts executor.Options) (*executor.Result, error)
}

// Confirmer abstracts the interactive prompt.
type Confirmer interface {
	Ask(req *confirm.Request, extraConfirmation bool) (confirm.Decision, error)
}

// Orchestrator wires the safety components into one pipeline.
type Orchestrator struct {
	Translator  intent.Translator
	Classifier  *risk.Classifier
	Sandbox     *sandbox.Policy
	Privileges  *privilege.Checker
	Gate        *confirm.Gate
	Prompter    Confirmer
	Backups     *backup.Manager
	Runner      Runner
	Audit       *audit.Log
	Changes     *db.ChangeStore
	RollbackDir string
	ExecTimeout time.Duration
}

// Run drives a request through every stage. The returned Outcome is
// complete even when the run is denied or fails; the error return is
// reserved for audit/storage plumbing problems.
func (o *Orchestrator) Run(ctx context.Context, request string, opts Options) (*Outcome, error) {
	started := time.Now()
	out := &Outcome{
		RequestID: uuid.NewString(),
		Request:   request,
	}
	defer func() { out.Duration = time.Since(started) }()

	logger := utils.WithPrefix("pipeline").With("request_id", out.RequestID)
	o.auditSafe(out, func() error { return o.Audit.UserRequest(out.RequestID, request) })

	// Intent extraction.
	translation, err := o.Translator.Translate(ctx, request)
	if err != nil {
		o.fail(out, StageIntent, fmt.Sprintf("translation failed: %v", err))
		o.auditSafe(out, func() error { return o.Audit.Error(out.RequestID, string(StageIntent), err) })
		return out, nil
	}
	out.Translation = translation
	o.decide(out, StageIntent, "ok", translation.Command)
	o.auditSafe(out, func() error {
		return o.Audit.CommandGenerated(out.RequestID, translation.Command, translation.Explanation)
	})

	command := executor.Sanitize(translation.Command)

	// Safety validation. The classifier and the sandbox rate the command on
	// different scales; the stricter of the two carries forward.
	out.RiskVerdict = o.Classifier.Classify(command)
	out.SandboxVerdict = o.Sandbox.Validate(command)
	out.RiskVerdict.Tier = risk.MoreSevere(out.RiskVerdict.Tier, tierFor(out.SandboxVerdict.RiskLevel))
	if !out.SandboxVerdict.Allowed {
		o.deny(out, StageSafety, out.SandboxVerdict.Reason)
		o.auditSafe(out, func() error {
			return o.Audit.CommandCancelled(out.RequestID, command, out.SandboxVerdict.Reason)
		})
		logger.Warn("command blocked", "command", command, "reason", out.SandboxVerdict.Reason)
		return out, nil
	}
	extra := out.RiskVerdict.RequiresExtraConfirmation || out.SandboxVerdict.RequiresExtraConfirmation
	safetyOutcome := "ok"
	if extra {
		safetyOutcome = "needs-review"
	}
	o.decide(out, StageSafety, safetyOutcome, fmt.Sprintf("tier=%s sandbox=%s", out.RiskVerdict.Tier, out.SandboxVerdict.RiskLevel))

	// Privilege check. A degraded verdict still proceeds, but it goes on
	// the trail with its reason so the user sees it.
	out.Privilege = o.Privileges.Evaluate(command)
	if !out.Privilege.CanProceed {
		o.deny(out, StagePrivilege, out.Privilege.Reason)
		o.auditSafe(out, func() error {
			return o.Audit.CommandCancelled(out.RequestID, command, out.Privilege.Reason)
		})
		return out, nil
	}
	if out.Privilege.Requirement == privilege.RequirementPreferred && !out.Privilege.Elevated {
		o.decide(out, StagePrivilege, "degraded", out.Privilege.Reason)
	} else {
		o.decide(out, StagePrivilege, "ok", string(out.Privilege.Requirement))
	}

	// Planning: decide whether a backup is warranted before anything runs.
	wantBackup := opts.AutoBackup && len(opts.BackupPaths) > 0 && isDestructive(command, out.RiskVerdict)
	o.decide(out, StagePlanning, "ok", fmt.Sprintf("backup=%v", wantBackup))

	// User confirmation. Safe, sandbox-LOW commands skip the prompt.
	needsPrompt := extra || !out.RiskVerdict.IsSafe() || out.SandboxVerdict.RiskLevel != sandbox.LevelLow
	if needsPrompt && opts.AssumeYes && !extra {
		needsPrompt = false
	}
	if needsPrompt {
		req := o.Gate.Submit(command, translation.Explanation, string(out.RiskVerdict.Tier), combinedRisks(translation, out))
		decision, err := o.Prompter.Ask(req, extra)
		if err != nil {
			o.fail(out, StageConfirmation, fmt.Sprintf("confirmation failed: %v", err))
			o.auditSafe(out, func() error { return o.Audit.Error(out.RequestID, string(StageConfirmation), err) })
			return out, nil
		}
		if decision == confirm.DecisionApproved {
			if _, err := o.Gate.Approve(req.ID, "user", ""); err != nil {
				logger.Warn("recording approval", "err", err)
			}
		} else {
			if _, err := o.Gate.Deny(req.ID, "user", ""); err != nil {
				logger.Warn("recording denial", "err", err)
			}
		}
		o.auditSafe(out, func() error {
			return o.Audit.ConfirmationDecision(out.RequestID, command, string(decision))
		})
		if decision != confirm.DecisionApproved {
			o.deny(out, StageConfirmation, "user denied the command")
			o.auditSafe(out, func() error {
				return o.Audit.CommandCancelled(out.RequestID, command, "user denied the command")
			})
			return out, nil
		}
	}
	o.decide(out, StageConfirmation, "approved", "")

	// Backup creation.
	var rec *backup.Record
	if wantBackup && !opts.DryRun {
		rec, err = o.Backups.Create("pre-execution", command, opts.BackupPaths)
		if err != nil {
			o.fail(out, StageBackup, fmt.Sprintf("backup failed: %v", err))
			o.auditSafe(out, func() error { return o.Audit.Error(out.RequestID, string(StageBackup), err) })
			return out, nil
		}
		if rec != nil {
			out.BackupID = rec.ID
		}
	}
	o.decide(out, StageBackup, "ok", out.BackupID)

	// Execution.
	result, err := o.Runner.Execute(ctx, command, executor.Options{DryRun: opts.DryRun, Timeout: o.ExecTimeout})
	if err != nil {
		o.fail(out, StageExecution, fmt.Sprintf("execution failed: %v", err))
		o.auditSafe(out, func() error { return o.Audit.Error(out.RequestID, string(StageExecution), err) })
		return out, nil
	}
	out.Result = result
	o.decide(out, StageExecution, execOutcome(result), "")
	o.auditSafe(out, func() error {
		return o.Audit.CommandExecuted(out.RequestID, command, result.ExitCode, result.Success)
	})

	// Logging: change tracking and the rollback plan.
	if !opts.DryRun && result.Success && !result.Refused {
		if o.Changes != nil {
			changeType := db.InferChangeType(command)
			if changeType != db.ChangeOther {
				if _, err := o.Changes.Record(out.RequestID, command, changeType, "", out.BackupID); err != nil {
					logger.Warn("recording change", "err", err)
				}
			}
		}
		if o.RollbackDir != "" {
			plan := backup.PlanFor(command, rec)
			if len(plan.Actions) > 0 {
				path, err := plan.WriteScript(o.RollbackDir)
				if err != nil {
					logger.Warn("writing rollback script", "err", err)
				} else {
					out.RollbackScript = path
				}
			}
		}
	}
	o.decide(out, StageLogging, "ok", "")

	out.Status = StatusCompleted
	if !result.Success && !result.DryRun {
		out.Status = StatusFailed
	}
	return out, nil
}

func (o *Orchestrator) decide(out *Outcome, stage Stage, outcome, reason string) {
	out.Decisions = append(out.Decisions, DecisionPoint{
		Stage:   stage,
		Outcome: outcome,
		Reason:  reason,
		At:      time.Now(),
	})
}

func (o *Orchestrator) deny(out *Outcome, stage Stage, reason string) {
	o.decide(out, stage, "denied", reason)
	out.Status = StatusDenied
}

func (o *Orchestrator) fail(out *Outcome, stage Stage, reason string) {
	o.decide(out, stage, "failed", reason)
	out.Status = StatusFailed
}

// auditSafe keeps audit plumbing failures from stopping the pipeline.
func (o *Orchestrator) auditSafe(out *Outcome, fn func() error) {
	if o.Audit == nil {
		return
	}
	if err := fn(); err != nil {
		utils.Warn("audit write failed", "request_id", out.RequestID, "err", err)
	}
}

func execOutcome(res *executor.Result) string {
	switch {
	case res.DryRun:
		return "dry-run"
	case res.Refused:
		return "refused"
	case res.TimedOut:
		return "timed-out"
	case res.Success:
		return "success"
	default:
		return "failed"
	}
}

func combinedRisks(t *intent.Translation, out *Outcome) []string {
	risks := append([]string(nil), t.Risks...)
	risks = append(risks, out.RiskVerdict.Warnings...)
	if out.SandboxVerdict.Recommendation != "" {
		risks = append(risks, out.SandboxVerdict.Recommendation)
	}
	return risks
}

// tierFor maps a sandbox risk level onto the classifier's tier scale so
// the two verdicts can be compared.
func tierFor(level sandbox.Level) risk.Tier {
	switch level {
	case sandbox.LevelCritical:
		return risk.TierBlocked
	case sandbox.LevelHigh:
		return risk.TierDangerous
	case sandbox.LevelMedium:
		return risk.TierCaution
	default:
		return risk.TierSafe
	}
}

// isDestructive reports whether a command warrants a pre-execution backup.
func isDestructive(command string, v risk.Verdict) bool {
	if !v.IsSafe() {
		return true
	}
	switch db.InferChangeType(command) {
	case db.ChangeFileDelete, db.ChangeFileModify, db.ChangeRegistryWrite:
		return true
	}
	return false
}
