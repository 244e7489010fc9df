package cli

import (
	"database/sql"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/wardproject/ward/internal/audit"
	"github.com/wardproject/ward/internal/backup"
	"github.com/wardproject/ward/internal/confirm"
	"github.com/wardproject/ward/internal/db"
	"github.com/wardproject/ward/internal/executor"
	"github.com/wardproject/ward/internal/intent"
	"github.com/wardproject/ward/internal/pipeline"
	"github.com/wardproject/ward/internal/privilege"
	"github.com/wardproject/ward/internal/risk"
	"github.com/wardproject/ward/internal/sandbox"
)

// app bundles the wired components for one invocation.
type app struct {
	conn          *sql.DB
	changes       *db.ChangeStore
	confirmations *db.ConfirmationStore
	backups       *backup.Manager
	auditLog      *audit.Log
	exec          *executor.Executor
	lists         *sandbox.ListStore
	policy        *sandbox.Policy
}

// newApp opens the data directory's stores and builds the components.
// Close the returned app when done.
func newApp() (*app, error) {
	conn, err := db.Open(cfg.DBPath())
	if err != nil {
		return nil, err
	}
	confirmations, err := db.NewConfirmationStore(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	lists, err := sandbox.NewListStore(cfg.ListsPath())
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &app{
		conn:          conn,
		changes:       db.NewChangeStore(conn),
		confirmations: confirmations,
		backups:       backup.NewManager(cfg.BackupDir()),
		auditLog:      audit.NewLog(cfg.AuditPath()),
		exec:          executor.New(cfg.ExecTimeout(), cfg.ExecLogPath()),
		lists:         lists,
		policy:        sandbox.NewPolicy(lists),
	}, nil
}

func (a *app) Close() {
	a.conn.Close()
}

// translator builds the configured intent translator.
func (a *app) translator() intent.Translator {
	if cfg.Intent.Provider == "api" {
		return intent.NewClient(intent.ClientConfig{
			BaseURL: cfg.Intent.BaseURL,
			APIKey:  cfg.Intent.APIKey,
			Model:   cfg.Intent.Model,
			Timeout: cfg.IntentTimeout(),
		})
	}
	return intent.NewHeuristicTranslator()
}

// orchestrator wires the full pipeline around the given confirmer.
func (a *app) orchestrator(prompter pipeline.Confirmer) *pipeline.Orchestrator {
	return &pipeline.Orchestrator{
		Translator:  a.translator(),
		Classifier:  risk.NewClassifier(),
		Sandbox:     a.policy,
		Privileges:  privilege.NewChecker(),
		Gate:        confirm.NewGateWithRetention(cfg.Confirm.MaxDecided),
		Prompter:    prompter,
		Backups:     a.backups,
		Runner:      a.exec,
		Audit:       a.auditLog,
		Changes:     a.changes,
		RollbackDir: cfg.RollbackScriptDir(),
		ExecTimeout: cfg.ExecTimeout(),
	}
}

// parkingConfirmer prompts when a terminal is available and otherwise
// parks the request in the database for a later `ward approve`.
type parkingConfirmer struct {
	prompter *confirm.Prompter
	store    *db.ConfirmationStore
	request  string
}

func (p *parkingConfirmer) Ask(req *confirm.Request, extra bool) (confirm.Decision, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return p.prompter.Ask(req, extra)
	}

	parked, err := p.store.Park(p.request, req.Command, req.Explanation, req.RiskLevel)
	if err != nil {
		return confirm.DecisionDenied, fmt.Errorf("parking confirmation: %w", err)
	}
	fmt.Fprintf(os.Stderr, "no terminal available; request parked as %s\n", parked.ID)
	fmt.Fprintf(os.Stderr, "approve with: ward approve %s\n", parked.ID[:8])
	return confirm.DecisionDenied, nil
}
