// Package worker reacts to vault change notifications.
package worker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"goldvault/internal/amqp"
	"goldvault/internal/core"
	"goldvault/internal/export"
	"goldvault/internal/log"
	"goldvault/internal/persistence"
)

// onboardingKeys change alongside the budgets and savings goals collections
// but have no change messages of their own.
var onboardingKeys = []persistence.Key{persistence.KeyOnboardingCompleted, persistence.KeyInitialBudget}

// Vault is the part of services.Vault the worker drives.
type Vault interface {
	Load(ctx context.Context) error
	Snapshot(ctx context.Context) core.Snapshot
}

// Invalidator forgets cached copies of a persisted key.
type Invalidator interface {
	Invalidate(key string)
}

// MirrorWorker keeps a local view of a vault that other processes write to.
// Every change message reloads the vault, prints a line to out and, when a
// mirror path is set, rewrites the workbook at that path.
type MirrorWorker struct {
	vault  Vault
	cache  Invalidator
	path   string
	out    io.Writer
	logger *log.Logger
}

// NewMirrorWorker builds a worker. cache may be nil when the vault reads its
// store directly; an empty path disables the workbook mirror.
func NewMirrorWorker(vault Vault, cache Invalidator, path string, out io.Writer, logger *log.Logger) *MirrorWorker {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &MirrorWorker{
		vault:  vault,
		cache:  cache,
		path:   path,
		out:    out,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleChange processes a single change message. Only a failed reload is
// returned, which requeues the message; mirror failures are logged and
// repaired by the next change.
func (w *MirrorWorker) HandleChange(ctx context.Context, msg amqp.ChangeMessage) error {
	w.logger.DebugContext(ctx, "Processing change message",
		log.FieldCollection, msg.Collection,
		log.FieldOperation, msg.Operation,
		log.FieldCount, msg.Count)

	if w.cache != nil {
		w.cache.Invalidate(msg.Collection)
		for _, k := range onboardingKeys {
			w.cache.Invalidate(k.String())
		}
	}
	if err := w.vault.Load(ctx); err != nil {
		return fmt.Errorf("reload vault: %w", err)
	}

	line := fmt.Sprintf("%s %s %s, %d records", msg.Timestamp.Format(time.RFC3339), msg.Collection, msg.Operation, msg.Count)
	if msg.RecordID != "" {
		line += " (" + msg.RecordID + ")"
	}
	fmt.Fprintln(w.out, line)

	if err := w.writeMirror(ctx); err != nil {
		w.logger.WarnContext(ctx, "Failed to update mirror",
			log.FieldOperation, log.OpMirror,
			log.FieldError, err)
	}
	return nil
}

// StartupSync writes the mirror once before any message arrives, so it also
// reflects changes made while the worker was down.
func (w *MirrorWorker) StartupSync(ctx context.Context) error {
	if w.path == "" {
		return nil
	}
	w.logger.InfoContext(ctx, "Writing initial mirror", "file", w.path)
	return w.writeMirror(ctx)
}

// writeMirror replaces the workbook atomically so readers never see a
// partially written file.
func (w *MirrorWorker) writeMirror(ctx context.Context) error {
	if w.path == "" {
		return nil
	}
	snap := w.vault.Snapshot(ctx)

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create mirror directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".goldvault-*.xlsx")
	if err != nil {
		return fmt.Errorf("create mirror: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := export.WriteXLSX(tmp, snap); err != nil {
		tmp.Close()
		return fmt.Errorf("write mirror: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write mirror: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("replace mirror: %w", err)
	}

	w.logger.DebugContext(ctx, "Mirror updated",
		log.FieldOperation, log.OpMirror,
		"file", w.path,
		"expenses", len(snap.Expenses),
		"investments", len(snap.Investments),
		"budgets", len(snap.Budgets),
		"savings_goals", len(snap.SavingsGoals))
	return nil
}
