package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"stdlnotify/internal/config"
	"stdlnotify/internal/journal"
	"stdlnotify/internal/logging"
	"stdlnotify/internal/services"
	"stdlnotify/internal/stdl"
)

const noticeArgCount = 5

// runNotify posts one Completion Notice and prints the decoded reply. Missing
// arguments are sent as absent fields rather than rejected.
func runNotify(cmd *cobra.Command, ctx *commandContext, args []string) error {
	logger, err := ctx.logger(cmd)
	if err != nil {
		return err
	}

	var endpoint string
	if len(args) > 0 {
		endpoint = args[0]
	}
	var fields []string
	if len(args) > 1 {
		fields = args[1:]
	}
	notice := stdl.NoticeFromArgs(fields)

	reqCtx, correlationID := ctx.invocation(cmd, endpoint)
	client := ctx.client(logger)
	logger = logging.WithContext(reqCtx, logger)
	if len(args) > noticeArgCount {
		logger.Debug("ignoring extra arguments", logging.Int("extra", len(args)-noticeArgCount))
	}
	if len(args) < noticeArgCount {
		logger.Debug("notice sent with missing fields", logging.Int("supplied", len(args)))
	}

	started := time.Now()
	resp, err := client.NotifyDone(reqCtx, endpoint, notice)
	recordDelivery(reqCtx, logger, ctx.config, deliveryRecord{
		id:       correlationID,
		endpoint: endpoint,
		notice:   notice,
		resp:     resp,
		err:      err,
		elapsed:  time.Since(started),
	})
	if err != nil {
		// main reports the error itself; this line only adds detail at debug.
		logger.Debug("completion notice failed",
			logging.String(logging.FieldEventType, "notify_failed"),
			logging.String("outcome", services.Outcome(err)),
			logging.Error(err),
		)
		return err
	}

	logger.Info("completion notice delivered", logging.Int("status_code", resp.StatusCode))
	return writeJSON(cmd, resp.Value)
}

type deliveryRecord struct {
	id       string
	endpoint string
	notice   stdl.Notice
	resp     *stdl.Response
	err      error
	elapsed  time.Duration
}

// recordDelivery appends the attempt to the journal when enabled. Journal
// problems are logged and never change the command result.
func recordDelivery(ctx context.Context, logger *slog.Logger, cfg *config.Config, rec deliveryRecord) {
	if cfg == nil || !cfg.Journal.Enabled {
		return
	}
	store, err := journal.Open(ctx, cfg.Journal.Path)
	if err != nil {
		warnJournal(logger, cfg.Journal.Path, err)
		return
	}
	defer store.Close()

	entry := journal.Entry{
		ID:       rec.id,
		Endpoint: rec.endpoint,
		URL:      stdl.DoneURL(rec.endpoint),
		Status:   rec.notice.Status,
		PType:    rec.notice.PType,
		UID:      rec.notice.UID,
		VidName:  rec.notice.VidName,
		FSType:   rec.notice.FSType(),
		Outcome:  services.Outcome(rec.err),
		Duration: rec.elapsed,
	}
	if rec.resp != nil {
		entry.StatusCode = rec.resp.StatusCode
	}
	if rec.err != nil {
		entry.Error = rec.err.Error()
	}
	if err := store.Record(ctx, entry); err != nil {
		warnJournal(logger, cfg.Journal.Path, err)
		return
	}
	logger.Debug("delivery journaled", logging.String("journal", store.Path()))
}

func warnJournal(logger *slog.Logger, path string, err error) {
	logging.WarnWithContext(logger, "journal write failed", "journal_write_failed",
		logging.String("journal", path),
		logging.Error(services.Wrap(services.ErrJournal, "journal", "record", "", err)),
		logging.String(logging.FieldImpact, "delivery not recorded; notify result unaffected"),
		logging.String(logging.FieldErrorHint, "check journal.path permissions or delete a stale database"),
	)
}
