package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/hlstatsx/heatmaps/pkg/errors"
	"github.com/hlstatsx/heatmaps/pkg/observability"
	"github.com/hlstatsx/heatmaps/pkg/pipeline"
	"github.com/hlstatsx/heatmaps/pkg/store"
)

// connArgCount is the number of positional arguments the command requires.
const connArgCount = 6

// connArgs are the parsed positional arguments.
type connArgs struct {
	Store   store.Options
	WebPath string
}

// parseConnArgs reads <host> <port> <user> <password> <database> <webPath>.
func parseConnArgs(args []string) (connArgs, error) {
	if len(args) != connArgCount {
		return connArgs{}, errors.New(errors.ErrCodeInvalidInput, "expected %d arguments, got %d", connArgCount, len(args))
	}

	port, err := strconv.Atoi(args[1])
	if err != nil || port <= 0 || port > 65535 {
		return connArgs{}, errors.New(errors.ErrCodeInvalidConfig, "invalid port %q", args[1])
	}
	if args[0] == "" {
		return connArgs{}, errors.New(errors.ErrCodeInvalidConfig, "host cannot be empty")
	}
	if err := errors.ValidateDir("web path", args[5]); err != nil {
		return connArgs{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid web path")
	}

	return connArgs{
		Store: store.Options{
			Host:     args[0],
			Port:     port,
			User:     args[2],
			Password: args[3],
			Database: args[4],
		},
		WebPath: args[5],
	}, nil
}

// runGenerate connects to the database and renders every configured map of
// cfg.Game. Map-local failures are reported in the summary; only fatal
// errors are returned.
func (c *CLI) runGenerate(ctx context.Context, args []string, cfg Config) error {
	conn, err := parseConnArgs(args)
	if err != nil {
		return err
	}

	runID := uuid.New()
	logger := loggerFromContext(ctx).With("run", runID.String()[:8])
	ctx = withLogger(ctx, logger)

	conn.Store.TablePrefix = cfg.TablePrefix
	conn.Store.Logger = logger

	prog := newProgress(logger)
	st, err := store.Open(ctx, conn.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("close database", "err", err)
		}
	}()
	logger.Debug("connected", "db", conn.Store.Describe())

	timer := newStageTimer()
	runner, err := pipeline.NewRunner(st, pipeline.Options{
		WebPath:     conn.WebPath,
		SrcDir:      cfg.SrcDir,
		Mode:        cfg.Mode,
		Lookback:    cfg.Lookback,
		StampRadius: cfg.StampRadius,
		Hooks:       observability.Multi(newLogHooks(logger), timer),
	}, logger)
	if err != nil {
		return err
	}

	batch, err := runner.RunBatch(ctx, cfg.Game)
	if batch != nil {
		prog.done(fmt.Sprintf("Processed %d maps for %s", len(batch.Maps), cfg.Game))
		printBatchSummary(c.out, batch)
		printStageTotals(c.out, timer.totals)
	}
	return err
}
