package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"warehousecharts/cli/internal/logging"
	"warehousecharts/cli/internal/sqlexec"
	"warehousecharts/cli/internal/terminal"

	werrors "warehousecharts/cli/internal/errors"
)

// startInlineSpinner animates frames followed by text on a single line until
// the returned function is called, which clears the line. Off a terminal it
// does nothing.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	if !terminal.IsInteractive() {
		return func() {}
	}
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", frames[i%len(frames)], text)
				i++
			}
		}
	}()
	return func() {
		close(stop)
		wg.Wait()
	}
}

// openExecutor connects to the warehouse, mapping failures to data access errors.
func openExecutor(ctx context.Context, src sqlexec.Source) (sqlexec.Executor, error) {
	exec, err := sqlexec.Open(ctx, src)
	if err != nil {
		return nil, werrors.Wrap(werrors.DataAccess, "connect to "+src.Kind, err)
	}
	logger.Debug("warehouse connected", logging.MaskedString("dsn", src.DSN))
	return exec, nil
}
