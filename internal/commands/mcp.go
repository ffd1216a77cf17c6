package commands

import (
	"context"
	"errors"
	"io"
	"os"

	mcpserver "ccviewer/internal/mcp"
)

// RunMCP serves MCP over stdio. Stdout belongs to the JSON-RPC stream, so
// logs go to stderr.
func RunMCP(ctx context.Context) error {
	a, err := loadApp(os.Stderr)
	if err != nil {
		return err
	}
	err = mcpserver.New(a.store, a.engine, Version).RunStdio(orBackground(ctx))
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
