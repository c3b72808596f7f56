package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/G-Research/submitfilter/cmd/submitfilter/cmd"
	"github.com/G-Research/submitfilter/internal/common"
	"github.com/G-Research/submitfilter/internal/common/filtererrors"
)

// Config is handled by cmd/params.go
func main() {
	common.ConfigureCommandLineLogging()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cmd.RootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		// Rejections were already reported by the filter.
		if filtererrors.KindFromError(err) == filtererrors.KindUnknown {
			log.Error(err)
		}
		os.Exit(filtererrors.ExitCodeFromError(err))
	}
}
