package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"pkt.systems/pslog"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/migrations"
)

func main() {
	var (
		projectID  = flag.String("project", "test-project", "Spanner project ID")
		instanceID = flag.String("instance", "test-instance", "Spanner instance ID")
		databaseID = flag.String("database", "billing-gateway", "Spanner database ID")
		timeout    = flag.Duration("timeout", 5*time.Minute, "Timeout for migration operations")
		logLevel   = flag.String("log-level", "info", "Log level")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	logger := pslog.NewStructured(ctx, os.Stderr).With("app", "billing-gateway-migrate")
	if level, ok := pslog.ParseLevel(*logLevel); ok {
		logger = logger.LogLevel(level)
	}

	if err := migrations.RunMigrations(ctx, *projectID, *instanceID, *databaseID, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Schema is up to date")
}
