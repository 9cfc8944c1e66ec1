package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	admin "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instanceadmin "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"pkt.systems/pslog"
)

//go:embed sql/*.sql
var schemaFiles embed.FS

// RunMigrations creates the instance and database when missing and applies
// every schema statement the database does not have yet.
func RunMigrations(ctx context.Context, projectID, instanceID, databaseID string, logger pslog.Logger) error {
	if logger == nil {
		logger = pslog.NoopLogger()
	}
	projectName := fmt.Sprintf("projects/%s", projectID)
	instanceName := fmt.Sprintf("projects/%s/instances/%s", projectID, instanceID)
	databasePath := fmt.Sprintf("projects/%s/instances/%s/databases/%s", projectID, instanceID, databaseID)

	opts := clientOptions(logger)

	instanceAdminClient, err := instanceadmin.NewInstanceAdminClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdminClient.Close()

	// 1. Instance
	_, err = instanceAdminClient.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: instanceName})
	if err != nil {
		if st, ok := status.FromError(err); !ok || st.Code() != codes.NotFound {
			return fmt.Errorf("failed to check instance existence: %w", err)
		}
		logger.Info("migrate.instance.create", "instance", instanceID)
		op, err := instanceAdminClient.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
			Parent:     projectName,
			InstanceId: instanceID,
			Instance:   &instancepb.Instance{DisplayName: instanceID},
		})
		if err != nil {
			return fmt.Errorf("failed to create instance: %w", err)
		}
		if _, err := op.Wait(ctx); err != nil {
			return fmt.Errorf("instance creation failed: %w", err)
		}
	}

	adminClient, err := admin.NewDatabaseAdminClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create database admin client: %w", err)
	}
	defer adminClient.Close()

	statements, err := SchemaStatements()
	if err != nil {
		return err
	}
	if len(statements) == 0 {
		logger.Warn("migrate.schema.empty")
		return nil
	}

	// 2. Database, created with the whole schema when missing
	_, err = adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: databasePath})
	if err != nil {
		if st, ok := status.FromError(err); !ok || st.Code() != codes.NotFound {
			return fmt.Errorf("failed to check database existence: %w", err)
		}
		logger.Info("migrate.database.create", "database", databaseID, "statements", len(statements))
		op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
			Parent:          instanceName,
			CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", databaseID),
			ExtraStatements: statements,
		})
		if err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		if _, err := op.Wait(ctx); err != nil {
			return fmt.Errorf("database creation failed: %w", err)
		}
		return nil
	}

	// 3. Existing database: only what it lacks
	current, err := adminClient.GetDatabaseDdl(ctx, &databasepb.GetDatabaseDdlRequest{Database: databasePath})
	if err != nil {
		return fmt.Errorf("failed to read database schema: %w", err)
	}
	pending := PendingStatements(current.GetStatements(), statements)
	if len(pending) == 0 {
		logger.Info("migrate.schema.current", "database", databaseID)
		return nil
	}

	logger.Info("migrate.schema.apply", "database", databaseID, "statements", len(pending))
	op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
		Database:   databasePath,
		Statements: pending,
	})
	if err != nil {
		return fmt.Errorf("failed to start migrations: %w", err)
	}
	if err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to complete migrations: %w", err)
	}
	return nil
}

func clientOptions(logger pslog.Logger) []option.ClientOption {
	emulatorHost := os.Getenv("SPANNER_EMULATOR_HOST")
	if emulatorHost == "" {
		return nil
	}
	// gRPC endpoints carry no scheme
	endpoint := strings.TrimPrefix(strings.TrimPrefix(emulatorHost, "http://"), "https://")
	logger.Info("migrate.emulator", "endpoint", endpoint)
	return []option.ClientOption{option.WithEndpoint(endpoint)}
}

// SchemaStatements returns the embedded DDL in file order.
func SchemaStatements() ([]string, error) {
	names, err := fs.Glob(schemaFiles, "sql/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list schema files: %w", err)
	}
	sort.Strings(names)

	var statements []string
	for _, name := range names {
		content, err := schemaFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		statements = append(statements, parseDDLStatements(string(content))...)
	}
	return statements, nil
}

// PendingStatements drops the statements whose table or index already
// exists in the current schema.
func PendingStatements(current, statements []string) []string {
	existing := make(map[string]bool, len(current))
	for _, stmt := range current {
		if name := objectName(stmt); name != "" {
			existing[name] = true
		}
	}
	var pending []string
	for _, stmt := range statements {
		if name := objectName(stmt); name != "" && existing[name] {
			continue
		}
		pending = append(pending, stmt)
	}
	return pending
}

// objectName returns "table:x" or "index:x" for a CREATE statement.
func objectName(stmt string) string {
	fields := strings.Fields(stmt)
	if len(fields) < 3 || !strings.EqualFold(fields[0], "CREATE") {
		return ""
	}
	i := 1
	if strings.EqualFold(fields[i], "UNIQUE") || strings.EqualFold(fields[i], "NULL_FILTERED") {
		i++
	}
	if i+1 >= len(fields) {
		return ""
	}
	kind := strings.ToLower(fields[i])
	if kind != "table" && kind != "index" {
		return ""
	}
	name := fields[i+1]
	if j := strings.IndexAny(name, "(`"); j == 0 {
		name = strings.Trim(name, "`")
	} else if j > 0 {
		name = name[:j]
	}
	return kind + ":" + strings.ToLower(name)
}

// parseDDLStatements splits a SQL file into statements, dropping comments
func parseDDLStatements(sql string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		if idx := strings.Index(trimmed, "--"); idx >= 0 {
			trimmed = strings.TrimSpace(trimmed[:idx])
		}
		if trimmed == "" {
			continue
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(trimmed)

		if strings.HasSuffix(trimmed, ";") {
			if stmt := strings.TrimSuffix(strings.TrimSpace(current.String()), ";"); stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}
	return statements
}
