package e2e

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	admin "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"pkt.systems/pslog"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/migrations"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/mocks"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/repo"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/add_payment_method"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/delete_payment_method"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/get_payment_info"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/process_payment"
)

const (
	testProject  = "test-project"
	testInstance = "test-instance"
	testDatabase = "gw-db"
)

var now = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

// testSetup holds test dependencies
type testSetup struct {
	ctx       context.Context
	cancel    context.CancelFunc
	database  string
	client    *spanner.Client
	store     *repo.PaymentStore
	gateway   *mocks.Gateway
	directory *mocks.AccountDirectory
	pool      *mocks.Pool
	clock     domain.Clock
}

// setupTest creates a fresh database on the emulator with the current schema
func setupTest(t *testing.T) *testSetup {
	emulatorHost := os.Getenv("SPANNER_EMULATOR_HOST")
	if emulatorHost == "" {
		t.Skip("SPANNER_EMULATOR_HOST not set; start the emulator (docker compose up -d) to run e2e tests")
	}

	setupCtx, setupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer setupCancel()

	dbName := fmt.Sprintf("%s-%s", testDatabase, uuid.New().String()[:8])
	if err := migrations.RunMigrations(setupCtx, testProject, testInstance, dbName, pslog.NoopLogger()); err != nil {
		t.Fatalf("Failed to run migrations: %v. Is the Spanner emulator running?", err)
	}
	database := fmt.Sprintf("projects/%s/instances/%s/databases/%s", testProject, testInstance, dbName)

	ctx, cancel := context.WithCancel(context.Background())
	client, err := spanner.NewClient(ctx, database)
	if err != nil {
		cancel()
		t.Fatalf("Failed to create Spanner client: %v", err)
	}

	return &testSetup{
		ctx:       ctx,
		cancel:    cancel,
		database:  database,
		client:    client,
		store:     repo.NewPaymentStore(client),
		gateway:   new(mocks.Gateway),
		directory: new(mocks.AccountDirectory),
		pool:      mocks.NewPool(),
		clock:     domain.FixedClock{FixedTime: now},
	}
}

// teardownTest drops the test database
func (ts *testSetup) teardownTest(t *testing.T) {
	ts.cancel()
	ts.client.Close()

	cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cleanupCancel()

	endpoint := strings.TrimPrefix(strings.TrimPrefix(os.Getenv("SPANNER_EMULATOR_HOST"), "http://"), "https://")
	adminClient, err := admin.NewDatabaseAdminClient(cleanupCtx, option.WithEndpoint(endpoint))
	if err != nil {
		t.Logf("Failed to create admin client: %v", err)
		return
	}
	defer adminClient.Close()
	if err := adminClient.DropDatabase(cleanupCtx, &databasepb.DropDatabaseRequest{Database: ts.database}); err != nil {
		t.Logf("Failed to drop database: %v", err)
	}
}

func TestE2E_MigrationsAreIdempotent(t *testing.T) {
	ts := setupTest(t)
	defer ts.teardownTest(t)

	dbName := ts.database[strings.LastIndex(ts.database, "/")+1:]
	require.NoError(t, migrations.RunMigrations(ts.ctx, testProject, testInstance, dbName, pslog.NoopLogger()))
}

func TestE2E_ProcessPaymentOnce(t *testing.T) {
	ts := setupTest(t)
	defer ts.teardownTest(t)

	interactor := process_payment.NewInteractor(ts.pool, ts.gateway, ts.directory, ts.store, ts.clock, nil)
	req := process_payment.Request{AccountID: "acc-1", PaymentID: "pay-" + uuid.NewString(), Amount: 3000}
	remote := &domain.Payment{ID: "R-1", Amount: 3000, Status: domain.PaymentProcessed, Comment: req.PaymentID}

	ts.directory.On("AccountKey", ts.ctx, "acc-1").Return("alice", nil)
	ts.gateway.On("ProcessPayment", ts.ctx, mock.Anything, "alice", int64(3000), req.PaymentID).Return(domain.Success(remote)).Once()
	ts.gateway.On("PaymentByID", ts.ctx, mock.Anything, "R-1").Return(domain.Success(remote))

	t.Run("first run charges and records", func(t *testing.T) {
		info, err := interactor.Execute(ts.ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "R-1", info.PaymentID)

		stored, err := ts.store.FindPaymentByID(ts.ctx, req.PaymentID)
		require.NoError(t, err)
		assert.Equal(t, "R-1", stored.RemoteID())
		assert.Equal(t, "acc-1", stored.AccountID())
		assert.Equal(t, int64(3000), stored.Amount())
		assert.True(t, stored.CreatedAt().Equal(now))
	})

	t.Run("rerun reads the recorded payment", func(t *testing.T) {
		info, err := interactor.Execute(ts.ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "R-1", info.PaymentID)
		ts.gateway.AssertNumberOfCalls(t, "ProcessPayment", 1)
	})
}

func TestE2E_PaymentInfoBackfillsMapping(t *testing.T) {
	ts := setupTest(t)
	defer ts.teardownTest(t)

	interactor := get_payment_info.NewInteractor(ts.pool, ts.gateway, ts.directory, ts.store, ts.clock, nil)
	paymentID := "pay-" + uuid.NewString()

	ts.directory.On("AccountIDForPayment", ts.ctx, paymentID).Return("acc-1", nil)
	ts.directory.On("AccountKey", ts.ctx, "acc-1").Return("alice", nil)
	ts.gateway.On("PaymentForCorrelationKey", ts.ctx, mock.Anything, "alice", paymentID).
		Return(domain.Success(&domain.Payment{ID: "R-7", Amount: 1200, Status: domain.PaymentProcessed, Comment: paymentID}))

	_, err := ts.store.FindPaymentByID(ts.ctx, paymentID)
	require.ErrorIs(t, err, domain.ErrPaymentNotFound)

	info, err := interactor.Execute(ts.ctx, paymentID)
	require.NoError(t, err)
	assert.Equal(t, "R-7", info.PaymentID)

	stored, err := ts.store.FindPaymentByID(ts.ctx, paymentID)
	require.NoError(t, err)
	assert.Equal(t, "R-7", stored.RemoteID())
}

func TestE2E_PaymentMethodDefaults(t *testing.T) {
	ts := setupTest(t)
	defer ts.teardownTest(t)

	add := add_payment_method.NewInteractor(ts.pool, ts.gateway, ts.directory, ts.store, ts.clock, nil)
	remove := delete_payment_method.NewInteractor(ts.pool, ts.gateway, ts.directory, ts.store, ts.clock, nil)
	account := &domain.Account{ID: "R-acc", Name: "alice", Currency: "USD"}
	first := &domain.PaymentMethodInfo{Type: domain.PaymentMethodCreditCard, HolderName: "Alice"}
	second := &domain.PaymentMethodInfo{Type: domain.PaymentMethodPayPal, PaypalBaid: "B-1"}

	ts.directory.On("AccountKey", ts.ctx, "acc-1").Return("alice", nil)
	ts.gateway.On("AccountByName", ts.ctx, mock.Anything, "alice").Return(domain.Success(account))
	ts.gateway.On("AddPaymentMethod", ts.ctx, mock.Anything, account, first, true).
		Return(domain.Success(&domain.PaymentMethod{ID: "R-pm-1", Type: domain.PaymentMethodCreditCard}))
	ts.gateway.On("AddPaymentMethod", ts.ctx, mock.Anything, account, second, true).
		Return(domain.Success(&domain.PaymentMethod{ID: "R-pm-2", Type: domain.PaymentMethodPayPal}))
	ts.gateway.On("DeletePaymentMethod", ts.ctx, mock.Anything, account, "R-pm-2").Return(domain.Success("R-pm-1"))

	_, err := add.Execute(ts.ctx, add_payment_method.Request{AccountID: "acc-1", PaymentMethodID: "pm-1", Info: first, SetDefault: true})
	require.NoError(t, err)
	_, err = add.Execute(ts.ctx, add_payment_method.Request{AccountID: "acc-1", PaymentMethodID: "pm-2", Info: second, SetDefault: true})
	require.NoError(t, err)

	defaults := func() map[string]bool {
		methods, err := ts.store.ListPaymentMethods(ts.ctx, "acc-1")
		require.NoError(t, err)
		out := map[string]bool{}
		for _, pm := range methods {
			out[pm.ID()] = pm.IsDefault()
		}
		return out
	}
	assert.Equal(t, map[string]bool{"pm-1": false, "pm-2": true}, defaults())

	require.NoError(t, remove.Execute(ts.ctx, "pm-2"))

	assert.Equal(t, map[string]bool{"pm-1": true}, defaults())
	deleted, err := ts.store.FindPaymentMethodByID(ts.ctx, "pm-2")
	require.NoError(t, err)
	assert.False(t, deleted.Active())
	assert.True(t, ts.pool.Balanced())
}
