package refresh

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	assignmentdomain "github.com/localgov-gh/revhub/internal/assignment/domain"
	auditdomain "github.com/localgov-gh/revhub/internal/audit/domain"
	businessdomain "github.com/localgov-gh/revhub/internal/business/domain"
	"github.com/localgov-gh/revhub/internal/clock"
	"github.com/localgov-gh/revhub/internal/codes"
	collectiondomain "github.com/localgov-gh/revhub/internal/collection/domain"
	districtdomain "github.com/localgov-gh/revhub/internal/district/domain"
	revenuedomain "github.com/localgov-gh/revhub/internal/revenue/domain"
	"github.com/localgov-gh/revhub/internal/store"
	userdomain "github.com/localgov-gh/revhub/internal/user/domain"
)

type noopRemote struct{}

func (noopRemote) Insert(ctx context.Context, table string, record any) error {
	return nil
}

func (noopRemote) Update(ctx context.Context, table string, id snowflake.ID, patch map[string]any) error {
	return nil
}

// countingSource signals every bulk reload on loads.
type countingSource struct {
	loads chan struct{}
}

func (c *countingSource) LoadBusinesses(ctx context.Context) ([]businessdomain.Business, error) {
	c.loads <- struct{}{}
	return nil, nil
}

func (c *countingSource) LoadCollections(ctx context.Context) ([]collectiondomain.Collection, error) {
	return nil, nil
}

func (c *countingSource) LoadAssignments(ctx context.Context) ([]assignmentdomain.Assignment, error) {
	return nil, nil
}

func (c *countingSource) LoadRevenueTypes(ctx context.Context) ([]revenuedomain.RevenueType, error) {
	return nil, nil
}

func (c *countingSource) LoadDistricts(ctx context.Context) ([]districtdomain.District, error) {
	return nil, nil
}

func (c *countingSource) LoadUsers(ctx context.Context) ([]userdomain.SystemUser, error) {
	return nil, nil
}

func (c *countingSource) LoadAuditLogs(ctx context.Context) ([]auditdomain.AuditLog, error) {
	return nil, nil
}

// recordedLifecycle captures appended hooks so tests can drive them the
// way the fx app does.
type recordedLifecycle struct {
	hooks []fx.Hook
}

func (l *recordedLifecycle) Append(h fx.Hook) { l.hooks = append(l.hooks, h) }

func newTestWorker(t *testing.T, source store.BulkSource) *Worker {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	gen := codes.NewSeededGenerator(9, time.Now)
	st := store.New(noopRemote{}, node, gen, clock.SystemClock{}, zap.NewNop())
	return NewWorker(Params{
		Store:  st,
		Source: source,
		Log:    zap.NewNop(),
		Config: Config{Interval: 5 * time.Millisecond},
	})
}

func TestWorkerOutlivesStartupContext(t *testing.T) {
	source := &countingSource{loads: make(chan struct{}, 64)}
	worker := newTestWorker(t, source)

	lc := &recordedLifecycle{}
	runWorker(lc, worker)
	if len(lc.hooks) != 1 {
		t.Fatalf("expected one lifecycle hook, got %d", len(lc.hooks))
	}
	hook := lc.hooks[0]

	// fx hands OnStart a context it cancels as soon as startup is done;
	// reloads must keep ticking afterwards.
	startCtx, cancelStart := context.WithCancel(context.Background())
	if err := hook.OnStart(startCtx); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancelStart()

	for i := 0; i < 2; i++ {
		select {
		case <-source.loads:
		case <-time.After(time.Second):
			t.Fatal("no reload after startup context was cancelled")
		}
	}

	if err := hook.OnStop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	// After stop the ticker loop winds down; wait for reloads to go
	// quiet within a generous deadline.
	deadline := time.After(time.Second)
	for {
		select {
		case <-source.loads:
		case <-time.After(100 * time.Millisecond):
			return
		case <-deadline:
			t.Fatal("worker kept reloading after stop")
		}
	}
}
