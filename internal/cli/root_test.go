package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showgrounds/paddock/internal/api"
	"showgrounds/paddock/internal/app"
	"showgrounds/paddock/internal/config"
	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/db/dbtest"
	"showgrounds/paddock/internal/db/repositories"
	"showgrounds/paddock/internal/metrics"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "paddockctl", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"migrate", "sync", "monitor", "notifications", "status"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err, "Command %s should exist", name)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestNotificationsCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	sub, _, err := cmd.Find([]string{"notifications"})
	require.NoError(t, err)

	for _, flag := range []string{"limit", "offset", "source", "type", "date", "horse", "class"} {
		assert.NotNil(t, sub.Flags().Lookup(flag), "missing --%s", flag)
	}
	assert.Equal(t, "50", sub.Flags().Lookup("limit").DefValue)
}

// testApp wires the real dependency graph over a private SQLite database
func testApp(t *testing.T) (*app.App, *repositories.Store) {
	t.Helper()
	gdb, sdb := dbtest.Open(t)
	cfg := &config.Config{
		Showgrounds:     config.ShowgroundsConfig{CustomerID: "15", FarmName: "Hollow Creek Farm", Timeout: time.Second},
		VenueTimezone:   "UTC",
		DisplayTimezone: "UTC",
	}
	deps, err := api.InitDependencies(cfg, gdb, sdb, nil, metrics.NewMetricsRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)
	return &app.App{Config: cfg, Gorm: gdb, SQL: sdb, Deps: deps}, deps.Repo.Store
}

func run(t *testing.T, a *app.App, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(&RootOptions{Open: func() (*app.App, error) { return a, nil }})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInvalidFormat(t *testing.T) {
	a, _ := testApp(t)
	_, err := run(t, a, "status", "--format", "yaml")
	assert.ErrorContains(t, err, `invalid format "yaml"`)
}

func TestMigrateCommand(t *testing.T) {
	a, _ := testApp(t)
	out, err := run(t, a, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "Schema up to date.\n", out)
}

func TestNotificationsCommand(t *testing.T) {
	a, store := testApp(t)
	ctx := context.Background()

	farm, err := store.Farms.GetOrCreate(ctx, "Hollow Creek Farm", a.Deps.Tenant.CustomerIDValue())
	require.NoError(t, err)
	_, err = store.Notifications.Append(ctx, farm.ID, constants.SourceClassMonitoring, constants.NotificationStatusChange,
		"🟢 Class Started\n1.20m Jumper", map[string]interface{}{"type": "STATUS_CHANGE"}, nil)
	require.NoError(t, err)
	_, err = store.Notifications.Append(ctx, farm.ID, constants.SourceClassMonitoring, constants.NotificationScratched,
		"❌ SCRATCHED\nBellamy", map[string]interface{}{"type": "SCRATCHED"}, nil)
	require.NoError(t, err)

	out, err := run(t, a, "notifications", "--type", "SCRATCHED")
	require.NoError(t, err)
	assert.Contains(t, out, "SCRATCHED")
	assert.Contains(t, out, "❌ SCRATCHED")
	assert.NotContains(t, out, "Class Started")
	assert.Contains(t, out, "(1 shown, offset 0)")

	out, err = run(t, a, "notifications", "--format", "json", "--limit", "1")
	require.NoError(t, err)
	var resp struct {
		Count int `json:"count"`
		Limit int `json:"limit"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, 1, resp.Limit)

	_, err = run(t, a, "notifications", "--source", "telegram")
	assert.Error(t, err)
}

func TestNotificationsCommand_Empty(t *testing.T) {
	a, _ := testApp(t)
	out, err := run(t, a, "notifications")
	require.NoError(t, err)
	assert.Equal(t, "No notifications.\n", out)
}

func TestStatusCommand(t *testing.T) {
	a, store := testApp(t)
	ctx := context.Background()

	farm, err := store.Farms.GetOrCreate(ctx, "Hollow Creek Farm", a.Deps.Tenant.CustomerIDValue())
	require.NoError(t, err)
	at := time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SyncHistory.RecordSync(ctx, farm.ID, constants.SyncEventMorningSync, at, map[string]int{"entries": 3}))

	out, err := run(t, a, "status")
	require.NoError(t, err)
	assert.Regexp(t, `morning_sync\s+idle\s+last run: Thu, 19 Feb 2026, 12:00 PM UTC`, out)
	assert.Regexp(t, `class_monitoring\s+idle\s+last run: —`, out)
}
