package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apiclient "github.com/donaldgifford/sb-price-watch/internal/api/client"
	notifyMocks "github.com/donaldgifford/sb-price-watch/internal/notify/mocks"
	domain "github.com/donaldgifford/sb-price-watch/pkg/types"
)

func TestRoot_Subcommands(t *testing.T) {
	t.Parallel()

	var names []string
	for _, c := range Root().Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "watch", "reconcile", "price", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := versionCmd()
	c.SetOut(&buf)
	c.Run(c, nil)

	assert.Equal(t, "sbwatch "+Version+"\n", buf.String())
}

func TestPrintWatchTable(t *testing.T) {
	t.Parallel()

	added := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	err := printWatchTable(&buf, []domain.WatchEntry{
		{ID: "2165473", Meta: domain.WatchMeta{PreviousPrice: 130.9, Datacenter: "FSN1-DC14"}, AddedAt: added},
		{ID: "42", AddedAt: added},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "LAST PRICE")
	assert.Contains(t, out, "130.90€")
	assert.Contains(t, out, "FSN1-DC14")
	assert.Contains(t, out, "0.00€")
	assert.Contains(t, out, "2026-10-01 12:00:00")
}

func TestPrintReconcileResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		res  apiclient.ReconcileResult
		want []string
	}{
		{
			name: "skipped",
			res:  apiclient.ReconcileResult{Skipped: true},
			want: []string{"Watch list is empty"},
		},
		{
			name: "ran",
			res:  apiclient.ReconcileResult{ServerCount: 3, Checked: 2, Increased: 1, Removed: 1},
			want: []string{"Feed Servers:", "3", "Increased:", "Removed:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, printReconcileResult(&buf, &tt.res))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestPrintServerDetail(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rec := &domain.ServerRecord{
		ID: 2165473, CPU: "AMD Ryzen 7 3700X", RAMSize: 64, HDDCount: 2, HDDSize: 1920,
		Datacenter: "FSN1-DC14", Price: 100, IPPrice: domain.IPPrice{Monthly: 10},
	}
	require.NoError(t, printServerDetail(&buf, rec, 130.9))

	out := buf.String()
	assert.Contains(t, out, "AMD Ryzen 7 3700X")
	assert.Contains(t, out, "100.00€")
	assert.Contains(t, out, "10.00€")
	assert.Contains(t, out, "130.90€")
}

func TestOutputJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, outputJSON(&buf, map[string]string{"id": "1"}))
	assert.JSONEq(t, `{"id":"1"}`, buf.String())
}

func TestAnnounceStartup_DoesNotBlockOnSlowNotifier(t *testing.T) {
	t.Parallel()

	unblock := make(chan struct{})
	mn := notifyMocks.NewMockNotifier(t)
	mn.EXPECT().Send(mock.Anything, startupMessage).
		Run(func(ctx context.Context, _ string) {
			_, ok := ctx.Deadline()
			assert.True(t, ok, "startup send has no deadline")
			<-unblock
		}).Once()

	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	done := announceStartup(ctx, mn, time.Minute)
	assert.Less(t, time.Since(start), time.Second)

	// Canceling the serve context does not cut the send short.
	cancel()
	close(unblock)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("startup send never finished")
	}
}
