package auditstream_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docurgent/docurgent/pkg/adapters/auditstream"
	"github.com/docurgent/docurgent/pkg/core"
)

func TestSource_ForwardsEntries(t *testing.T) {
	entries := make(chan core.SecurityLog, 2)
	entries <- core.SecurityLog{Action: "DOCUMENT_REQUEST_CREATED", RequestID: "r1", Details: "created"}
	entries <- core.SecurityLog{Action: "DEMO_RESET", Details: "reset"}
	close(entries)

	src := auditstream.NewSource(entries)
	require.NoError(t, src.Start(context.Background()))

	var got []string
	timeout := time.After(time.Second)
	for {
		select {
		case ev, ok := <-src.Events():
			if !ok {
				assert.Equal(t, []string{
					"DOCUMENT_REQUEST_CREATED[r1]: created",
					"DEMO_RESET: reset",
				}, got)
				return
			}
			got = append(got, ev.String())
		case <-timeout:
			t.Fatal("source did not close")
		}
	}
}

func TestSource_StopsOnCancel(t *testing.T) {
	entries := make(chan core.SecurityLog)
	ctx, cancel := context.WithCancel(context.Background())

	src := auditstream.NewSource(entries)
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("source did not stop")
	}
}
