package platform_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docurgent/docurgent/internal/platform"
	"github.com/docurgent/docurgent/pkg/adapters/memory"
	"github.com/docurgent/docurgent/pkg/core"
)

type stubCodes struct{}

func (stubCodes) UniqueCode() string   { return "DOCTEST01" }
func (stubCodes) DeliveryCode() string { return "123456" }

func TestNew_Defaults(t *testing.T) {
	engine, err := platform.New()
	require.NoError(t, err)

	req, err := engine.CreateDocumentRequest(context.Background(), core.Sender{Name: "John Doe"}, core.Recipient{}, core.DocumentInfo{})
	require.NoError(t, err)
	assert.Regexp(t, `^DOC[A-Z0-9]{6}$`, req.UniqueCode)

	state := engine.State().(core.EngineState)
	assert.Equal(t, "memory-repository", state.RepositoryType)
	assert.Equal(t, "memory-audit-log", state.AuditLogType)
}

func TestNew_EnginesAreIndependent(t *testing.T) {
	a, err := platform.New()
	require.NoError(t, err)
	b, err := platform.New()
	require.NoError(t, err)

	_, err = a.CreateDocumentRequest(context.Background(), core.Sender{}, core.Recipient{}, core.DocumentInfo{})
	require.NoError(t, err)

	list, err := b.ListDocumentRequests(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNew_Options(t *testing.T) {
	repo := memory.NewRepository()
	audit := memory.NewAuditLog()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	engine, err := platform.New(
		platform.WithRepository(repo),
		platform.WithAuditLog(audit),
		platform.WithCodeGenerator(stubCodes{}),
		platform.WithClock(func() time.Time { return fixed }),
		platform.WithLogger(logger),
		platform.WithTravelerVerifier(core.TravelerVerifierFunc(func(context.Context, string) bool { return false })),
		platform.WithEventBuffer(4),
	)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "engine configured")

	ctx := context.Background()
	req, err := engine.CreateDocumentRequest(ctx, core.Sender{Name: "John Doe"}, core.Recipient{}, core.DocumentInfo{})
	require.NoError(t, err)
	assert.Equal(t, "DOCTEST01", req.UniqueCode)
	assert.Equal(t, "123456", req.DeliveryCode)
	assert.Equal(t, fixed, req.CreatedAt)
	assert.Equal(t, 1, repo.Len())
	assert.Equal(t, 1, audit.Len())
	assert.Contains(t, logs.String(), "DOCUMENT_REQUEST_CREATED")

	ok, err := engine.ValidateTravelerIdentity(ctx, req.ID, "TRAVELER123")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNew_NegativeBuffer(t *testing.T) {
	_, err := platform.New(platform.WithEventBuffer(-1))
	assert.Error(t, err)
}
