package core_test

import (
	"context"
	"testing"

	"github.com/docurgent/docurgent/pkg/adapters/memory"
	"github.com/docurgent/docurgent/pkg/core"
)

func BenchmarkCustodyChain(b *testing.B) {
	e := core.NewEngine(memory.NewRepository(), memory.NewAuditLog(), core.Config{})
	ctx := context.Background()

	for b.Loop() {
		req, err := e.CreateDocumentRequest(ctx, core.Sender{Name: "John Doe"}, core.Recipient{}, core.DocumentInfo{})
		if err != nil {
			b.Fatal(err)
		}
		if _, err := e.MarkAtRelayPoint(ctx, req.ID); err != nil {
			b.Fatal(err)
		}
		if _, err := e.HandToTraveler(ctx, req.ID, "TRAVELER123"); err != nil {
			b.Fatal(err)
		}
		if _, err := e.CompleteDelivery(ctx, req.ID, req.DeliveryCode, "TRAVELER123"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGetSecurityLogsForRequest(b *testing.B) {
	e := core.NewEngine(memory.NewRepository(), memory.NewAuditLog(), core.Config{})
	ctx := context.Background()

	var last string
	for i := 0; i < 1000; i++ {
		req, err := e.CreateDocumentRequest(ctx, core.Sender{}, core.Recipient{}, core.DocumentInfo{})
		if err != nil {
			b.Fatal(err)
		}
		last = req.ID
	}

	for b.Loop() {
		if _, err := e.GetSecurityLogsForRequest(ctx, last); err != nil {
			b.Fatal(err)
		}
	}
}
