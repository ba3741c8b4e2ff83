package docurgent_test

import (
	"context"
	"fmt"
	"log"

	"github.com/docurgent/docurgent"
	"github.com/docurgent/docurgent/pkg/core"
)

type demoCodes struct{}

func (demoCodes) UniqueCode() string   { return "DOCABC123" }
func (demoCodes) DeliveryCode() string { return "004217" }

// Example_custodyChain walks one document from sender to completed delivery.
func Example_custodyChain() {
	engine, err := docurgent.New(docurgent.WithCodeGenerator(demoCodes{}))
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	req, err := engine.CreateDocumentRequest(ctx,
		core.Sender{Name: "John Doe", Phone: "+1234567890", SourceAddress: "123 Main St, Paris"},
		core.Recipient{Name: "Jane Smith", Phone: "+0987654321", DestinationAddress: "456 Oak Ave, Casablanca"},
		core.DocumentInfo{Type: "Passport", Description: "Copy of passport for visa application"},
	)
	if err != nil {
		log.Fatal(err)
	}

	if _, err := engine.MarkAtRelayPoint(ctx, req.ID); err != nil {
		log.Fatal(err)
	}
	ok, _ := engine.ValidateSenderIdentity(ctx, req.ID, req.UniqueCode)
	fmt.Println("sender valid:", ok)

	if _, err := engine.HandToTraveler(ctx, req.ID, "TRAVELER123"); err != nil {
		log.Fatal(err)
	}
	done, err := engine.CompleteDelivery(ctx, req.ID, "004217", "TRAVELER123")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("status:", done.Status, "by", done.CompletedBy)

	logs, _ := engine.GetSecurityLogsForRequest(ctx, req.ID)
	for _, l := range logs {
		fmt.Println(l.Action)
	}
	// Output:
	// sender valid: true
	// status: completed by TRAVELER123
	// DOCUMENT_REQUEST_CREATED
	// DOCUMENT_AT_RELAY_POINT
	// SENDER_IDENTITY_VALIDATION
	// TRAVELER_IDENTITY_VALIDATION
	// DOCUMENT_HANDED_TO_TRAVELER
	// DELIVERY_COMPLETION_VALIDATION
	// DELIVERY_COMPLETED
}

// ExampleEngine_CompleteDelivery shows that a delivery completes only once.
func ExampleEngine_CompleteDelivery() {
	engine, err := docurgent.New(docurgent.WithCodeGenerator(demoCodes{}))
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	req, _ := engine.CreateDocumentRequest(ctx, core.Sender{Name: "John Doe"}, core.Recipient{}, core.DocumentInfo{})
	_, _ = engine.MarkAtRelayPoint(ctx, req.ID)
	_, _ = engine.HandToTraveler(ctx, req.ID, "TRAVELER123")

	_, err = engine.CompleteDelivery(ctx, req.ID, "004217", "TRAVELER123")
	fmt.Println("first:", err)
	_, err = engine.CompleteDelivery(ctx, req.ID, "004217", "TRAVELER123")
	fmt.Println("second:", err)
	// Output:
	// first: <nil>
	// second: delivery already completed
}
