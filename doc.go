// Package docurgent is the composition root of the DocUrgent custody engine.
//
// It wires the chain-of-custody state machine (package core) to its
// adapters: the in-memory stores, the crypto/rand code generator and the
// operator logger.
//
// A document request moves sender → relay point → traveler → recipient:
//
//	created → at_relay_point → with_traveler → delivered → confirmed
//	                                         ↘ completed
//
// Every mutation and every code or identity check is appended to the
// security log, which can be queried per request or streamed live.
//
// Usage:
//
//	engine, err := docurgent.New(docurgent.WithLogger(logger))
//
//	req, err := engine.CreateDocumentRequest(ctx, sender, recipient, doc)
//	_, err = engine.MarkAtRelayPoint(ctx, req.ID)
//	_, err = engine.HandToTraveler(ctx, req.ID, "TRAVELER123")
//	_, err = engine.CompleteDelivery(ctx, req.ID, req.DeliveryCode, "TRAVELER123")
package docurgent
