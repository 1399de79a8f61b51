package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mmtopup/storefront/internal/core/domain"
)

func TestAuditDocument(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("MMT", 23400))
	doc := auditDocument(&domain.AuditEntry{
		ActorID:   1,
		ActorName: "admin",
		Action:    "product.delete",
		Target:    "product:p1",
		Detail:    map[string]any{"reason": "discontinued"},
		At:        at,
	})

	if doc["action"] != "product.delete" || doc["target"] != "product:p1" {
		t.Fatalf("unexpected document: %v", doc)
	}
	if got := doc["at"].(time.Time); got.Location() != time.UTC || !got.Equal(at) {
		t.Fatalf("expected UTC timestamp equal to input, got %v", got)
	}
	detail, ok := doc["detail"].(bson.M)
	if !ok || detail["reason"] != "discontinued" {
		t.Fatalf("unexpected detail: %v", doc["detail"])
	}

	bare := auditDocument(&domain.AuditEntry{Action: "settings.update"})
	if _, ok := bare["detail"]; ok {
		t.Fatalf("expected no detail field for empty detail")
	}
}
