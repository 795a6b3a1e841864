package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/tendeko/closer/src/utils/model"
)

// TenderHash computes the canonical fingerprint of a tender's invariant
// fields. Keys are serialized in sorted order, so the same tender always
// hashes to the same value.
func TenderHash(tender *model.Tender) (out string, err error) {
	canonical := map[string]interface{}{
		"id":                  tender.ID,
		"title":               tender.Title,
		"description":         tender.Description,
		"value_amount":        tender.ValueAmount,
		"value_currency":      tender.ValueCurrency,
		"closing_date":        tender.ClosingDate.UTC().Format(time.RFC3339),
		"procuring_entity_id": tender.ProcuringEntityID,
	}

	data, err := json.Marshal(canonical)
	if err != nil {
		return
	}

	sum := sha256.Sum256(data)
	out = hex.EncodeToString(sum[:])
	return
}
