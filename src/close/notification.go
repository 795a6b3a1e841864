package close

import (
	"encoding/json"
	"time"
)

// AwardNotification is published to Redis after a tender is awarded.
type AwardNotification struct {
	TenderId   string    `json:"tender_id"`
	AwardId    string    `json:"award_id"`
	BidId      string    `json:"bid_id"`
	SupplierId string    `json:"supplier_id"`
	Amount     float64   `json:"amount"`
	AwardDate  time.Time `json:"award_date"`
}

func (self *AwardNotification) MarshalBinary() ([]byte, error) {
	return json.Marshal(self)
}
