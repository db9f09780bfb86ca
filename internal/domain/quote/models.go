package quote

import "time"

// Quote is one priced offer for a contractor's product. Line items belong
// exclusively to their quote and get storage ids only once the quote is
// persisted.
type Quote struct {
	ID             string     `json:"id"`
	DocumentNumber string     `json:"documentNumber"`
	SequenceNumber int        `json:"sequenceNumber"`
	Year           int        `json:"year"`
	Month          int        `json:"month"`
	ContractorCode string     `json:"contractorCode"`
	ContractorName string     `json:"contractorName"`
	ProductCode    string     `json:"productCode"`
	ProductName    string     `json:"productName"`
	MinQuantity    float64    `json:"minQuantity"`
	TotalQuantity  float64    `json:"totalQuantity"`
	Materials      []Material `json:"materials"`
	Activities     []Activity `json:"productionActivities"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type Material struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	PurchasePrice     float64 `json:"purchasePrice"`
	Margin            Margin  `json:"margin"`
	Quantity          float64 `json:"quantity"`
	IgnoreMinQuantity bool    `json:"ignoreMinQuantity"`
}

type Activity struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	WorkTimeHours     float64 `json:"workTimeHours"`
	WorkTimeMinutes   float64 `json:"workTimeMinutes"`
	Price             float64 `json:"price"`
	Margin            Margin  `json:"margin"`
	IgnoreMinQuantity bool    `json:"ignoreMinQuantity"`
}

// NumberInfo is the next sequential document number for a period.
type NumberInfo struct {
	NextQuoteNumber string `json:"nextQuoteNumber"`
	SequenceNumber  int    `json:"sequenceNumber"`
	Month           int    `json:"month"`
	Year            int    `json:"year"`
}

// LinePrice is one priced line of a quote.
type LinePrice struct {
	Name           string  `json:"name"`
	UnitPrice      float64 `json:"unitPrice"`
	BilledQuantity float64 `json:"billedQuantity"`
	Total          float64 `json:"total"`
}

// Pricing is the full priced breakdown of a quote.
type Pricing struct {
	Materials  []LinePrice `json:"materials"`
	Activities []LinePrice `json:"productionActivities"`
	Total      float64     `json:"total"`
}
