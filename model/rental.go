// model/rental.go
package model

import "time"

type RentalStatus string

const (
	RentalBorrowed RentalStatus = "BORROWED"
	RentalReturned RentalStatus = "RETURNED"
)

type Rental struct {
	ID              int64        `json:"id"`
	RenterID        int64        `json:"renter_id"`
	BookID          int64        `json:"book_id"`
	Quantity        int64        `json:"quantity"`
	RentPrice       float64      `json:"rent_price"`
	Status          RentalStatus `json:"status"`
	TransactionDate time.Time    `json:"transaction_date"`
	ReturnDate      time.Time    `json:"return_date"`
}

// RevenueStats is the month-over-month revenue comparison payload.
type RevenueStats struct {
	CurrentMonthTotal  float64 `json:"currentMonthTotal"`
	PreviousMonthTotal float64 `json:"previousMonthTotal"`
	PercentageChange   float64 `json:"percentageChange"`
	Trend              string  `json:"trend"`
}
