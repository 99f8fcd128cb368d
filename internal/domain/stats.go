package domain

// Counts is the point-in-time aggregate shown on the panel.
type Counts struct {
	Total      int `json:"total" db:"total"`
	New        int `json:"new" db:"new_orders"`
	Processing int `json:"processing" db:"processing_orders"`
	Completed  int `json:"completed" db:"completed_orders"`
	Cancelled  int `json:"cancelled" db:"cancelled_orders"`
	Today      int `json:"today" db:"today_orders"`
	Weekly     int `json:"weekly" db:"weekly_orders"`
}

type CategoryCount struct {
	Category Category `json:"category" db:"category"`
	Count    int      `json:"count" db:"count"`
}

// DayCount is one calendar day of the order series. Day is YYYY-MM-DD.
type DayCount struct {
	Day       string `json:"date"`
	Total     int    `json:"total_orders"`
	Completed int    `json:"completed_orders"`
}

// DailyStat mirrors a daily_stats row.
type DailyStat struct {
	MerchantID      int64   `json:"merchant_id"`
	Day             string  `json:"date"`
	TotalOrders     int     `json:"total_orders"`
	CompletedOrders int     `json:"completed_orders"`
	Revenue         float64 `json:"revenue"`
}
