package models

// Car is the catalog entry a booking references. The booking engine only reads it.
type Car struct {
	ID         string  `bson:"id" json:"id"`
	Make       string  `bson:"make" json:"make"`
	Model      string  `bson:"model" json:"model"`
	DailyPrice float64 `bson:"daily_price" json:"dailyPrice"`
	Available  bool    `bson:"available" json:"available"`
}
