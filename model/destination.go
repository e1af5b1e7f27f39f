package model

import (
	"bytes"
	"encoding/json"
)

type Destination struct {
	DestinationID int     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Destination   string  `gorm:"column:destination;type:varchar(100);not null" json:"destination"`
	Country       string  `gorm:"column:country;type:varchar(100);not null" json:"country"`
	Rating        float64 `gorm:"column:rating;not null" json:"rating"`
}

func (Destination) TableName() string {
	return "destination"
}

// MarshalJSON keeps the field order of the struct and always writes the
// rating as a float, so 5 is sent as 5.0.
func (d Destination) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		DestinationID int         `json:"id"`
		Destination   string      `json:"destination"`
		Country       string      `json:"country"`
		Rating        floatNumber `json:"rating"`
	}{
		DestinationID: d.DestinationID,
		Destination:   d.Destination,
		Country:       d.Country,
		Rating:        floatNumber(d.Rating),
	})
}

type floatNumber float64

func (f floatNumber) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(float64(f))
	if err != nil {
		return nil, err
	}
	if !bytes.ContainsAny(b, ".eE") {
		b = append(b, ".0"...)
	}
	return b, nil
}
