package catalog

import "time"

// Origin is the restaurant, trip, or course context that owns a set of
// catalog items. Its fee schedule is applied at checkout.
type Origin struct {
	ID               string `json:"originId"`
	Name             string `json:"name"`
	DeliveryFeeCents int64  `json:"deliveryFeeCents"`
	ServiceFeeCents  int64  `json:"serviceFeeCents"`
}

type Option struct {
	ID         string `json:"optionId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
}

type OptionGroup struct {
	ID      string   `json:"groupId"`
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

// Item is a purchasable catalog entry. Items are read-only: carts reference
// them and copy their prices, they never mutate them.
type Item struct {
	ID             string        `json:"itemId"`
	OriginID       string        `json:"originId"`
	Name           string        `json:"name"`
	UnitPriceCents int64         `json:"unitPriceCents"`
	OptionGroups   []OptionGroup `json:"optionGroups,omitempty"`
}

type Flight struct {
	ID          string    `json:"flightId"`
	Airline     string    `json:"airline"`
	Number      string    `json:"number"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	DepartureAt time.Time `json:"departureAt"`
	ArrivalAt   time.Time `json:"arrivalAt"`
	FareCents   int64     `json:"fareCents"`
}

type RoomType struct {
	ID                 string `json:"roomTypeId"`
	Name               string `json:"name"`
	PricePerNightCents int64  `json:"pricePerNightCents"`
}

type Hotel struct {
	ID        string     `json:"hotelId"`
	Name      string     `json:"name"`
	City      string     `json:"city"`
	RoomTypes []RoomType `json:"roomTypes"`
}

type Course struct {
	ID             string   `json:"courseId"`
	Title          string   `json:"title"`
	InstructorName string   `json:"instructorName"`
	LessonIDs      []string `json:"lessonIds"`
}

// HasLesson reports whether lessonID belongs to the course.
func (c Course) HasLesson(lessonID string) bool {
	for _, id := range c.LessonIDs {
		if id == lessonID {
			return true
		}
	}
	return false
}
