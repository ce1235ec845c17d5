package catalog

import (
	"context"
	"errors"
)

var (
	ErrOriginNotFound   = errors.New("origin not found")
	ErrItemNotFound     = errors.New("catalog item not found")
	ErrFlightNotFound   = errors.New("flight not found")
	ErrHotelNotFound    = errors.New("hotel not found")
	ErrRoomTypeNotFound = errors.New("room type not found")
	ErrCourseNotFound   = errors.New("course not found")
	ErrLessonNotFound   = errors.New("lesson not found")
)

// Catalog resolves read-only records. Missing references are reported as
// typed errors so call sites have to handle them.
type Catalog interface {
	Origin(ctx context.Context, originID string) (Origin, error)
	Item(ctx context.Context, itemID string) (Item, error)
	Flight(ctx context.Context, flightID string) (Flight, error)
	Hotel(ctx context.Context, hotelID string) (Hotel, error)
	Course(ctx context.Context, courseID string) (Course, error)
}

// Memory is a map-backed Catalog. The catalog is shared and read-only, so
// no locking is needed once seeded.
type Memory struct {
	origins map[string]Origin
	items   map[string]Item
	flights map[string]Flight
	hotels  map[string]Hotel
	courses map[string]Course
}

func NewMemory() *Memory {
	return &Memory{
		origins: make(map[string]Origin),
		items:   make(map[string]Item),
		flights: make(map[string]Flight),
		hotels:  make(map[string]Hotel),
		courses: make(map[string]Course),
	}
}

func (m *Memory) SeedOrigin(o Origin) { m.origins[o.ID] = o }
func (m *Memory) SeedItem(it Item)    { m.items[it.ID] = it }
func (m *Memory) SeedFlight(f Flight) { m.flights[f.ID] = f }
func (m *Memory) SeedHotel(h Hotel)   { m.hotels[h.ID] = h }
func (m *Memory) SeedCourse(c Course) { m.courses[c.ID] = c }

func (m *Memory) Origin(ctx context.Context, originID string) (Origin, error) {
	o, ok := m.origins[originID]
	if !ok {
		return Origin{}, ErrOriginNotFound
	}
	return o, nil
}

func (m *Memory) Item(ctx context.Context, itemID string) (Item, error) {
	it, ok := m.items[itemID]
	if !ok {
		return Item{}, ErrItemNotFound
	}
	return it, nil
}

func (m *Memory) Flight(ctx context.Context, flightID string) (Flight, error) {
	f, ok := m.flights[flightID]
	if !ok {
		return Flight{}, ErrFlightNotFound
	}
	return f, nil
}

func (m *Memory) Hotel(ctx context.Context, hotelID string) (Hotel, error) {
	h, ok := m.hotels[hotelID]
	if !ok {
		return Hotel{}, ErrHotelNotFound
	}
	return h, nil
}

func (m *Memory) Course(ctx context.Context, courseID string) (Course, error) {
	c, ok := m.courses[courseID]
	if !ok {
		return Course{}, ErrCourseNotFound
	}
	return c, nil
}

// RoomType finds a room type within a hotel.
func (h Hotel) RoomType(roomTypeID string) (RoomType, error) {
	for _, rt := range h.RoomTypes {
		if rt.ID == roomTypeID {
			return rt, nil
		}
	}
	return RoomType{}, ErrRoomTypeNotFound
}
