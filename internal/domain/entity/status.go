package entity

// FlightStatus is the canonical status of a tracked flight
type FlightStatus string

const (
	StatusScheduled FlightStatus = "SCHEDULED"
	StatusEnRoute   FlightStatus = "EN_ROUTE"
	StatusDeparted  FlightStatus = "DEPARTED"
	StatusLanded    FlightStatus = "LANDED"
	StatusCancelled FlightStatus = "CANCELLED"
	StatusDiverted  FlightStatus = "DIVERTED"
)
