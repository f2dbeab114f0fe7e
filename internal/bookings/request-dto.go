package bookings

// Field names follow the existing web client
type CreateBookingRequest struct {
	ScheduleID     string              `json:"scheduleId"`
	Seats          []SeatSelection     `json:"seats" validate:"dive"`
	Passengers     []PassengerRequest  `json:"passengers" validate:"dive"`
	ContactDetails *ContactDetailsBody `json:"contactDetails"`
}

type SeatSelection struct {
	SeatNumber string  `json:"seatNumber" validate:"required,max=10"`
	Price      float64 `json:"price" validate:"gt=0"`
}

type PassengerRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Age        int    `json:"age" validate:"gte=0,lte=120"`
	Gender     string `json:"gender" validate:"omitempty,oneof=male female other"`
	SeatNumber string `json:"seatNumber" validate:"omitempty,max=10"`
}

type ContactDetailsBody struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=7,max=20"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type ListBookingsParams struct {
	Status string `form:"status" binding:"omitempty,oneof=confirmed cancelled"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}
