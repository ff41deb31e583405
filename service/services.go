package service

// Services bundles the domain services sharing one Client.
type Services struct {
	Films    *FilmService
	Bookings *BookingService
	Auth     *AuthService
}

func NewServices(c *Client) Services {
	return Services{
		Films:    NewFilmService(c),
		Bookings: NewBookingService(c),
		Auth:     NewAuthService(c),
	}
}
