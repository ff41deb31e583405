package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"bioskop-cli/model"
)

// BookingService maps booking (pemesanan) operations onto API calls.
type BookingService struct {
	client *Client
}

func NewBookingService(c *Client) *BookingService {
	return &BookingService{client: c}
}

// Mine lists the current user's bookings.
func (s *BookingService) Mine(ctx context.Context) (any, error) {
	var body any
	if err := s.client.getJSON(ctx, "/pemesanan", nil, &body); err != nil {
		return nil, err
	}
	return body, nil
}

// All lists every booking, paginated. Admin only.
func (s *BookingService) All(ctx context.Context, page int) (any, error) {
	var body any
	if err := s.client.getJSON(ctx, "/pemesanan", pageQuery(page), &body); err != nil {
		return nil, err
	}
	return body, nil
}

func (s *BookingService) Get(ctx context.Context, id int) (any, error) {
	if id <= 0 {
		return nil, errors.New("booking id is required")
	}
	var body any
	if err := s.client.getJSON(ctx, fmt.Sprintf("/pemesanan/%d", id), nil, &body); err != nil {
		return nil, err
	}
	return body, nil
}

// Create books tickets; the server computes total_harga.
func (s *BookingService) Create(ctx context.Context, req model.BookingRequest) (any, error) {
	var body any
	if err := s.client.sendJSON(ctx, http.MethodPost, "/pemesanan", req, &body); err != nil {
		return nil, err
	}
	return body, nil
}

func (s *BookingService) UpdateStatus(ctx context.Context, id int, status string) (any, error) {
	if id <= 0 {
		return nil, errors.New("booking id is required")
	}
	var body any
	if err := s.client.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/pemesanan/%d", id), model.BookingUpdate{Status: status}, &body); err != nil {
		return nil, err
	}
	return body, nil
}

// Delete cancels a booking.
func (s *BookingService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return errors.New("booking id is required")
	}
	return s.client.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/pemesanan/%d", id)}, nil)
}
