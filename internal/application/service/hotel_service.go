package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/models"
	"github.com/ozzus/holiday-deals/internal/domain/ports"
	"go.uber.org/zap"
)

type HotelService struct {
	log  *zap.Logger
	repo ports.HotelRepository
}

func NewHotelService(log *zap.Logger, repo ports.HotelRepository) *HotelService {
	if log == nil {
		log = zap.NewNop()
	}
	return &HotelService{log: log, repo: repo}
}

func (s *HotelService) CreateHotel(ctx context.Context, hotel models.Hotel) (models.Hotel, error) {
	const op = "service.CreateHotel"

	hotel.Name = strings.TrimSpace(hotel.Name)
	hotel.Destination = strings.TrimSpace(hotel.Destination)
	if hotel.Name == "" {
		return models.Hotel{}, fmt.Errorf("%s: name is required: %w", op, derr.ErrInvalidInput)
	}
	if hotel.Stars < 0 || hotel.Stars > 5 {
		return models.Hotel{}, fmt.Errorf("%s: stars must be between 0 and 5: %w", op, derr.ErrInvalidInput)
	}

	created, err := s.repo.Create(ctx, hotel)
	if err != nil {
		return models.Hotel{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("hotel created", zap.String("op", op), zap.Int64("hotel_id", created.ID))
	return created, nil
}

func (s *HotelService) GetHotel(ctx context.Context, id int64) (models.Hotel, error) {
	const op = "service.GetHotel"

	if id <= 0 {
		return models.Hotel{}, derr.ErrHotelNotFound
	}

	hotel, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, derr.ErrHotelNotFound) {
			return models.Hotel{}, err
		}
		return models.Hotel{}, fmt.Errorf("%s: %w", op, err)
	}
	return hotel, nil
}

func (s *HotelService) ListHotels(ctx context.Context, destination string) ([]models.Hotel, error) {
	const op = "service.ListHotels"

	hotels, err := s.repo.List(ctx, strings.TrimSpace(destination))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return hotels, nil
}

func (s *HotelService) DeleteHotel(ctx context.Context, id int64) error {
	const op = "service.DeleteHotel"

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, derr.ErrHotelNotFound) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
