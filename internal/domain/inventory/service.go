package inventory

import (
	"context"

	"gorm.io/gorm"

	"estatedesk/internal/pkg/validator"
)

type Service struct {
	db   *gorm.DB
	repo *Repository
}

func NewService(db *gorm.DB, repo *Repository) *Service {
	return &Service{db: db, repo: repo}
}

func (s *Service) CreateProperty(ctx context.Context, req *CreatePropertyRequest, actorID int64) (*Property, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	p := &Property{Name: req.Name, City: req.City, Address: req.Address, IsActive: true, CreatedBy: actorID}
	if err := s.repo.CreateProperty(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) CreateTower(ctx context.Context, req *CreateTowerRequest) (*Tower, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetProperty(ctx, req.PropertyID); err != nil {
		return nil, err
	}
	t := &Tower{PropertyID: req.PropertyID, Name: req.Name, TotalFloors: req.TotalFloors, IsActive: true}
	if err := s.repo.CreateTower(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateFlat lists a flat and grows the unit counters of its tower and property.
func (s *Service) CreateFlat(ctx context.Context, req *CreateFlatRequest) (*Flat, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	flat := &Flat{
		PropertyID:       req.PropertyID,
		TowerID:          req.TowerID,
		FlatNumber:       req.FlatNumber,
		Floor:            req.Floor,
		Bedrooms:         req.Bedrooms,
		Status:           req.Status,
		BasePrice:        req.BasePrice,
		TotalPrice:       req.TotalPrice,
		FinalPrice:       req.FinalPrice,
		CarpetArea:       req.CarpetArea,
		BuiltUpArea:      req.BuiltUpArea,
		SuperBuiltUpArea: req.SuperBuiltUpArea,
		Facing:           req.Facing,
		Amenities:        req.Amenities,
		ParkingSlots:     req.ParkingSlots,
	}
	if flat.Status == "" {
		flat.Status = FlatAvailable
	}
	if flat.Status == FlatBooked || flat.Status == FlatSold {
		return nil, ErrFlatStatusLocked
	}
	flat.IsAvailable = flat.Status == FlatAvailable
	if err := flat.Validate(); err != nil {
		return nil, err
	}
	flat.RefreshCompleteness()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		tower, err := repo.GetTower(ctx, req.TowerID)
		if err != nil {
			return err
		}
		if tower.PropertyID != req.PropertyID {
			return ErrTowerMismatch
		}
		if err := repo.CreateFlat(ctx, flat); err != nil {
			return err
		}
		return repo.AddUnits(ctx, flat.PropertyID, flat.TowerID, flat.IsAvailable)
	})
	if err != nil {
		return nil, err
	}
	return flat, nil
}

func (s *Service) GetFlat(ctx context.Context, id int64) (*Flat, error) {
	return s.repo.GetFlat(ctx, id)
}

// UpdateFlat applies a partial update and recomputes completeness.
func (s *Service) UpdateFlat(ctx context.Context, id int64, req *UpdateFlatRequest) (*Flat, error) {
	var flat *Flat
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		flat, err = repo.GetFlatForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if req.Status != nil && *req.Status != flat.Status {
			if flat.Status == FlatBooked || flat.Status == FlatSold || *req.Status == FlatBooked || *req.Status == FlatSold {
				return ErrFlatStatusLocked
			}
			wasAvailable := flat.IsAvailable
			flat.Status = *req.Status
			flat.IsAvailable = flat.Status == FlatAvailable
			if wasAvailable != flat.IsAvailable {
				// held or blocked stock leaves the available pool without being booked
				delta := -1
				if flat.IsAvailable {
					delta = 1
				}
				if err := shiftAvailable(ctx, tx, flat, delta); err != nil {
					return err
				}
			}
		}
		applyFlatPatch(flat, req)

		if err := flat.Validate(); err != nil {
			return err
		}
		flat.RefreshCompleteness()
		return repo.SaveFlat(ctx, flat)
	})
	if err != nil {
		return nil, err
	}
	return flat, nil
}

func shiftAvailable(ctx context.Context, tx *gorm.DB, flat *Flat, delta int) error {
	expr := gorm.Expr("available_units + ?", delta)
	if err := tx.WithContext(ctx).Model(&Property{}).Where("id = ?", flat.PropertyID).Update("available_units", expr).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Model(&Tower{}).Where("id = ?", flat.TowerID).Update("available_units", expr).Error
}

func applyFlatPatch(flat *Flat, req *UpdateFlatRequest) {
	if req.Floor != nil {
		flat.Floor = *req.Floor
	}
	if req.Bedrooms != nil {
		flat.Bedrooms = *req.Bedrooms
	}
	if req.BasePrice != nil {
		flat.BasePrice = *req.BasePrice
	}
	if req.TotalPrice != nil {
		flat.TotalPrice = *req.TotalPrice
	}
	if req.FinalPrice != nil {
		flat.FinalPrice = *req.FinalPrice
	}
	if req.CarpetArea != nil {
		flat.CarpetArea = *req.CarpetArea
	}
	if req.BuiltUpArea != nil {
		flat.BuiltUpArea = *req.BuiltUpArea
	}
	if req.SuperBuiltUpArea != nil {
		flat.SuperBuiltUpArea = *req.SuperBuiltUpArea
	}
	if req.Facing != nil {
		flat.Facing = *req.Facing
	}
	if req.Amenities != nil {
		flat.Amenities = req.Amenities
	}
	if req.ParkingSlots != nil {
		flat.ParkingSlots = *req.ParkingSlots
	}
}
