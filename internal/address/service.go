package address

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MuzPas1/fleety-mobile/pkg/db/models"
	"github.com/MuzPas1/fleety-mobile/pkg/enums"
	pkgerrors "github.com/MuzPas1/fleety-mobile/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateInput carries the fields for a new saved address.
type CreateInput struct {
	Label       string
	FullAddress string
	Phone       string
	Lat         float64
	Lon         float64
	IsDefault   bool
}

// Service exposes saved-address operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Address, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	Get(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an address service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Address, error) {
	if strings.TrimSpace(input.FullAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full address is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	label, err := enums.ParseAddressLabel(input.Label)
	if err != nil {
		label = enums.AddressLabelOther
	}

	addr := &models.Address{
		UserID:      userID,
		Label:       label,
		FullAddress: strings.TrimSpace(input.FullAddress),
		Phone:       strings.TrimSpace(input.Phone),
		Lat:         input.Lat,
		Lon:         input.Lon,
		IsDefault:   input.IsDefault,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if addr.IsDefault {
			if clearErr := repo.ClearDefault(ctx, userID); clearErr != nil {
				return clearErr
			}
		}
		_, createErr := repo.Create(ctx, addr)
		return createErr
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create address")
	}
	return addr, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list addresses")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	addr, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load address")
	}
	if addr.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "address belongs to another user")
	}
	return addr, nil
}

// SetDefault makes the address the user's default, unsetting any previous
// default in the same transaction.
func (s *service) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, addressID); err != nil {
		return err
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if clearErr := repo.ClearDefault(ctx, userID); clearErr != nil {
			return clearErr
		}
		return repo.Update(ctx, addressID, map[string]any{"is_default": true})
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set default address")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, addressID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, addressID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete address")
	}
	return nil
}
