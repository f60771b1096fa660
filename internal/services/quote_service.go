package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/cloudlink-mu/telquote/internal/models"
	"github.com/cloudlink-mu/telquote/internal/pricing"
)

// QuoteInput is the assembled result of the quote wizard. Customer linkage
// is mandatory; service, bandwidth and features are optional and simply
// contribute nothing when absent.
type QuoteInput struct {
	CustomerID        uint
	SalesRepID        uint
	ServiceID         uint
	BandwidthOptionID uint
	FeatureIDs        []uint
	ContractMonths    int
	Notes             string
}

var (
	ErrCustomerRequired  = errors.New("customer_required")
	ErrServiceNotFound   = errors.New("service_not_found")
	ErrBandwidthNotFound = errors.New("bandwidth_option_not_found")
	ErrBandwidthMismatch = errors.New("bandwidth_option_wrong_service")
	ErrFeatureNotFound   = errors.New("feature_not_found")
	ErrNumberExhausted   = errors.New("quote_number_exhausted")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrQuoteNotFound     = errors.New("quote_not_found")
)

// QuoteService encapsulates quote creation and lifecycle logic. The clock
// and number randomness are injectable for tests.
type QuoteService struct {
	DB           *gorm.DB
	ValidityDays int

	now     func() time.Time
	randInt func(n int) int
}

func NewQuoteService(db *gorm.DB, validityDays int) *QuoteService {
	return &QuoteService{
		DB:           db,
		ValidityDays: validityDays,
		now:          time.Now,
		randInt:      rand.Intn,
	}
}

// GenerateNumber produces a candidate quote number: Q, two-digit year,
// two-digit month, a dash and four random digits.
func (s *QuoteService) GenerateNumber() string {
	t := s.now()
	return fmt.Sprintf("Q%02d%02d-%04d", t.Year()%100, int(t.Month()), s.randInt(10000))
}

// Build validates the wizard input, snapshots the selected catalog entries,
// aggregates the totals and persists the quote in one transaction. The
// stored totals are final; later catalog edits never touch them.
func (s *QuoteService) Build(in QuoteInput) (*models.Quote, error) {
	if in.CustomerID == 0 {
		return nil, ErrCustomerRequired
	}
	var customer models.Customer
	if err := s.DB.First(&customer, in.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerRequired
		}
		return nil, err
	}

	var (
		service   *models.Service
		bandwidth *models.BandwidthOption
	)
	if in.ServiceID != 0 {
		service = &models.Service{}
		if err := s.DB.First(service, in.ServiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrServiceNotFound
			}
			return nil, err
		}
	}
	if in.BandwidthOptionID != 0 {
		bandwidth = &models.BandwidthOption{}
		if err := s.DB.First(bandwidth, in.BandwidthOptionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBandwidthNotFound
			}
			return nil, err
		}
		if service != nil && bandwidth.ServiceID != service.ID {
			return nil, ErrBandwidthMismatch
		}
	}

	var features []models.Feature
	if len(in.FeatureIDs) > 0 {
		if err := s.DB.Where("id IN ?", in.FeatureIDs).Find(&features).Error; err != nil {
			return nil, err
		}
		if len(features) != len(in.FeatureIDs) {
			return nil, ErrFeatureNotFound
		}
	}

	var (
		bandwidthMonthly pricing.Cents
		setupFee         pricing.Cents
	)
	if bandwidth != nil {
		bandwidthMonthly = pricing.Cents(bandwidth.MonthlyPriceCents)
	}
	if service != nil {
		setupFee = pricing.Cents(service.SetupFeeCents)
	}
	prices := make([]pricing.FeaturePrice, 0, len(features))
	for _, f := range features {
		prices = append(prices, pricing.FeaturePrice{
			MonthlyCents: pricing.Cents(f.MonthlyPriceCents),
			OneTimeCents: pricing.Cents(f.OneTimeFeeCents),
		})
	}
	totals := pricing.Aggregate(bandwidthMonthly, setupFee, prices)

	months := in.ContractMonths
	if months <= 0 {
		months = 12
	}
	if service != nil && months < service.MinContractMonths {
		months = service.MinContractMonths
	}

	now := s.now()
	expiration := now.AddDate(0, 0, s.ValidityDays)

	quote := &models.Quote{
		CustomerID:        in.CustomerID,
		SalesRepID:        in.SalesRepID,
		Status:            models.QuoteStatusDraft,
		TotalMonthlyCents: int64(totals.MonthlyCents),
		TotalOneTimeCents: int64(totals.OneTimeCents),
		ContractMonths:    months,
		Notes:             in.Notes,
		QuoteDate:         now,
		ExpirationDate:    &expiration,
		SchemaVersion:     models.QuoteSchemaVersion,
	}
	if service != nil {
		id := service.ID
		quote.ServiceID = &id
	}
	if bandwidth != nil {
		id := bandwidth.ID
		quote.BandwidthOptionID = &id
	}
	for _, f := range features {
		quote.Features = append(quote.Features, models.QuoteFeature{
			FeatureID:         f.ID,
			Name:              f.Name,
			MonthlyPriceCents: f.MonthlyPriceCents,
			OneTimeFeeCents:   f.OneTimeFeeCents,
		})
	}

	// The number carries only 10k combinations per month, so collisions
	// happen under load. Re-roll a bounded number of times; the unique
	// index is the backstop.
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for attempt := 0; attempt < 3; attempt++ {
			quote.Number = s.GenerateNumber()
			var count int64
			if err := tx.Model(&models.Quote{}).Where("number = ?", quote.Number).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return tx.Create(quote).Error
			}
		}
		return ErrNumberExhausted
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// Get loads one quote with all display associations preloaded.
func (s *QuoteService) Get(id uint) (*models.Quote, error) {
	var q models.Quote
	err := s.DB.Preload("Customer").Preload("Service").Preload("BandwidthOption").Preload("Features").First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// UpdateStatus moves a quote through its lifecycle. Status is the only
// field that changes after creation.
func (s *QuoteService) UpdateStatus(id uint, status string) (*models.Quote, error) {
	if !models.ValidQuoteStatus(status) {
		return nil, ErrInvalidStatus
	}
	q, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(q).Update("status", status).Error; err != nil {
		return nil, err
	}
	q.Status = status
	return q, nil
}

// SweepExpired marks sent quotes whose expiration date has passed as
// expired and reports how many changed. Draft quotes are left alone.
func (s *QuoteService) SweepExpired() (int64, error) {
	res := s.DB.Model(&models.Quote{}).
		Where("status = ? AND expiration_date IS NOT NULL AND expiration_date < ?", models.QuoteStatusSent, s.now()).
		Update("status", models.QuoteStatusExpired)
	return res.RowsAffected, res.Error
}
