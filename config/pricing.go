package config

import (
	"os"

	"github.com/mohibbulwara/orjon/models"
	"github.com/mohibbulwara/orjon/policy"
	"github.com/mohibbulwara/orjon/settlement"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Pricing is the process-wide set of static tables, built once at startup.
type Pricing struct {
	Shipping settlement.ShippingTable
	Rules    policy.Rules
}

func DefaultPricing() Pricing {
	return Pricing{
		Shipping: settlement.DefaultShippingTable(),
		Rules:    policy.DefaultRules(),
	}
}

// pricingFile mirrors pricing.yaml. Omitted keys keep their defaults.
type pricingFile struct {
	Shipping struct {
		Fallback          *float64                      `yaml:"fallback"`
		UnknownSellerZone *float64                      `yaml:"unknown_seller_zone"`
		Rates             map[string]map[string]float64 `yaml:"rates"`
	} `yaml:"shipping"`
	Commission struct {
		Allowed []int `yaml:"allowed"`
	} `yaml:"commission"`
	FreePlanUploadLimit *int     `yaml:"free_plan_upload_limit"`
	SuspensionThreshold *int64   `yaml:"suspension_threshold"`
	RisingStarDays      *int     `yaml:"rising_star_days"`
	FavoriteRating      *float64 `yaml:"favorite_rating"`
}

// LoadPricing returns the defaults when path is empty.
func LoadPricing(path string) (Pricing, error) {
	p := DefaultPricing()
	if path == "" {
		return p, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, errors.Wrap(err, "read pricing file")
	}
	return ParsePricing(raw)
}

func ParsePricing(raw []byte) (Pricing, error) {
	p := DefaultPricing()
	var f pricingFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return p, errors.Wrap(err, "parse pricing")
	}

	if f.Shipping.Fallback != nil {
		p.Shipping.Fallback = *f.Shipping.Fallback
	}
	if f.Shipping.UnknownSellerZone != nil {
		p.Shipping.UnknownSellerZone = *f.Shipping.UnknownSellerZone
	}
	for seller, row := range f.Shipping.Rates {
		sz := models.DeliveryZone(seller)
		if !sz.Valid() {
			return p, errors.Errorf("pricing: unknown seller zone %q", seller)
		}
		for buyer, fee := range row {
			bz := models.DeliveryZone(buyer)
			if !bz.Valid() {
				return p, errors.Errorf("pricing: unknown buyer zone %q", buyer)
			}
			if fee < 0 {
				return p, errors.Errorf("pricing: negative fee for %s -> %s", seller, buyer)
			}
			p.Shipping.Rates[sz][bz] = fee
		}
	}

	if len(f.Commission.Allowed) > 0 {
		for _, c := range f.Commission.Allowed {
			if c <= 0 || c >= 100 {
				return p, errors.Errorf("pricing: commission %d out of range", c)
			}
		}
		p.Rules.AllowedCommissions = f.Commission.Allowed
	}
	if f.FreePlanUploadLimit != nil {
		p.Rules.FreePlanUploadLimit = *f.FreePlanUploadLimit
	}
	if f.SuspensionThreshold != nil {
		p.Rules.SuspensionThreshold = *f.SuspensionThreshold
	}
	if f.RisingStarDays != nil {
		p.Rules.RisingStarDays = *f.RisingStarDays
	}
	if f.FavoriteRating != nil {
		p.Rules.FavoriteRating = *f.FavoriteRating
	}
	return p, nil
}
