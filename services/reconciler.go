package services

import (
	"strings"

	"stockview/models"
	"stockview/utils"
)

const (
	// MaskMarker marks a redacted display value.
	MaskMarker = "*"

	// TitleField holds an explicit vehicle title.
	TitleField = "VehicleTitle"

	// vinTailLength is how much of the OCR result is trusted.
	vinTailLength = 6
)

// vinFieldKeys are stripped from every field set; the derived VIN replaces them.
var vinFieldKeys = []string{"VIN", "VIN Status", "VIN_Status_"}

// Reconciler turns raw listing records into display-ready vehicles
type Reconciler struct {
	logger *utils.Logger
}

// NewReconciler creates a new Reconciler
func NewReconciler(logger *utils.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

// Reconcile merges the legacy and new field sets of one record and derives
// the VIN, title and image list. It never fails; a sub-document that could
// not be decoded simply contributes no fields.
func (c *Reconciler) Reconcile(raw *models.RawRecord) *models.Vehicle {
	if raw == nil {
		return &models.Vehicle{}
	}

	stock := strings.TrimSpace(raw.StockNumber.String())

	legacy := legacyFields(raw)
	fields := MergeFields(legacy, raw.NewFields)
	for _, k := range vinFieldKeys {
		fields.Delete(k)
	}
	if legacy.Len() == 0 && raw.NewFields.Len() == 0 {
		c.logger.Debug("Record %s carries no usable field data", stock)
	}

	images, source := resolveImages(raw)

	return &models.Vehicle{
		StockNumber:     stock,
		SequentialKey:   raw.SequentialKey,
		Title:           DeriveTitle(fields, stock),
		VIN:             DeriveVIN(raw.UnprocessedVIN.String(), raw.OCRVinTail.String()),
		Images:          images,
		ImageSource:     source,
		SpinImages:      append([]string(nil), raw.SpinImages...),
		VideoURL:        strings.TrimSpace(raw.VideoURL.String()),
		Fields:          fields,
		FinalBid:        strings.TrimSpace(raw.FinalBid.String()),
		TimestampMillis: raw.Timestamp.Ptr(),
		LegacyPassed:    bool(raw.LegacyPassed),
		NewPassed:       bool(raw.NewPassed),
	}
}

// ReconcileAll reconciles a batch, dropping records without a stock number
// and later duplicates of a stock number already seen.
func (c *Reconciler) ReconcileAll(raws []*models.RawRecord) []*models.Vehicle {
	stocked := make([]*models.Vehicle, 0, len(raws))
	for _, raw := range raws {
		v := c.Reconcile(raw)
		if v.StockNumber == "" {
			c.logger.Debug("Skipping record with empty stock number")
			continue
		}
		stocked = append(stocked, v)
	}

	out, dropped := utils.Unique(stocked, stockKey)
	if dropped > 0 {
		c.logger.Debug("Skipped %d duplicate stock numbers", dropped)
	}
	c.logger.Debug("Reconciled %d vehicles from %d raw records", len(out), len(raws))
	return out
}

// stockKey identifies a vehicle by stock number; an empty one is no identity.
func stockKey(v *models.Vehicle) (string, bool) {
	return v.StockNumber, v.StockNumber != ""
}

// legacyFields prefers the structured legacy map and falls back to the
// encoded details blob.
func legacyFields(raw *models.RawRecord) models.FieldSet {
	if raw.LegacyFields.Len() > 0 {
		return raw.LegacyFields.Clone()
	}
	return raw.Details.Clone()
}

// MergeFields overlays newer onto legacy. Legacy keys keep their position
// and value unless the legacy value is masked and the newer one is not;
// keys only present in newer are appended in their own order.
func MergeFields(legacy, newer models.FieldSet) models.FieldSet {
	merged := legacy.Clone()
	for _, k := range newer.Keys() {
		v := newer.Value(k)
		current, ok := merged.Get(k)
		if !ok {
			merged.Set(k, v)
			continue
		}
		if IsMasked(current) && !IsMasked(v) {
			merged.Set(k, v)
		}
	}
	return merged
}

// IsMasked reports whether a value carries the redaction marker
func IsMasked(value string) bool {
	return strings.Contains(value, MaskMarker)
}

// DeriveVIN joins the unmasked VIN prefix with the trusted tail of the OCR
// result. Without a prefix there is no VIN.
func DeriveVIN(unprocessed, ocr string) string {
	prefix := strings.TrimSpace(unprocessed)
	if prefix == "" {
		return ""
	}
	tail := strings.TrimSpace(ocr)
	if r := []rune(tail); len(r) > vinTailLength {
		tail = string(r[len(r)-vinTailLength:])
	}
	return prefix + tail
}

// DeriveTitle picks the explicit title, then "Year Make Model" when all three
// are present, then the stock number.
func DeriveTitle(fields models.FieldSet, stock string) string {
	if t := strings.TrimSpace(fields.Value(TitleField)); t != "" {
		return t
	}
	year := strings.TrimSpace(fields.Value("Year"))
	mk := strings.TrimSpace(fields.Value("Make"))
	model := strings.TrimSpace(fields.Value("Model"))
	if year != "" && mk != "" && model != "" {
		return year + " " + mk + " " + model
	}
	return stock
}

func resolveImages(raw *models.RawRecord) ([]string, models.ImageSource) {
	if len(raw.GalleryImages) > 0 {
		return append([]string(nil), raw.GalleryImages...), models.ImageSourceGallery
	}
	if hero := strings.TrimSpace(raw.HeroImage.String()); hero != "" {
		return []string{hero}, models.ImageSourceHero
	}
	if snap := strings.TrimSpace(raw.SnapshotURL.String()); snap != "" {
		return []string{snap}, models.ImageSourceSnapshot
	}
	return []string{}, models.ImageSourceNone
}
