package models

import "strings"

const (
	// NoVINInfo is shown in place of an empty VIN.
	NoVINInfo = "No VIN info"
	// NotAvailable is shown in place of an empty field value.
	NotAvailable = "Not available"
)

// RawRecord is a vehicle record exactly as the listing service returns it.
// Every field is optional and tolerant of the loose typing upstream.
type RawRecord struct {
	StockNumber   Text        `json:"stock_number"`
	SequentialKey OptionalInt `json:"sr_key"`

	LegacyFields FieldSet `json:"allpagedata_fields"`
	Details      FieldSet `json:"details"` // legacy fields as an encoded array of single-key objects
	NewFields    FieldSet `json:"newdata"`

	UnprocessedVIN Text `json:"unprocessed_vin"` // first 11 VIN characters, unmasked
	OCRVinTail     Text `json:"ocr_result"`      // only the last 6 characters are trustworthy

	GalleryImages StringList `json:"allpagedata_images"`
	HeroImage     Text       `json:"one_image"`
	SnapshotURL   Text       `json:"html_s3_url"`
	SpinImages    StringList `json:"allpagedata_3sixty"`
	VideoURL      Text       `json:"veh_video_link"`

	FinalBid  Text      `json:"final_bid"`
	Timestamp Timestamp `json:"timestamp"`

	NewPassed    Flag `json:"newdata_passed"`
	LegacyPassed Flag `json:"allpagedata_passed"`
}

// ImageSource names where a Vehicle's images came from.
type ImageSource string

const (
	ImageSourceNone     ImageSource = ""
	ImageSourceGallery  ImageSource = "gallery"
	ImageSourceHero     ImageSource = "hero"
	ImageSourceSnapshot ImageSource = "snapshot"
)

// Vehicle is the reconciled, display-ready record. It is derived fresh from
// a RawRecord and never mutated afterwards.
type Vehicle struct {
	StockNumber   string
	SequentialKey OptionalInt
	Title         string
	VIN           string

	Images      []string
	ImageSource ImageSource
	SpinImages  []string
	VideoURL    string

	// Fields never contains VIN, "VIN Status" or VIN_Status_.
	Fields FieldSet

	FinalBid        string
	TimestampMillis *int64

	LegacyPassed bool
	NewPassed    bool
}

// Passed reports whether either pass flag is set.
func (v *Vehicle) Passed() bool {
	return v.LegacyPassed || v.NewPassed
}

// VINDisplay returns the VIN or the "no VIN info" marker.
func (v *Vehicle) VINDisplay() string {
	if v.VIN == "" {
		return NoVINInfo
	}
	return v.VIN
}

// DisplayFields returns the fields to render on a detail view: Fields with
// the derived VIN appended under "VIN" when one exists.
func (v *Vehicle) DisplayFields() FieldSet {
	out := v.Fields.Clone()
	if v.VIN != "" {
		out.Set("VIN", v.VIN)
	}
	return out
}

// DisplayValue substitutes NotAvailable for an empty value.
func DisplayValue(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

// FieldLabel turns a field key into a label ("Odometer_Reading" -> "Odometer Reading").
func FieldLabel(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}
