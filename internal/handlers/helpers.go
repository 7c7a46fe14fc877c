package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lichtwerk/api/internal/domain"
	"github.com/lichtwerk/api/internal/platform/httpx"
	"github.com/lichtwerk/api/internal/platform/pagination"
	"github.com/lichtwerk/api/internal/repositories"
	"github.com/lichtwerk/api/internal/services"
)

const maxRequestBody = 256 * 1024

// decodeJSON reads a JSON body into dst, rejecting unknown fields and
// bodies above maxRequestBody.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer func() { _, _ = io.Copy(io.Discard, reader) }()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// writeServiceError maps service sentinel errors to API error responses.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("order_not_found", "order not found", http.StatusNotFound))
	case errors.Is(err, services.ErrSignNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("sign_not_found", "sign not found", http.StatusNotFound))
	case errors.Is(err, services.ErrDesignNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("design_not_found", "design not found", http.StatusNotFound))
	case errors.Is(err, services.ErrInvalidTransition):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_transition", err.Error(), http.StatusConflict))
	case errors.Is(err, services.ErrNotConfirmed):
		httpx.WriteError(ctx, w, httpx.NewError("order_not_confirmed", "order must be confirmed before submission", http.StatusUnprocessableEntity))
	case errors.Is(err, services.ErrValidationFailed):
		httpx.WriteError(ctx, w, httpx.NewError("validation_failed", err.Error(), http.StatusUnprocessableEntity))
	case errors.Is(err, services.ErrInvalidPostalCode):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_postal_code", "postal code must be five digits", http.StatusBadRequest))
	case errors.Is(err, pagination.ErrInvalidPageToken):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_page_token", "page token is not valid", http.StatusBadRequest))
	case repositories.IsNotFound(err):
		httpx.WriteError(ctx, w, httpx.NewError("not_found", "resource not found", http.StatusNotFound))
	case repositories.IsConflict(err):
		httpx.WriteError(ctx, w, httpx.NewError("conflict", "resource version conflict", http.StatusConflict))
	case repositories.IsUnavailable(err):
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "backend temporarily unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "internal server error", http.StatusInternalServerError))
	}
}

type designResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	RefWidthCm   float64 `json:"refWidthCm"`
	RefHeightCm  float64 `json:"refHeightCm"`
	RefLEDLength float64 `json:"refLedLengthM"`
	ElementCount int     `json:"elementCount"`
	AssetPath    string  `json:"assetPath,omitempty"`
}

func newDesignResponse(design domain.Design) designResponse {
	return designResponse{
		ID:           design.ID,
		Name:         design.Name,
		RefWidthCm:   design.RefWidthCm,
		RefHeightCm:  design.RefHeightCm,
		RefLEDLength: design.RefLEDLength,
		ElementCount: design.ElementCount,
		AssetPath:    design.AssetPath,
	}
}

type signResponse struct {
	ID            string  `json:"id"`
	DesignID      string  `json:"designId"`
	WidthCm       float64 `json:"widthCm"`
	HeightCm      float64 `json:"heightCm"`
	Waterproof    bool    `json:"waterproof"`
	MultiPart     bool    `json:"multiPart"`
	UVPrint       bool    `json:"uvPrint"`
	HangingSystem bool    `json:"hangingSystem"`
	Express       bool    `json:"express"`
	Enabled       bool    `json:"enabled"`
}

func newSignResponse(sign domain.SignConfiguration) signResponse {
	return signResponse{
		ID:            sign.ID,
		DesignID:      sign.DesignID,
		WidthCm:       sign.WidthCm,
		HeightCm:      sign.HeightCm,
		Waterproof:    sign.Waterproof,
		MultiPart:     sign.MultiPart,
		UVPrint:       sign.UVPrint,
		HangingSystem: sign.HangingSystem,
		Express:       sign.Express,
		Enabled:       sign.Enabled,
	}
}

type orderResponse struct {
	ID           string         `json:"id"`
	Status       string         `json:"status"`
	Signs        []signResponse `json:"signs"`
	PostalCode   string         `json:"postalCode,omitempty"`
	Pickup       bool           `json:"pickup"`
	Installation bool           `json:"installation"`
	Confirmed    bool           `json:"confirmed"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func newOrderResponse(order domain.Order) orderResponse {
	signs := make([]signResponse, 0, len(order.Signs))
	for _, sign := range order.Signs {
		signs = append(signs, newSignResponse(sign))
	}
	return orderResponse{
		ID:           order.ID,
		Status:       string(order.Status),
		Signs:        signs,
		PostalCode:   order.PostalCode,
		Pickup:       order.Shipping.Pickup,
		Installation: order.Shipping.Installation,
		Confirmed:    order.Confirmed,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

type lineBreakdownResponse struct {
	SignID              string  `json:"signId"`
	AreaM2              float64 `json:"areaM2"`
	LEDLengthM          float64 `json:"ledLengthM"`
	PowerW              int     `json:"powerW"`
	AcrylicCents        int64   `json:"acrylicCents"`
	UVPrintCents        int64   `json:"uvPrintCents"`
	LEDCents            int64   `json:"ledCents"`
	ElementsCents       int64   `json:"elementsCents"`
	PackagingCents      int64   `json:"packagingCents"`
	ControllerCents     int64   `json:"controllerCents"`
	PowerSupplyCents    int64   `json:"powerSupplyCents"`
	LaborCents          int64   `json:"laborCents"`
	HangingCents        int64   `json:"hangingCents"`
	BaseCents           int64   `json:"baseCents"`
	WaterproofCents     int64   `json:"waterproofCents"`
	MultiPartCents      int64   `json:"multiPartCents"`
	ExpressCents        int64   `json:"expressCents"`
	AdministrativeCents int64   `json:"administrativeCents"`
	TotalCents          int64   `json:"totalCents"`
}

func newLineBreakdownResponse(line domain.SignPriceBreakdown) lineBreakdownResponse {
	return lineBreakdownResponse{
		SignID:              line.SignID,
		AreaM2:              line.AreaM2,
		LEDLengthM:          line.LEDLength,
		PowerW:              line.PowerW,
		AcrylicCents:        line.Acrylic,
		UVPrintCents:        line.UVPrint,
		LEDCents:            line.LED,
		ElementsCents:       line.Elements,
		PackagingCents:      line.Packaging,
		ControllerCents:     line.Controller,
		PowerSupplyCents:    line.PowerSupply,
		LaborCents:          line.Labor,
		HangingCents:        line.Hanging,
		BaseCents:           line.Base,
		WaterproofCents:     line.Waterproof,
		MultiPartCents:      line.MultiPart,
		ExpressCents:        line.Express,
		AdministrativeCents: line.Administrative,
		TotalCents:          line.Total,
	}
}

type shippingResponse struct {
	Method             string `json:"method"`
	CostCents          int64  `json:"costCents"`
	RequiresPostalCode bool   `json:"requiresPostalCode"`
	DistanceKm         int    `json:"distanceKm,omitempty"`
}

type installationResponse struct {
	CostCents  int64   `json:"costCents"`
	AreaM2     float64 `json:"areaM2"`
	DistanceKm int     `json:"distanceKm"`
	Place      string  `json:"place,omitempty"`
}

type validationMessageResponse struct {
	Field   string `json:"field"`
	SignID  string `json:"signId,omitempty"`
	Message string `json:"message"`
}

type quoteResponse struct {
	Lines          []lineBreakdownResponse     `json:"lines"`
	LineTotalCents int64                       `json:"lineTotalCents"`
	Shipping       shippingResponse            `json:"shipping"`
	Installation   installationResponse        `json:"installation"`
	SubtotalCents  int64                       `json:"subtotalCents"`
	TaxCents       int64                       `json:"taxCents"`
	TotalCents     int64                       `json:"totalCents"`
	Validation     []validationMessageResponse `json:"validation"`
}

func newQuoteResponse(quote domain.OrderQuote) quoteResponse {
	lines := make([]lineBreakdownResponse, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		lines = append(lines, newLineBreakdownResponse(line))
	}
	messages := make([]validationMessageResponse, 0, len(quote.Validation))
	for _, msg := range quote.Validation {
		messages = append(messages, validationMessageResponse{
			Field:   msg.Field,
			SignID:  msg.SignID,
			Message: msg.Message,
		})
	}
	return quoteResponse{
		Lines:          lines,
		LineTotalCents: quote.LineTotal,
		Shipping: shippingResponse{
			Method:             string(quote.Shipping.Method),
			CostCents:          quote.Shipping.Cost,
			RequiresPostalCode: quote.Shipping.RequiresPostalCode,
			DistanceKm:         quote.Shipping.DistanceKm,
		},
		Installation: installationResponse{
			CostCents:  quote.Installation.Cost,
			AreaM2:     quote.Installation.AreaM2,
			DistanceKm: quote.Installation.DistanceKm,
			Place:      quote.Installation.Place,
		},
		SubtotalCents: quote.Subtotal,
		TaxCents:      quote.Tax,
		TotalCents:    quote.Total,
		Validation:    messages,
	}
}
