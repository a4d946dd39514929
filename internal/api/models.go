package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/bmi-api/internal/domain"
	"github.com/shopspring/decimal"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshTokenRequest is the body of POST /api/auth/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned by register, login and refresh. ExpiresAt is the
// RFC 3339 expiry of the access token.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    string    `json:"expires_at"`
}

// UpdateProfileRequest is the body of PATCH /api/users/me. Omitted fields
// are left unchanged.
type UpdateProfileRequest struct {
	Email    *string `json:"email,omitempty"    validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=12,max=72"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MeasurementRequest is the body of POST /api/measurements. The raw values
// are kept so that missing, null, string and numeric inputs can be told apart.
type MeasurementRequest struct {
	Weight json.RawMessage `json:"weight"`
	Height json.RawMessage `json:"height"`
}

// MeasurementResponse is the public view of a stored measurement.
type MeasurementResponse struct {
	ID         string      `json:"id"`
	WeightKg   json.Number `json:"weight_kg"`
	HeightM    json.Number `json:"height_m"`
	BMI        json.Number `json:"bmi"`
	Category   string      `json:"category"`
	RecordedAt time.Time   `json:"recorded_at"`
}

// MonthlyValue is one entry of a monthly statistics series.
type MonthlyValue struct {
	Month string      `json:"month"`
	Value json.Number `json:"value"`
}

// StatisticsResponse is the body of GET /api/measurements/statistics.
type StatisticsResponse struct {
	MonthlyBMI    []MonthlyValue `json:"monthly_bmi"`
	MonthlyWeight []MonthlyValue `json:"monthly_weight"`
}

func decimalNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func measurementToResponse(m *domain.Measurement) MeasurementResponse {
	return MeasurementResponse{
		ID:         m.ID.String(),
		WeightKg:   decimalNumber(m.WeightKg),
		HeightM:    decimalNumber(m.HeightM),
		BMI:        decimalNumber(m.BMI),
		Category:   m.Category.String(),
		RecordedAt: m.RecordedAt.UTC(),
	}
}

func measurementsToResponse(records []*domain.Measurement) []MeasurementResponse {
	out := make([]MeasurementResponse, 0, len(records))
	for _, m := range records {
		out = append(out, measurementToResponse(m))
	}
	return out
}

func monthlySeries(averages []domain.MonthlyAverage) []MonthlyValue {
	out := make([]MonthlyValue, 0, len(averages))
	for _, a := range averages {
		out = append(out, MonthlyValue{
			Month: a.Month.String(),
			Value: decimalNumber(a.Average),
		})
	}
	return out
}

func statisticsToResponse(stats *domain.Statistics) StatisticsResponse {
	if stats == nil {
		return StatisticsResponse{MonthlyBMI: []MonthlyValue{}, MonthlyWeight: []MonthlyValue{}}
	}
	return StatisticsResponse{
		MonthlyBMI:    monthlySeries(stats.MonthlyBMI),
		MonthlyWeight: monthlySeries(stats.MonthlyWeight),
	}
}
