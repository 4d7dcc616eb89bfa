package model

// User is the record kept for a logged in phone number.
type User struct {
	PhoneNumber string `json:"phoneNumber"`
	CountryCode string `json:"countryCode"`
}

// Subject returns the identity used as the token subject.
func (u User) Subject() string {
	return u.CountryCode + u.PhoneNumber
}

// Session is the login flow state.
type Session struct {
	User            *User `json:"user,omitempty"`
	IsAuthenticated bool  `json:"isAuthenticated"`
	OTPSent         bool  `json:"otpSent"`
	OTPVerified     bool  `json:"otpVerified"`
}

// RequestOTPRequest starts the login flow.
type RequestOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	CountryCode string `json:"countryCode"`
}

// VerifyOTPRequest completes the login flow.
type VerifyOTPRequest struct {
	OTP string `json:"otp"`
}

// VerifyOTPResponse carries the issued session token.
type VerifyOTPResponse struct {
	Token     string  `json:"token"`
	ExpiresAt int64   `json:"expiresAt"`
	Session   Session `json:"session"`
}

// PreferencesResponse reports UI preferences.
type PreferencesResponse struct {
	DarkMode bool `json:"darkMode"`
}

// UpdatePreferencesRequest changes UI preferences.
type UpdatePreferencesRequest struct {
	DarkMode *bool `json:"darkMode,omitempty"`
	Toggle   bool  `json:"toggle,omitempty"`
}
