package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uniportfoc/elibrary-client/internal/errs"
	"github.com/uniportfoc/elibrary-client/internal/model"
)

// AuthClient speaks the OTP endpoints: request-otp, verify-otp and register.
type AuthClient struct {
	c      *Client
	domain string // required institutional email suffix
}

// NewAuthClient wires the shared client with the allowed email domain.
func NewAuthClient(c *Client, domain string) *AuthClient {
	return &AuthClient{c: c, domain: domain}
}

// authResponse is the common shape of the OTP endpoints.
type authResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token,omitempty"`
	User    *model.User `json:"user,omitempty"`
}

func (a *AuthClient) checkEmail(email string) error {
	if !strings.HasSuffix(strings.ToLower(email), a.domain) {
		return fmt.Errorf("%w: please use your institutional email (%s)", errs.ErrValidation, a.domain)
	}
	return nil
}

// RequestOTP asks the backend to mail a one-time passcode. The email domain
// is checked before any network call.
func (a *AuthClient) RequestOTP(ctx context.Context, email string) (string, error) {
	if err := a.checkEmail(email); err != nil {
		return "", err
	}
	var resp authResponse
	if err := a.c.postJSON(ctx, "/auth/request-otp", map[string]string{"email": email}, &resp, "failed to request OTP"); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// VerifyOTP exchanges the passcode for a token and user identity. A 401 is
// reported as an invalid code; a 2xx without token and user is malformed.
func (a *AuthClient) VerifyOTP(ctx context.Context, email, otp string) (model.User, error) {
	var resp authResponse
	err := a.c.postJSON(ctx, "/auth/verify-otp", map[string]string{"email": email, "otp": otp}, &resp, "OTP verification failed")
	if err != nil {
		var apiErr *errs.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 401 {
			apiErr.Message = "invalid OTP, please try again"
		}
		return model.User{}, err
	}
	if resp.Token == "" || resp.User == nil {
		return model.User{}, &errs.APIError{Message: "invalid response from server"}
	}
	u := *resp.User
	u.Token = resp.Token
	return u, nil
}

// Register creates an account for the email and triggers the first OTP.
func (a *AuthClient) Register(ctx context.Context, email string) (string, error) {
	if err := a.checkEmail(email); err != nil {
		return "", err
	}
	var resp authResponse
	if err := a.c.postJSON(ctx, "/auth/register", map[string]string{"email": email}, &resp, "registration failed"); err != nil {
		return "", err
	}
	return resp.Message, nil
}
