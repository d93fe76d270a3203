// Package elib wires the persistence tiers, state stores and API clients into
// one client session and owns the cross-store fan-out for the user-facing
// flows (login, upload, download, feedback).
package elib

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/uniportfoc/elibrary-client/internal/api"
	"github.com/uniportfoc/elibrary-client/internal/config"
	"github.com/uniportfoc/elibrary-client/internal/kvstore"
	"github.com/uniportfoc/elibrary-client/internal/model"
	"github.com/uniportfoc/elibrary-client/internal/store"
)

// Session is one client process: the auth container, the shared materials
// collection, the per-user activity log and dashboard, and the remote
// clients. Constructed once and passed by reference.
type Session struct {
	Auth      *store.Auth
	Materials *store.Materials
	Activity  *store.ActivityLog
	Dashboard *store.Dashboard

	AuthAPI      *api.AuthClient
	MaterialsAPI *api.MaterialsClient
	FeedbackAPI  *api.FeedbackClient

	log *zap.Logger
}

// New builds the full store/client graph over a file-backed durable tier and
// an in-memory session tier.
func New(cfg config.Config, log *zap.Logger) (*Session, error) {
	durable, err := kvstore.NewFileStore(cfg.StateDir)
	if err != nil {
		return nil, err
	}
	return newSession(cfg, kvstore.NewMemStore(), durable, log), nil
}

// newSession lets tests supply their own tiers.
func newSession(cfg config.Config, session, durable kvstore.Store, log *zap.Logger) *Session {
	base := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, log)
	materialsAPI := api.NewMaterialsClient(base)

	auth := store.NewAuth(session, durable, log)
	return &Session{
		Auth:         auth,
		Materials:    store.NewMaterials(materialsAPI, durable, log),
		Activity:     store.NewActivityLog(auth.CurrentUserID, durable, cfg.ActivityLogSize, log),
		Dashboard:    store.NewDashboard(auth.CurrentUserID, durable, log),
		AuthAPI:      api.NewAuthClient(base, cfg.EmailDomain),
		MaterialsAPI: materialsAPI,
		FeedbackAPI:  api.NewFeedbackClient(cfg.FeedbackURL, cfg.MaxAttachment, cfg.HTTPTimeout, log),
		log:          log,
	}
}

// Restore brings every store up from persisted state: a previous auth
// session, the materials cache, and the per-user log and dashboard. Returns
// whether an authenticated session was found.
func (s *Session) Restore() bool {
	ok := s.Auth.Restore()
	s.Materials.RestoreFromCache()
	s.Activity.Init()
	s.Dashboard.Init()
	return ok
}

// LoginWithOTP verifies the passcode, makes the returned identity current and
// reloads the per-user stores under the new namespace.
func (s *Session) LoginWithOTP(ctx context.Context, email, otp string) (model.User, error) {
	user, err := s.AuthAPI.VerifyOTP(ctx, email, otp)
	if err != nil {
		return model.User{}, err
	}
	s.Auth.Login(user)
	if exp, ok := tokenExpiry(user.Token); ok {
		s.log.Info("session: token issued", zap.Time("expiresAt", exp))
	}
	s.Activity.Init()
	s.Dashboard.Init()
	return user, nil
}

// Logout drops the session and the in-memory per-user state with it.
func (s *Session) Logout() {
	s.Auth.Logout()
}

// Upload creates the material remotely, then fans the optimistic update out
// to the collection, the dashboard and the activity log.
func (s *Session) Upload(ctx context.Context, up model.MaterialUpload) (model.Material, error) {
	created, err := s.MaterialsAPI.Upload(ctx, up, s.Auth.Token())
	if err != nil {
		return model.Material{}, err
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now()
	}

	s.Materials.Add(created)
	s.Dashboard.AddMaterial(created)
	s.Activity.Add(model.ActivityUpload,
		fmt.Sprintf("Uploaded %s", created.Title),
		up.Description,
		&model.ActivityMeta{CourseCode: created.CourseCode, Level: created.Level})
	return created, nil
}

// Download fetches the material's bytes, bumps both download counters
// optimistically and logs the activity.
func (s *Session) Download(ctx context.Context, m model.Material) (api.DownloadResult, error) {
	res, err := s.MaterialsAPI.Download(ctx, m.ID, s.Auth.Token())
	if err != nil {
		return api.DownloadResult{}, err
	}

	s.Materials.IncrementDownloads(m.ID)
	s.Dashboard.IncrementDownloads(m.ID)
	s.Activity.Add(model.ActivityDownload,
		fmt.Sprintf("Downloaded %s", m.Title),
		m.Description,
		&model.ActivityMeta{CourseCode: m.CourseCode, Level: m.Level, Downloads: m.Downloads + 1})
	return res, nil
}

// SendFeedback relays the form and records the action.
func (s *Session) SendFeedback(ctx context.Context, fb model.Feedback) error {
	if err := s.FeedbackAPI.Submit(ctx, fb); err != nil {
		return err
	}
	s.Activity.Add(model.ActivityFeedback,
		fmt.Sprintf("Feedback: %s", fb.Category),
		fb.Feedback,
		&model.ActivityMeta{Status: "sent"})
	return nil
}

// tokenExpiry reads the expiry claim off a bearer token without validating
// the signature; the server remains the authority, this is diagnostics only.
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
