package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"santimsentry/internal/config"
	apperrors "santimsentry/internal/errors"
	"santimsentry/internal/logger"
	"santimsentry/internal/middleware"
	"santimsentry/internal/models"
)

// clientAssertionExpiry bounds the lifetime of the signed assertion sent to
// the token endpoint.
const clientAssertionExpiry = 2 * time.Minute

// faydaService drives the Fayda eSignet OIDC login: authorize redirect,
// code-for-token exchange with a signed client assertion, userinfo fetch,
// and find-or-create of the local user row.
type faydaService struct {
	db     *gorm.DB
	users  UserServicer
	cfg    *config.Config
	client *http.Client
}

// NewFaydaService creates a new FaydaServicer.
func NewFaydaService(db *gorm.DB, users UserServicer, cfg *config.Config) FaydaServicer {
	return &faydaService{
		db:     db,
		users:  users,
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// AuthorizeURL builds the provider's authorization URL with fresh state and
// nonce values.
func (s *faydaService) AuthorizeURL() (string, error) {
	if s.cfg.FaydaClientID == "" {
		return "", apperrors.WithMessage(apperrors.ErrInternalServer, "Fayda login is not configured")
	}

	params := url.Values{
		"response_type": {"code"},
		"client_id":     {s.cfg.FaydaClientID},
		"redirect_uri":  {s.cfg.FaydaRedirectURI},
		"scope":         {"openid profile email"},
		"state":         {uuid.New().String()},
		"nonce":         {uuid.New().String()},
		"ui_locales":    {"eng"},
	}
	return s.cfg.FaydaAuthorizeURL + "?" + params.Encode(), nil
}

// HandleCallback exchanges the authorization code, resolves the verified
// identity, and returns a session token for the matched-or-created user.
func (s *faydaService) HandleCallback(code string) (string, error) {
	if code == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Authorization code missing")
	}

	accessToken, err := s.exchangeCode(code)
	if err != nil {
		return "", err
	}

	profile, err := s.fetchUserinfo(accessToken)
	if err != nil {
		return "", err
	}

	user, err := s.findOrCreateUser(profile)
	if err != nil {
		return "", err
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.users.RecordSession(user.ID, middleware.HashToken(token),
		time.Now().Add(s.cfg.JWTExpirationDur)); err != nil {
		logger.Get().Warnw("failed to record fayda session", "error", err, "user_id", user.ID)
	}

	return token, nil
}

// clientAssertion signs the RS256 JWT the token endpoint requires instead of
// a client secret. The private key is configured as a PEM-encoded RSA key.
func (s *faydaService) clientAssertion() (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(s.cfg.FaydaPrivateKey))
	if err != nil {
		return "", fmt.Errorf("parse fayda private key: %w", err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.cfg.FaydaClientID,
		Subject:   s.cfg.FaydaClientID,
		Audience:  jwt.ClaimStrings{s.cfg.FaydaTokenURL},
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(clientAssertionExpiry)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}

func (s *faydaService) exchangeCode(code string) (string, error) {
	assertion, err := s.clientAssertion()
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	form := url.Values{
		"grant_type":            {"authorization_code"},
		"code":                  {code},
		"redirect_uri":          {s.cfg.FaydaRedirectURI},
		"client_id":             {s.cfg.FaydaClientID},
		"client_assertion_type": {"urn:ietf:params:oauth:client-assertion-type:jwt-bearer"},
		"client_assertion":      {assertion},
	}

	resp, err := s.client.PostForm(s.cfg.FaydaTokenURL, form)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	defer resp.Body.Close()

	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if tokens.AccessToken == "" {
		return "", apperrors.WithMessage(apperrors.ErrInternalServer, "Failed to obtain access token from Fayda")
	}

	return tokens.AccessToken, nil
}

// faydaProfile is the identity subset we read from userinfo.
type faydaProfile struct {
	Sub   string
	Email string
	Name  string
}

// fetchUserinfo reads the userinfo endpoint. The provider answers with
// either plain JSON or a signed JWT whose payload carries the claims, so
// both forms are accepted.
func (s *faydaService) fetchUserinfo(accessToken string) (*faydaProfile, error) {
	req, err := http.NewRequest(http.MethodGet, s.cfg.FaydaUserinfoURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	claims := map[string]interface{}{}
	if err := json.Unmarshal(raw, &claims); err != nil {
		// Not JSON: treat the body as a JWT. The payload travels over TLS
		// straight from the provider, so it is decoded without local
		// signature verification, as the provider documents.
		mapClaims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(string(raw)), mapClaims); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		claims = mapClaims
	}

	profile := &faydaProfile{
		Sub:   stringClaim(claims, "sub", "individual_id"),
		Email: stringClaim(claims, "email"),
		Name:  stringClaim(claims, "name", "given_name"),
	}
	if profile.Name == "" {
		profile.Name = "Fayda User"
	}
	if profile.Email == "" {
		if profile.Sub == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInternalServer, "Fayda userinfo carried no usable identity")
		}
		profile.Email = profile.Sub + "@fayda.et"
	}

	return profile, nil
}

func stringClaim(claims map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// findOrCreateUser matches the verified identity to a local row by fayda_id
// or email, creating one when neither matches and back-filling fayda_id on
// email matches.
func (s *faydaService) findOrCreateUser(profile *faydaProfile) (*models.User, error) {
	var user models.User
	err := s.db.Where("fayda_id = ? OR email = ?", profile.Sub, strings.ToLower(profile.Email)).
		First(&user).Error
	if err == nil {
		if user.FaydaID == nil && profile.Sub != "" {
			if err := s.db.Model(&user).Update("fayda_id", profile.Sub).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			user.FaydaID = &profile.Sub
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	created := &models.User{
		Name:  profile.Name,
		Email: strings.ToLower(profile.Email),
	}
	if profile.Sub != "" {
		created.FaydaID = &profile.Sub
	}
	if err := s.db.Create(created).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return created, nil
}
