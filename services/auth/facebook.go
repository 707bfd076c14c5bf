package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"soothe/config"
	"soothe/models"
)

// validateFacebookToken verifies a Facebook access token against the app's
// credentials and returns the Facebook user id, email, and display name.
func validateFacebookToken(accessToken string) (id, email, name string, err error) {
	appID := config.AppConfig.FacebookAppID
	appSecret := config.AppConfig.FacebookAppSecret
	appAccessToken := fmt.Sprintf("%s|%s", appID, appSecret)

	verifyURL := fmt.Sprintf("https://graph.facebook.com/debug_token?input_token=%s&access_token=%s",
		accessToken, appAccessToken)

	resp, err := http.Get(verifyURL)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to verify Facebook token: %w", err)
	}
	defer resp.Body.Close()

	var verifyResult struct {
		Data struct {
			AppID     string `json:"app_id"`
			IsValid   bool   `json:"is_valid"`
			UserID    string `json:"user_id"`
			ExpiresAt int64  `json:"expires_at"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&verifyResult); err != nil {
		return "", "", "", fmt.Errorf("failed to decode Facebook verify response: %w", err)
	}

	if !verifyResult.Data.IsValid {
		return "", "", "", errors.New("invalid Facebook token")
	}
	if verifyResult.Data.AppID != appID {
		return "", "", "", errors.New("token was issued for a different app")
	}
	if time.Now().Unix() > verifyResult.Data.ExpiresAt {
		return "", "", "", errors.New("facebook token has expired")
	}

	userInfoURL := fmt.Sprintf("https://graph.facebook.com/v12.0/me?fields=id,name,email&access_token=%s",
		accessToken)

	userResp, err := http.Get(userInfoURL)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to get Facebook user info: %w", err)
	}
	defer userResp.Body.Close()

	var userInfo struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(userResp.Body).Decode(&userInfo); err != nil {
		return "", "", "", fmt.Errorf("failed to decode Facebook user info: %w", err)
	}

	if userInfo.Email == "" {
		return "", "", "", errors.New("email permission not granted or not available")
	}

	return userInfo.ID, strings.ToLower(userInfo.Email), userInfo.Name, nil
}

// SignInWithFacebook validates a Facebook access token and signs the linked
// account in, creating it on first use.
func (s *AuthService) SignInWithFacebook(ctx context.Context, accessToken string) (*AuthResult, error) {
	id, email, name, err := validateFacebookToken(accessToken)
	if err != nil {
		return nil, err
	}
	return s.signInWithProvider(ctx, models.OAuthProviderFacebook, id, email, name)
}
